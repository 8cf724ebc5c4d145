// Package goal models savings goals that reserve part of an account's
// available balance.
package goal

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/account"
)

const (
	MaxNameLength        = 32
	MaxDescriptionLength = 1024
	DefaultName          = "New Goal"
)

var (
	ErrNameTooLong        = fmt.Errorf("%w: goal name exceeds %d characters", domain.ErrValidation, MaxNameLength)
	ErrDescriptionTooLong = fmt.Errorf("%w: goal description exceeds %d characters", domain.ErrValidation, MaxDescriptionLength)
	ErrGoalComplete       = fmt.Errorf("%w: goal is already complete", domain.ErrValidation)
	ErrNonPositiveChange  = fmt.Errorf("%w: reservation change must be positive", domain.ErrValidation)
	// ErrReleaseExceedsReserved is returned when a release would drive CurrentAmount negative.
	ErrReleaseExceedsReserved = fmt.Errorf("%w: release exceeds the goal's current amount", domain.ErrValidation)
	// ErrInsufficientAvailable is returned when a reservation would drive the account's available balance negative.
	ErrInsufficientAvailable = fmt.Errorf("%w: reservation exceeds the account's available balance", domain.ErrValidation)
	ErrGoalNotFound          = fmt.Errorf("%w: goal", domain.ErrNotFound)
)

// Goal is a named reservation on one account. CurrentAmount never goes
// negative and is frozen once Complete is set. Overfunding past GoalAmount is allowed.
type Goal struct {
	ID            uuid.UUID `json:"id"`
	AccountID     uuid.UUID `json:"accountID"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	GoalAmount    int64     `json:"goalAmount"`
	CurrentAmount int64     `json:"currentAmount"`
	Complete      bool      `json:"complete"`
	Version       int64     `json:"version"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Patch carries optional goal edits. CurrentAmount and Complete are only
// changed through the reservation operations.
type Patch struct {
	Name        *string
	Description *string
	GoalAmount  *int64
}

// New creates an empty goal on accountID.
func New(accountID uuid.UUID, name, description string, goalAmount int64) (*Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if err := validate(name, description); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Goal{
		ID:          uuid.New(),
		AccountID:   accountID,
		Name:        name,
		Description: description,
		GoalAmount:  goalAmount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Apply validates p and applies it to g.
func (g *Goal) Apply(p Patch) error {
	name, description := g.Name, g.Description
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
		if name == "" {
			name = DefaultName
		}
	}
	if p.Description != nil {
		description = *p.Description
	}
	if err := validate(name, description); err != nil {
		return err
	}
	g.Name, g.Description = name, description
	if p.GoalAmount != nil {
		g.GoalAmount = *p.GoalAmount
	}
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// PlanChange computes the account's available balance and the goal's current
// amount after reserving (Credit) or releasing (Debit) amount. Nothing is mutated.
func (g *Goal) PlanChange(available, amount int64, sign account.Sign) (newAvailable, newCurrent int64, err error) {
	if g.Complete {
		return 0, 0, ErrGoalComplete
	}
	if amount <= 0 {
		return 0, 0, ErrNonPositiveChange
	}
	switch sign {
	case account.Credit:
		if available-amount < 0 {
			return 0, 0, ErrInsufficientAvailable
		}
		return available - amount, g.CurrentAmount + amount, nil
	case account.Debit:
		if g.CurrentAmount-amount < 0 {
			return 0, 0, ErrReleaseExceedsReserved
		}
		return available + amount, g.CurrentAmount - amount, nil
	default:
		return 0, 0, account.ErrInvalidSign
	}
}

// PlanCompletion returns the available balance after paying the goal's
// reservation back to its account.
func (g *Goal) PlanCompletion(available int64) (int64, error) {
	if g.Complete {
		return 0, ErrGoalComplete
	}
	return available + g.CurrentAmount, nil
}

// Releasable is the amount returned to the account when g is deleted.
// A completed goal already paid out, so nothing is released.
func (g *Goal) Releasable() int64 {
	if g.Complete {
		return 0
	}
	return g.CurrentAmount
}

func validate(name, description string) error {
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}
