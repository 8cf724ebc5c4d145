// Package ownership decides whether the authenticated subject may act on a
// resource. A missing resource yields a not-found error; a resource owned by
// somebody else yields an unauthorized error.
package ownership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/entry"
	"github.com/saveblue/saveblue/pkg/domain/goal"
	"github.com/saveblue/saveblue/pkg/repository"
)

var (
	// ErrNotSelf is returned when a path user id differs from the subject.
	ErrNotSelf      = fmt.Errorf("%w: user mismatch", domain.ErrUnauthorized)
	// ErrForeignBody is returned when a request body names another user or their account.
	ErrForeignBody  = fmt.Errorf("%w: request references another user", domain.ErrUnauthorized)
	// ErrGoalNotOwned is returned when a goal sits on another user's account.
	ErrGoalNotOwned = fmt.Errorf("%w: goal belongs to another user", domain.ErrUnauthorized)
)

// Verifier checks resource ownership against the repositories.
type Verifier struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a Verifier.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Verifier {
	return &Verifier{uow: uow, logger: logger}
}

// User checks that userID is the subject itself.
func (v *Verifier) User(_ context.Context, subject, userID uuid.UUID) error {
	if subject != userID {
		return ErrNotSelf
	}
	return nil
}

func (v *Verifier) account(ctx context.Context, subject, accountID uuid.UUID, allowDrafts bool) error {
	accounts, err := v.uow.AccountRepository()
	if err != nil {
		return err
	}
	acc, err := accounts.Get(ctx, accountID)
	if errors.Is(err, domain.ErrNotFound) {
		return account.ErrAccountNotFound
	}
	if err != nil {
		return err
	}
	// Drafts accounts are only reachable through the drafts routes.
	if acc.IsDrafts() && !allowDrafts {
		return account.ErrAccountNotFound
	}
	if !acc.IsOwnedBy(subject) {
		v.logger.Warn("ownership rejected", "resource", "account", "id", accountID, "subject", subject)
		return account.ErrNotOwner
	}
	return nil
}

// Account checks a regular account of the subject.
func (v *Verifier) Account(ctx context.Context, subject, accountID uuid.UUID) error {
	return v.account(ctx, subject, accountID, false)
}

// AccountOrDrafts checks an account of either kind owned by the subject.
func (v *Verifier) AccountOrDrafts(ctx context.Context, subject, accountID uuid.UUID) error {
	return v.account(ctx, subject, accountID, true)
}

// Entry checks an expense or income created by the subject.
func (v *Verifier) Entry(ctx context.Context, subject uuid.UUID, kind entry.Kind, id uuid.UUID) error {
	entries, err := v.uow.EntryRepository()
	if err != nil {
		return err
	}
	e, err := entries.Get(ctx, kind, id)
	if errors.Is(err, domain.ErrNotFound) {
		return entry.ErrEntryNotFound
	}
	if err != nil {
		return err
	}
	if e.UserID != subject {
		v.logger.Warn("ownership rejected", "resource", string(kind), "id", id, "subject", subject)
		return entry.ErrNotOwner
	}
	return nil
}

// Goal checks that the goal's account belongs to the subject.
func (v *Verifier) Goal(ctx context.Context, subject, goalID uuid.UUID) error {
	goals, err := v.uow.GoalRepository()
	if err != nil {
		return err
	}
	g, err := goals.Get(ctx, goalID)
	if errors.Is(err, domain.ErrNotFound) {
		return goal.ErrGoalNotFound
	}
	if err != nil {
		return err
	}
	accounts, err := v.uow.AccountRepository()
	if err != nil {
		return err
	}
	acc, err := accounts.Get(ctx, g.AccountID)
	if errors.Is(err, domain.ErrNotFound) {
		return goal.ErrGoalNotFound
	}
	if err != nil {
		return err
	}
	if !acc.IsOwnedBy(subject) {
		v.logger.Warn("ownership rejected", "resource", "goal", "id", goalID, "subject", subject)
		return ErrGoalNotOwned
	}
	return nil
}

// EntryCreation checks the userID and accountID of a new entry's body. Both
// account kinds qualify; the draft policy is enforced by the entry service.
func (v *Verifier) EntryCreation(ctx context.Context, subject, userID, accountID uuid.UUID) error {
	if userID != subject {
		return ErrForeignBody
	}
	accounts, err := v.uow.AccountRepository()
	if err != nil {
		return err
	}
	acc, err := accounts.Get(ctx, accountID)
	if errors.Is(err, domain.ErrNotFound) {
		return account.ErrAccountNotFound
	}
	if err != nil {
		return err
	}
	if !acc.IsOwnedBy(subject) {
		return ErrForeignBody
	}
	return nil
}
