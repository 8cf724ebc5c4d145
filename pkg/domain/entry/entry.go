// Package entry models incomes and expenses and the balance deltas they
// imply when created, edited, moved or deleted.
package entry

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/category"
	"github.com/saveblue/saveblue/pkg/money"
)

const (
	MaxDescriptionLength = 32
	// PageSize is the number of entries returned per listing page.
	PageSize = 16
)

// Kind separates the two entry collections.
type Kind string

const (
	Expense Kind = "expense"
	Income  Kind = "income"
)

var (
	ErrDescriptionTooLong = fmt.Errorf("%w: description exceeds %d characters", domain.ErrValidation, MaxDescriptionLength)
	// ErrDraftInRegularAccount is returned when a Draft category targets a regular account.
	ErrDraftInRegularAccount = fmt.Errorf("%w: cannot create draft in regular account", domain.ErrValidation)
	ErrNotOwner              = fmt.Errorf("%w: entry belongs to another user", domain.ErrUnauthorized)
	ErrEntryNotFound         = fmt.Errorf("%w: entry", domain.ErrNotFound)
	ErrUnknownKind           = fmt.Errorf("%w: unknown entry kind", domain.ErrValidation)
)

// CreateSign is the direction an entry of kind k moves its account's balances.
func (k Kind) CreateSign() account.Sign {
	if k == Expense {
		return account.Debit
	}
	return account.Credit
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == Expense || k == Income
}

// Entry is a single income or expense. Expenses carry a Category2, incomes do not.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	Kind        Kind      `json:"kind"`
	UserID      uuid.UUID `json:"userID"`
	AccountID   uuid.UUID `json:"accountID"`
	Category1   string    `json:"category1"`
	Category2   string    `json:"category2,omitempty"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Amount      int64     `json:"amount"`
	Version     int64     `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Patch carries optional entry edits. Nil fields keep their stored value.
type Patch struct {
	AccountID   *uuid.UUID
	Category1   *string
	Category2   *string
	Description *string
	Date        *time.Time
	Amount      *int64
}

// Breakdown is the summed amount of one category1 over a range of entries.
type Breakdown struct {
	Category string `json:"category"`
	Sum      int64  `json:"sum"`
}

// New creates and validates an entry. A zero date defaults to now.
func New(
	kind Kind,
	userID, accountID uuid.UUID,
	category1, category2, description string,
	date time.Time,
	amount int64,
	taxonomy *category.Taxonomy,
) (*Entry, error) {
	if date.IsZero() {
		date = time.Now()
	}
	now := time.Now().UTC()
	e := &Entry{
		ID:          uuid.New(),
		Kind:        kind,
		UserID:      userID,
		AccountID:   accountID,
		Category1:   category1,
		Category2:   category2,
		Description: description,
		Date:        date.UTC(),
		Amount:      amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.Validate(taxonomy); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks field lengths, the amount domain and the category pair.
func (e *Entry) Validate(taxonomy *category.Taxonomy) error {
	if !e.Kind.Valid() {
		return ErrUnknownKind
	}
	if utf8.RuneCountInString(e.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if e.Amount <= 0 {
		return money.ErrAmountNotPositive
	}
	if e.Amount > money.MaxEntryAmount {
		return money.ErrAmountTooLarge
	}
	if e.Kind == Expense {
		return taxonomy.ValidateExpense(e.Category1, e.Category2)
	}
	return taxonomy.ValidateIncome(e.Category1, e.Category2)
}

// IsDraft reports whether e carries the Draft sentinel.
func (e *Entry) IsDraft() bool {
	return category.IsDraft(e.Category1, e.Category2)
}

// WithPatch returns a copy of e with p applied. The copy is not validated.
func (e *Entry) WithPatch(p Patch) *Entry {
	out := *e
	if p.AccountID != nil {
		out.AccountID = *p.AccountID
	}
	if p.Category1 != nil {
		out.Category1 = *p.Category1
	}
	if p.Category2 != nil {
		out.Category2 = *p.Category2
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Date != nil {
		out.Date = p.Date.UTC()
	}
	if p.Amount != nil {
		out.Amount = *p.Amount
	}
	out.UpdatedAt = time.Now().UTC()
	return &out
}

// CheckDraftPolicy rejects Draft categories unless the target is the drafts account.
func CheckDraftPolicy(category1, category2 string, targetIsDrafts bool) error {
	if category.IsDraft(category1, category2) && !targetIsDrafts {
		return ErrDraftInRegularAccount
	}
	return nil
}
