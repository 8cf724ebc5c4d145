package account

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
)

const (
	MaxNameLength = 32
	DefaultName   = "New Account"
	DraftsName    = "Drafts"

	MinStartOfMonth = 1
	MaxStartOfMonth = 31
)

// Kind distinguishes a user's regular accounts from the single drafts account.
type Kind string

const (
	KindRegular Kind = "regular"
	KindDrafts  Kind = "drafts"
)

var (
	// ErrNameTooLong is returned when an account name exceeds MaxNameLength characters.
	ErrNameTooLong = fmt.Errorf("%w: account name exceeds %d characters", domain.ErrValidation, MaxNameLength)
	// ErrDraftsAccountImmutable is returned on attempts to delete the drafts account.
	ErrDraftsAccountImmutable = fmt.Errorf("%w: the drafts account cannot be deleted", domain.ErrValidation)
	// ErrNotOwner is returned when a caller acts on an account owned by another user.
	ErrNotOwner = fmt.Errorf("%w: account belongs to another user", domain.ErrUnauthorized)
	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = fmt.Errorf("%w: account", domain.ErrNotFound)
	// ErrMissingOwner is returned when building an account without a user.
	ErrMissingOwner = fmt.Errorf("%w: account requires an owner", domain.ErrValidation)
)

// Account holds the two balances of one money bag.
//
// Invariants:
//   - AvailableBalance = TotalBalance - sum of CurrentAmount over the account's incomplete goals.
//   - TotalBalance is the net of all incomes minus expenses referencing the account.
//   - Version increases on every balance change.
type Account struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"userID"`
	Name             string    `json:"name"`
	Kind             Kind      `json:"kind"`
	TotalBalance     int64     `json:"totalBalance"`
	AvailableBalance int64     `json:"availableBalance"`
	StartOfMonth     int       `json:"startOfMonth"`
	Archived         bool      `json:"archived"`
	Version          int64     `json:"version"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// IsDrafts reports whether a is the user's drafts account.
func (a *Account) IsDrafts() bool {
	return a.Kind == KindDrafts
}

// IsOwnedBy reports whether userID owns a.
func (a *Account) IsOwnedBy(userID uuid.UUID) bool {
	return a.UserID == userID
}

// Patch carries optional account edits. Balances are never patched directly.
type Patch struct {
	Name         *string
	StartOfMonth *int
	Archived     *bool
}

// Apply validates p and applies it to a.
func (a *Account) Apply(p Patch) error {
	if p.Name != nil {
		name, err := normalizeName(*p.Name)
		if err != nil {
			return err
		}
		a.Name = name
	}
	if p.StartOfMonth != nil {
		a.StartOfMonth = ClampStartOfMonth(*p.StartOfMonth)
	}
	if p.Archived != nil {
		a.Archived = *p.Archived
	}
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// ClampStartOfMonth forces d into [MinStartOfMonth, MaxStartOfMonth].
func ClampStartOfMonth(d int) int {
	if d < MinStartOfMonth {
		return MinStartOfMonth
	}
	if d > MaxStartOfMonth {
		return MaxStartOfMonth
	}
	return d
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName, nil
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id           uuid.UUID
	userID       uuid.UUID
	name         string
	kind         Kind
	startOfMonth int
	createdAt    time.Time
}

// New creates a Builder for a regular account with default name and a fresh id.
func New() *Builder {
	return &Builder{
		id:           uuid.New(),
		kind:         KindRegular,
		startOfMonth: MinStartOfMonth,
		createdAt:    time.Now().UTC(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithUserID sets the owning user. This is a mandatory field.
func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

// WithName sets the account name. Blank names fall back to DefaultName.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithStartOfMonth sets the budgeting day, clamped to a valid day of month.
func (b *Builder) WithStartOfMonth(day int) *Builder {
	b.startOfMonth = ClampStartOfMonth(day)
	return b
}

// AsDrafts marks the account as the user's drafts account.
func (b *Builder) AsDrafts() *Builder {
	b.kind = KindDrafts
	if b.name == "" {
		b.name = DraftsName
	}
	return b
}

// Build validates the collected fields and returns a zero-balance account.
func (b *Builder) Build() (*Account, error) {
	if b.userID == uuid.Nil {
		return nil, ErrMissingOwner
	}
	name, err := normalizeName(b.name)
	if err != nil {
		return nil, err
	}
	return &Account{
		ID:           b.id,
		UserID:       b.userID,
		Name:         name,
		Kind:         b.kind,
		StartOfMonth: b.startOfMonth,
		CreatedAt:    b.createdAt,
		UpdatedAt:    b.createdAt,
	}, nil
}
