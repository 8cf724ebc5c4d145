package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/entry"
	"github.com/saveblue/saveblue/pkg/domain/goal"
	"github.com/saveblue/saveblue/pkg/domain/user"
)

// UserRepository defines the interface for user data access operations.
// Lookups return domain.ErrNotFound when no row matches.
type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccountRepository defines the interface for account data access operations.
// Balances are only changed through IncrementBalances and AdjustAvailable.
type AccountRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID, kind account.Kind) ([]*account.Account, error)
	Create(ctx context.Context, a *account.Account) error
	// Update persists name, start of month and archived flag.
	Update(ctx context.Context, a *account.Account) error
	// IncrementBalances atomically adds delta to both balances and bumps the version.
	IncrementBalances(ctx context.Context, id uuid.UUID, delta int64) error
	// AdjustAvailable adds delta to the available balance only if the stored
	// version equals expectedVersion. A mismatch yields domain.ErrConcurrentUpdate.
	AdjustAvailable(ctx context.Context, id uuid.UUID, expectedVersion, delta int64) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// GoalRepository defines the interface for goal data access operations.
type GoalRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*goal.Goal, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*goal.Goal, error)
	Create(ctx context.Context, g *goal.Goal) error
	// Update writes g if the stored version equals g.Version, then increments
	// g.Version. A mismatch yields domain.ErrConcurrentUpdate, a missing goal
	// domain.ErrNotFound.
	Update(ctx context.Context, g *goal.Goal) error
	// Delete removes g under the same version check as Update.
	Delete(ctx context.Context, g *goal.Goal) error
	DeleteByAccounts(ctx context.Context, accountIDs []uuid.UUID) error
}

// EntryRepository defines the interface for income and expense data access.
type EntryRepository interface {
	Get(ctx context.Context, kind entry.Kind, id uuid.UUID) (*entry.Entry, error)
	// ListByAccount returns one page (1-based) ordered by date then id, newest first.
	ListByAccount(ctx context.Context, kind entry.Kind, accountID uuid.UUID, page int) ([]*entry.Entry, error)
	Create(ctx context.Context, e *entry.Entry) error
	// Update and Delete are guarded by e.Version like their goal counterparts.
	Update(ctx context.Context, e *entry.Entry) error
	Delete(ctx context.Context, e *entry.Entry) error
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	// Breakdown sums amounts per category1. Nil bounds are open.
	Breakdown(ctx context.Context, kind entry.Kind, accountID uuid.UUID, from, to *time.Time) ([]entry.Breakdown, error)
}

// TokenStore is the server-side whitelist of issued session tokens.
type TokenStore interface {
	Add(ctx context.Context, token string, userID uuid.UUID, issuedAt time.Time) error
	Exists(ctx context.Context, token string) (bool, error)
	Remove(ctx context.Context, token string) error
	RemoveByUser(ctx context.Context, userID uuid.UUID) error
	// Sweep deletes tokens issued before cutoff and reports how many were removed.
	Sweep(ctx context.Context, cutoff time.Time) (int64, error)
}
