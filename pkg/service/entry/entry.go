// Package entry provides business logic for incomes and expenses. Every write
// runs in one unit of work together with the balance deltas it implies.
package entry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/category"
	"github.com/saveblue/saveblue/pkg/domain/entry"
	"github.com/saveblue/saveblue/pkg/eventbus"
	"github.com/saveblue/saveblue/pkg/metrics"
	"github.com/saveblue/saveblue/pkg/repository"
	"github.com/saveblue/saveblue/pkg/service/balance"
)

// maxAttempts bounds how often an edit that lost a version race is rerun.
const maxAttempts = 3

// Service manages entries of both kinds.
type Service struct {
	uow      repository.UnitOfWork
	taxonomy *category.Taxonomy
	balances *balance.Service
	logger   *slog.Logger
}

// New creates a new entry Service.
func New(uow repository.UnitOfWork, taxonomy *category.Taxonomy, bus eventbus.Bus, logger *slog.Logger) *Service {
	if taxonomy == nil {
		taxonomy = category.Default()
	}
	return &Service{uow: uow, taxonomy: taxonomy, balances: balance.New(bus, logger), logger: logger}
}

// Taxonomy returns the category set entries are validated against.
func (s *Service) Taxonomy() *category.Taxonomy {
	return s.taxonomy
}

// CreateInput holds a new entry. A zero Date means now.
type CreateInput struct {
	UserID      uuid.UUID
	AccountID   uuid.UUID
	Category1   string
	Category2   string
	Description string
	Date        time.Time
	Amount      int64
}

func reason(k entry.Kind, op string) string {
	return string(k) + "." + op
}

// withRetry reruns fn while the entry it read was changed before its write
// landed, so balance deltas are always computed from the stored amount.
func (s *Service) withRetry(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	err := repository.Retry(ctx, s.uow, maxAttempts, metrics.ConflictRetries.WithLabelValues("entry").Inc, fn)
	if errors.Is(err, domain.ErrNotFound) && !errors.Is(err, account.ErrAccountNotFound) {
		return entry.ErrEntryNotFound
	}
	return err
}

// apply runs each delta through the balance service inside uow.
func (s *Service) apply(ctx context.Context, uow repository.UnitOfWork, deltas []account.Delta) error {
	for _, d := range deltas {
		if _, err := s.balances.ApplyDelta(ctx, uow, d.AccountID, d.Amount, d.Sign); err != nil {
			return err
		}
	}
	return nil
}

// loadTarget returns the account an entry of userID may be written to.
func loadTarget(ctx context.Context, uow repository.UnitOfWork, userID, accountID uuid.UUID) (*account.Account, error) {
	accounts, err := uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acc, err := accounts.Get(ctx, accountID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	if !acc.IsOwnedBy(userID) {
		return nil, account.ErrNotOwner
	}
	return acc, nil
}

// Create records a new entry and applies its balance delta.
func (s *Service) Create(ctx context.Context, kind entry.Kind, in CreateInput) (*entry.Entry, error) {
	log := s.logger.With("context", "CreateEntry", "kind", kind, "accountID", in.AccountID)
	log.Debug("CreateEntry called")

	e, err := entry.New(kind, in.UserID, in.AccountID, in.Category1, in.Category2, in.Description, in.Date, in.Amount, s.taxonomy)
	if err != nil {
		log.Error("invalid entry", "error", err)
		return nil, err
	}
	deltas := entry.PlanCreate(e)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acc, err := loadTarget(ctx, uow, in.UserID, in.AccountID)
		if err != nil {
			return err
		}
		if err := entry.CheckDraftPolicy(e.Category1, e.Category2, acc.IsDrafts()); err != nil {
			return err
		}
		repo, err := uow.EntryRepository()
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, e); err != nil {
			return err
		}
		return s.apply(ctx, uow, deltas)
	})
	if err != nil {
		log.Error("CreateEntry failed", "error", err)
		return nil, err
	}
	s.balances.Publish(ctx, reason(kind, "create"), deltas...)
	log.Info("CreateEntry successful", "entryID", e.ID)
	return e, nil
}

// Get returns one entry of the given kind.
func (s *Service) Get(ctx context.Context, kind entry.Kind, id uuid.UUID) (*entry.Entry, error) {
	repo, err := s.uow.EntryRepository()
	if err != nil {
		return nil, err
	}
	e, err := repo.Get(ctx, kind, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, entry.ErrEntryNotFound
	}
	return e, err
}

// List returns one page of an account's entries, newest first.
func (s *Service) List(ctx context.Context, kind entry.Kind, accountID uuid.UUID, page int) ([]*entry.Entry, error) {
	repo, err := s.uow.EntryRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListByAccount(ctx, kind, accountID, page)
}

// Update applies a partial edit. When the amount or account changes, the
// difference is reconciled on the affected balances in the same unit of work.
func (s *Service) Update(ctx context.Context, kind entry.Kind, id uuid.UUID, patch entry.Patch) (*entry.Entry, error) {
	log := s.logger.With("context", "UpdateEntry", "kind", kind, "entryID", id)
	log.Debug("UpdateEntry called")

	var (
		updated *entry.Entry
		deltas  []account.Delta
	)
	err := s.withRetry(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.EntryRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, kind, id)
		if errors.Is(err, domain.ErrNotFound) {
			return entry.ErrEntryNotFound
		}
		if err != nil {
			return err
		}
		updated = current.WithPatch(patch)
		if err := updated.Validate(s.taxonomy); err != nil {
			return err
		}
		target, err := loadTarget(ctx, uow, current.UserID, updated.AccountID)
		if err != nil {
			return err
		}
		if err := entry.CheckDraftPolicy(updated.Category1, updated.Category2, target.IsDrafts()); err != nil {
			return err
		}
		if err := repo.Update(ctx, updated); err != nil {
			return err
		}
		if updated.AccountID != current.AccountID {
			deltas, err = s.balances.Move(ctx, uow, current.AccountID, updated.AccountID, current.Amount, updated.Amount, kind.CreateSign())
			return err
		}
		deltas = entry.PlanUpdate(kind, current.AccountID, current.Amount, updated.AccountID, updated.Amount)
		return s.apply(ctx, uow, deltas)
	})
	if err != nil {
		log.Error("UpdateEntry failed", "error", err)
		return nil, err
	}
	s.balances.Publish(ctx, reason(kind, "update"), deltas...)
	log.Info("UpdateEntry successful", "deltas", len(deltas))
	return updated, nil
}

// Delete removes an entry and reverses its balance effect.
func (s *Service) Delete(ctx context.Context, kind entry.Kind, id uuid.UUID) error {
	log := s.logger.With("context", "DeleteEntry", "kind", kind, "entryID", id)
	var deltas []account.Delta
	err := s.withRetry(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.EntryRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, kind, id)
		if errors.Is(err, domain.ErrNotFound) {
			return entry.ErrEntryNotFound
		}
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, current); err != nil {
			return err
		}
		deltas = entry.PlanDelete(current)
		return s.apply(ctx, uow, deltas)
	})
	if err != nil {
		log.Error("DeleteEntry failed", "error", err)
		return err
	}
	s.balances.Publish(ctx, reason(kind, "delete"), deltas...)
	log.Info("DeleteEntry successful")
	return nil
}

// Breakdown sums an account's entries per category1. Nil bounds are open.
func (s *Service) Breakdown(ctx context.Context, kind entry.Kind, accountID uuid.UUID, from, to *time.Time) ([]entry.Breakdown, error) {
	repo, err := s.uow.EntryRepository()
	if err != nil {
		return nil, err
	}
	return repo.Breakdown(ctx, kind, accountID, from, to)
}
