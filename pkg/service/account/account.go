// Package account provides business logic for account management.
package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/repository"
)

// Service manages a user's accounts. Balances are not edited here; they only
// move through entries and goals.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new account Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// CreateInput holds the fields accepted when opening an account.
type CreateInput struct {
	Name         string
	StartOfMonth int
}

// Create opens a regular, zero-balance account for userID.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*account.Account, error) {
	log := s.logger.With("context", "CreateAccount", "userID", userID)
	log.Debug("CreateAccount called")
	acc, err := account.New().
		WithUserID(userID).
		WithName(in.Name).
		WithStartOfMonth(in.StartOfMonth).
		Build()
	if err != nil {
		log.Error("invalid account", "error", err)
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if _, err := users.Get(ctx, userID); err != nil {
			return err
		}
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, acc)
	})
	if err != nil {
		log.Error("CreateAccount failed", "error", err)
		return nil, err
	}
	log.Info("CreateAccount successful", "accountID", acc.ID)
	return acc, nil
}

// List returns the user's regular accounts.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListByUser(ctx, userID, account.KindRegular)
}

// GetDrafts returns the user's drafts account.
func (s *Service) GetDrafts(ctx context.Context, userID uuid.UUID) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	drafts, err := repo.ListByUser(ctx, userID, account.KindDrafts)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, account.ErrAccountNotFound
	}
	return drafts[0], nil
}

// Get returns one account of either kind.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acc, err := repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, account.ErrAccountNotFound
	}
	return acc, err
}

// Update edits the name, start of month and archived flag.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch account.Patch) (*account.Account, error) {
	log := s.logger.With("context", "UpdateAccount", "accountID", id)
	var acc *account.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acc, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := acc.Apply(patch); err != nil {
			return err
		}
		return repo.Update(ctx, acc)
	})
	if err != nil {
		log.Error("UpdateAccount failed", "error", err)
		return nil, err
	}
	log.Info("UpdateAccount successful")
	return acc, nil
}

// Delete removes a regular account together with its entries and goals.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	log := s.logger.With("context", "DeleteAccount", "accountID", id)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acc, err := accounts.Get(ctx, id)
		if err != nil {
			return err
		}
		if acc.IsDrafts() {
			return account.ErrDraftsAccountImmutable
		}
		entries, err := uow.EntryRepository()
		if err != nil {
			return err
		}
		if err := entries.DeleteByAccount(ctx, id); err != nil {
			return err
		}
		goals, err := uow.GoalRepository()
		if err != nil {
			return err
		}
		if err := goals.DeleteByAccounts(ctx, []uuid.UUID{id}); err != nil {
			return err
		}
		return accounts.Delete(ctx, id)
	})
	if err != nil {
		log.Error("DeleteAccount failed", "error", err)
		return err
	}
	log.Info("DeleteAccount successful")
	return nil
}
