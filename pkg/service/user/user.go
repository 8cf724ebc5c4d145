// Package user provides business logic for registration and profile management.
package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/user"
	"github.com/saveblue/saveblue/pkg/repository"
)

// Service provides user creation, updates and cascading deletion.
type Service struct {
	uow    repository.UnitOfWork
	tokens repository.TokenStore
	logger *slog.Logger
}

// New creates a new user Service.
func New(uow repository.UnitOfWork, tokens repository.TokenStore, logger *slog.Logger) *Service {
	return &Service{uow: uow, tokens: tokens, logger: logger}
}

// checkUnique returns a duplicate error if username or email is taken by
// a user other than self. Username is checked first.
func checkUnique(ctx context.Context, users repository.UserRepository, self uuid.UUID, username, email string) error {
	if existing, err := users.GetByUsername(ctx, username); err == nil && existing.ID != self {
		return user.ErrDuplicateUsername
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if existing, err := users.GetByEmail(ctx, email); err == nil && existing.ID != self {
		return user.ErrDuplicateEmail
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// Register creates a user together with their drafts account.
func (s *Service) Register(ctx context.Context, username, email, password string) (*user.User, error) {
	log := s.logger.With("context", "Register", "username", username)
	log.Debug("Register called")

	u, err := user.New(username, email, password)
	if err != nil {
		log.Error("invalid user", "error", err)
		return nil, err
	}
	drafts, err := account.New().WithUserID(u.ID).AsDrafts().Build()
	if err != nil {
		return nil, err
	}
	u.DraftsAccountID = drafts.ID

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if err := checkUnique(ctx, users, uuid.Nil, u.Username, u.Email); err != nil {
			return err
		}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return accounts.Create(ctx, drafts)
	})
	if err != nil {
		log.Error("Register failed", "error", err)
		return nil, err
	}
	log.Info("Register successful", "userID", u.ID)
	return u, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	return users.Get(ctx, id)
}

// Update applies a partial profile change, keeping usernames and emails unique.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch user.Patch) (*user.User, error) {
	log := s.logger.With("context", "UpdateUser", "userID", id)
	var u *user.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = users.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := u.Apply(patch); err != nil {
			return err
		}
		if err := checkUnique(ctx, users, u.ID, u.Username, u.Email); err != nil {
			return err
		}
		return users.Update(ctx, u)
	})
	if err != nil {
		log.Error("UpdateUser failed", "error", err)
		return nil, err
	}
	log.Info("UpdateUser successful")
	return u, nil
}

// Delete removes the user, every account they own with its entries and goals,
// and then revokes their session tokens.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	log := s.logger.With("context", "DeleteUser", "userID", id)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if _, err := users.Get(ctx, id); err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		var accountIDs []uuid.UUID
		for _, kind := range []account.Kind{account.KindRegular, account.KindDrafts} {
			owned, err := accounts.ListByUser(ctx, id, kind)
			if err != nil {
				return err
			}
			for _, a := range owned {
				accountIDs = append(accountIDs, a.ID)
			}
		}
		entries, err := uow.EntryRepository()
		if err != nil {
			return err
		}
		if err := entries.DeleteByUser(ctx, id); err != nil {
			return err
		}
		goals, err := uow.GoalRepository()
		if err != nil {
			return err
		}
		if err := goals.DeleteByAccounts(ctx, accountIDs); err != nil {
			return err
		}
		if err := accounts.DeleteByUser(ctx, id); err != nil {
			return err
		}
		return users.Delete(ctx, id)
	})
	if err != nil {
		log.Error("DeleteUser failed", "error", err)
		return err
	}
	if s.tokens != nil {
		if err := s.tokens.RemoveByUser(ctx, id); err != nil {
			log.Error("failed to revoke tokens of deleted user", "error", err)
			return err
		}
	}
	log.Info("DeleteUser successful")
	return nil
}
