// Package goal provides business logic for savings goals. Reservations move
// money between an account's available balance and a goal under optimistic
// version checks; conflicting transactions are retried a bounded number of times.
package goal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/events"
	"github.com/saveblue/saveblue/pkg/domain/goal"
	"github.com/saveblue/saveblue/pkg/eventbus"
	"github.com/saveblue/saveblue/pkg/metrics"
	"github.com/saveblue/saveblue/pkg/repository"
)

// MaxAttempts bounds how often a conflicting unit of work is run.
const MaxAttempts = 3

// ErrTooManyConflicts is returned when every attempt hit a version conflict.
var ErrTooManyConflicts = fmt.Errorf("%w: goal changed concurrently, retry later", domain.ErrConcurrentUpdate)

// Service manages goals and their reservations.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	logger *slog.Logger
}

// New creates a new goal Service.
func New(uow repository.UnitOfWork, bus eventbus.Bus, logger *slog.Logger) *Service {
	return &Service{uow: uow, bus: bus, logger: logger}
}

// withRetry runs fn in a unit of work, retrying on version conflicts. A goal
// that disappears under a write is reported as ErrGoalNotFound.
func (s *Service) withRetry(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	err := repository.Retry(ctx, s.uow, MaxAttempts, metrics.ConflictRetries.WithLabelValues("goal").Inc, fn)
	switch {
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return fmt.Errorf("%w: %w", ErrTooManyConflicts, err)
	case errors.Is(err, domain.ErrNotFound) && !errors.Is(err, account.ErrAccountNotFound):
		return goal.ErrGoalNotFound
	}
	return err
}

func loadGoalAndAccount(ctx context.Context, uow repository.UnitOfWork, id uuid.UUID) (*goal.Goal, *account.Account, error) {
	goals, err := uow.GoalRepository()
	if err != nil {
		return nil, nil, err
	}
	g, err := goals.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, goal.ErrGoalNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	accounts, err := uow.AccountRepository()
	if err != nil {
		return nil, nil, err
	}
	acc, err := accounts.Get(ctx, g.AccountID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return g, acc, nil
}

// Create adds an empty goal to accountID.
func (s *Service) Create(ctx context.Context, accountID uuid.UUID, name, description string, goalAmount int64) (*goal.Goal, error) {
	log := s.logger.With("context", "CreateGoal", "accountID", accountID)
	g, err := goal.New(accountID, name, description, goalAmount)
	if err != nil {
		log.Error("invalid goal", "error", err)
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if _, err := accounts.Get(ctx, accountID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return account.ErrAccountNotFound
			}
			return err
		}
		goals, err := uow.GoalRepository()
		if err != nil {
			return err
		}
		return goals.Create(ctx, g)
	})
	if err != nil {
		log.Error("CreateGoal failed", "error", err)
		return nil, err
	}
	log.Info("CreateGoal successful", "goalID", g.ID)
	return g, nil
}

// Get returns one goal.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	goals, err := s.uow.GoalRepository()
	if err != nil {
		return nil, err
	}
	g, err := goals.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, goal.ErrGoalNotFound
	}
	return g, err
}

// List returns an account's goals.
func (s *Service) List(ctx context.Context, accountID uuid.UUID) ([]*goal.Goal, error) {
	goals, err := s.uow.GoalRepository()
	if err != nil {
		return nil, err
	}
	return goals.ListByAccount(ctx, accountID)
}

// Update edits name, description and goal amount.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch goal.Patch) (*goal.Goal, error) {
	log := s.logger.With("context", "UpdateGoal", "goalID", id)
	var g *goal.Goal
	err := s.withRetry(ctx, func(uow repository.UnitOfWork) error {
		goals, err := uow.GoalRepository()
		if err != nil {
			return err
		}
		g, err = goals.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return goal.ErrGoalNotFound
		}
		if err != nil {
			return err
		}
		if err := g.Apply(patch); err != nil {
			return err
		}
		return goals.Update(ctx, g)
	})
	if err != nil {
		log.Error("UpdateGoal failed", "error", err)
		return nil, err
	}
	log.Info("UpdateGoal successful")
	return g, nil
}

// ApplyGoalDelta reserves (Credit) or releases (Debit) amount on a goal.
// The account's total balance never changes.
func (s *Service) ApplyGoalDelta(ctx context.Context, id uuid.UUID, amount int64, sign account.Sign) (*goal.Goal, error) {
	log := s.logger.With("context", "ApplyGoalDelta", "goalID", id, "sign", sign)
	log.Debug("ApplyGoalDelta called", "amount", amount)

	var g *goal.Goal
	err := s.withRetry(ctx, func(uow repository.UnitOfWork) error {
		var (
			acc *account.Account
			err error
		)
		g, acc, err = loadGoalAndAccount(ctx, uow, id)
		if err != nil {
			return err
		}
		newAvailable, newCurrent, err := g.PlanChange(acc.AvailableBalance, amount, sign)
		if err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if err := accounts.AdjustAvailable(ctx, acc.ID, acc.Version, newAvailable-acc.AvailableBalance); err != nil {
			return err
		}
		g.CurrentAmount = newCurrent
		g.UpdatedAt = time.Now().UTC()
		goals, err := uow.GoalRepository()
		if err != nil {
			return err
		}
		return goals.Update(ctx, g)
	})
	op := "reserve"
	if sign == account.Debit {
		op = "release"
	}
	if err != nil {
		metrics.GoalOperations.WithLabelValues(op, "rejected").Inc()
		log.Error("ApplyGoalDelta failed", "error", err)
		return nil, err
	}
	metrics.GoalOperations.WithLabelValues(op, "ok").Inc()
	s.emit(ctx, log, events.ReservationChanged{
		ID:            uuid.New(),
		GoalID:        g.ID,
		AccountID:     g.AccountID,
		Amount:        sign.Signed(amount),
		CurrentAmount: g.CurrentAmount,
		OccurredAt:    g.UpdatedAt,
	})
	log.Info("ApplyGoalDelta successful", "currentAmount", g.CurrentAmount)
	return g, nil
}

// Complete pays the goal's reservation back to the account's available
// balance and freezes the goal.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	log := s.logger.With("context", "CompleteGoal", "goalID", id)
	var (
		g        *goal.Goal
		released int64
	)
	err := s.withRetry(ctx, func(uow repository.UnitOfWork) error {
		var (
			acc *account.Account
			err error
		)
		g, acc, err = loadGoalAndAccount(ctx, uow, id)
		if err != nil {
			return err
		}
		newAvailable, err := g.PlanCompletion(acc.AvailableBalance)
		if err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if err := accounts.AdjustAvailable(ctx, acc.ID, acc.Version, newAvailable-acc.AvailableBalance); err != nil {
			return err
		}
		released = g.CurrentAmount
		g.Complete = true
		g.UpdatedAt = time.Now().UTC()
		goals, err := uow.GoalRepository()
		if err != nil {
			return err
		}
		return goals.Update(ctx, g)
	})
	if err != nil {
		metrics.GoalOperations.WithLabelValues("complete", "rejected").Inc()
		log.Error("CompleteGoal failed", "error", err)
		return nil, err
	}
	metrics.GoalOperations.WithLabelValues("complete", "ok").Inc()
	s.emit(ctx, log, events.GoalCompleted{
		ID:         uuid.New(),
		GoalID:     g.ID,
		AccountID:  g.AccountID,
		Released:   released,
		OccurredAt: g.UpdatedAt,
	})
	log.Info("CompleteGoal successful", "released", released)
	return g, nil
}

// Delete removes a goal, first releasing whatever it still reserves.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	log := s.logger.With("context", "DeleteGoal", "goalID", id)
	err := s.withRetry(ctx, func(uow repository.UnitOfWork) error {
		g, acc, err := loadGoalAndAccount(ctx, uow, id)
		if err != nil {
			return err
		}
		if release := g.Releasable(); release > 0 {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			if err := accounts.AdjustAvailable(ctx, acc.ID, acc.Version, release); err != nil {
				return err
			}
		}
		goals, err := uow.GoalRepository()
		if err != nil {
			return err
		}
		return goals.Delete(ctx, g)
	})
	if err != nil {
		log.Error("DeleteGoal failed", "error", err)
		return err
	}
	log.Info("DeleteGoal successful")
	return nil
}

func (s *Service) emit(ctx context.Context, log *slog.Logger, e events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, e); err != nil {
		log.Error("failed to publish goal event", "type", e.Type(), "error", err)
	}
}
