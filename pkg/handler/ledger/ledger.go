// Package ledger holds event handlers that audit account balances after each
// committed change.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/events"
	"github.com/saveblue/saveblue/pkg/eventbus"
	"github.com/saveblue/saveblue/pkg/metrics"
	"github.com/saveblue/saveblue/pkg/repository"
)

// ErrDrift is returned when an account's available balance does not equal its
// total minus what its incomplete goals reserve.
var ErrDrift = errors.New("available balance drifted from goal reservations")

// Check recomputes the reservation invariant of accountID in one unit of work.
// A deleted account is not an error.
func Check(ctx context.Context, uow repository.UnitOfWork, accountID uuid.UUID) error {
	return uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acc, err := accounts.Get(ctx, accountID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		goals, err := uow.GoalRepository()
		if err != nil {
			return err
		}
		list, err := goals.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		var reserved int64
		for _, g := range list {
			if !g.Complete {
				reserved += g.CurrentAmount
			}
		}
		if want := acc.TotalBalance - reserved; acc.AvailableBalance != want {
			return fmt.Errorf("%w: account %s has available %d, expected %d",
				ErrDrift, accountID, acc.AvailableBalance, want)
		}
		return nil
	})
}

func audit(uow repository.UnitOfWork, logger *slog.Logger, handler string, accountOf func(events.Event) (uuid.UUID, bool)) eventbus.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		log := logger.With("handler", handler, "event_type", e.Type())
		accountID, ok := accountOf(e)
		if !ok {
			err := fmt.Errorf("unexpected event type: %s", e.Type())
			log.Error("unexpected event type", "error", err)
			return err
		}
		metrics.EventsHandled.WithLabelValues(e.Type()).Inc()
		if err := Check(ctx, uow, accountID); err != nil {
			if errors.Is(err, ErrDrift) {
				metrics.LedgerDrift.Inc()
				log.Warn("ledger drift detected", "accountID", accountID, "error", err)
				return nil
			}
			log.Error("ledger check failed", "accountID", accountID, "error", err)
			return err
		}
		log.Debug("ledger consistent", "accountID", accountID)
		return nil
	}
}

// HandleBalanceChanged audits the account named by a BalanceChanged event.
func HandleBalanceChanged(uow repository.UnitOfWork, logger *slog.Logger) eventbus.HandlerFunc {
	return audit(uow, logger, "ledger.HandleBalanceChanged", func(e events.Event) (uuid.UUID, bool) {
		bc, ok := e.(events.BalanceChanged)
		return bc.AccountID, ok
	})
}

// HandleReservationChanged audits the account of a goal whose reservation moved.
func HandleReservationChanged(uow repository.UnitOfWork, logger *slog.Logger) eventbus.HandlerFunc {
	return audit(uow, logger, "ledger.HandleReservationChanged", func(e events.Event) (uuid.UUID, bool) {
		rc, ok := e.(events.ReservationChanged)
		return rc.AccountID, ok
	})
}

// HandleGoalCompleted audits the account a completed goal released money to.
func HandleGoalCompleted(uow repository.UnitOfWork, logger *slog.Logger) eventbus.HandlerFunc {
	return audit(uow, logger, "ledger.HandleGoalCompleted", func(e events.Event) (uuid.UUID, bool) {
		gc, ok := e.(events.GoalCompleted)
		return gc.AccountID, ok
	})
}
