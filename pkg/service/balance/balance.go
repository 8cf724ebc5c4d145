// Package balance is the only code path that changes account balances.
// Deltas are applied inside the caller's unit of work so that they commit or
// roll back together with the write that caused them.
package balance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/events"
	"github.com/saveblue/saveblue/pkg/eventbus"
	"github.com/saveblue/saveblue/pkg/metrics"
	"github.com/saveblue/saveblue/pkg/repository"
)

// ErrNonPositiveAmount is returned for deltas with amount <= 0.
var ErrNonPositiveAmount = fmt.Errorf("%w: balance delta must be positive", domain.ErrValidation)

// Apply adds each delta to both balances of its account. Deltas are applied
// in order and the first failure aborts the rest.
func Apply(ctx context.Context, uow repository.UnitOfWork, deltas ...account.Delta) error {
	if len(deltas) == 0 {
		return nil
	}
	repo, err := uow.AccountRepository()
	if err != nil {
		return err
	}
	for _, d := range deltas {
		if d.Amount <= 0 {
			return ErrNonPositiveAmount
		}
		if err := repo.IncrementBalances(ctx, d.AccountID, d.Value()); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return account.ErrAccountNotFound
			}
			return err
		}
	}
	return nil
}

// Publish records committed deltas in metrics and emits one BalanceChanged
// per delta. Publishing failures are logged and never returned.
func Publish(ctx context.Context, bus eventbus.Bus, logger *slog.Logger, reason string, deltas ...account.Delta) {
	for _, d := range deltas {
		metrics.BalanceDeltas.WithLabelValues(string(d.Sign), reason).Inc()
		if bus == nil {
			continue
		}
		if err := bus.Emit(ctx, events.NewBalanceChanged(d.AccountID, d.Value(), reason)); err != nil {
			logger.Error("failed to publish balance change", "accountID", d.AccountID, "error", err)
		}
	}
}

// Service applies deltas inside a caller's unit of work and publishes them
// once that unit has committed.
type Service struct {
	bus    eventbus.Bus
	logger *slog.Logger
}

// New creates a balance Service. bus may be nil.
func New(bus eventbus.Bus, logger *slog.Logger) *Service {
	return &Service{bus: bus, logger: logger}
}

// ApplyDelta adds amount with sign to both balances of accountID within uow.
// The returned delta is to be handed to Publish after commit.
func (s *Service) ApplyDelta(ctx context.Context, uow repository.UnitOfWork, accountID uuid.UUID, amount int64, sign account.Sign) (account.Delta, error) {
	if _, err := account.ParseSign(string(sign)); err != nil {
		return account.Delta{}, err
	}
	d := account.Delta{AccountID: accountID, Amount: amount, Sign: sign}
	if err := Apply(ctx, uow, d); err != nil {
		s.logger.Error("ApplyDelta failed", "accountID", accountID, "error", err)
		return account.Delta{}, err
	}
	return d, nil
}

// Move reverses oldAmount on from and applies newAmount on to within uow.
// sign is the direction the moved item originally applied with.
func (s *Service) Move(ctx context.Context, uow repository.UnitOfWork, from, to uuid.UUID, oldAmount, newAmount int64, sign account.Sign) ([]account.Delta, error) {
	deltas := account.MoveDeltas(from, to, oldAmount, newAmount, sign)
	if err := Apply(ctx, uow, deltas...); err != nil {
		s.logger.Error("Move failed", "from", from, "to", to, "error", err)
		return nil, err
	}
	return deltas, nil
}

// Publish emits committed deltas, see the package level Publish.
func (s *Service) Publish(ctx context.Context, reason string, deltas ...account.Delta) {
	Publish(ctx, s.bus, s.logger, reason, deltas...)
}
