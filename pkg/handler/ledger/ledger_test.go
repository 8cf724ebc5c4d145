package ledger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/infra/repository/memory"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/events"
	"github.com/saveblue/saveblue/pkg/domain/goal"
	"github.com/saveblue/saveblue/pkg/handler/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type otherEvent struct{}

func (otherEvent) Type() string { return "Other" }

func seed(t *testing.T, store *memory.Store, total, reserved int64) *account.Account {
	t.Helper()
	ctx := context.Background()
	acc, err := account.New().WithUserID(uuid.New()).WithName("Main").Build()
	require.NoError(t, err)
	accounts, _ := store.AccountRepository()
	require.NoError(t, accounts.Create(ctx, acc))
	require.NoError(t, accounts.IncrementBalances(ctx, acc.ID, total))

	g, err := goal.New(acc.ID, "Bike", "", 5000)
	require.NoError(t, err)
	g.CurrentAmount = reserved
	goals, _ := store.GoalRepository()
	require.NoError(t, goals.Create(ctx, g))

	acc, err = accounts.Get(ctx, acc.ID)
	require.NoError(t, err)
	return acc
}

func adjust(t *testing.T, store *memory.Store, acc *account.Account, delta int64) {
	t.Helper()
	accounts, _ := store.AccountRepository()
	require.NoError(t, accounts.AdjustAvailable(context.Background(), acc.ID, acc.Version, delta))
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("consistent", func(t *testing.T) {
		store := memory.NewStore()
		acc := seed(t, store, 10000, 2500)
		adjust(t, store, acc, -2500)
		assert.NoError(t, ledger.Check(ctx, store, acc.ID))
	})

	t.Run("drift", func(t *testing.T) {
		store := memory.NewStore()
		acc := seed(t, store, 10000, 2500)
		err := ledger.Check(ctx, store, acc.ID)
		assert.ErrorIs(t, err, ledger.ErrDrift)
	})

	t.Run("missing account", func(t *testing.T) {
		assert.NoError(t, ledger.Check(ctx, memory.NewStore(), uuid.New()))
	})
}

func TestHandlers(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	acc := seed(t, store, 10000, 2500)

	balance := ledger.HandleBalanceChanged(store, slog.Default())
	reservation := ledger.HandleReservationChanged(store, slog.Default())
	completed := ledger.HandleGoalCompleted(store, slog.Default())

	// Drift is reported through logs and metrics, never as a handler failure.
	assert.NoError(t, balance(ctx, events.NewBalanceChanged(acc.ID, 10000, "income.create")))
	assert.NoError(t, reservation(ctx, events.ReservationChanged{AccountID: acc.ID}))
	assert.NoError(t, completed(ctx, events.GoalCompleted{AccountID: acc.ID}))

	assert.Error(t, balance(ctx, otherEvent{}))
	assert.Error(t, reservation(ctx, events.GoalCompleted{AccountID: acc.ID}))
}
