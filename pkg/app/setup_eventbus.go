package app

import (
	"github.com/saveblue/saveblue/pkg/domain/events"
	"github.com/saveblue/saveblue/pkg/eventbus"
	"github.com/saveblue/saveblue/pkg/handler/ledger"
)

// setupEventBus registers the in-process handlers. Buses that only forward
// events to a broker have nothing to register.
func (a *App) setupEventBus() {
	bus, ok := a.Deps.EventBus.(eventbus.Registrar)
	if !ok {
		a.Deps.Logger.Info("event bus does not dispatch locally; skipping handler registration")
		return
	}
	uow := a.Deps.Uow
	logger := a.Deps.Logger
	bus.Register(
		events.EventTypeBalanceChanged,
		ledger.HandleBalanceChanged(uow, logger),
	)
	bus.Register(
		events.EventTypeReservationChanged,
		ledger.HandleReservationChanged(uow, logger),
	)
	bus.Register(
		events.EventTypeGoalCompleted,
		ledger.HandleGoalCompleted(uow, logger),
	)
}
