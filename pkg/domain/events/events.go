package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of an event in the system.
type EventType string

const (
	EventTypeBalanceChanged     EventType = "Balance.Changed"
	EventTypeReservationChanged EventType = "Goal.ReservationChanged"
	EventTypeGoalCompleted      EventType = "Goal.Completed"
)

// Event is implemented by everything published on the event bus.
type Event interface {
	Type() string
}

// BalanceChanged is emitted after a committed delta on an account's balances.
type BalanceChanged struct {
	ID         uuid.UUID `json:"id"`
	AccountID  uuid.UUID `json:"accountID"`
	Amount     int64     `json:"amount"` // signed
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (e BalanceChanged) Type() string { return string(EventTypeBalanceChanged) }

// ReservationChanged is emitted after money moved between an account's
// available balance and one of its goals. A positive Amount is a reservation.
type ReservationChanged struct {
	ID            uuid.UUID `json:"id"`
	GoalID        uuid.UUID `json:"goalID"`
	AccountID     uuid.UUID `json:"accountID"`
	Amount        int64     `json:"amount"`
	CurrentAmount int64     `json:"currentAmount"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (e ReservationChanged) Type() string { return string(EventTypeReservationChanged) }

// GoalCompleted is emitted when a goal pays its reservation back to its account.
type GoalCompleted struct {
	ID         uuid.UUID `json:"id"`
	GoalID     uuid.UUID `json:"goalID"`
	AccountID  uuid.UUID `json:"accountID"`
	Released   int64     `json:"released"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (e GoalCompleted) Type() string { return string(EventTypeGoalCompleted) }

// NewBalanceChanged builds a BalanceChanged with a fresh id and timestamp.
func NewBalanceChanged(accountID uuid.UUID, amount int64, reason string) BalanceChanged {
	return BalanceChanged{
		ID:         uuid.New(),
		AccountID:  accountID,
		Amount:     amount,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
}
