package goal

import "github.com/shopspring/decimal"

// CreateGoalInput is the request body for a new goal. GoalAmount is rounded
// up to whole units.
type CreateGoalInput struct {
	Name        string          `json:"name" validate:"max=32"`
	Description string          `json:"description" validate:"max=1024"`
	GoalAmount  decimal.Decimal `json:"goalAmount"`
}

// UpdateGoalInput carries optional goal edits.
type UpdateGoalInput struct {
	Name        *string          `json:"name" validate:"omitempty,max=32"`
	Description *string          `json:"description" validate:"omitempty,max=1024"`
	GoalAmount  *decimal.Decimal `json:"goalAmount"`
}

// AmountChangeInput reserves ("+") or releases ("-") money on a goal.
type AmountChangeInput struct {
	CurrentAmountChange decimal.Decimal `json:"currentAmountChange"`
	Operation           string          `json:"operation" validate:"required,oneof=+ -"`
}
