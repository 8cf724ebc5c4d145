package entry

import (
	"time"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain/entry"
	"github.com/saveblue/saveblue/pkg/money"
	"github.com/shopspring/decimal"
)

// CreateEntryInput is the request body for a new income or expense.
type CreateEntryInput struct {
	UserID      uuid.UUID       `json:"userID" validate:"required"`
	AccountID   uuid.UUID       `json:"accountID" validate:"required"`
	Category1   string          `json:"category1" validate:"required"`
	Category2   string          `json:"category2"`
	Description string          `json:"description" validate:"max=32"`
	Date        *time.Time      `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
}

// UpdateEntryInput carries optional entry edits. Setting AccountID moves the entry.
type UpdateEntryInput struct {
	AccountID   *uuid.UUID       `json:"accountID"`
	Category1   *string          `json:"category1"`
	Category2   *string          `json:"category2"`
	Description *string          `json:"description" validate:"omitempty,max=32"`
	Date        *time.Time       `json:"date"`
	Amount      *decimal.Decimal `json:"amount"`
}

func (in UpdateEntryInput) toPatch() (entry.Patch, error) {
	p := entry.Patch{
		AccountID:   in.AccountID,
		Category1:   in.Category1,
		Category2:   in.Category2,
		Description: in.Description,
		Date:        in.Date,
	}
	if in.Amount != nil {
		amount, err := money.ParseEntryAmount(*in.Amount)
		if err != nil {
			return p, err
		}
		p.Amount = &amount
	}
	return p, nil
}

// SMSInput carries a raw bank notification to turn into a draft expense.
type SMSInput struct {
	UserID uuid.UUID `json:"userID" validate:"required"`
	SMS    string    `json:"sms" validate:"required"`
}

// Categories lists the accepted category pairs.
type Categories struct {
	Expense map[string][]string `json:"expense"`
	Income  []string            `json:"income"`
}
