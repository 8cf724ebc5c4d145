package account

import "github.com/saveblue/saveblue/pkg/domain/account"

// CreateAccountInput is the request body for opening an account.
type CreateAccountInput struct {
	Name         string `json:"name" validate:"max=32"`
	StartOfMonth int    `json:"startOfMonth"`
}

// UpdateAccountInput carries optional account edits.
type UpdateAccountInput struct {
	Name         *string `json:"name" validate:"omitempty,max=32"`
	StartOfMonth *int    `json:"startOfMonth"`
	Archived     *bool   `json:"archived"`
}

func (in UpdateAccountInput) toPatch() account.Patch {
	return account.Patch{Name: in.Name, StartOfMonth: in.StartOfMonth, Archived: in.Archived}
}
