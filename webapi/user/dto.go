package user

import "github.com/saveblue/saveblue/pkg/domain/user"

// UpdateUserInput is a partial profile change. Omitted fields are kept.
type UpdateUserInput struct {
	Username *string `json:"username" validate:"omitempty,max=32"`
	Email    *string `json:"email" validate:"omitempty,email,max=128"`
	Password *string `json:"password" validate:"omitempty,max=72"`
}

func (in UpdateUserInput) toPatch() user.Patch {
	return user.Patch{Username: in.Username, Email: in.Email, Password: in.Password}
}
