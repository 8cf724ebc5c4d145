package auth

// RegisterInput is the request body for creating an account holder.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=32"`
	Email    string `json:"email" validate:"required,email,max=128"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginInput accepts either a username or an email as Username.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
