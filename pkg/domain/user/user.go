package user

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/utils"
)

const (
	MaxUsernameLength = 32
	MaxEmailLength    = 128
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

var (
	ErrUsernameRequired = fmt.Errorf("%w: username is required", domain.ErrValidation)
	ErrUsernameTooLong  = fmt.Errorf("%w: username exceeds %d characters", domain.ErrValidation, MaxUsernameLength)
	ErrInvalidEmail     = fmt.Errorf("%w: email is not a valid address", domain.ErrValidation)
	ErrEmailTooLong     = fmt.Errorf("%w: email exceeds %d characters", domain.ErrValidation, MaxEmailLength)
	ErrPasswordRequired = fmt.Errorf("%w: password is required", domain.ErrValidation)
	ErrPasswordTooLong  = fmt.Errorf("%w: password exceeds %d bytes", domain.ErrValidation, MaxPasswordLength)

	ErrDuplicateUsername = fmt.Errorf("%w: duplicate username", domain.ErrAlreadyExists)
	ErrDuplicateEmail    = fmt.Errorf("%w: duplicate email", domain.ErrAlreadyExists)

	// ErrInvalidCredentials is returned by login for unknown users and wrong passwords alike.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)
)

// User represents a user in the system.
type User struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Password        string    `json:"-"`
	DraftsAccountID uuid.UUID `json:"draftsAccountID"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Patch carries optional profile changes. Nil fields are left untouched.
type Patch struct {
	Username *string
	Email    *string
	Password *string
}

// New validates the input and creates a User with a hashed password.
func New(username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Apply validates p and applies it to u. The password, if present, is re-hashed.
func (u *User) Apply(p Patch) error {
	if p.Username != nil {
		name := strings.TrimSpace(*p.Username)
		if err := ValidateUsername(name); err != nil {
			return err
		}
		u.Username = name
	}
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		if err := ValidateEmail(email); err != nil {
			return err
		}
		u.Email = email
	}
	if p.Password != nil {
		if err := ValidatePassword(*p.Password); err != nil {
			return err
		}
		hashed, err := utils.HashPassword(*p.Password)
		if err != nil {
			return err
		}
		u.Password = hashed
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return utils.CheckPasswordHash(password, u.Password)
}

func ValidateUsername(username string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	return nil
}

func ValidateEmail(email string) error {
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !utils.IsEmail(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}
