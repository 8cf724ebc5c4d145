package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain/user"
	"github.com/saveblue/saveblue/pkg/repository"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository backed by db.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) first(ctx context.Context, query string, arg any) (*user.User, error) {
	var m User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return toDomainUser(&m), nil
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(fromDomainUser(u)).Error
	})
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", u.ID).Updates(map[string]any{
		"username":          u.Username,
		"email":             u.Email,
		"password":          u.Password,
		"drafts_account_id": u.DraftsAccountID,
		"updated_at":        u.UpdatedAt,
	})
	return affected(res)
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&User{}))
}

func toDomainUser(m *User) *user.User {
	return &user.User{
		ID:              m.ID,
		Username:        m.Username,
		Email:           m.Email,
		Password:        m.Password,
		DraftsAccountID: m.DraftsAccountID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func fromDomainUser(u *user.User) *User {
	return &User{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Password:        u.Password,
		DraftsAccountID: u.DraftsAccountID,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
