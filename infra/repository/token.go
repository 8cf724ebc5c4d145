package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tokenStore struct {
	db *gorm.DB
}

// NewTokenStore returns a whitelist kept in the whitelist_tokens table.
func NewTokenStore(db *gorm.DB) repository.TokenStore {
	return &tokenStore{db: db}
}

func (s *tokenStore) Add(ctx context.Context, token string, userID uuid.UUID, issuedAt time.Time) error {
	return WrapError(func() error {
		return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&WhitelistToken{
			Token:    token,
			UserID:   userID,
			IssuedAt: issuedAt.UTC(),
		}).Error
	})
}

func (s *tokenStore) Exists(ctx context.Context, token string) (bool, error) {
	var m WhitelistToken
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, MapGormErrorToDomain(err)
	}
	return true, nil
}

// Remove is a no-op for tokens that are not whitelisted.
func (s *tokenStore) Remove(ctx context.Context, token string) error {
	return WrapError(func() error {
		return s.db.WithContext(ctx).Where("token = ?", token).Delete(&WhitelistToken{}).Error
	})
}

func (s *tokenStore) RemoveByUser(ctx context.Context, userID uuid.UUID) error {
	return WrapError(func() error {
		return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&WhitelistToken{}).Error
	})
}

func (s *tokenStore) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("issued_at < ?", cutoff.UTC()).Delete(&WhitelistToken{})
	if res.Error != nil {
		return 0, MapGormErrorToDomain(res.Error)
	}
	return res.RowsAffected, nil
}
