package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/repository"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository backed by db.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return toDomainAccount(&m), nil
}

// ListByUser returns the user's accounts of the given kind, oldest first.
func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID, kind account.Kind) ([]*account.Account, error) {
	var rows []Account
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, string(kind)).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.Account, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainAccount(&rows[i]))
	}
	return out, nil
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(fromDomainAccount(a)).Error
	})
}

func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	res := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", a.ID).Updates(map[string]any{
		"name":           a.Name,
		"start_of_month": a.StartOfMonth,
		"archived":       a.Archived,
		"updated_at":     a.UpdatedAt,
	})
	return affected(res)
}

func (r *accountRepository) IncrementBalances(ctx context.Context, id uuid.UUID, delta int64) error {
	res := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Updates(map[string]any{
		"total_balance":     gorm.Expr("total_balance + ?", delta),
		"available_balance": gorm.Expr("available_balance + ?", delta),
		"version":           gorm.Expr("version + 1"),
		"updated_at":        time.Now().UTC(),
	})
	return affected(res)
}

func (r *accountRepository) AdjustAvailable(ctx context.Context, id uuid.UUID, expectedVersion, delta int64) error {
	res := r.db.WithContext(ctx).Model(&Account{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{
			"available_balance": gorm.Expr("available_balance + ?", delta),
			"version":           gorm.Expr("version + 1"),
			"updated_at":        time.Now().UTC(),
		})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrentUpdate
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&Account{}))
}

func (r *accountRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Account{}).Error
	})
}

func toDomainAccount(m *Account) *account.Account {
	return &account.Account{
		ID:               m.ID,
		UserID:           m.UserID,
		Name:             m.Name,
		Kind:             account.Kind(m.Kind),
		TotalBalance:     m.TotalBalance,
		AvailableBalance: m.AvailableBalance,
		StartOfMonth:     m.StartOfMonth,
		Archived:         m.Archived,
		Version:          m.Version,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func fromDomainAccount(a *account.Account) *Account {
	return &Account{
		ID:               a.ID,
		UserID:           a.UserID,
		Name:             a.Name,
		Kind:             string(a.Kind),
		TotalBalance:     a.TotalBalance,
		AvailableBalance: a.AvailableBalance,
		StartOfMonth:     a.StartOfMonth,
		Archived:         a.Archived,
		Version:          a.Version,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
