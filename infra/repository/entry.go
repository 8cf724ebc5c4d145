package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain/entry"
	"github.com/saveblue/saveblue/pkg/repository"
	"gorm.io/gorm"
)

type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new income/expense repository backed by db.
func NewEntryRepository(db *gorm.DB) repository.EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) Get(ctx context.Context, kind entry.Kind, id uuid.UUID) (*entry.Entry, error) {
	var m Entry
	err := r.db.WithContext(ctx).Where("id = ? AND kind = ?", id, string(kind)).First(&m).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return toDomainEntry(&m), nil
}

func (r *entryRepository) ListByAccount(ctx context.Context, kind entry.Kind, accountID uuid.UUID, page int) ([]*entry.Entry, error) {
	if page < 1 {
		page = 1
	}
	var rows []Entry
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND kind = ?", accountID, string(kind)).
		Order("date DESC").
		Order("id DESC").
		Limit(entry.PageSize).
		Offset((page - 1) * entry.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*entry.Entry, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainEntry(&rows[i]))
	}
	return out, nil
}

func (r *entryRepository) Create(ctx context.Context, e *entry.Entry) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(fromDomainEntry(e)).Error
	})
}

func (r *entryRepository) Update(ctx context.Context, e *entry.Entry) error {
	res := r.db.WithContext(ctx).Model(&Entry{}).
		Where("id = ? AND kind = ? AND version = ?", e.ID, string(e.Kind), e.Version).
		Updates(map[string]any{
			"account_id":  e.AccountID,
			"category1":   e.Category1,
			"category2":   e.Category2,
			"description": e.Description,
			"date":        e.Date,
			"amount":      e.Amount,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  e.UpdatedAt,
		})
	if err := versioned(ctx, r.db, res, &Entry{}, e.ID); err != nil {
		return err
	}
	e.Version++
	return nil
}

func (r *entryRepository) Delete(ctx context.Context, e *entry.Entry) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND kind = ? AND version = ?", e.ID, string(e.Kind), e.Version).
		Delete(&Entry{})
	return versioned(ctx, r.db, res, &Entry{}, e.ID)
}

func (r *entryRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&Entry{}).Error
	})
}

func (r *entryRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Entry{}).Error
	})
}

func (r *entryRepository) Breakdown(ctx context.Context, kind entry.Kind, accountID uuid.UUID, from, to *time.Time) ([]entry.Breakdown, error) {
	q := r.db.WithContext(ctx).Model(&Entry{}).
		Select("category1 AS category, SUM(amount) AS sum").
		Where("account_id = ? AND kind = ?", accountID, string(kind))
	if from != nil {
		q = q.Where("date >= ?", from.UTC())
	}
	if to != nil {
		q = q.Where("date <= ?", to.UTC())
	}
	var rows []entry.Breakdown
	if err := q.Group("category1").Order("category1").Scan(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return rows, nil
}

func toDomainEntry(m *Entry) *entry.Entry {
	return &entry.Entry{
		ID:          m.ID,
		Kind:        entry.Kind(m.Kind),
		UserID:      m.UserID,
		AccountID:   m.AccountID,
		Category1:   m.Category1,
		Category2:   m.Category2,
		Description: m.Description,
		Date:        m.Date.UTC(),
		Amount:      m.Amount,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromDomainEntry(e *entry.Entry) *Entry {
	return &Entry{
		ID:          e.ID,
		Kind:        string(e.Kind),
		UserID:      e.UserID,
		AccountID:   e.AccountID,
		Category1:   e.Category1,
		Category2:   e.Category2,
		Description: e.Description,
		Date:        e.Date,
		Amount:      e.Amount,
		Version:     e.Version,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
