package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain/goal"
	"github.com/saveblue/saveblue/pkg/repository"
	"gorm.io/gorm"
)

type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new goal repository backed by db.
func NewGoalRepository(db *gorm.DB) repository.GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Get(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	var m Goal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return toDomainGoal(&m), nil
}

func (r *goalRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*goal.Goal, error) {
	var rows []Goal
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*goal.Goal, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainGoal(&rows[i]))
	}
	return out, nil
}

func (r *goalRepository) Create(ctx context.Context, g *goal.Goal) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(fromDomainGoal(g)).Error
	})
}

func (r *goalRepository) Update(ctx context.Context, g *goal.Goal) error {
	res := r.db.WithContext(ctx).Model(&Goal{}).
		Where("id = ? AND version = ?", g.ID, g.Version).
		Updates(map[string]any{
			"name":           g.Name,
			"description":    g.Description,
			"goal_amount":    g.GoalAmount,
			"current_amount": g.CurrentAmount,
			"complete":       g.Complete,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     g.UpdatedAt,
		})
	if err := versioned(ctx, r.db, res, &Goal{}, g.ID); err != nil {
		return err
	}
	g.Version++
	return nil
}

func (r *goalRepository) Delete(ctx context.Context, g *goal.Goal) error {
	res := r.db.WithContext(ctx).Where("id = ? AND version = ?", g.ID, g.Version).Delete(&Goal{})
	return versioned(ctx, r.db, res, &Goal{}, g.ID)
}

func (r *goalRepository) DeleteByAccounts(ctx context.Context, accountIDs []uuid.UUID) error {
	if len(accountIDs) == 0 {
		return nil
	}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Where("account_id IN ?", accountIDs).Delete(&Goal{}).Error
	})
}

func toDomainGoal(m *Goal) *goal.Goal {
	return &goal.Goal{
		ID:            m.ID,
		AccountID:     m.AccountID,
		Name:          m.Name,
		Description:   m.Description,
		GoalAmount:    m.GoalAmount,
		CurrentAmount: m.CurrentAmount,
		Complete:      m.Complete,
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func fromDomainGoal(g *goal.Goal) *Goal {
	return &Goal{
		ID:            g.ID,
		AccountID:     g.AccountID,
		Name:          g.Name,
		Description:   g.Description,
		GoalAmount:    g.GoalAmount,
		CurrentAmount: g.CurrentAmount,
		Complete:      g.Complete,
		Version:       g.Version,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}
