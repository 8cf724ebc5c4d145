package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"gorm.io/gorm"
)

// gormToDomain lists the translated GORM errors that have a domain meaning.
// A foreign key violation means the parent row (usually the account) is gone.
var gormToDomain = []struct {
	gorm   error
	domain error
}{
	{gorm.ErrDuplicatedKey, domain.ErrAlreadyExists},
	{gorm.ErrRecordNotFound, domain.ErrNotFound},
	{gorm.ErrForeignKeyViolated, domain.ErrNotFound},
}

// MapGormErrorToDomain walks err's chain and returns the domain error of the
// first GORM error it recognises. Anything else is returned unchanged.
func MapGormErrorToDomain(err error) error {
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		for _, m := range gormToDomain {
			if errors.Is(cur, m.gorm) {
				return m.domain
			}
		}
	}
	return err
}

// WrapError runs a GORM operation and maps its error.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(fromDomainEntry(e)).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}

// affected turns a result that touched no rows into domain.ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// versioned checks the result of a write guarded by "version = ?". When no row
// matched it looks the id up again: a missing row is domain.ErrNotFound, a row
// whose version moved on is domain.ErrConcurrentUpdate.
func versioned(ctx context.Context, db *gorm.DB, res *gorm.DB, model any, id uuid.UUID) error {
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrConcurrentUpdate
}
