package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/saveblue/saveblue/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides a transaction boundary and repository access in one abstraction.
// Repositories handed out inside Do share the transaction session.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			repository.UserRepositoryType:    func(db *gorm.DB) any { return NewUserRepository(db) },
			repository.AccountRepositoryType: func(db *gorm.DB) any { return NewAccountRepository(db) },
			repository.GoalRepositoryType:    func(db *gorm.DB) any { return NewGoalRepository(db) },
			repository.EntryRepositoryType:   func(db *gorm.DB) any { return NewEntryRepository(db) },
		},
	}
}

// Do runs fn in a transaction. A UoW that is already inside a transaction
// runs fn directly so the outer commit or rollback covers it.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

// GetRepository returns the repository registered for repoType, bound to the
// transaction session when there is one.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	session := u.tx
	if session == nil {
		session = u.db
	}
	return constructor(session), nil
}

func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return getTyped[repository.UserRepository](u, repository.UserRepositoryType)
}

func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return getTyped[repository.AccountRepository](u, repository.AccountRepositoryType)
}

func (u *UoW) GoalRepository() (repository.GoalRepository, error) {
	return getTyped[repository.GoalRepository](u, repository.GoalRepositoryType)
}

func (u *UoW) EntryRepository() (repository.EntryRepository, error) {
	return getTyped[repository.EntryRepository](u, repository.EntryRepositoryType)
}

func getTyped[T any](u *UoW, repoType reflect.Type) (T, error) {
	var zero T
	repoAny, err := u.GetRepository(repoType)
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("repository type assertion failed for %v", repoType)
	}
	return repo, nil
}
