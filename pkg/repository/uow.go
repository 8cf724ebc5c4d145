package repository

import (
	"context"
	"reflect"
)

// UnitOfWork defines the contract for transactional work and type-safe repository access.
//
// Repositories obtained from the UnitOfWork passed into Do share that
// transaction, so a primary write and the balance deltas it implies commit or
// roll back together.
//
// Example usage:
//
//	err := uow.Do(ctx, func(tx UnitOfWork) error {
//		accounts, err := tx.AccountRepository()
//		...
//	})
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error the
	// transaction is rolled back. Calling Do on the UnitOfWork handed to fn
	// joins the running transaction.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction or session.
	//   repoAny, err := uow.GetRepository(reflect.TypeOf((*UserRepository)(nil)).Elem())
	GetRepository(repoType reflect.Type) (any, error)

	UserRepository() (UserRepository, error)
	AccountRepository() (AccountRepository, error)
	GoalRepository() (GoalRepository, error)
	EntryRepository() (EntryRepository, error)
}

// Repository type keys for GetRepository.
var (
	UserRepositoryType    = reflect.TypeOf((*UserRepository)(nil)).Elem()
	AccountRepositoryType = reflect.TypeOf((*AccountRepository)(nil)).Elem()
	GoalRepositoryType    = reflect.TypeOf((*GoalRepository)(nil)).Elem()
	EntryRepositoryType   = reflect.TypeOf((*EntryRepository)(nil)).Elem()
)
