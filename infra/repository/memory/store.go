// Package memory provides an in-process UnitOfWork and TokenStore used for
// tests and for running the server without a database.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/entry"
	"github.com/saveblue/saveblue/pkg/domain/goal"
	"github.com/saveblue/saveblue/pkg/domain/user"
	"github.com/saveblue/saveblue/pkg/repository"
)

type state struct {
	users    map[uuid.UUID]user.User
	accounts map[uuid.UUID]account.Account
	goals    map[uuid.UUID]goal.Goal
	entries  map[uuid.UUID]entry.Entry
}

func newState() *state {
	return &state{
		users:    map[uuid.UUID]user.User{},
		accounts: map[uuid.UUID]account.Account{},
		goals:    map[uuid.UUID]goal.Goal{},
		entries:  map[uuid.UUID]entry.Entry{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.goals {
		c.goals[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	return c
}

// Store is a UnitOfWork over maps. Do serializes transactions, runs them on a
// copy of the data and swaps the copy in only when fn succeeds.
type Store struct {
	mu    *sync.Mutex
	state *state
	// tx is set on the UnitOfWork handed to Do; the mutex is already held.
	tx bool
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{mu: &sync.Mutex{}, state: newState()}
}

func (s *Store) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if s.tx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := &Store{mu: s.mu, state: s.state.clone(), tx: true}
	if err := fn(snapshot); err != nil {
		return err
	}
	s.state = snapshot.state
	return nil
}

// with runs fn against the live state, holding the lock outside transactions.
func (s *Store) with(fn func(st *state) error) error {
	if s.tx {
		return fn(s.state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

func (s *Store) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case repository.UserRepositoryType:
		return &userRepository{s}, nil
	case repository.AccountRepositoryType:
		return &accountRepository{s}, nil
	case repository.GoalRepositoryType:
		return &goalRepository{s}, nil
	case repository.EntryRepositoryType:
		return &entryRepository{s}, nil
	}
	return nil, fmt.Errorf("unsupported repository type: %v", repoType)
}

func (s *Store) UserRepository() (repository.UserRepository, error) {
	return &userRepository{s}, nil
}

func (s *Store) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepository{s}, nil
}

func (s *Store) GoalRepository() (repository.GoalRepository, error) {
	return &goalRepository{s}, nil
}

func (s *Store) EntryRepository() (repository.EntryRepository, error) {
	return &entryRepository{s}, nil
}
