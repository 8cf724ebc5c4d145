package repository

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/entry"
	"github.com/saveblue/saveblue/pkg/domain/goal"
	"github.com/saveblue/saveblue/pkg/repository"
	entrysvc "github.com/saveblue/saveblue/pkg/service/entry"
	goalsvc "github.com/saveblue/saveblue/pkg/service/goal"
)

// interleavedUoW runs fn without a transaction, so every statement commits on
// its own as under READ COMMITTED. The first entry or goal read made through
// it calls between before returning, letting another writer commit in the gap
// between that read and the write that depends on it.
type interleavedUoW struct {
	*UoW
	between func()
	once    sync.Once
}

func (u *interleavedUoW) Do(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(u)
}

func (u *interleavedUoW) pause() { u.once.Do(u.between) }

func (u *interleavedUoW) EntryRepository() (repository.EntryRepository, error) {
	return &pausingEntries{EntryRepository: NewEntryRepository(u.db), pause: u.pause}, nil
}

func (u *interleavedUoW) GoalRepository() (repository.GoalRepository, error) {
	return &pausingGoals{GoalRepository: NewGoalRepository(u.db), pause: u.pause}, nil
}

type pausingEntries struct {
	repository.EntryRepository
	pause func()
}

func (p *pausingEntries) Get(ctx context.Context, kind entry.Kind, id uuid.UUID) (*entry.Entry, error) {
	e, err := p.EntryRepository.Get(ctx, kind, id)
	p.pause()
	return e, err
}

type pausingGoals struct {
	repository.GoalRepository
	pause func()
}

func (p *pausingGoals) Get(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	g, err := p.GoalRepository.Get(ctx, id)
	p.pause()
	return g, err
}

func (s *SQLiteSuite) createExpense(svc *entrysvc.Service, amount int64) *entry.Entry {
	e, err := svc.Create(context.Background(), entry.Expense, entrysvc.CreateInput{
		UserID:    s.acc.UserID,
		AccountID: s.acc.ID,
		Category1: "Food & Drinks",
		Category2: "Groceries",
		Amount:    amount,
	})
	s.Require().NoError(err)
	return e
}

func (s *SQLiteSuite) storedAccount() *account.Account {
	acc, err := NewAccountRepository(s.db).Get(context.Background(), s.acc.ID)
	s.Require().NoError(err)
	return acc
}

func (s *SQLiteSuite) TestEntryUpdateLosingRaceIsReapplied() {
	ctx := context.Background()
	plain := entrysvc.New(s.uow, nil, nil, slog.Default())
	e := s.createExpense(plain, 100)

	first, second := int64(200), int64(300)
	racing := &interleavedUoW{UoW: s.uow, between: func() {
		_, err := plain.Update(ctx, entry.Expense, e.ID, entry.Patch{Amount: &second})
		s.Require().NoError(err)
	}}
	_, err := entrysvc.New(racing, nil, nil, slog.Default()).Update(ctx, entry.Expense, e.ID, entry.Patch{Amount: &first})
	s.Require().NoError(err)

	got, err := NewEntryRepository(s.db).Get(ctx, entry.Expense, e.ID)
	s.Require().NoError(err)
	s.Equal(first, got.Amount)
	s.Equal(int64(2), got.Version)
	acc := s.storedAccount()
	s.Equal(-got.Amount, acc.TotalBalance)
	s.Equal(acc.TotalBalance, acc.AvailableBalance)
}

func (s *SQLiteSuite) TestEntryDeleteRacingAnUpdateReversesStoredAmount() {
	ctx := context.Background()
	plain := entrysvc.New(s.uow, nil, nil, slog.Default())
	e := s.createExpense(plain, 100)

	amount := int64(300)
	racing := &interleavedUoW{UoW: s.uow, between: func() {
		_, err := plain.Update(ctx, entry.Expense, e.ID, entry.Patch{Amount: &amount})
		s.Require().NoError(err)
	}}
	s.Require().NoError(entrysvc.New(racing, nil, nil, slog.Default()).Delete(ctx, entry.Expense, e.ID))

	_, err := NewEntryRepository(s.db).Get(ctx, entry.Expense, e.ID)
	s.ErrorIs(err, domain.ErrNotFound)
	acc := s.storedAccount()
	s.Equal(int64(0), acc.TotalBalance)
	s.Equal(int64(0), acc.AvailableBalance)
}

func (s *SQLiteSuite) TestGoalDeleteRacingAReservationReleasesIt() {
	ctx := context.Background()
	s.Require().NoError(NewAccountRepository(s.db).IncrementBalances(ctx, s.acc.ID, 1000))
	plain := goalsvc.New(s.uow, nil, slog.Default())
	g, err := plain.Create(ctx, s.acc.ID, "Bike", "", 500)
	s.Require().NoError(err)

	racing := &interleavedUoW{UoW: s.uow, between: func() {
		_, err := plain.ApplyGoalDelta(ctx, g.ID, 100, account.Credit)
		s.Require().NoError(err)
	}}
	s.Require().NoError(goalsvc.New(racing, nil, slog.Default()).Delete(ctx, g.ID))

	goals, err := NewGoalRepository(s.db).ListByAccount(ctx, s.acc.ID)
	s.Require().NoError(err)
	s.Empty(goals)
	acc := s.storedAccount()
	s.Equal(int64(1000), acc.TotalBalance)
	s.Equal(int64(1000), acc.AvailableBalance)
}

func (s *SQLiteSuite) TestGoalUpdateOnDeletedGoal() {
	ctx := context.Background()
	repo := NewGoalRepository(s.db)
	g, err := goal.New(s.acc.ID, "Bike", "", 500)
	s.Require().NoError(err)
	s.Require().NoError(repo.Create(ctx, g))

	stale := *g
	s.Require().NoError(repo.Update(ctx, g))
	s.ErrorIs(repo.Delete(ctx, &stale), domain.ErrConcurrentUpdate)
	s.Require().NoError(repo.Delete(ctx, g))
	s.ErrorIs(repo.Update(ctx, g), domain.ErrNotFound)
}
