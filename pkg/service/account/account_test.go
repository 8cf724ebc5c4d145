package account_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/infra/repository/memory"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/category"
	"github.com/saveblue/saveblue/pkg/domain/entry"
	"github.com/saveblue/saveblue/pkg/domain/goal"
	"github.com/saveblue/saveblue/pkg/domain/user"
	accountsvc "github.com/saveblue/saveblue/pkg/service/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, store *memory.Store) *user.User {
	t.Helper()
	u, err := user.New("alice", "alice@example.com", "secret")
	require.NoError(t, err)
	users, _ := store.UserRepository()
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestCreateAndList(t *testing.T) {
	store := memory.NewStore()
	svc := accountsvc.New(store, slog.Default())
	u := newUser(t, store)
	ctx := context.Background()

	acc, err := svc.Create(ctx, u.ID, accountsvc.CreateInput{Name: "  ", StartOfMonth: 40})
	require.NoError(t, err)
	assert.Equal(t, account.DefaultName, acc.Name)
	assert.Equal(t, account.MaxStartOfMonth, acc.StartOfMonth)
	assert.Equal(t, account.KindRegular, acc.Kind)
	assert.Zero(t, acc.TotalBalance)

	list, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, acc.ID, list[0].ID)
}

func TestCreate_UnknownUser(t *testing.T) {
	svc := accountsvc.New(memory.NewStore(), slog.Default())
	_, err := svc.Create(context.Background(), uuid.New(), accountsvc.CreateInput{Name: "Main"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_NameTooLong(t *testing.T) {
	store := memory.NewStore()
	svc := accountsvc.New(store, slog.Default())
	u := newUser(t, store)
	_, err := svc.Create(context.Background(), u.ID, accountsvc.CreateInput{Name: "a very long account name exceeding the limit"})
	assert.ErrorIs(t, err, account.ErrNameTooLong)
}

func TestGetDrafts(t *testing.T) {
	store := memory.NewStore()
	svc := accountsvc.New(store, slog.Default())
	u := newUser(t, store)
	ctx := context.Background()

	_, err := svc.GetDrafts(ctx, u.ID)
	assert.ErrorIs(t, err, account.ErrAccountNotFound)

	drafts, err := account.New().WithUserID(u.ID).AsDrafts().Build()
	require.NoError(t, err)
	repo, _ := store.AccountRepository()
	require.NoError(t, repo.Create(ctx, drafts))

	got, err := svc.GetDrafts(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, drafts.ID, got.ID)

	list, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdate(t *testing.T) {
	store := memory.NewStore()
	svc := accountsvc.New(store, slog.Default())
	u := newUser(t, store)
	ctx := context.Background()
	acc, err := svc.Create(ctx, u.ID, accountsvc.CreateInput{Name: "Main"})
	require.NoError(t, err)

	name, archived, day := "Savings", true, 0
	updated, err := svc.Update(ctx, acc.ID, account.Patch{Name: &name, Archived: &archived, StartOfMonth: &day})
	require.NoError(t, err)
	assert.Equal(t, "Savings", updated.Name)
	assert.True(t, updated.Archived)
	assert.Equal(t, account.MinStartOfMonth, updated.StartOfMonth)

	got, err := svc.Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Savings", got.Name)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestDelete_Cascades(t *testing.T) {
	store := memory.NewStore()
	svc := accountsvc.New(store, slog.Default())
	u := newUser(t, store)
	ctx := context.Background()
	acc, err := svc.Create(ctx, u.ID, accountsvc.CreateInput{Name: "Main"})
	require.NoError(t, err)
	other, err := svc.Create(ctx, u.ID, accountsvc.CreateInput{Name: "Other"})
	require.NoError(t, err)

	entries, _ := store.EntryRepository()
	goals, _ := store.GoalRepository()
	e, err := entry.New(entry.Expense, u.ID, acc.ID, "Transport", "Taxi", "", time.Now(), 500, category.Default())
	require.NoError(t, err)
	require.NoError(t, entries.Create(ctx, e))
	kept, err := entry.New(entry.Income, u.ID, other.ID, "Other", "", "", time.Now(), 700, category.Default())
	require.NoError(t, err)
	require.NoError(t, entries.Create(ctx, kept))
	g, err := goal.New(acc.ID, "Bike", "", 1000)
	require.NoError(t, err)
	require.NoError(t, goals.Create(ctx, g))

	require.NoError(t, svc.Delete(ctx, acc.ID))

	_, err = svc.Get(ctx, acc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = entries.Get(ctx, entry.Expense, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = goals.Get(ctx, g.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = entries.Get(ctx, entry.Income, kept.ID)
	assert.NoError(t, err)
}

func TestDelete_DraftsRejected(t *testing.T) {
	store := memory.NewStore()
	svc := accountsvc.New(store, slog.Default())
	u := newUser(t, store)
	ctx := context.Background()
	drafts, err := account.New().WithUserID(u.ID).AsDrafts().Build()
	require.NoError(t, err)
	repo, _ := store.AccountRepository()
	require.NoError(t, repo.Create(ctx, drafts))

	err = svc.Delete(ctx, drafts.ID)
	assert.ErrorIs(t, err, account.ErrDraftsAccountImmutable)
	_, err = svc.Get(ctx, drafts.ID)
	assert.NoError(t, err)
}
