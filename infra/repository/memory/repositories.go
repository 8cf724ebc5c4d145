package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/entry"
	"github.com/saveblue/saveblue/pkg/domain/goal"
	"github.com/saveblue/saveblue/pkg/domain/user"
)

type userRepository struct{ s *Store }

func (r *userRepository) Get(_ context.Context, id uuid.UUID) (*user.User, error) {
	return r.find(func(u user.User) bool { return u.ID == id })
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*user.User, error) {
	return r.find(func(u user.User) bool { return u.Username == username })
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	return r.find(func(u user.User) bool { return u.Email == email })
}

func (r *userRepository) find(match func(user.User) bool) (*user.User, error) {
	var out *user.User
	err := r.s.with(func(st *state) error {
		for _, u := range st.users {
			if match(u) {
				out = &u
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *userRepository) Create(_ context.Context, u *user.User) error {
	return r.s.with(func(st *state) error {
		for _, existing := range st.users {
			if existing.ID == u.ID || existing.Username == u.Username || existing.Email == u.Email {
				return domain.ErrAlreadyExists
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepository) Update(_ context.Context, u *user.User) error {
	return r.s.with(func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, existing := range st.users {
			if existing.ID != u.ID && (existing.Username == u.Username || existing.Email == u.Email) {
				return domain.ErrAlreadyExists
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.s.with(func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.users, id)
		return nil
	})
}

type accountRepository struct{ s *Store }

func (r *accountRepository) Get(_ context.Context, id uuid.UUID) (*account.Account, error) {
	var out *account.Account
	err := r.s.with(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *accountRepository) ListByUser(_ context.Context, userID uuid.UUID, kind account.Kind) ([]*account.Account, error) {
	out := []*account.Account{}
	err := r.s.with(func(st *state) error {
		for _, a := range st.accounts {
			if a.UserID == userID && a.Kind == kind {
				a := a
				out = append(out, &a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

func (r *accountRepository) Create(_ context.Context, a *account.Account) error {
	return r.s.with(func(st *state) error {
		if _, ok := st.accounts[a.ID]; ok {
			return domain.ErrAlreadyExists
		}
		st.accounts[a.ID] = *a
		return nil
	})
}

func (r *accountRepository) Update(_ context.Context, a *account.Account) error {
	return r.s.with(func(st *state) error {
		stored, ok := st.accounts[a.ID]
		if !ok {
			return domain.ErrNotFound
		}
		stored.Name = a.Name
		stored.StartOfMonth = a.StartOfMonth
		stored.Archived = a.Archived
		stored.UpdatedAt = a.UpdatedAt
		st.accounts[a.ID] = stored
		return nil
	})
}

func (r *accountRepository) IncrementBalances(_ context.Context, id uuid.UUID, delta int64) error {
	return r.s.with(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return domain.ErrNotFound
		}
		a.TotalBalance += delta
		a.AvailableBalance += delta
		a.Version++
		a.UpdatedAt = time.Now().UTC()
		st.accounts[id] = a
		return nil
	})
}

func (r *accountRepository) AdjustAvailable(_ context.Context, id uuid.UUID, expectedVersion, delta int64) error {
	return r.s.with(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok || a.Version != expectedVersion {
			return domain.ErrConcurrentUpdate
		}
		a.AvailableBalance += delta
		a.Version++
		a.UpdatedAt = time.Now().UTC()
		st.accounts[id] = a
		return nil
	})
}

func (r *accountRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.s.with(func(st *state) error {
		if _, ok := st.accounts[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.accounts, id)
		return nil
	})
}

func (r *accountRepository) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	return r.s.with(func(st *state) error {
		for id, a := range st.accounts {
			if a.UserID == userID {
				delete(st.accounts, id)
			}
		}
		return nil
	})
}

type goalRepository struct{ s *Store }

func (r *goalRepository) Get(_ context.Context, id uuid.UUID) (*goal.Goal, error) {
	var out *goal.Goal
	err := r.s.with(func(st *state) error {
		g, ok := st.goals[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &g
		return nil
	})
	return out, err
}

func (r *goalRepository) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*goal.Goal, error) {
	out := []*goal.Goal{}
	err := r.s.with(func(st *state) error {
		for _, g := range st.goals {
			if g.AccountID == accountID {
				g := g
				out = append(out, &g)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r *goalRepository) Create(_ context.Context, g *goal.Goal) error {
	return r.s.with(func(st *state) error {
		if _, ok := st.goals[g.ID]; ok {
			return domain.ErrAlreadyExists
		}
		st.goals[g.ID] = *g
		return nil
	})
}

func (r *goalRepository) Update(_ context.Context, g *goal.Goal) error {
	return r.s.with(func(st *state) error {
		stored, ok := st.goals[g.ID]
		if err := checkVersion(stored.Version, g.Version, ok); err != nil {
			return err
		}
		g.Version++
		st.goals[g.ID] = *g
		return nil
	})
}

func (r *goalRepository) Delete(_ context.Context, g *goal.Goal) error {
	return r.s.with(func(st *state) error {
		stored, ok := st.goals[g.ID]
		if err := checkVersion(stored.Version, g.Version, ok); err != nil {
			return err
		}
		delete(st.goals, g.ID)
		return nil
	})
}

func (r *goalRepository) DeleteByAccounts(_ context.Context, accountIDs []uuid.UUID) error {
	ids := make(map[uuid.UUID]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		ids[id] = struct{}{}
	}
	return r.s.with(func(st *state) error {
		for id, g := range st.goals {
			if _, ok := ids[g.AccountID]; ok {
				delete(st.goals, id)
			}
		}
		return nil
	})
}

type entryRepository struct{ s *Store }

func (r *entryRepository) Get(_ context.Context, kind entry.Kind, id uuid.UUID) (*entry.Entry, error) {
	var out *entry.Entry
	err := r.s.with(func(st *state) error {
		e, ok := st.entries[id]
		if !ok || e.Kind != kind {
			return domain.ErrNotFound
		}
		out = &e
		return nil
	})
	return out, err
}

func (r *entryRepository) ListByAccount(_ context.Context, kind entry.Kind, accountID uuid.UUID, page int) ([]*entry.Entry, error) {
	if page < 1 {
		page = 1
	}
	var all []*entry.Entry
	err := r.s.with(func(st *state) error {
		for _, e := range st.entries {
			if e.AccountID == accountID && e.Kind == kind {
				e := e
				all = append(all, &e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Date.Equal(all[j].Date) {
			return all[i].ID.String() > all[j].ID.String()
		}
		return all[i].Date.After(all[j].Date)
	})
	start := (page - 1) * entry.PageSize
	if start >= len(all) {
		return []*entry.Entry{}, nil
	}
	end := min(start+entry.PageSize, len(all))
	return all[start:end], nil
}

func (r *entryRepository) Create(_ context.Context, e *entry.Entry) error {
	return r.s.with(func(st *state) error {
		if _, ok := st.entries[e.ID]; ok {
			return domain.ErrAlreadyExists
		}
		st.entries[e.ID] = *e
		return nil
	})
}

func (r *entryRepository) Update(_ context.Context, e *entry.Entry) error {
	return r.s.with(func(st *state) error {
		stored, ok := st.entries[e.ID]
		if err := checkVersion(stored.Version, e.Version, ok && stored.Kind == e.Kind); err != nil {
			return err
		}
		e.Version++
		st.entries[e.ID] = *e
		return nil
	})
}

func (r *entryRepository) Delete(_ context.Context, e *entry.Entry) error {
	return r.s.with(func(st *state) error {
		stored, ok := st.entries[e.ID]
		if err := checkVersion(stored.Version, e.Version, ok && stored.Kind == e.Kind); err != nil {
			return err
		}
		delete(st.entries, e.ID)
		return nil
	})
}

// checkVersion mirrors the SQL "WHERE id = ? AND version = ?" outcome.
func checkVersion(stored, expected int64, exists bool) error {
	switch {
	case !exists:
		return domain.ErrNotFound
	case stored != expected:
		return domain.ErrConcurrentUpdate
	}
	return nil
}

func (r *entryRepository) DeleteByAccount(_ context.Context, accountID uuid.UUID) error {
	return r.s.with(func(st *state) error {
		for id, e := range st.entries {
			if e.AccountID == accountID {
				delete(st.entries, id)
			}
		}
		return nil
	})
}

func (r *entryRepository) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	return r.s.with(func(st *state) error {
		for id, e := range st.entries {
			if e.UserID == userID {
				delete(st.entries, id)
			}
		}
		return nil
	})
}

func (r *entryRepository) Breakdown(_ context.Context, kind entry.Kind, accountID uuid.UUID, from, to *time.Time) ([]entry.Breakdown, error) {
	sums := map[string]int64{}
	err := r.s.with(func(st *state) error {
		for _, e := range st.entries {
			if e.AccountID != accountID || e.Kind != kind {
				continue
			}
			if from != nil && e.Date.Before(*from) {
				continue
			}
			if to != nil && e.Date.After(*to) {
				continue
			}
			sums[e.Category1] += e.Amount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]entry.Breakdown, 0, len(sums))
	for c, sum := range sums {
		out = append(out, entry.Breakdown{Category: c, Sum: sum})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}
