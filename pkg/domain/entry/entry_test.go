package entry_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/category"
	"github.com/saveblue/saveblue/pkg/domain/entry"
	"github.com/saveblue/saveblue/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	tax := category.Default()
	uid, aid := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		kind    entry.Kind
		c1, c2  string
		desc    string
		amount  int64
		wantErr error
	}{
		{name: "valid expense", kind: entry.Expense, c1: "Transport", c2: "Taxi", amount: 1500},
		{name: "valid income", kind: entry.Income, c1: "Salary & Wage", amount: 250000},
		{name: "zero amount", kind: entry.Expense, c1: "Transport", c2: "Taxi", amount: 0, wantErr: money.ErrAmountNotPositive},
		{name: "over ceiling", kind: entry.Income, c1: "Other", amount: money.MaxEntryAmount + 1, wantErr: money.ErrAmountTooLarge},
		{name: "long description", kind: entry.Expense, c1: "Transport", c2: "Taxi", desc: strings.Repeat("d", 33), amount: 1, wantErr: entry.ErrDescriptionTooLong},
		{name: "bad pair", kind: entry.Expense, c1: "Transport", c2: "Rent", amount: 1, wantErr: category.ErrInvalidCategory},
		{name: "income with subcategory", kind: entry.Income, c1: "Other", c2: "Other", amount: 1, wantErr: category.ErrInvalidCategory},
		{name: "unknown kind", kind: entry.Kind("transfer"), c1: "Other", amount: 1, wantErr: entry.ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, err := entry.New(tt.kind, uid, aid, tt.c1, tt.c2, tt.desc, time.Time{}, tt.amount, tax)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.False(t, e.Date.IsZero())
			assert.Equal(t, tt.amount, e.Amount)
		})
	}
}

func TestCheckDraftPolicy(t *testing.T) {
	t.Parallel()
	assert.NoError(t, entry.CheckDraftPolicy("Draft", "Draft", true))
	assert.NoError(t, entry.CheckDraftPolicy("Transport", "Taxi", true))
	assert.NoError(t, entry.CheckDraftPolicy("Transport", "Taxi", false))
	assert.ErrorIs(t, entry.CheckDraftPolicy("Draft", "Draft", false), entry.ErrDraftInRegularAccount)
	assert.ErrorIs(t, entry.CheckDraftPolicy("Transport", "Draft", false), entry.ErrDraftInRegularAccount)
}

func TestWithPatch(t *testing.T) {
	t.Parallel()
	e, err := entry.New(entry.Expense, uuid.New(), uuid.New(), "Transport", "Taxi", "ride", time.Now(), 100, category.Default())
	require.NoError(t, err)

	amount := int64(250)
	desc := "airport"
	patched := e.WithPatch(entry.Patch{Amount: &amount, Description: &desc})
	assert.Equal(t, int64(250), patched.Amount)
	assert.Equal(t, "airport", patched.Description)
	assert.Equal(t, "Taxi", patched.Category2)
	assert.Equal(t, int64(100), e.Amount, "original is not modified")
}

func TestPlanCreateAndDelete(t *testing.T) {
	t.Parallel()
	aid := uuid.New()
	exp := &entry.Entry{Kind: entry.Expense, AccountID: aid, Amount: 10000}
	inc := &entry.Entry{Kind: entry.Income, AccountID: aid, Amount: 500}

	assert.Equal(t, []account.Delta{{AccountID: aid, Amount: 10000, Sign: account.Debit}}, entry.PlanCreate(exp))
	assert.Equal(t, []account.Delta{{AccountID: aid, Amount: 10000, Sign: account.Credit}}, entry.PlanDelete(exp))
	assert.Equal(t, []account.Delta{{AccountID: aid, Amount: 500, Sign: account.Credit}}, entry.PlanCreate(inc))
	assert.Equal(t, []account.Delta{{AccountID: aid, Amount: 500, Sign: account.Debit}}, entry.PlanDelete(inc))
}

func TestPlanUpdate_SameAccount(t *testing.T) {
	t.Parallel()
	aid := uuid.New()
	tests := []struct {
		name     string
		kind     entry.Kind
		old, new int64
		want     []account.Delta
	}{
		{name: "unchanged", kind: entry.Expense, old: 100, new: 100, want: nil},
		{name: "expense grows", kind: entry.Expense, old: 100, new: 150, want: []account.Delta{{AccountID: aid, Amount: 50, Sign: account.Debit}}},
		{name: "expense shrinks", kind: entry.Expense, old: 100, new: 40, want: []account.Delta{{AccountID: aid, Amount: 60, Sign: account.Credit}}},
		{name: "income grows", kind: entry.Income, old: 100, new: 150, want: []account.Delta{{AccountID: aid, Amount: 50, Sign: account.Credit}}},
		{name: "income shrinks", kind: entry.Income, old: 100, new: 40, want: []account.Delta{{AccountID: aid, Amount: 60, Sign: account.Debit}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, entry.PlanUpdate(tt.kind, aid, tt.old, aid, tt.new))
		})
	}
}

func TestPlanUpdate_Move(t *testing.T) {
	t.Parallel()
	a, b := uuid.New(), uuid.New()
	got := entry.PlanUpdate(entry.Expense, a, 10000, b, 10000)
	assert.Equal(t, []account.Delta{
		{AccountID: a, Amount: 10000, Sign: account.Credit},
		{AccountID: b, Amount: 10000, Sign: account.Debit},
	}, got)

	got = entry.PlanUpdate(entry.Income, a, 300, b, 700)
	assert.Equal(t, []account.Delta{
		{AccountID: a, Amount: 300, Sign: account.Debit},
		{AccountID: b, Amount: 700, Sign: account.Credit},
	}, got)
}
