package goal_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/goal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	g, err := goal.New(uuid.New(), "  ", "", 5000)
	require.NoError(t, err)
	assert.Equal(t, goal.DefaultName, g.Name)
	assert.Equal(t, int64(5000), g.GoalAmount)
	assert.Zero(t, g.CurrentAmount)
	assert.False(t, g.Complete)

	_, err = goal.New(uuid.New(), strings.Repeat("n", 33), "", 0)
	assert.ErrorIs(t, err, goal.ErrNameTooLong)

	_, err = goal.New(uuid.New(), "Bike", strings.Repeat("d", 1025), 0)
	assert.ErrorIs(t, err, goal.ErrDescriptionTooLong)
}

func TestPlanChange(t *testing.T) {
	t.Parallel()
	g := &goal.Goal{GoalAmount: 5000}

	avail, current, err := g.PlanChange(5000, 3000, account.Credit)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), avail)
	assert.Equal(t, int64(3000), current)

	g.CurrentAmount = current
	_, _, err = g.PlanChange(avail, 4000, account.Debit)
	assert.ErrorIs(t, err, goal.ErrReleaseExceedsReserved)

	_, _, err = g.PlanChange(avail, 2001, account.Credit)
	assert.ErrorIs(t, err, goal.ErrInsufficientAvailable)

	avail, current, err = g.PlanChange(avail, 1000, account.Debit)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), avail)
	assert.Equal(t, int64(2000), current)

	_, _, err = g.PlanChange(avail, 0, account.Credit)
	assert.ErrorIs(t, err, goal.ErrNonPositiveChange)
}

func TestPlanChange_OverfundingAllowed(t *testing.T) {
	t.Parallel()
	g := &goal.Goal{GoalAmount: 100}
	_, current, err := g.PlanChange(1000, 500, account.Credit)
	require.NoError(t, err)
	assert.Equal(t, int64(500), current)
}

func TestCompletion(t *testing.T) {
	t.Parallel()
	g := &goal.Goal{CurrentAmount: 3000}
	avail, err := g.PlanCompletion(2000)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), avail)
	assert.Equal(t, int64(3000), g.Releasable())

	g.Complete = true
	_, err = g.PlanCompletion(avail)
	assert.ErrorIs(t, err, goal.ErrGoalComplete)
	_, _, err = g.PlanChange(avail, 10, account.Credit)
	assert.ErrorIs(t, err, goal.ErrGoalComplete)
	assert.Zero(t, g.Releasable())
}

func TestApply(t *testing.T) {
	t.Parallel()
	g, err := goal.New(uuid.New(), "Car", "", 0)
	require.NoError(t, err)
	name := "House"
	amount := int64(9000)
	require.NoError(t, g.Apply(goal.Patch{Name: &name, GoalAmount: &amount}))
	assert.Equal(t, "House", g.Name)
	assert.Equal(t, int64(9000), g.GoalAmount)

	long := strings.Repeat("x", 33)
	assert.ErrorIs(t, g.Apply(goal.Patch{Name: &long}), goal.ErrNameTooLong)
	assert.Equal(t, "House", g.Name)
}
