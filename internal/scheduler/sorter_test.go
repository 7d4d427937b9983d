package scheduler

import (
	"math"
	"testing"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTaskUrgency(t *testing.T) {
	total := 600

	noDeadline := testutil.NewTestTask("n")
	assert.InDelta(t, queueUrgencyFloor, CalculateTaskUrgency(noDeadline, now, total), 1e-9)

	soon := testutil.NewTestTask("s", testutil.WithDeadline(now.Add(time.Hour)))
	later := testutil.NewTestTask("l", testutil.WithDeadline(now.AddDate(0, 0, 1)))
	assert.Greater(t, CalculateTaskUrgency(soon, now, total), CalculateTaskUrgency(later, now, total))
	assert.Greater(t, CalculateTaskUrgency(later, now, total), CalculateTaskUrgency(noDeadline, now, total))

	heavy := testutil.NewTestTask("h", testutil.WithDeadline(now.Add(time.Hour)), testutil.WithPriority(3))
	assert.InDelta(t, 3*CalculateTaskUrgency(soon, now, total), CalculateTaskUrgency(heavy, now, total), 1e-9)

	unset := testutil.NewTestTask("u", testutil.WithDeadline(now.Add(time.Hour)), testutil.WithPriority(0))
	assert.InDelta(t, CalculateTaskUrgency(soon, now, total), CalculateTaskUrgency(unset, now, total), 1e-9)

	overdue := testutil.NewTestTask("o", testutil.WithDeadline(now.Add(-time.Hour)))
	assert.LessOrEqual(t, CalculateTaskUrgency(overdue, now, total), 1.0)
	assert.Greater(t, CalculateTaskUrgency(overdue, now, total), CalculateTaskUrgency(soon, now, total))
}

func TestCalculateTaskUrgency_ZeroTotal(t *testing.T) {
	task := testutil.NewTestTask("t", testutil.WithDeadline(now.Add(time.Hour)))
	u := CalculateTaskUrgency(task, now, 0)
	assert.False(t, math.IsNaN(u))
	assert.GreaterOrEqual(t, u, queueUrgencyFloor)
}

func TestCanonicalSort_UrgencyFirst(t *testing.T) {
	c := []Candidate{
		{Item: testutil.NewTestTask("low"), Urgency: 0.1},
		{Item: testutil.NewTestTask("high"), Urgency: 0.9},
		{Item: testutil.NewTestTask("mid"), Urgency: 0.5},
	}
	CanonicalSort(c)
	assert.Equal(t, "high", c[0].Item.ID)
	assert.Equal(t, "mid", c[1].Item.ID)
	assert.Equal(t, "low", c[2].Item.ID)
}

func TestCanonicalSort_DeadlineThenID(t *testing.T) {
	early := now.Add(time.Hour)
	late := now.Add(2 * time.Hour)
	c := []Candidate{
		{Item: testutil.NewTestTask("z-none"), Urgency: 0.5},
		{Item: testutil.NewTestTask("late", testutil.WithDeadline(late)), Urgency: 0.5},
		{Item: testutil.NewTestTask("b-early", testutil.WithDeadline(early)), Urgency: 0.5},
		{Item: testutil.NewTestTask("a-early", testutil.WithDeadline(early)), Urgency: 0.5},
		{Item: testutil.NewTestTask("a-none"), Urgency: 0.5},
	}
	CanonicalSort(c)

	got := make([]string, len(c))
	for i := range c {
		got[i] = c[i].Item.ID
	}
	assert.Equal(t, []string{"a-early", "b-early", "late", "a-none", "z-none"}, got)
}

func TestRankCandidates_Deterministic(t *testing.T) {
	items := []domain.PlannerItem{
		testutil.NewTestTask("c"),
		testutil.NewTestTask("a", testutil.WithDeadline(now.Add(3*time.Hour))),
		testutil.NewTestTask("b"),
	}
	first := RankCandidates(items, now, 90)
	second := RankCandidates(items, now, 90)
	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, "a", first[0].Item.ID)
	assert.Equal(t, "b", first[1].Item.ID)
	assert.Equal(t, "c", items[0].ID, "input order untouched")
}

func TestTotalEstimatedMinutes(t *testing.T) {
	start := now.Add(-2 * time.Hour)
	items := []domain.PlannerItem{
		testutil.NewTestTask("a", testutil.WithDuration(30)),
		testutil.NewTestTask("done", testutil.WithDuration(30), testutil.WithCompleted(start, start.Add(30*time.Minute))),
		testutil.NewTestPlan("p", now, 90),
		testutil.NewTestLeaf("l", "g", "", 45),
		testutil.NewTestGoal("g"),
	}
	assert.Equal(t, 75, TotalEstimatedMinutes(items))
}
