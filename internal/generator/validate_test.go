package generator

import (
	"testing"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ValidationAborts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *domain.CalendarGenerationInput)
		want   string
	}{
		{
			name:   "missing user",
			mutate: func(in *domain.CalendarGenerationInput) { in.UserID = "" },
			want:   "userId",
		},
		{
			name:   "week start out of range",
			mutate: func(in *domain.CalendarGenerationInput) { in.WeekStartDay = 7 },
			want:   "weekStartDay",
		},
		{
			name: "template with bad time",
			mutate: func(in *domain.CalendarGenerationInput) {
				in.Templates = []domain.EventTemplate{{StartDay: time.Monday, StartTime: "24:00", Duration: 30}}
			},
			want: "template 0",
		},
		{
			name: "template without duration",
			mutate: func(in *domain.CalendarGenerationInput) {
				in.Templates = []domain.EventTemplate{{StartDay: time.Monday, StartTime: "09:00"}}
			},
			want: "duration",
		},
		{
			name: "planner without id",
			mutate: func(in *domain.CalendarGenerationInput) {
				in.Planners = append(in.Planners, testutil.NewTestTask(""))
			},
			want: "id is required",
		},
		{
			name: "duplicate id",
			mutate: func(in *domain.CalendarGenerationInput) {
				in.Planners = append(in.Planners, testutil.NewTestTask("t1"))
			},
			want: "duplicate",
		},
		{
			name: "unknown item type",
			mutate: func(in *domain.CalendarGenerationInput) {
				in.Planners = append(in.Planners, domain.PlannerItem{ID: "x", ItemType: "chore"})
			},
			want: "unknown item type",
		},
		{
			name: "plan without starts",
			mutate: func(in *domain.CalendarGenerationInput) {
				in.Planners = append(in.Planners, domain.PlannerItem{ID: "p", ItemType: domain.ItemPlan, Duration: 30})
			},
			want: "plan needs starts",
		},
		{
			name: "parent cycle",
			mutate: func(in *domain.CalendarGenerationInput) {
				in.Planners = append(in.Planners,
					testutil.NewTestGoal("a", testutil.WithParentID("b")),
					testutil.NewTestGoal("b", testutil.WithParentID("a")),
				)
			},
			want: "parent cycle",
		},
		{
			name: "task with children",
			mutate: func(in *domain.CalendarGenerationInput) {
				in.Planners = append(in.Planners, testutil.NewTestLeaf("child", "t1", "", 10))
			},
			want: "only goals have children",
		},
		{
			name: "branching chain",
			mutate: func(in *domain.CalendarGenerationInput) {
				in.Planners = append(in.Planners,
					testutil.NewTestGoal("g"),
					testutil.NewTestLeaf("a", "g", "", 10),
					testutil.NewTestLeaf("b", "g", "a", 10),
					testutil.NewTestLeaf("c", "g", "a", 10),
				)
			},
			want: "branching",
		},
		{
			name: "dependency cycle",
			mutate: func(in *domain.CalendarGenerationInput) {
				in.Planners = append(in.Planners,
					testutil.NewTestGoal("g"),
					testutil.NewTestLeaf("a", "g", "b", 10),
					testutil.NewTestLeaf("b", "g", "a", 10),
				)
			},
			want: "dependency cycle",
		},
		{
			name: "unknown timezone",
			mutate: func(in *domain.CalendarGenerationInput) {
				tz := "Mars/Olympus"
				in.Config = &domain.ConfigOverrides{Timezone: &tz}
			},
			want: "invalid config",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := input([]domain.PlannerItem{testutil.NewTestTask("t1")})
			tc.mutate(&in)

			res := generateAt(t, now, domain.DefaultConfig(), in)
			assert.False(t, res.Success)
			assert.Empty(t, res.Events, "no partial schedule")
			require.Len(t, res.Failures, 1)
			assert.Equal(t, domain.FailureInvalidTask, res.Failures[0].Reason)
			assert.Contains(t, res.Failures[0].Details, tc.want)
		})
	}
}

func TestGenerate_WarningsDoNotBlock(t *testing.T) {
	items := []domain.PlannerItem{
		testutil.NewTestGoal("g"),
		testutil.NewTestLeaf("a", "g", "ghost", 30),
		testutil.NewTestLeaf("b", "g", "a", 30),
		testutil.NewTestLeaf("orphan", "missing-goal", "", 30),
	}
	in := input(items)
	in.PreviousCalendar = []domain.SimpleEvent{{ID: "broken", Start: now, End: now}}

	res := generateAt(t, now, domain.DefaultConfig(), in)
	require.True(t, res.Success, "%v", res.Failures)
	assert.Len(t, res.Metrics.Warnings, 3)

	got := placed(res)
	assert.Len(t, got, 3, "the orphan is scheduled as a standalone task")
	assert.Contains(t, got, "orphan")
	assert.Equal(t, domain.EventTypeTask, got["orphan"].ExtendedProps.ItemType)
}

func TestValidate_RepairsAreApplied(t *testing.T) {
	items := []domain.PlannerItem{
		testutil.NewTestGoal("g"),
		testutil.NewTestGoal("h"),
		testutil.NewTestLeaf("a", "g", "", 30),
		testutil.NewTestLeaf("x", "h", "a", 30),
	}
	v, err := validate(input(items))
	require.NoError(t, err)
	require.Len(t, v.warnings, 1)
	assert.Contains(t, v.warnings[0], "not a sibling")
	assert.Nil(t, v.planners[3].Dependency)
	assert.NotNil(t, items[3].Dependency, "caller's items are untouched")
}

func TestAborted(t *testing.T) {
	bad := input(nil)
	bad.UserID = ""
	assert.True(t, Aborted(generateAt(t, now, domain.DefaultConfig(), bad)))

	ok := generateAt(t, now, domain.DefaultConfig(), input([]domain.PlannerItem{testutil.NewTestTask("t1")}))
	assert.False(t, Aborted(ok))

	tooLarge := generateAt(t, now, domain.DefaultConfig(), input([]domain.PlannerItem{
		testutil.NewTestTask("huge", testutil.WithDuration(2000)),
	}))
	assert.False(t, tooLarge.Success)
	assert.False(t, Aborted(tooLarge), "a scheduling failure still yields a calendar")
}
