package importer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
user_id: u1
week_start_day: 1
timezone: Europe/Berlin
templates:
  - title: Sleep
    start_day: monday
    start_time: "23:00"
    duration: 480
planners:
  - id: g
    title: Thesis
    item_type: goal
    is_ready: true
  - id: g-1
    item_type: task
    parent_id: g
    duration: 90
    deadline: "2025-06-20T17:00"
  - id: g-2
    item_type: task
    parent_id: g
    dependency: g-1
    duration: 60
    priority: 2
  - id: p
    item_type: plan
    starts: "2025-06-17T09:00:00Z"
    duration: 30
previous_calendar:
  - id: e1
    start: "2025-06-09T10:00:00+02:00"
    end: "2025-06-09T11:00:00+02:00"
    item_type: task
    event_id: old
config:
  buffer_time_minutes: 10
  strategy_weights:
    energy: 0.5
`

func ptrStr(s string) *string { return &s }
func ptrInt(i int) *int       { return &i }

func TestParse_YAML(t *testing.T) {
	doc, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	assert.Empty(t, Validate(doc))

	in, err := Convert(doc)
	require.NoError(t, err)

	assert.Equal(t, "u1", in.UserID)
	assert.Equal(t, time.Monday, in.WeekStart())
	require.Len(t, in.Templates, 1)
	assert.Equal(t, time.Monday, in.Templates[0].StartDay)
	assert.Equal(t, 480, in.Templates[0].Duration)

	require.Len(t, in.Planners, 4)
	leaf := in.Planners[1]
	assert.Equal(t, domain.ItemTask, leaf.ItemType)
	assert.Equal(t, "g", leaf.ParentIDValue())
	berlin, _ := time.LoadLocation("Europe/Berlin")
	require.NotNil(t, leaf.Deadline)
	assert.True(t, leaf.Deadline.Equal(time.Date(2025, 6, 20, 17, 0, 0, 0, berlin)), "naive instants are read in the document timezone")
	assert.Equal(t, "g-1", in.Planners[2].DependencyValue())
	assert.Equal(t, 2.0, in.Planners[2].Priority)
	assert.True(t, in.Planners[3].Starts.Equal(time.Date(2025, 6, 17, 9, 0, 0, 0, time.UTC)))

	require.Len(t, in.PreviousCalendar, 1)
	assert.Equal(t, domain.EventTypeTask, in.PreviousCalendar[0].ExtendedProps.ItemType)
	assert.Equal(t, 60, in.PreviousCalendar[0].DurationMinutes())

	require.NotNil(t, in.Config)
	assert.Equal(t, 10, *in.Config.BufferTimeMinutes)
	assert.Equal(t, 0.5, *in.Config.Energy)
	assert.Nil(t, in.Config.Urgency)
	assert.Equal(t, "Europe/Berlin", *in.Config.Timezone)
}

func TestParse_JSON(t *testing.T) {
	raw := `{"user_id":"u2","planners":[{"id":"t","item_type":"task","duration":30}]}`
	doc, err := Parse([]byte(raw))
	require.NoError(t, err)

	in, err := Convert(doc)
	require.NoError(t, err)
	assert.Equal(t, "u2", in.UserID)
	assert.Equal(t, DefaultWeekStartDay, in.WeekStartDay)
	assert.Nil(t, in.Config)
	require.Len(t, in.Planners, 1)
	assert.Equal(t, 30, in.Planners[0].Duration)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("user_id: u\nplaners: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planers")
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte("  \n"))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	doc := &Document{
		WeekStartDay: ptrInt(9),
		Timezone:     "Nowhere/City",
		Templates: []TemplateDoc{
			{StartDay: "someday", StartTime: "25:00", Duration: 0},
		},
		Planners: []PlannerDoc{
			{ItemType: "chore", Duration: -5},
			{ID: "t", ItemType: "task", Deadline: ptrStr("next tuesday")},
		},
		PreviousCalendar: []EventDoc{{Start: "x", End: "2025-06-16T10:00:00Z"}},
		Config:           &ConfigDoc{BufferTimeMinutes: ptrInt(-1)},
	}

	errs := Validate(doc)
	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	want := []string{
		"user_id is required",
		"week_start_day must be 0..6",
		"timezone",
		"templates[0].start_day",
		"templates[0].start_time",
		"templates[0].duration",
		"planners[0].id is required",
		"planners[0].item_type",
		"planners[0].duration",
		"planners[t].deadline",
		"previous_calendar[0].id is required",
		"previous_calendar[0].start",
		"config.buffer_time_minutes",
	}
	require.Len(t, msgs, len(want), "%v", msgs)
	for i, w := range want {
		assert.Contains(t, msgs[i], w)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{"monday", time.Monday, false},
		{"Sat", time.Saturday, false},
		{" SUNDAY ", time.Sunday, false},
		{"3", time.Wednesday, false},
		{"0", time.Sunday, false},
		{"7", 0, true},
		{"funday", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseWeekday(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "week.yaml")
	require.NoError(t, os.WriteFile(good, []byte(sampleYAML), 0o644))
	in, err := Load(good)
	require.NoError(t, err)
	assert.Len(t, in.Planners, 4)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("planners:\n  - item_type: task\n"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id is required")
	assert.Contains(t, err.Error(), "planners[0].id is required")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExportResult(t *testing.T) {
	start := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)
	done := start.Add(-time.Hour)
	res := domain.SchedulingResult{
		Success: false,
		Events: []domain.SimpleEvent{
			{
				ID: "e1", Title: "Write", Start: start, End: start.Add(30 * time.Minute),
				ExtendedProps: domain.ExtendedProps{ItemType: domain.EventTypeCompleted, EventID: "t1", CompletedStartTime: &done, CompletedEndTime: &start},
			},
			{
				ID: "tpl", Title: "Sleep", Start: start, End: start.Add(8 * time.Hour),
				ExtendedProps: domain.ExtendedProps{ItemType: domain.EventTypeTemplate},
				Recurrence:    &domain.Recurrence{Freq: "weekly", DTStart: start, DurationMinutes: 480, Cron: "0 9 * * 1"},
			},
		},
		Failures: []domain.SchedulingFailure{{TaskID: "big", Reason: domain.FailureTooLarge, Details: "too long"}},
		Metrics:  domain.SchedulingMetrics{ScheduledTasks: 1, FailedTasks: 1, TotalDuration: 1500 * time.Millisecond},
	}

	doc := ExportResult(res)
	require.Len(t, doc.Events, 2)
	assert.Equal(t, "2025-06-16T09:00:00Z", doc.Events[0].Start)
	assert.Equal(t, "2025-06-16T08:00:00Z", *doc.Events[0].CompletedStartTime)
	assert.Equal(t, "0 9 * * 1", doc.Events[1].Recurrence.Cron)
	assert.Equal(t, "TOO_LARGE", doc.Failures[0].Reason)
	assert.Equal(t, int64(1500), doc.Metrics.TotalDurationMS)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"item_type":"completed"`)
	assert.NotContains(t, string(out), `"recurrence":null`)
}

func TestExportedEventsReadBack(t *testing.T) {
	start := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)
	ev := domain.SimpleEvent{
		ID: "e1", Title: "Write", Start: start, End: start.Add(45 * time.Minute), BackgroundColor: "#fff",
		ExtendedProps: domain.ExtendedProps{ItemType: domain.EventTypeGoal, EventID: "g-1", ParentID: "g"},
	}

	back, err := eventFromDoc(ExportEvent(ev), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, ev, back)
}
