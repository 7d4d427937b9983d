package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/repository"
	"github.com/stretchr/testify/assert"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

var now = time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC)

func event(id, title string, typ domain.EventType, start time.Time, minutes int) domain.SimpleEvent {
	return domain.SimpleEvent{
		ID:            id,
		Title:         title,
		Start:         start,
		End:           start.Add(time.Duration(minutes) * time.Minute),
		ExtendedProps: domain.ExtendedProps{ItemType: typ, EventID: id},
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0m"},
		{-5, "0m"},
		{45, "45m"},
		{60, "1h"},
		{90, "1h 30m"},
		{1440, "1d"},
		{1530, "1d 1h 30m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMinutes(tt.in), "minutes=%d", tt.in)
	}
}

func TestTimeRange_MarksNextDay(t *testing.T) {
	start := time.Date(2025, 6, 16, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "23:00–01:00+1", TimeRange(start, start.Add(2*time.Hour)))
	assert.Equal(t, "23:00–23:30", TimeRange(start, start.Add(30*time.Minute)))
}

func TestDayLabel(t *testing.T) {
	assert.Equal(t, "Today · Mon 16 Jun", DayLabel(now.Add(3*time.Hour), now))
	assert.Equal(t, "Tue 17 Jun", DayLabel(now.Add(24*time.Hour), now))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "…", Truncate("abc", 1))
}

func TestTable_AlignsStyledCells(t *testing.T) {
	tbl := &Table{Headers: []string{"A", "B"}, Right: map[int]bool{1: true}}
	tbl.AddRow(StyleGreen.Render("long cell"), "1")
	tbl.AddRow("x", "100")
	lines := strings.Split(strings.TrimRight(stripANSI(tbl.Render()), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "long cell    1", lines[2])
	assert.Equal(t, "x          100", lines[3])
}

func TestTable_EmptyHeaders(t *testing.T) {
	assert.Empty(t, (&Table{}).Render())
}

func TestFormatEvents_GroupsByDay(t *testing.T) {
	events := []domain.SimpleEvent{
		event("t2", "Write report", domain.EventTypeTask, now.Add(26*time.Hour), 60),
		event("t1", "Review PR", domain.EventTypeTask, now.Add(time.Hour), 30),
		event("tpl", "Lunch", domain.EventTypeTemplate, now.Add(4*time.Hour), 60),
	}
	out := stripANSI(FormatEvents(events, time.UTC, now))

	assert.Contains(t, out, "Today · Mon 16 Jun")
	assert.Contains(t, out, "Tue 17 Jun")
	assert.Contains(t, out, "09:00–09:30")
	assert.Contains(t, out, "↻ template")
	assert.Less(t, strings.Index(out, "Review PR"), strings.Index(out, "Lunch"))
	assert.Less(t, strings.Index(out, "Lunch"), strings.Index(out, "Write report"))
}

func TestFormatEvents_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	out := stripANSI(FormatEvents([]domain.SimpleEvent{
		event("t1", "Call", domain.EventTypePlan, now, 60),
	}, loc, now))
	assert.Contains(t, out, "10:00–11:00")
}

func TestFormatEvents_Empty(t *testing.T) {
	assert.Equal(t, "No events.\n", stripANSI(FormatEvents(nil, time.UTC, now)))
}

func TestFormatResult_Sections(t *testing.T) {
	res := domain.SchedulingResult{
		Success: false,
		Events:  []domain.SimpleEvent{event("t1", "Review PR", domain.EventTypeTask, now, 30)},
		Failures: []domain.SchedulingFailure{
			{TaskID: "big", TaskTitle: "Thesis", Reason: domain.FailureTooLarge, Details: "needs 600 minutes"},
		},
		Metrics: domain.SchedulingMetrics{
			TotalCandidates:   2,
			ScheduledTasks:    1,
			FailedTasks:       1,
			WeeksSearched:     3,
			LargestGapMinutes: 480,
			Warnings:          []string{"orphan x scheduled as task"},
		},
	}
	sync := &repository.SyncResult{Created: 1, Deleted: 2}
	out := stripANSI(FormatResult(res, sync, time.UTC, now))

	assert.Contains(t, out, "UNSCHEDULED")
	assert.Contains(t, out, "Thesis (big)")
	assert.Contains(t, out, "TOO_LARGE")
	assert.Contains(t, out, "WARNINGS")
	assert.Contains(t, out, "orphan x scheduled as task")
	assert.Contains(t, out, "INCOMPLETE")
	assert.Contains(t, out, "1/2 scheduled")
	assert.Contains(t, out, "largest gap 8h")
	assert.Contains(t, out, "store: +1 ~0 -2 =0")
}

func TestFormatResult_NoSyncLine(t *testing.T) {
	out := stripANSI(FormatResult(domain.SchedulingResult{Success: true}, nil, time.UTC, now))
	assert.Contains(t, out, "OK")
	assert.NotContains(t, out, "store:")
	assert.NotContains(t, out, "UNSCHEDULED")
}

func TestFormatGap(t *testing.T) {
	out := stripANSI(FormatGap(5040, 3))
	assert.Contains(t, out, "3d 12h")
	assert.Contains(t, out, "50.0% of the week, 3 templates")
}

func TestFormatHistory(t *testing.T) {
	runs := []domain.GenerationRun{{
		RanAt: now, Success: true, Candidates: 4, Scheduled: 4,
		Created: 3, Updated: 1, Duration: 12 * time.Millisecond,
	}}
	out := stripANSI(FormatHistory(runs, time.UTC))
	assert.Contains(t, out, "2025-06-16 08:00")
	assert.Contains(t, out, "4/4")
	assert.Contains(t, out, "+3 ~1 -0")
	assert.Contains(t, out, "12ms")

	assert.Equal(t, "No generation runs recorded.\n", stripANSI(FormatHistory(nil, time.UTC)))
}

func TestFailurePill_RetryableStyled(t *testing.T) {
	assert.Equal(t, "NO_SLOTS", stripANSI(FailurePill(domain.FailureNoSlots)))
	assert.Equal(t, "TOO_LARGE", stripANSI(FailurePill(domain.FailureTooLarge)))
}
