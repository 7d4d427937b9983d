package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/repository"
	"github.com/alexanderramin/timeweave/internal/timeutil"
)

const titleWidth = 40

// FormatEvents renders events grouped by calendar day in loc.
func FormatEvents(events []domain.SimpleEvent, loc *time.Location, now time.Time) string {
	if len(events) == 0 {
		return Dim("No events.") + "\n"
	}
	if loc == nil {
		loc = time.UTC
	}
	sorted := make([]domain.SimpleEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var b strings.Builder
	var tbl *Table
	day := ""
	flush := func() {
		if tbl != nil {
			b.WriteString(tbl.Render())
		}
	}
	for _, e := range sorted {
		start := e.Start.In(loc)
		if key := timeutil.DayKey(start); key != day {
			flush()
			if day != "" {
				b.WriteString("\n")
			}
			day = key
			b.WriteString(Bold(DayLabel(start, now)) + "\n")
			tbl = &Table{Headers: []string{"TIME", "TYPE", "TITLE", "ID"}}
		}
		tbl.AddRow(
			TimeRange(start, e.End.In(loc)),
			EventTypeBadge(e.ExtendedProps.ItemType),
			EventTypeStyle(e.ExtendedProps.ItemType).Render(Truncate(e.Title, titleWidth)),
			Dim(e.ID),
		)
	}
	flush()
	return b.String()
}

// FormatFailures lists the items that could not be placed.
func FormatFailures(failures []domain.SchedulingFailure) string {
	if len(failures) == 0 {
		return ""
	}
	tbl := &Table{Headers: []string{"ITEM", "REASON", "DETAILS"}}
	for _, f := range failures {
		item := f.TaskID
		if f.TaskTitle != "" {
			item = fmt.Sprintf("%s (%s)", f.TaskTitle, f.TaskID)
		}
		tbl.AddRow(item, FailurePill(f.Reason), Dim(f.Details))
	}
	return Header("Unscheduled") + "\n" + tbl.Render()
}

// FormatWarnings lists input repairs the engine applied.
func FormatWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(Header("Warnings") + "\n")
	for _, w := range warnings {
		b.WriteString(StyleYellow.Render("! ") + w + "\n")
	}
	return b.String()
}

// FormatSummary renders the counters line of a run, plus store changes when
// the run was persisted.
func FormatSummary(res domain.SchedulingResult, sync *repository.SyncResult) string {
	m := res.Metrics
	status := StyleGreen.Render("OK")
	if !res.Success {
		status = StyleRed.Render("INCOMPLETE")
	}
	lines := []string{
		fmt.Sprintf("%s  %d/%d scheduled  %s  %s",
			status, m.ScheduledTasks, m.TotalCandidates,
			Dim(fmt.Sprintf("%d weeks searched", m.WeeksSearched)),
			Dim(fmt.Sprintf("largest gap %s", FormatMinutes(m.LargestGapMinutes)))),
		Dim(fmt.Sprintf("%d frozen · %d template · %s",
			m.FrozenEvents, m.TemplateEvents, m.TotalDuration.Round(time.Millisecond))),
	}
	if sync != nil {
		lines = append(lines, Dim(fmt.Sprintf("store: +%d ~%d -%d =%d",
			sync.Created, sync.Updated, sync.Deleted, sync.Unchanged)))
	}
	return RenderBox("Generation", strings.Join(lines, "\n"))
}

// FormatResult renders a full generation result: the calendar, failures,
// warnings and a summary box.
func FormatResult(res domain.SchedulingResult, sync *repository.SyncResult, loc *time.Location, now time.Time) string {
	var b strings.Builder
	b.WriteString(FormatEvents(res.Events, loc, now))
	for _, section := range []string{FormatFailures(res.Failures), FormatWarnings(res.Metrics.Warnings)} {
		if section != "" {
			b.WriteString("\n" + section)
		}
	}
	b.WriteString("\n" + FormatSummary(res, sync) + "\n")
	return b.String()
}

// FormatGap renders the largest free stretch of a template week.
func FormatGap(minutes int, templates int) string {
	pct := float64(minutes) / float64(domain.MinutesPerWeek) * 100
	return fmt.Sprintf("%s %s %s\n",
		Bold("Largest free stretch:"),
		StyleGreen.Render(FormatMinutes(minutes)),
		Dim(fmt.Sprintf("(%.1f%% of the week, %d templates)", pct, templates)))
}

// FormatHistory renders stored generation runs, newest first.
func FormatHistory(runs []domain.GenerationRun, loc *time.Location) string {
	if len(runs) == 0 {
		return Dim("No generation runs recorded.") + "\n"
	}
	if loc == nil {
		loc = time.UTC
	}
	tbl := &Table{
		Headers: []string{"RAN AT", "STATUS", "SCHEDULED", "FAILED", "STORE", "TOOK"},
		Right:   map[int]bool{2: true, 3: true},
	}
	for _, r := range runs {
		status := StyleGreen.Render("ok")
		if !r.Success {
			status = StyleRed.Render("incomplete")
		}
		tbl.AddRow(
			r.RanAt.In(loc).Format("2006-01-02 15:04"),
			status,
			fmt.Sprintf("%d/%d", r.Scheduled, r.Candidates),
			fmt.Sprintf("%d", r.Failed),
			Dim(fmt.Sprintf("+%d ~%d -%d", r.Created, r.Updated, r.Deleted)),
			Dim(r.Duration.Round(time.Millisecond).String()),
		)
	}
	return tbl.Render()
}
