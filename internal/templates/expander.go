// Package templates expands weekly recurring templates into blocking events:
// one recurring event per template for display, and single-week
// materializations that only feed slot occupancy.
package templates

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/ids"
	"github.com/alexanderramin/timeweave/internal/slots"
	"github.com/alexanderramin/timeweave/internal/timeutil"
	"github.com/robfig/cron/v3"
)

const recurrenceWeekly = "weekly"

// CronSpec renders the standard five-field cron expression that fires at
// every start of the template.
func CronSpec(t domain.EventTemplate) (string, error) {
	h, m, err := timeutil.ParseClock(t.StartTime)
	if err != nil {
		return "", err
	}
	if t.StartDay < time.Sunday || t.StartDay > time.Saturday {
		return "", fmt.Errorf("invalid start day %d", t.StartDay)
	}
	return fmt.Sprintf("%d %d * * %d", m, h, int(t.StartDay)), nil
}

type Expander struct {
	weekStart time.Weekday
	loc       *time.Location
}

func NewExpander(weekStart time.Weekday, loc *time.Location) *Expander {
	if loc == nil {
		loc = time.UTC
	}
	return &Expander{weekStart: weekStart, loc: loc}
}

func (e *Expander) schedule(t domain.EventTemplate) (cron.Schedule, string, error) {
	spec, err := CronSpec(t)
	if err != nil {
		return nil, "", err
	}
	if t.Duration <= 0 {
		return nil, "", fmt.Errorf("template duration must be positive, got %d", t.Duration)
	}
	sched, err := cron.ParseStandard(fmt.Sprintf("CRON_TZ=%s %s", e.loc.String(), spec))
	if err != nil {
		return nil, "", fmt.Errorf("parsing template schedule %q: %w", spec, err)
	}
	return sched, spec, nil
}

// firstAtOrAfter returns the first activation at or after t.
func firstAtOrAfter(sched cron.Schedule, t time.Time) time.Time {
	return sched.Next(t.Add(-time.Nanosecond))
}

// RecurringEvents returns one weekly recurring event per template, anchored
// at the first occurrence at or after anchor.
func (e *Expander) RecurringEvents(tpls []domain.EventTemplate, anchor time.Time) ([]domain.SimpleEvent, error) {
	out := make([]domain.SimpleEvent, 0, len(tpls))
	for _, t := range tpls {
		sched, spec, err := e.schedule(t)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", ids.TemplateKey(t), err)
		}
		first := firstAtOrAfter(sched, anchor.In(e.loc))
		key := ids.TemplateKey(t)
		ev := e.event(t, ids.Template(key), first)
		ev.Recurrence = &domain.Recurrence{
			Freq:            recurrenceWeekly,
			DTStart:         first,
			DurationMinutes: t.Duration,
			Cron:            spec,
		}
		out = append(out, ev)
	}
	return out, nil
}

// Mask returns the occurrences of t that intersect [from, to), clipped to
// the window. Occurrences that began before from and spill into the window
// are included, so cross-midnight and cross-week templates mask correctly.
func (e *Expander) Mask(t domain.EventTemplate, from, to time.Time) ([]slots.Interval, error) {
	sched, _, err := e.schedule(t)
	if err != nil {
		return nil, err
	}
	window := slots.Interval{Start: from.In(e.loc), End: to.In(e.loc)}
	lookback := window.Start.Add(-time.Duration(t.Duration) * time.Minute)

	var out []slots.Interval
	for occ := firstAtOrAfter(sched, lookback); occ.Before(window.End); occ = sched.Next(occ) {
		if occ.IsZero() {
			break
		}
		iv := slots.Interval{Start: occ, End: timeutil.AddMinutes(occ, t.Duration)}
		if c, ok := iv.Clip(window); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// WeekEvents materializes every template for the seven days starting at
// weekStart as plain, non-recurring events. These are never persisted.
func (e *Expander) WeekEvents(tpls []domain.EventTemplate, weekStart time.Time) ([]domain.SimpleEvent, error) {
	from := weekStart.In(e.loc)
	to := timeutil.AddDays(from, 7)
	return e.WindowEvents(tpls, from, to)
}

// WindowEvents materializes every template over an arbitrary window.
func (e *Expander) WindowEvents(tpls []domain.EventTemplate, from, to time.Time) ([]domain.SimpleEvent, error) {
	var out []domain.SimpleEvent
	for _, t := range tpls {
		mask, err := e.Mask(t, from, to)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", ids.TemplateKey(t), err)
		}
		key := ids.TemplateKey(t)
		for _, iv := range mask {
			ev := e.event(t, ids.Occurrence(key, iv.Start), iv.Start)
			ev.End = iv.End
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Start.Before(out[b].Start) })
	return out, nil
}

func (e *Expander) event(t domain.EventTemplate, id string, start time.Time) domain.SimpleEvent {
	return domain.SimpleEvent{
		ID:              id,
		Title:           domain.CoalesceStr(t.Title, "Template"),
		Start:           start,
		End:             timeutil.AddMinutes(start, t.Duration),
		BackgroundColor: domain.CoalesceStr(t.Color, domain.DefaultColors[domain.EventTypeTemplate]),
		ExtendedProps: domain.ExtendedProps{
			ItemType: domain.EventTypeTemplate,
			EventID:  ids.TemplateKey(t),
		},
	}
}
