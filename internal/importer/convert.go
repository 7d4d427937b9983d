package importer

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/timeutil"
)

// DefaultWeekStartDay is used when a document omits week_start_day.
const DefaultWeekStartDay = int(time.Monday)

// Convert maps a validated Document onto the engine input.
// Call Validate first; Convert stops at the first unparsable value.
func Convert(doc *Document) (domain.CalendarGenerationInput, error) {
	loc, err := location(doc)
	if err != nil {
		return domain.CalendarGenerationInput{}, err
	}

	in := domain.CalendarGenerationInput{
		UserID:       doc.UserID,
		WeekStartDay: DefaultWeekStartDay,
	}
	if doc.WeekStartDay != nil {
		in.WeekStartDay = *doc.WeekStartDay
	}

	for i, t := range doc.Templates {
		day, err := ParseWeekday(t.StartDay)
		if err != nil {
			return domain.CalendarGenerationInput{}, fmt.Errorf("templates[%d]: %w", i, err)
		}
		in.Templates = append(in.Templates, domain.EventTemplate{
			ID:        t.ID,
			Title:     t.Title,
			StartDay:  day,
			StartTime: t.StartTime,
			Duration:  t.Duration,
			Color:     t.Color,
		})
	}

	for _, p := range doc.Planners {
		item := domain.PlannerItem{
			ID:         p.ID,
			Title:      p.Title,
			ItemType:   domain.ItemType(p.ItemType),
			ParentID:   nonEmpty(p.ParentID),
			Duration:   p.Duration,
			Dependency: nonEmpty(p.Dependency),
			IsReady:    p.IsReady,
			Color:      p.Color,
		}
		if p.Priority != nil {
			item.Priority = *p.Priority
		}
		var errs []error
		item.Deadline, err = optionalInstant(p.Deadline, loc)
		errs = append(errs, err)
		item.Starts, err = optionalInstant(p.Starts, loc)
		errs = append(errs, err)
		item.CompletedStartTime, err = optionalInstant(p.CompletedStartTime, loc)
		errs = append(errs, err)
		item.CompletedEndTime, err = optionalInstant(p.CompletedEndTime, loc)
		errs = append(errs, err)
		if err := errors.Join(errs...); err != nil {
			return domain.CalendarGenerationInput{}, fmt.Errorf("planner %s: %w", p.ID, err)
		}
		in.Planners = append(in.Planners, item)
	}

	for _, e := range doc.PreviousCalendar {
		ev, err := eventFromDoc(e, loc)
		if err != nil {
			return domain.CalendarGenerationInput{}, fmt.Errorf("previous event %s: %w", e.ID, err)
		}
		in.PreviousCalendar = append(in.PreviousCalendar, ev)
	}

	in.Config = overrides(doc)
	return in, nil
}

// Load reads, validates and converts an input file. Validation problems
// are joined into one error.
func Load(path string) (domain.CalendarGenerationInput, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return domain.CalendarGenerationInput{}, err
	}
	if errs := Validate(doc); len(errs) > 0 {
		return domain.CalendarGenerationInput{}, fmt.Errorf("invalid input document %s: %w", path, errors.Join(errs...))
	}
	return Convert(doc)
}

func eventFromDoc(e EventDoc, loc *time.Location) (domain.SimpleEvent, error) {
	start, err := timeutil.ParseISO(e.Start, loc)
	if err != nil {
		return domain.SimpleEvent{}, err
	}
	end, err := timeutil.ParseISO(e.End, loc)
	if err != nil {
		return domain.SimpleEvent{}, err
	}
	cs, err := optionalInstant(e.CompletedStartTime, loc)
	if err != nil {
		return domain.SimpleEvent{}, err
	}
	ce, err := optionalInstant(e.CompletedEndTime, loc)
	if err != nil {
		return domain.SimpleEvent{}, err
	}
	ev := domain.SimpleEvent{
		ID:              e.ID,
		Title:           e.Title,
		Start:           start,
		End:             end,
		BackgroundColor: e.BackgroundColor,
		ExtendedProps: domain.ExtendedProps{
			ItemType:           domain.EventType(e.ItemType),
			EventID:            e.EventID,
			ParentID:           e.ParentID,
			CompletedStartTime: cs,
			CompletedEndTime:   ce,
		},
	}
	if r := e.Recurrence; r != nil {
		dt, err := timeutil.ParseISO(r.DTStart, loc)
		if err != nil {
			return domain.SimpleEvent{}, fmt.Errorf("recurrence: %w", err)
		}
		ev.Recurrence = &domain.Recurrence{Freq: r.Freq, DTStart: dt, DurationMinutes: r.DurationMinutes, Cron: r.Cron}
	}
	return ev, nil
}

func overrides(doc *Document) *domain.ConfigOverrides {
	c := doc.Config
	if c == nil && doc.Timezone == "" {
		return nil
	}
	o := &domain.ConfigOverrides{}
	if c != nil {
		o.MaxDaysAhead = c.MaxDaysAhead
		o.MaxWeeksToSearch = c.MaxWeeksToSearch
		o.MaxIterationsPerTask = c.MaxIterationsPerTask
		o.EnableLogging = c.EnableLogging
		o.BufferTimeMinutes = c.BufferTimeMinutes
		o.Timezone = c.Timezone
		if w := c.StrategyWeights; w != nil {
			o.Urgency = w.Urgency
			o.Dependency = w.Dependency
			o.Energy = w.Energy
			o.Earliest = w.Earliest
		}
	}
	if doc.Timezone != "" {
		tz := doc.Timezone
		o.Timezone = &tz
	}
	return o
}

func optionalInstant(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := timeutil.ParseISO(*s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
