package domain

import "time"

// CalendarGenerationInput is everything one generation run reads.
type CalendarGenerationInput struct {
	UserID           string
	WeekStartDay     int // 0=Sunday .. 6=Saturday
	Templates        []EventTemplate
	Planners         []PlannerItem
	PreviousCalendar []SimpleEvent
	Config           *ConfigOverrides
}

// WeekStart returns WeekStartDay as a time.Weekday.
func (in *CalendarGenerationInput) WeekStart() time.Weekday {
	return time.Weekday(in.WeekStartDay)
}

type SchedulingResult struct {
	Success  bool
	Events   []SimpleEvent
	Failures []SchedulingFailure
	Metrics  SchedulingMetrics
}

// EventsFor returns the events whose ExtendedProps.EventID matches id.
func (r *SchedulingResult) EventsFor(id string) []SimpleEvent {
	var out []SimpleEvent
	for _, e := range r.Events {
		if e.ExtendedProps.EventID == id {
			out = append(out, e)
		}
	}
	return out
}

// FailureFor returns the first failure recorded for id.
func (r *SchedulingResult) FailureFor(id string) (SchedulingFailure, bool) {
	for _, f := range r.Failures {
		if f.TaskID == id {
			return f, true
		}
	}
	return SchedulingFailure{}, false
}
