package domain

import "time"

type ExtendedProps struct {
	ItemType           EventType
	EventID            string
	ParentID           string
	CompletedStartTime *time.Time
	CompletedEndTime   *time.Time
}

// Recurrence describes a weekly repeating event. Cron holds the standard
// five-field expression that resolves each occurrence start.
type Recurrence struct {
	Freq            string
	DTStart         time.Time
	DurationMinutes int
	Cron            string
}

// SimpleEvent is both the engine output and, once its end has passed, a
// frozen input on the next run.
type SimpleEvent struct {
	ID              string
	Title           string
	Start           time.Time
	End             time.Time
	BackgroundColor string
	ExtendedProps   ExtendedProps
	Recurrence      *Recurrence
}

// DurationMinutes returns the event length in whole minutes.
func (e *SimpleEvent) DurationMinutes() int {
	return int(e.End.Sub(e.Start) / time.Minute)
}

// Overlaps reports whether two half-open event intervals intersect.
func (e *SimpleEvent) Overlaps(o *SimpleEvent) bool {
	return e.Start.Before(o.End) && o.Start.Before(e.End)
}

// IsTemplate reports whether the event was produced by template expansion.
func (e *SimpleEvent) IsTemplate() bool {
	return e.ExtendedProps.ItemType == EventTypeTemplate
}

// IsFixed reports whether the event was not placed by the scheduler.
func (e *SimpleEvent) IsFixed() bool {
	switch e.ExtendedProps.ItemType {
	case EventTypeTask, EventTypeGoal:
		return false
	}
	return true
}
