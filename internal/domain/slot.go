package domain

import "time"

// TimeSlot is a run-scoped piece of a day, either free or occupied.
type TimeSlot struct {
	Start              time.Time
	End                time.Time
	DurationMinutes    int
	IsAvailable        bool
	OccupyingEventID   string
	OccupyingEventType EventType
}

// NewTimeSlot builds a free slot over [start, end).
func NewTimeSlot(start, end time.Time) TimeSlot {
	return TimeSlot{
		Start:           start,
		End:             end,
		DurationMinutes: int(end.Sub(start) / time.Minute),
		IsAvailable:     true,
	}
}

// Contains reports whether [start, end) lies within the slot.
func (s TimeSlot) Contains(start, end time.Time) bool {
	return !start.Before(s.Start) && !end.After(s.End)
}
