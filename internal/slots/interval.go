package slots

import (
	"sort"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Minutes returns the interval length in whole minutes.
func (i Interval) Minutes() int {
	return int(i.End.Sub(i.Start) / time.Minute)
}

// Empty reports whether the interval has no extent.
func (i Interval) Empty() bool {
	return !i.End.After(i.Start)
}

// Overlaps reports whether two half-open intervals intersect.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Clip returns the part of i inside rng, and false when nothing remains.
func (i Interval) Clip(rng Interval) (Interval, bool) {
	out := i
	if out.Start.Before(rng.Start) {
		out.Start = rng.Start
	}
	if out.End.After(rng.End) {
		out.End = rng.End
	}
	if out.Empty() {
		return Interval{}, false
	}
	return out, true
}

// MergeIntervals sorts by start and folds every interval whose start is at
// or before the running end into it. Touching intervals merge. The input is
// not modified.
func MergeIntervals(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}
	sorted := make([]Interval, 0, len(in))
	for _, iv := range in {
		if !iv.Empty() {
			sorted = append(sorted, iv)
		}
	}
	sort.SliceStable(sorted, func(a, b int) bool {
		if !sorted[a].Start.Equal(sorted[b].Start) {
			return sorted[a].Start.Before(sorted[b].Start)
		}
		return sorted[a].End.Before(sorted[b].End)
	})

	var merged []Interval
	for _, iv := range sorted {
		if n := len(merged); n > 0 && !iv.Start.After(merged[n-1].End) {
			if iv.End.After(merged[n-1].End) {
				merged[n-1].End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// FreeGaps inverts the occupied intervals against rng.
func FreeGaps(rng Interval, occupied []Interval) []Interval {
	if rng.Empty() {
		return nil
	}
	clipped := make([]Interval, 0, len(occupied))
	for _, iv := range occupied {
		if c, ok := iv.Clip(rng); ok {
			clipped = append(clipped, c)
		}
	}

	var gaps []Interval
	cursor := rng.Start
	for _, iv := range MergeIntervals(clipped) {
		if iv.Start.After(cursor) {
			gaps = append(gaps, Interval{Start: cursor, End: iv.Start})
		}
		if iv.End.After(cursor) {
			cursor = iv.End
		}
	}
	if rng.End.After(cursor) {
		gaps = append(gaps, Interval{Start: cursor, End: rng.End})
	}
	return gaps
}

// EventIntervals projects events onto their time ranges.
func EventIntervals(events []domain.SimpleEvent) []Interval {
	out := make([]Interval, 0, len(events))
	for _, e := range events {
		out = append(out, Interval{Start: e.Start, End: e.End})
	}
	return out
}

// MergeAdjacentSlots joins available slots where one ends exactly where the
// next begins. Occupied slots are never merged.
func MergeAdjacentSlots(in []domain.TimeSlot) []domain.TimeSlot {
	if len(in) == 0 {
		return nil
	}
	sorted := make([]domain.TimeSlot, len(in))
	copy(sorted, in)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Start.Before(sorted[b].Start)
	})

	out := []domain.TimeSlot{sorted[0]}
	for _, s := range sorted[1:] {
		last := &out[len(out)-1]
		if last.IsAvailable && s.IsAvailable && last.End.Equal(s.Start) {
			*last = domain.NewTimeSlot(last.Start, s.End)
			continue
		}
		out = append(out, s)
	}
	return out
}

// SplitSlot carves [start, end) out of slot and returns the up-to-three
// pieces in order: free before, occupied, free after. The caller must ensure
// slot contains the range.
func SplitSlot(slot domain.TimeSlot, start, end time.Time, eventID string, eventType domain.EventType) []domain.TimeSlot {
	pieces := make([]domain.TimeSlot, 0, 3)
	if start.After(slot.Start) {
		pieces = append(pieces, domain.NewTimeSlot(slot.Start, start))
	}
	occupied := domain.NewTimeSlot(start, end)
	occupied.IsAvailable = false
	occupied.OccupyingEventID = eventID
	occupied.OccupyingEventType = eventType
	pieces = append(pieces, occupied)
	if slot.End.After(end) {
		pieces = append(pieces, domain.NewTimeSlot(end, slot.End))
	}
	return pieces
}

// BuildAvailableSlots returns the free slots of rng given the occupying events.
func BuildAvailableSlots(rng Interval, events []domain.SimpleEvent) []domain.TimeSlot {
	gaps := FreeGaps(rng, EventIntervals(events))
	slots := make([]domain.TimeSlot, 0, len(gaps))
	for _, g := range gaps {
		slots = append(slots, domain.NewTimeSlot(g.Start, g.End))
	}
	return MergeAdjacentSlots(slots)
}
