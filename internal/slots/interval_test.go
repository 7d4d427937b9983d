package slots

import (
	"testing"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day0.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func iv(h1, m1, h2, m2 int) Interval {
	return Interval{Start: at(h1, m1), End: at(h2, m2)}
}

func TestMergeIntervals(t *testing.T) {
	tests := []struct {
		name string
		in   []Interval
		want []Interval
	}{
		{"empty", nil, nil},
		{"disjoint unsorted", []Interval{iv(10, 0, 11, 0), iv(8, 0, 9, 0)}, []Interval{iv(8, 0, 9, 0), iv(10, 0, 11, 0)}},
		{"overlapping", []Interval{iv(8, 0, 10, 0), iv(9, 0, 11, 0)}, []Interval{iv(8, 0, 11, 0)}},
		{"touching", []Interval{iv(8, 0, 9, 0), iv(9, 0, 10, 0)}, []Interval{iv(8, 0, 10, 0)}},
		{"contained", []Interval{iv(8, 0, 12, 0), iv(9, 0, 10, 0)}, []Interval{iv(8, 0, 12, 0)}},
		{"drops empty", []Interval{iv(8, 0, 8, 0), iv(9, 0, 10, 0)}, []Interval{iv(9, 0, 10, 0)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MergeIntervals(tc.in))
		})
	}
}

func TestMergeIntervals_DoesNotMutateInput(t *testing.T) {
	in := []Interval{iv(10, 0, 11, 0), iv(8, 0, 9, 0)}
	_ = MergeIntervals(in)
	assert.Equal(t, iv(10, 0, 11, 0), in[0])
}

func TestFreeGaps(t *testing.T) {
	rng := Interval{Start: day0, End: day0.Add(24 * time.Hour)}

	gaps := FreeGaps(rng, []Interval{iv(0, 0, 6, 0), iv(12, 0, 13, 0), iv(12, 30, 14, 0)})
	assert.Equal(t, []Interval{
		{Start: at(6, 0), End: at(12, 0)},
		{Start: at(14, 0), End: day0.Add(24 * time.Hour)},
	}, gaps)

	assert.Equal(t, []Interval{rng}, FreeGaps(rng, nil), "no occupancy leaves the whole range")

	outside := Interval{Start: day0.Add(-2 * time.Hour), End: day0.Add(time.Hour)}
	gaps = FreeGaps(rng, []Interval{outside})
	require.Len(t, gaps, 1)
	assert.Equal(t, at(1, 0), gaps[0].Start, "occupancy is clipped to the range")
}

func TestSplitSlot(t *testing.T) {
	slot := domain.NewTimeSlot(at(8, 0), at(12, 0))

	pieces := SplitSlot(slot, at(9, 0), at(10, 0), "e1", domain.EventTypeTask)
	require.Len(t, pieces, 3)
	assert.True(t, pieces[0].IsAvailable)
	assert.Equal(t, 60, pieces[0].DurationMinutes)
	assert.False(t, pieces[1].IsAvailable)
	assert.Equal(t, "e1", pieces[1].OccupyingEventID)
	assert.Equal(t, domain.EventTypeTask, pieces[1].OccupyingEventType)
	assert.True(t, pieces[2].IsAvailable)
	assert.Equal(t, 120, pieces[2].DurationMinutes)

	assert.Len(t, SplitSlot(slot, at(8, 0), at(9, 0), "e2", domain.EventTypeTask), 2, "flush start leaves no before piece")
	assert.Len(t, SplitSlot(slot, at(8, 0), at(12, 0), "e3", domain.EventTypeTask), 1, "exact fit leaves only the occupied piece")
}

func TestMergeAdjacentSlots(t *testing.T) {
	occupied := domain.NewTimeSlot(at(10, 0), at(11, 0))
	occupied.IsAvailable = false

	merged := MergeAdjacentSlots([]domain.TimeSlot{
		domain.NewTimeSlot(at(9, 0), at(10, 0)),
		domain.NewTimeSlot(at(8, 0), at(9, 0)),
		occupied,
		domain.NewTimeSlot(at(11, 0), at(12, 0)),
	})
	require.Len(t, merged, 3)
	assert.Equal(t, at(8, 0), merged[0].Start)
	assert.Equal(t, at(10, 0), merged[0].End)
	assert.Equal(t, 120, merged[0].DurationMinutes)
	assert.False(t, merged[1].IsAvailable)
}

func TestBuildAvailableSlots(t *testing.T) {
	rng := Interval{Start: day0, End: day0.Add(24 * time.Hour)}
	events := []domain.SimpleEvent{
		{ID: "sleep", Start: day0.Add(-2 * time.Hour), End: at(6, 0)},
		{ID: "lunch", Start: at(12, 0), End: at(13, 0)},
	}

	got := BuildAvailableSlots(rng, events)
	require.Len(t, got, 2)
	assert.Equal(t, at(6, 0), got[0].Start)
	assert.Equal(t, at(12, 0), got[0].End)
	assert.Equal(t, 360, got[0].DurationMinutes)
	assert.Equal(t, at(13, 0), got[1].Start)
	assert.True(t, got[1].IsAvailable)
}
