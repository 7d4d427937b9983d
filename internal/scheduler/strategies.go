package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/timeutil"
)

// Earliest prefers sooner slots, decaying linearly to 0 at the search horizon.
type Earliest struct{}

func (Earliest) Name() string { return "earliest" }

func (Earliest) Score(_ domain.PlannerItem, slot domain.TimeSlot, ctx SchedulingContext) float64 {
	horizon := float64(ctx.MaxDaysToSearch)
	if horizon <= 0 {
		horizon = float64(domain.DefaultMaxDaysAhead)
	}
	days := math.Max(0, timeutil.DaysBetween(ctx.Now, slot.Start))
	return math.Max(0, 1-days/horizon)
}

// Continuity prefers slots that start shortly after the previous leaf of the
// same goal chain. Items without a predecessor score a flat 0.5.
type Continuity struct{}

func (Continuity) Name() string { return "continuity" }

func (Continuity) Score(_ domain.PlannerItem, slot domain.TimeSlot, ctx SchedulingContext) float64 {
	if ctx.PredecessorEnd == nil {
		return 0.5
	}
	gap := slot.Start.Sub(*ctx.PredecessorEnd).Hours()
	if gap < 0 {
		return 0
	}
	return 1 / (1 + gap)
}

// Energy prefers slots that start inside a daily peak window, decaying over
// six hours outside it.
type Energy struct {
	peakStart int
	peakEnd   int
}

const energyFalloffMinutes = 6 * 60

// NewEnergy parses the "HH:MM" bounds of the peak window.
func NewEnergy(start, end string) (Energy, error) {
	s, err := timeutil.ClockMinutes(start)
	if err != nil {
		return Energy{}, fmt.Errorf("energy peak start: %w", err)
	}
	e, err := timeutil.ClockMinutes(end)
	if err != nil {
		return Energy{}, fmt.Errorf("energy peak end: %w", err)
	}
	if e <= s {
		return Energy{}, fmt.Errorf("energy peak %s-%s is empty", start, end)
	}
	return Energy{peakStart: s, peakEnd: e}, nil
}

func (Energy) Name() string { return "energy" }

func (en Energy) Score(_ domain.PlannerItem, slot domain.TimeSlot, ctx SchedulingContext) float64 {
	loc := ctx.Location
	if loc == nil {
		loc = time.UTC
	}
	m := timeutil.MinuteOfDay(slot.Start.In(loc))
	var dist int
	switch {
	case m < en.peakStart:
		dist = en.peakStart - m
	case m >= en.peakEnd:
		dist = m - en.peakEnd + 1
	default:
		return 1
	}
	return math.Max(0, 1-float64(dist)/energyFalloffMinutes)
}
