package scheduler

import (
	"math"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/timeutil"
)

const (
	// CriticalThreshold is the share of the time to the deadline at which
	// slot urgency falls off most steeply.
	CriticalThreshold = 0.7
	urgencySteepness  = 4.0

	noDeadlineHorizonDays = 90.0
	noDeadlineFloor       = 0.3

	lateCeiling       = 0.2
	lateGraceMinutes  = 24 * 60
	onTimeWeight      = 0.7
	preferenceWeight  = 0.3
	earlyRatio        = 0.3
	earlyPreferenceLo = 0.4

	// queueUrgencyFloor is the urgency of a task without a deadline.
	queueUrgencyFloor = 0.1
)

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Urgency scores slots by deadline pressure. Any on-time slot outscores
// every late one; late slots stay eligible for best-effort placement.
type Urgency struct{}

func (Urgency) Name() string { return "urgency" }

func (Urgency) Score(task domain.PlannerItem, slot domain.TimeSlot, ctx SchedulingContext) float64 {
	if task.Deadline == nil {
		days := math.Min(noDeadlineHorizonDays, math.Max(0, timeutil.DaysBetween(ctx.Now, slot.Start)))
		return 1 - (1-noDeadlineFloor)*days/noDeadlineHorizonDays
	}

	deadline := *task.Deadline
	if slot.Start.After(deadline) {
		over := slot.Start.Sub(deadline).Minutes()
		return lateCeiling * math.Max(0, 1-over/lateGraceMinutes)
	}

	toDeadline := deadline.Sub(ctx.Now).Minutes()
	toSlot := math.Max(0, slot.Start.Sub(ctx.Now).Minutes())
	ratio := 0.0
	if toDeadline > 0 {
		ratio = math.Min(1, toSlot/toDeadline)
	}

	urgency := 1 - logistic(urgencySteepness*(ratio-CriticalThreshold))
	// Steep preference for the earliest slots, mild after earlyRatio.
	pref := 1 - 2*ratio
	if ratio >= earlyRatio {
		pref = earlyPreferenceLo * (1 - 0.5*(ratio-earlyRatio))
	}
	return timeutil.Clamp01(onTimeWeight*urgency + preferenceWeight*pref)
}

// CalculateTaskUrgency ranks a candidate for the queue, not for a slot:
// priority times a sigmoid of the deadline headroom measured in units of the
// total estimated work. Tighter headroom means higher urgency.
func CalculateTaskUrgency(task domain.PlannerItem, now time.Time, totalEstimatedMinutes int) float64 {
	priority := task.EffectivePriority()
	if task.Deadline == nil {
		return priority * queueUrgencyFloor
	}
	total := float64(totalEstimatedMinutes)
	if total < 1 {
		total = 1
	}
	x := task.Deadline.Sub(now).Minutes() / total
	return priority * (queueUrgencyFloor + (1-queueUrgencyFloor)*(1-logistic(urgencySteepness*(x-1))))
}
