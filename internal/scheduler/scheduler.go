// Package scheduler places single tasks into free time. It finds every
// fitting slot, scores each placement with a Strategy and reserves the best.
package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/ids"
	"github.com/alexanderramin/timeweave/internal/slots"
	"github.com/alexanderramin/timeweave/internal/timeutil"
)

type Options struct {
	Now             time.Time
	MaxDaysToSearch int
	Location        *time.Location
	// Clock measures scheduling latency. Defaults to time.Now.
	Clock func() time.Time
}

// ScheduleOptions bound one placement. A zero After means Now; a zero Until
// means MaxDaysToSearch days from After.
type ScheduleOptions struct {
	After          time.Time
	Until          time.Time
	PredecessorEnd *time.Time
}

// Outcome is the result of one placement attempt: exactly one of Event and
// Failure is set.
type Outcome struct {
	Event   *domain.SimpleEvent
	Failure *domain.SchedulingFailure
	Score   float64
}

func (o Outcome) Scheduled() bool { return o.Event != nil }

type Stats struct {
	Attempts     int
	Scheduled    int
	Failed       int
	TotalLatency time.Duration
}

// AverageLatency is the mean wall time per attempt.
func (s Stats) AverageLatency() time.Duration {
	if s.Attempts == 0 {
		return 0
	}
	return s.TotalLatency / time.Duration(s.Attempts)
}

type Scheduler struct {
	slots    *slots.Manager
	strategy Strategy
	opts     Options
	stats    Stats
}

func New(mgr *slots.Manager, strategy Strategy, opts Options) *Scheduler {
	if opts.MaxDaysToSearch <= 0 {
		opts.MaxDaysToSearch = slots.DefaultMaxDaysToSearch
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Scheduler{slots: mgr, strategy: strategy, opts: opts}
}

// ScheduleTask places task in the best-scoring fitting slot and reserves it.
// Ties go to the earliest start.
func (s *Scheduler) ScheduleTask(task domain.PlannerItem, opts ScheduleOptions) Outcome {
	began := s.opts.Clock()
	out := s.schedule(task, opts)
	s.stats.Attempts++
	s.stats.TotalLatency += s.opts.Clock().Sub(began)
	if out.Scheduled() {
		s.stats.Scheduled++
	} else {
		s.stats.Failed++
	}
	return out
}

func (s *Scheduler) schedule(task domain.PlannerItem, opts ScheduleOptions) Outcome {
	if task.Duration <= 0 {
		return fail(task, domain.FailureInvalidTask, fmt.Sprintf("duration must be positive, got %d", task.Duration))
	}

	after := opts.After
	if after.IsZero() || after.Before(s.opts.Now) {
		after = s.opts.Now
	}
	var fitting []domain.TimeSlot
	if opts.Until.IsZero() {
		fitting = s.slots.FindAllFittingSlots(task.Duration, after, s.opts.MaxDaysToSearch)
	} else {
		fitting = s.slots.FindFittingSlotsBetween(task.Duration, after, opts.Until)
	}
	if len(fitting) == 0 {
		return fail(task, domain.FailureNoSlots, fmt.Sprintf("no free %d-minute slot after %s", task.Duration, timeutil.FormatISO(after)))
	}

	ctx := SchedulingContext{
		Now:             s.opts.Now,
		MaxDaysToSearch: s.opts.MaxDaysToSearch,
		PredecessorEnd:  opts.PredecessorEnd,
		Location:        s.opts.Location,
	}
	buffer := s.slots.BufferMinutes()

	best := -1
	var bestScore float64
	var bestStart time.Time
	for i, slot := range fitting {
		start := timeutil.AddMinutes(slot.Start, buffer)
		placement := domain.NewTimeSlot(start, timeutil.AddMinutes(start, task.Duration))
		score := s.strategy.Score(task, placement, ctx)
		if best < 0 || score > bestScore {
			best, bestScore, bestStart = i, score, start
		}
	}

	end := timeutil.AddMinutes(bestStart, task.Duration)
	typ := eventType(task)
	id := ids.Scheduled(task.ID)
	if !s.slots.ReserveSlot(bestStart, end, id, typ) {
		return fail(task, domain.FailureNoSlots, fmt.Sprintf("could not reserve %s", timeutil.FormatISO(bestStart)))
	}

	ev := domain.SimpleEvent{
		ID:              id,
		Title:           task.Title,
		Start:           bestStart,
		End:             end,
		BackgroundColor: task.ColorOr(domain.DefaultColors[typ]),
		ExtendedProps: domain.ExtendedProps{
			ItemType: typ,
			EventID:  task.ID,
			ParentID: task.ParentIDValue(),
		},
	}
	return Outcome{Event: &ev, Score: bestScore}
}

// ScheduleTasks places tasks one after another with the same bounds.
func (s *Scheduler) ScheduleTasks(tasks []domain.PlannerItem, opts ScheduleOptions) ([]domain.SimpleEvent, []domain.SchedulingFailure) {
	var events []domain.SimpleEvent
	var failures []domain.SchedulingFailure
	for _, t := range tasks {
		out := s.ScheduleTask(t, opts)
		if out.Scheduled() {
			events = append(events, *out.Event)
			continue
		}
		failures = append(failures, *out.Failure)
	}
	return events, failures
}

func (s *Scheduler) Stats() Stats {
	return s.stats
}

// eventType tags goal roots and goal leaves as goal events, anything else as a task.
func eventType(task domain.PlannerItem) domain.EventType {
	if task.ItemType == domain.ItemGoal || task.ParentID != nil {
		return domain.EventTypeGoal
	}
	return domain.EventTypeTask
}

func fail(task domain.PlannerItem, reason domain.FailureReason, details string) Outcome {
	return Outcome{Failure: &domain.SchedulingFailure{
		TaskID:    task.ID,
		TaskTitle: task.Title,
		Reason:    reason,
		Details:   details,
	}}
}
