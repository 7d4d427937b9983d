package generator

import (
	"fmt"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/scheduler"
	"github.com/alexanderramin/timeweave/internal/timeutil"
)

// loop runs one pass per week until every candidate is placed or failed, or
// the week budget runs out. Pass w only searches its own week.
func (r *run) loop() {
	for w := 0; w < r.cfg.MaxWeeksToSearch && len(r.pending) > 0; w++ {
		weekStart := timeutil.AddDays(r.anchor, 7*w)
		weekEnd := timeutil.AddDays(weekStart, 7)
		from := weekStart
		if from.Before(r.now) {
			from = r.now
		}
		if w > 0 {
			occupancy, err := r.occupancy(weekStart, weekEnd)
			if err != nil {
				panic(fmt.Sprintf("generator: template expansion failed after validation: %v", err))
			}
			r.slots.RebuildWeek(weekStart, occupancy)
		}
		r.metrics.WeeksSearched++

		var carry []scheduler.Candidate
		for _, c := range r.pending {
			c.Attempts++
			if c.Attempts > r.cfg.MaxIterationsPerTask {
				r.fail(c.Item, domain.FailureIterationLimit, fmt.Sprintf("gave up after %d attempts", r.cfg.MaxIterationsPerTask))
				continue
			}
			var retry bool
			if c.Item.ItemType == domain.ItemGoal {
				retry = r.scheduleGoal(c.Item, from, weekEnd)
			} else {
				retry = r.scheduleTask(c.Item, from, weekEnd)
			}
			if retry {
				carry = append(carry, c)
			}
		}
		r.log.Debug().Int("week", w).Time("from", from).Int("carried", len(carry)).Msg("week pass done")
		r.pending = carry
	}

	for _, c := range r.pending {
		details := fmt.Sprintf("no free slot within %d weeks", r.cfg.MaxWeeksToSearch)
		if c.Item.ItemType != domain.ItemGoal {
			r.fail(c.Item, domain.FailureNoSlots, details)
			continue
		}
		for _, leaf := range r.pendingLeaves(c.Item.ID) {
			r.fail(leaf, domain.FailureNoSlots, details)
		}
	}
	r.pending = nil
}

func (r *run) tooLarge(item domain.PlannerItem) bool {
	if item.Duration <= r.ceiling {
		return false
	}
	details := fmt.Sprintf("duration %d exceeds the largest free gap of %d minutes", item.Duration, r.metrics.LargestGapMinutes)
	if item.Duration <= r.metrics.LargestGapMinutes {
		details = fmt.Sprintf("duration %d exceeds the largest free stretch within one day (%d minutes); placements never cross midnight", item.Duration, r.ceiling)
	}
	r.fail(item, domain.FailureTooLarge, details)
	return true
}

// scheduleTask reports whether the task should be retried next week.
func (r *run) scheduleTask(task domain.PlannerItem, from, until time.Time) bool {
	if r.tooLarge(task) {
		return false
	}
	out := r.scheduler.ScheduleTask(task, scheduler.ScheduleOptions{After: from, Until: until})
	if out.Scheduled() {
		r.record(task, *out.Event)
		return false
	}
	if out.Failure.Reason.Retryable() {
		return true
	}
	r.addFailure(*out.Failure)
	return false
}

// scheduleGoal places the goal's pending leaves in chain order, each starting
// no earlier than the end of the previous one. It reports whether the goal
// should be retried next week.
func (r *run) scheduleGoal(goal domain.PlannerItem, from, until time.Time) bool {
	after := from
	var pred *time.Time
	if end, ok := r.chainEnd[goal.ID]; ok {
		if end.After(after) {
			after = end
		}
		pred = &end
	}

	for _, leaf := range r.pendingLeaves(goal.ID) {
		if r.tooLarge(leaf) {
			r.skipped[leaf.ID] = true
			continue
		}
		out := r.scheduler.ScheduleTask(leaf, scheduler.ScheduleOptions{After: after, Until: until, PredecessorEnd: pred})
		if out.Scheduled() {
			r.record(leaf, *out.Event)
			end := out.Event.End
			r.chainEnd[goal.ID] = end
			after, pred = end, &end
			continue
		}
		if out.Failure.Reason.Retryable() {
			return true
		}
		r.addFailure(*out.Failure)
		r.skipped[leaf.ID] = true
	}
	return false
}

// pendingLeaves returns the goal's leaves that are not completed, placed or
// permanently failed, in chain order.
func (r *run) pendingLeaves(goalID string) []domain.PlannerItem {
	var out []domain.PlannerItem
	for _, leaf := range r.tree.BottomLayer(goalID) {
		if leaf.IsCompleted() || r.placed[leaf.ID] || r.skipped[leaf.ID] {
			continue
		}
		out = append(out, leaf)
	}
	return out
}

func (r *run) record(item domain.PlannerItem, e domain.SimpleEvent) {
	if !r.addEvent(&r.scheduled, e) {
		panic(fmt.Sprintf("generator: item %s scheduled twice", item.ID))
	}
	r.placed[item.ID] = true
	r.log.Debug().Str("item", item.ID).Time("start", e.Start).Time("end", e.End).Msg("scheduled")
}
