package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
)

// Planner item options
type ItemOption func(*domain.PlannerItem)

func WithTitle(title string) ItemOption {
	return func(p *domain.PlannerItem) {
		p.Title = title
	}
}

func WithDuration(min int) ItemOption {
	return func(p *domain.PlannerItem) {
		p.Duration = min
	}
}

func WithDeadline(d time.Time) ItemOption {
	return func(p *domain.PlannerItem) {
		p.Deadline = &d
	}
}

func WithStarts(s time.Time) ItemOption {
	return func(p *domain.PlannerItem) {
		p.Starts = &s
	}
}

func WithPriority(w float64) ItemOption {
	return func(p *domain.PlannerItem) {
		p.Priority = w
	}
}

func WithParentID(id string) ItemOption {
	return func(p *domain.PlannerItem) {
		p.ParentID = &id
	}
}

func WithDependency(id string) ItemOption {
	return func(p *domain.PlannerItem) {
		p.Dependency = &id
	}
}

func WithReady(ready bool) ItemOption {
	return func(p *domain.PlannerItem) {
		p.IsReady = ready
	}
}

func WithCompleted(start, end time.Time) ItemOption {
	return func(p *domain.PlannerItem) {
		p.CompletedStartTime = &start
		p.CompletedEndTime = &end
	}
}

func WithColor(c string) ItemOption {
	return func(p *domain.PlannerItem) {
		p.Color = c
	}
}

func newItem(id string, typ domain.ItemType, opts []ItemOption) domain.PlannerItem {
	p := domain.PlannerItem{
		ID:       id,
		Title:    id,
		ItemType: typ,
		Priority: 1,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// NewTestTask returns a standalone 30-minute task.
func NewTestTask(id string, opts ...ItemOption) domain.PlannerItem {
	return newItem(id, domain.ItemTask, append([]ItemOption{WithDuration(30)}, opts...))
}

// NewTestGoal returns a ready top-level goal.
func NewTestGoal(id string, opts ...ItemOption) domain.PlannerItem {
	return newItem(id, domain.ItemGoal, append([]ItemOption{WithReady(true)}, opts...))
}

// NewTestLeaf returns a task under parent, optionally following dep.
func NewTestLeaf(id, parent, dep string, duration int, opts ...ItemOption) domain.PlannerItem {
	base := []ItemOption{WithParentID(parent), WithDuration(duration)}
	if dep != "" {
		base = append(base, WithDependency(dep))
	}
	return newItem(id, domain.ItemTask, append(base, opts...))
}

// NewTestPlan returns a fixed plan.
func NewTestPlan(id string, starts time.Time, duration int, opts ...ItemOption) domain.PlannerItem {
	return newItem(id, domain.ItemPlan, append([]ItemOption{WithStarts(starts), WithDuration(duration)}, opts...))
}

// NewChainGoal returns a ready goal followed by n chained leaves of duration
// minutes each, named <goalID>-1 .. <goalID>-n.
func NewChainGoal(goalID string, n, duration int, opts ...ItemOption) []domain.PlannerItem {
	items := []domain.PlannerItem{NewTestGoal(goalID, opts...)}
	prev := ""
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("%s-%d", goalID, i)
		items = append(items, NewTestLeaf(id, goalID, prev, duration))
		prev = id
	}
	return items
}

// DailyTemplates returns one template per weekday at start for duration minutes.
func DailyTemplates(title, start string, duration int) []domain.EventTemplate {
	out := make([]domain.EventTemplate, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		out = append(out, domain.EventTemplate{
			ID:        title + "-" + d.String(),
			Title:     title,
			StartDay:  d,
			StartTime: start,
			Duration:  duration,
		})
	}
	return out
}
