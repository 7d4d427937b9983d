package domain

import "time"

// PlannerItem is a task, goal or plan as authored by the user. The engine
// only reads planner items; it never mutates one it was handed.
type PlannerItem struct {
	ID       string
	Title    string
	ItemType ItemType
	ParentID *string

	// Duration in minutes. Required for tasks, goal leaves and plans.
	Duration int
	Deadline *time.Time
	Starts   *time.Time

	// Dependency is the id of the single sibling this item follows.
	Dependency *string
	IsReady    bool
	Priority   float64

	CompletedStartTime *time.Time
	CompletedEndTime   *time.Time

	Color string
}

// IsCompleted reports whether both completion timestamps are set.
func (p *PlannerItem) IsCompleted() bool {
	return p.CompletedStartTime != nil && p.CompletedEndTime != nil
}

// IsGoalRoot reports whether the item is a top-level goal.
func (p *PlannerItem) IsGoalRoot() bool {
	return p.ItemType == ItemGoal && p.ParentID == nil
}

// EffectivePriority returns the priority weight, treating unset or
// non-positive values as 1.
func (p *PlannerItem) EffectivePriority() float64 {
	if p.Priority <= 0 {
		return 1
	}
	return p.Priority
}

// ColorOr returns the item color or the fallback when none is set.
func (p *PlannerItem) ColorOr(fallback string) string {
	return CoalesceStr(p.Color, fallback)
}

// ParentIDValue returns the parent id or "" for roots.
func (p *PlannerItem) ParentIDValue() string {
	if p.ParentID == nil {
		return ""
	}
	return *p.ParentID
}

// DependencyValue returns the dependency id or "" when the item heads its chain.
func (p *PlannerItem) DependencyValue() string {
	if p.Dependency == nil {
		return ""
	}
	return *p.Dependency
}
