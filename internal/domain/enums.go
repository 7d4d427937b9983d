package domain

type ItemType string

const (
	ItemTask ItemType = "task"
	ItemGoal ItemType = "goal"
	ItemPlan ItemType = "plan"
)

// ValidItemTypes is the canonical set of accepted planner item types.
var ValidItemTypes = map[ItemType]bool{
	ItemTask: true,
	ItemGoal: true,
	ItemPlan: true,
}

// EventType tags what produced a SimpleEvent or occupies a TimeSlot.
type EventType string

const (
	EventTypeTask      EventType = "task"
	EventTypeGoal      EventType = "goal"
	EventTypePlan      EventType = "plan"
	EventTypeTemplate  EventType = "template"
	EventTypeCompleted EventType = "completed"
)

type FailureReason string

const (
	FailureTooLarge           FailureReason = "TOO_LARGE"
	FailureNoSlots            FailureReason = "NO_SLOTS"
	FailureIterationLimit     FailureReason = "ITERATION_LIMIT"
	FailureInvalidTask        FailureReason = "INVALID_TASK"
	FailureDependencyConflict FailureReason = "DEPENDENCY_CONFLICT"
	FailureTemplateError      FailureReason = "TEMPLATE_ERROR"
)

// Retryable reports whether a failure may clear up in a later week.
func (r FailureReason) Retryable() bool {
	return r == FailureNoSlots
}

const (
	MinutesPerDay  = 24 * 60
	MinutesPerWeek = 7 * MinutesPerDay
)

// Default event colors by type, used when an item carries no color.
var DefaultColors = map[EventType]string{
	EventTypeTask:      "#83a598",
	EventTypeGoal:      "#8ec07c",
	EventTypePlan:      "#fabd2f",
	EventTypeTemplate:  "#928374",
	EventTypeCompleted: "#d3869b",
}
