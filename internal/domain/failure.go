package domain

import (
	"fmt"
	"time"
)

type SchedulingFailure struct {
	TaskID    string
	TaskTitle string
	Reason    FailureReason
	Details   string
}

func (f SchedulingFailure) String() string {
	return fmt.Sprintf("%s %s (%s): %s", f.Reason, f.TaskID, f.TaskTitle, f.Details)
}

// SchedulingMetrics are diagnostic counters. They never affect placement.
type SchedulingMetrics struct {
	TotalCandidates       int
	ScheduledTasks        int
	FailedTasks           int
	FrozenEvents          int
	FixedEvents           int
	TemplateEvents        int
	WeeksSearched         int
	SlotSearches          int
	SlotsBuilt            int
	LargestGapMinutes     int
	AverageScheduleTimeMs float64
	TotalDuration         time.Duration
	Warnings              []string
}
