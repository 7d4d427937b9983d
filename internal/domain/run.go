package domain

import "time"

// GenerationRun is the stored summary of one generate invocation.
type GenerationRun struct {
	ID         string
	UserID     string
	RanAt      time.Time
	Success    bool
	Candidates int
	Scheduled  int
	Failed     int
	Frozen     int
	Warnings   int
	Created    int
	Updated    int
	Deleted    int
	Duration   time.Duration
}

// NewGenerationRun summarizes a result. Store counters are filled in by the caller.
func NewGenerationRun(id, userID string, ranAt time.Time, res SchedulingResult) GenerationRun {
	m := res.Metrics
	return GenerationRun{
		ID:         id,
		UserID:     userID,
		RanAt:      ranAt,
		Success:    res.Success,
		Candidates: m.TotalCandidates,
		Scheduled:  m.ScheduledTasks,
		Failed:     m.FailedTasks,
		Frozen:     m.FrozenEvents,
		Warnings:   len(m.Warnings),
		Duration:   m.TotalDuration,
	}
}
