package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
)

// Candidate is a top-level item waiting for placement.
type Candidate struct {
	Item     domain.PlannerItem
	Urgency  float64
	Attempts int
}

// RankCandidates scores every item with CalculateTaskUrgency and returns the
// candidates in canonical order.
func RankCandidates(items []domain.PlannerItem, now time.Time, totalEstimatedMinutes int) []Candidate {
	out := make([]Candidate, len(items))
	for i, it := range items {
		out[i] = Candidate{Item: it, Urgency: CalculateTaskUrgency(it, now, totalEstimatedMinutes)}
	}
	CanonicalSort(out)
	return out
}

// CanonicalSort sorts candidates by the deterministic canonical rules:
// 1. Urgency: higher first
// 2. Deadline: earliest first (nil last)
// 3. Item ID: lexical ascending
func CanonicalSort(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		if a.Urgency != b.Urgency {
			return a.Urgency > b.Urgency
		}

		dueA, dueB := a.Item.Deadline, b.Item.Deadline
		if (dueA == nil) != (dueB == nil) {
			return dueA != nil
		}
		if dueA != nil && dueB != nil && !dueA.Equal(*dueB) {
			return dueA.Before(*dueB)
		}

		return a.Item.ID < b.Item.ID
	})
}

// TotalEstimatedMinutes sums the positive durations of every open item. It
// normalizes CalculateTaskUrgency across one run.
func TotalEstimatedMinutes(items []domain.PlannerItem) int {
	total := 0
	for _, it := range items {
		if it.Duration > 0 && !it.IsCompleted() && it.ItemType != domain.ItemPlan {
			total += it.Duration
		}
	}
	return total
}
