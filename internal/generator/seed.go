package generator

import (
	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/ids"
	"github.com/alexanderramin/timeweave/internal/timeutil"
)

// seed fills r.fixed with plan materializations, completed-item history and
// the frozen part of the previous calendar, in that order. Ids are derived,
// so an event regenerated from a planner item replaces its frozen copy.
func (r *run) seed(planners []domain.PlannerItem, previous []domain.SimpleEvent) {
	completed := make(map[string]bool)
	for _, p := range planners {
		if p.IsCompleted() {
			completed[p.ID] = true
			if p.CompletedEndTime.After(*p.CompletedStartTime) && r.addEvent(&r.fixed, completedEvent(p)) {
				r.metrics.FixedEvents++
			}
			continue
		}
		if p.ItemType == domain.ItemPlan && r.addEvent(&r.fixed, planEvent(p)) {
			r.metrics.FixedEvents++
		}
	}

	for _, e := range previous {
		if e.IsTemplate() || !e.End.Before(r.now) {
			continue
		}
		itemID := e.ExtendedProps.EventID
		if !e.IsFixed() && completed[itemID] {
			continue
		}
		if !r.addEvent(&r.fixed, e) {
			continue
		}
		r.metrics.FrozenEvents++
		if !e.IsFixed() && itemID != "" {
			r.placed[itemID] = true
		}
	}
}

func planEvent(p domain.PlannerItem) domain.SimpleEvent {
	start := *p.Starts
	return domain.SimpleEvent{
		ID:              ids.Plan(p.ID),
		Title:           p.Title,
		Start:           start,
		End:             timeutil.AddMinutes(start, p.Duration),
		BackgroundColor: p.ColorOr(domain.DefaultColors[domain.EventTypePlan]),
		ExtendedProps: domain.ExtendedProps{
			ItemType: domain.EventTypePlan,
			EventID:  p.ID,
			ParentID: p.ParentIDValue(),
		},
	}
}

func completedEvent(p domain.PlannerItem) domain.SimpleEvent {
	start, end := *p.CompletedStartTime, *p.CompletedEndTime
	return domain.SimpleEvent{
		ID:              ids.Completed(p.ID),
		Title:           p.Title,
		Start:           start,
		End:             end,
		BackgroundColor: p.ColorOr(domain.DefaultColors[domain.EventTypeCompleted]),
		ExtendedProps: domain.ExtendedProps{
			ItemType:           domain.EventTypeCompleted,
			EventID:            p.ID,
			ParentID:           p.ParentIDValue(),
			CompletedStartTime: &start,
			CompletedEndTime:   &end,
		},
	}
}
