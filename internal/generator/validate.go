package generator

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/goaltree"
	"github.com/alexanderramin/timeweave/internal/templates"
)

// validated is the input after structural checks and repairs.
type validated struct {
	planners []domain.PlannerItem
	previous []domain.SimpleEvent
	warnings []string
}

// validate returns every structural error joined, or the repaired input plus
// the warnings the repairs produced.
func validate(in domain.CalendarGenerationInput) (validated, error) {
	var errs []error
	var out validated

	if in.UserID == "" {
		errs = append(errs, errors.New("userId is required"))
	}
	if in.WeekStartDay < 0 || in.WeekStartDay > 6 {
		errs = append(errs, fmt.Errorf("weekStartDay must be 0..6, got %d", in.WeekStartDay))
	}

	for i, t := range in.Templates {
		if _, err := templates.CronSpec(t); err != nil {
			errs = append(errs, fmt.Errorf("template %d: %w", i, err))
		}
		if t.Duration <= 0 || t.Duration > domain.MinutesPerWeek {
			errs = append(errs, fmt.Errorf("template %d: duration must be in 1..%d minutes, got %d", i, domain.MinutesPerWeek, t.Duration))
		}
	}

	seen := make(map[string]bool, len(in.Planners))
	for i, p := range in.Planners {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("planner %d: id is required", i))
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("planner %s: duplicate id", p.ID))
		}
		seen[p.ID] = true
		if !domain.ValidItemTypes[p.ItemType] {
			errs = append(errs, fmt.Errorf("planner %s: unknown item type %q", p.ID, p.ItemType))
		}
		if p.ItemType == domain.ItemPlan && (p.Starts == nil || p.Duration <= 0) {
			errs = append(errs, fmt.Errorf("planner %s: a plan needs starts and a positive duration", p.ID))
		}
		if p.CompletedStartTime != nil && p.CompletedEndTime != nil && !p.CompletedEndTime.After(*p.CompletedStartTime) {
			out.warnings = append(out.warnings, fmt.Sprintf("planner %s: completed range is empty; no history block", p.ID))
		}
	}
	if len(errs) > 0 {
		return out, errors.Join(errs...)
	}

	planners := in.Planners
	patches := goaltree.RepairParents(planners)
	planners = goaltree.Apply(planners, patches)
	if err := goaltree.CheckParents(planners); err != nil {
		errs = append(errs, err)
	}
	types := make(map[string]domain.ItemType, len(planners))
	for _, p := range planners {
		types[p.ID] = p.ItemType
	}
	for _, p := range planners {
		if parent := p.ParentIDValue(); parent != "" && types[parent] != domain.ItemGoal {
			errs = append(errs, fmt.Errorf("planner %s: parent %s is a %s; only goals have children", p.ID, parent, types[parent]))
		}
	}

	depPatches := goaltree.RepairDependencies(planners)
	planners = goaltree.Apply(planners, depPatches)
	if err := goaltree.CheckChains(planners); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return out, errors.Join(errs...)
	}

	for _, p := range append(patches, depPatches...) {
		out.warnings = append(out.warnings, p.Reason)
	}
	out.planners = planners

	for _, e := range in.PreviousCalendar {
		if e.ID == "" || !e.End.After(e.Start) {
			out.warnings = append(out.warnings, fmt.Sprintf("previous event %q has no id or an empty range; dropped", e.ID))
			continue
		}
		out.previous = append(out.previous, e)
	}
	return out, nil
}
