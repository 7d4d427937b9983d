package scheduler

import (
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
)

// SchedulingContext is the read-only state a strategy scores against.
type SchedulingContext struct {
	Now             time.Time
	MaxDaysToSearch int
	// PredecessorEnd is the end of the previous leaf in the same goal chain.
	PredecessorEnd *time.Time
	Location       *time.Location
}

// Strategy scores placing task at slot. Scores are in [0, 1], higher is
// better. The slot is the exact placement, not the free gap it came from.
type Strategy interface {
	Name() string
	Score(task domain.PlannerItem, slot domain.TimeSlot, ctx SchedulingContext) float64
}

// Weighted pairs a strategy with its weight in a Composite.
type Weighted struct {
	Strategy Strategy
	Weight   float64
}

// Composite is the weighted average of its parts, normalized by the total
// weight. Parts with a non-positive weight are dropped.
type Composite struct {
	parts []Weighted
	total float64
}

func NewComposite(parts ...Weighted) *Composite {
	c := &Composite{}
	for _, p := range parts {
		if p.Weight <= 0 || p.Strategy == nil {
			continue
		}
		c.parts = append(c.parts, p)
		c.total += p.Weight
	}
	return c
}

// NewCompositeFromConfig builds the default strategy mix from the configured
// weights.
func NewCompositeFromConfig(cfg domain.Config) (*Composite, error) {
	energy, err := NewEnergy(cfg.EnergyPeakStart, cfg.EnergyPeakEnd)
	if err != nil {
		return nil, err
	}
	w := cfg.StrategyWeights
	return NewComposite(
		Weighted{Strategy: Urgency{}, Weight: w.Urgency},
		Weighted{Strategy: Earliest{}, Weight: w.Earliest},
		Weighted{Strategy: Continuity{}, Weight: w.Dependency},
		Weighted{Strategy: energy, Weight: w.Energy},
	), nil
}

func (c *Composite) Name() string { return "composite" }

func (c *Composite) Score(task domain.PlannerItem, slot domain.TimeSlot, ctx SchedulingContext) float64 {
	if c.total == 0 {
		return 0
	}
	var sum float64
	for _, p := range c.parts {
		sum += p.Weight * p.Strategy.Score(task, slot, ctx)
	}
	return sum / c.total
}

// Names lists the active strategies in evaluation order.
func (c *Composite) Names() []string {
	out := make([]string, len(c.parts))
	for i, p := range c.parts {
		out[i] = p.Strategy.Name()
	}
	return out
}
