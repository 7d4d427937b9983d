package domain

import "time"

const (
	DefaultMaxDaysAhead         = 90
	DefaultMaxWeeksToSearch     = 12
	DefaultMaxIterationsPerTask = 100
)

// StrategyWeights weigh each scoring strategy in the composite. A zero
// weight disables the strategy.
type StrategyWeights struct {
	Urgency    float64
	Dependency float64
	Energy     float64
	Earliest   float64
}

// Config holds every engine tunable. It is threaded through the generator
// entry point; nothing reads package-level settings.
type Config struct {
	MaxDaysAhead         int
	MaxWeeksToSearch     int
	MaxIterationsPerTask int
	EnableLogging        bool
	BufferTimeMinutes    int
	StrategyWeights      StrategyWeights

	// EnergyPeakStart/End bound the preferred hours ("HH:MM") of the energy strategy.
	EnergyPeakStart string
	EnergyPeakEnd   string

	Location *time.Location
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxDaysAhead:         DefaultMaxDaysAhead,
		MaxWeeksToSearch:     DefaultMaxWeeksToSearch,
		MaxIterationsPerTask: DefaultMaxIterationsPerTask,
		StrategyWeights: StrategyWeights{
			Urgency:  1.0,
			Earliest: 0.5,
		},
		EnergyPeakStart: "09:00",
		EnergyPeakEnd:   "12:00",
		Location:        time.UTC,
	}
}

// ConfigOverrides is the optional per-input config. Nil fields keep the base value.
type ConfigOverrides struct {
	MaxDaysAhead         *int
	MaxWeeksToSearch     *int
	MaxIterationsPerTask *int
	EnableLogging        *bool
	BufferTimeMinutes    *int
	Urgency              *float64
	Dependency           *float64
	Energy               *float64
	Earliest             *float64
	Timezone             *string
}

// Merge applies overrides on top of the receiver and returns the result.
func (c Config) Merge(o *ConfigOverrides) (Config, error) {
	if o == nil {
		return c, nil
	}
	c.MaxDaysAhead = ValueOr(o.MaxDaysAhead, c.MaxDaysAhead)
	c.MaxWeeksToSearch = ValueOr(o.MaxWeeksToSearch, c.MaxWeeksToSearch)
	c.MaxIterationsPerTask = ValueOr(o.MaxIterationsPerTask, c.MaxIterationsPerTask)
	c.EnableLogging = ValueOr(o.EnableLogging, c.EnableLogging)
	c.BufferTimeMinutes = ValueOr(o.BufferTimeMinutes, c.BufferTimeMinutes)
	c.StrategyWeights.Urgency = ValueOr(o.Urgency, c.StrategyWeights.Urgency)
	c.StrategyWeights.Dependency = ValueOr(o.Dependency, c.StrategyWeights.Dependency)
	c.StrategyWeights.Energy = ValueOr(o.Energy, c.StrategyWeights.Energy)
	c.StrategyWeights.Earliest = ValueOr(o.Earliest, c.StrategyWeights.Earliest)
	if o.Timezone != nil && *o.Timezone != "" {
		loc, err := time.LoadLocation(*o.Timezone)
		if err != nil {
			return c, err
		}
		c.Location = loc
	}
	return c, nil
}

// Normalized fills zero or negative limits with defaults.
func (c Config) Normalized() Config {
	if c.MaxDaysAhead <= 0 {
		c.MaxDaysAhead = DefaultMaxDaysAhead
	}
	if c.MaxWeeksToSearch <= 0 {
		c.MaxWeeksToSearch = DefaultMaxWeeksToSearch
	}
	if c.MaxIterationsPerTask <= 0 {
		c.MaxIterationsPerTask = DefaultMaxIterationsPerTask
	}
	if c.BufferTimeMinutes < 0 {
		c.BufferTimeMinutes = 0
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}
