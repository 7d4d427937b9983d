// Package config loads engine defaults and local paths from timeweave.yaml
// and TIMEWEAVE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/timeutil"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	fileName  = "timeweave"
	envPrefix = "TIMEWEAVE"
)

// Settings is the resolved configuration for one process.
type Settings struct {
	DBPath   string
	LogLevel zerolog.Level
	Engine   domain.Config
	// Source is the config file that was read, or "" when none was found.
	Source string
}

// DefaultDir returns ~/.timeweave, falling back to the working directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".timeweave")
}

func setDefaults(v *viper.Viper) {
	d := domain.DefaultConfig()
	v.SetDefault("db_path", filepath.Join(DefaultDir(), "timeweave.db"))
	v.SetDefault("log_level", "info")
	v.SetDefault("engine.max_days_ahead", d.MaxDaysAhead)
	v.SetDefault("engine.max_weeks_to_search", d.MaxWeeksToSearch)
	v.SetDefault("engine.max_iterations_per_task", d.MaxIterationsPerTask)
	v.SetDefault("engine.enable_logging", d.EnableLogging)
	v.SetDefault("engine.buffer_time_minutes", d.BufferTimeMinutes)
	v.SetDefault("engine.timezone", "UTC")
	v.SetDefault("engine.weights.urgency", d.StrategyWeights.Urgency)
	v.SetDefault("engine.weights.dependency", d.StrategyWeights.Dependency)
	v.SetDefault("engine.weights.energy", d.StrategyWeights.Energy)
	v.SetDefault("engine.weights.earliest", d.StrategyWeights.Earliest)
	v.SetDefault("engine.energy_peak.start", d.EnergyPeakStart)
	v.SetDefault("engine.energy_peak.end", d.EnergyPeakEnd)
}

// Load reads configFile when set, otherwise searches for timeweave.yaml in
// searchPaths (default: the working directory, then DefaultDir). A missing
// file is not an error unless it was named explicitly.
func Load(configFile string, searchPaths ...string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		if len(searchPaths) == 0 {
			searchPaths = []string{".", DefaultDir()}
		}
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	s, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	s.Source = v.ConfigFileUsed()
	return s, nil
}

func fromViper(v *viper.Viper) (*Settings, error) {
	var errs []error

	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString("log_level")))
	if err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	loc, err := time.LoadLocation(v.GetString("engine.timezone"))
	if err != nil {
		errs = append(errs, fmt.Errorf("engine.timezone: %w", err))
	}

	eng := domain.Config{
		MaxDaysAhead:         v.GetInt("engine.max_days_ahead"),
		MaxWeeksToSearch:     v.GetInt("engine.max_weeks_to_search"),
		MaxIterationsPerTask: v.GetInt("engine.max_iterations_per_task"),
		EnableLogging:        v.GetBool("engine.enable_logging"),
		BufferTimeMinutes:    v.GetInt("engine.buffer_time_minutes"),
		StrategyWeights: domain.StrategyWeights{
			Urgency:    v.GetFloat64("engine.weights.urgency"),
			Dependency: v.GetFloat64("engine.weights.dependency"),
			Energy:     v.GetFloat64("engine.weights.energy"),
			Earliest:   v.GetFloat64("engine.weights.earliest"),
		},
		EnergyPeakStart: v.GetString("engine.energy_peak.start"),
		EnergyPeakEnd:   v.GetString("engine.energy_peak.end"),
		Location:        loc,
	}
	if eng.BufferTimeMinutes < 0 {
		errs = append(errs, fmt.Errorf("engine.buffer_time_minutes must not be negative, got %d", eng.BufferTimeMinutes))
	}
	for _, key := range []string{"engine.energy_peak.start", "engine.energy_peak.end"} {
		if _, _, err := timeutil.ParseClock(v.GetString(key)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}

	dbPath := v.GetString("db_path")
	if dbPath == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return &Settings{
		DBPath:   dbPath,
		LogLevel: level,
		Engine:   eng.Normalized(),
	}, nil
}
