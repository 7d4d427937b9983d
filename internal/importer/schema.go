package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk input for one generation run. JSON documents
// decode through the same path since YAML is a superset of JSON.
type Document struct {
	UserID           string        `yaml:"user_id" json:"user_id"`
	WeekStartDay     *int          `yaml:"week_start_day,omitempty" json:"week_start_day,omitempty"`
	Timezone         string        `yaml:"timezone,omitempty" json:"timezone,omitempty"`
	Templates        []TemplateDoc `yaml:"templates,omitempty" json:"templates,omitempty"`
	Planners         []PlannerDoc  `yaml:"planners,omitempty" json:"planners,omitempty"`
	PreviousCalendar []EventDoc    `yaml:"previous_calendar,omitempty" json:"previous_calendar,omitempty"`
	Config           *ConfigDoc    `yaml:"config,omitempty" json:"config,omitempty"`
}

// TemplateDoc is a weekly block. StartDay accepts a weekday name
// ("monday", "Mon") or its number (0=Sunday).
type TemplateDoc struct {
	ID        string `yaml:"id,omitempty" json:"id,omitempty"`
	Title     string `yaml:"title,omitempty" json:"title,omitempty"`
	StartDay  string `yaml:"start_day" json:"start_day"`
	StartTime string `yaml:"start_time" json:"start_time"`
	Duration  int    `yaml:"duration" json:"duration"`
	Color     string `yaml:"color,omitempty" json:"color,omitempty"`
}

type PlannerDoc struct {
	ID                 string   `yaml:"id" json:"id"`
	Title              string   `yaml:"title,omitempty" json:"title,omitempty"`
	ItemType           string   `yaml:"item_type" json:"item_type"`
	ParentID           *string  `yaml:"parent_id,omitempty" json:"parent_id,omitempty"`
	Duration           int      `yaml:"duration,omitempty" json:"duration,omitempty"`
	Deadline           *string  `yaml:"deadline,omitempty" json:"deadline,omitempty"`
	Starts             *string  `yaml:"starts,omitempty" json:"starts,omitempty"`
	Dependency         *string  `yaml:"dependency,omitempty" json:"dependency,omitempty"`
	IsReady            bool     `yaml:"is_ready,omitempty" json:"is_ready,omitempty"`
	Priority           *float64 `yaml:"priority,omitempty" json:"priority,omitempty"`
	CompletedStartTime *string  `yaml:"completed_start_time,omitempty" json:"completed_start_time,omitempty"`
	CompletedEndTime   *string  `yaml:"completed_end_time,omitempty" json:"completed_end_time,omitempty"`
	Color              string   `yaml:"color,omitempty" json:"color,omitempty"`
}

// EventDoc is a calendar event as read from previous_calendar and as
// written back by Export.
type EventDoc struct {
	ID                 string         `yaml:"id" json:"id"`
	Title              string         `yaml:"title,omitempty" json:"title,omitempty"`
	Start              string         `yaml:"start" json:"start"`
	End                string         `yaml:"end" json:"end"`
	BackgroundColor    string         `yaml:"background_color,omitempty" json:"background_color,omitempty"`
	ItemType           string         `yaml:"item_type,omitempty" json:"item_type,omitempty"`
	EventID            string         `yaml:"event_id,omitempty" json:"event_id,omitempty"`
	ParentID           string         `yaml:"parent_id,omitempty" json:"parent_id,omitempty"`
	CompletedStartTime *string        `yaml:"completed_start_time,omitempty" json:"completed_start_time,omitempty"`
	CompletedEndTime   *string        `yaml:"completed_end_time,omitempty" json:"completed_end_time,omitempty"`
	Recurrence         *RecurrenceDoc `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`
}

type RecurrenceDoc struct {
	Freq            string `yaml:"freq" json:"freq"`
	DTStart         string `yaml:"dtstart" json:"dtstart"`
	DurationMinutes int    `yaml:"duration_minutes" json:"duration_minutes"`
	Cron            string `yaml:"cron" json:"cron"`
}

// ConfigDoc carries per-document engine overrides. Unset keys keep the
// configured defaults.
type ConfigDoc struct {
	MaxDaysAhead         *int        `yaml:"max_days_ahead,omitempty" json:"max_days_ahead,omitempty"`
	MaxWeeksToSearch     *int        `yaml:"max_weeks_to_search,omitempty" json:"max_weeks_to_search,omitempty"`
	MaxIterationsPerTask *int        `yaml:"max_iterations_per_task,omitempty" json:"max_iterations_per_task,omitempty"`
	EnableLogging        *bool       `yaml:"enable_logging,omitempty" json:"enable_logging,omitempty"`
	BufferTimeMinutes    *int        `yaml:"buffer_time_minutes,omitempty" json:"buffer_time_minutes,omitempty"`
	StrategyWeights      *WeightsDoc `yaml:"strategy_weights,omitempty" json:"strategy_weights,omitempty"`
	Timezone             *string     `yaml:"timezone,omitempty" json:"timezone,omitempty"`
}

type WeightsDoc struct {
	Urgency    *float64 `yaml:"urgency,omitempty" json:"urgency,omitempty"`
	Dependency *float64 `yaml:"dependency,omitempty" json:"dependency,omitempty"`
	Energy     *float64 `yaml:"energy,omitempty" json:"energy,omitempty"`
	Earliest   *float64 `yaml:"earliest,omitempty" json:"earliest,omitempty"`
}

// ErrEmptyDocument is returned when the input holds no document at all.
var ErrEmptyDocument = errors.New("empty input document")

// Parse decodes a YAML or JSON document. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("parsing input document: %w", err)
	}
	return &doc, nil
}

// LoadDocument reads and parses an input file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
