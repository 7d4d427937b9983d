package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/timeutil"
)

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseWeekday accepts a weekday name, its three-letter abbreviation or a
// number from 0 (Sunday) to 6.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if d, ok := weekdayNames[s]; ok {
		return d, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// Validate checks the document shape and returns every problem found.
// Structural rules that need the whole planner graph (cycles, chains) are
// left to the generator.
func Validate(doc *Document) []error {
	var errs []error

	if doc.UserID == "" {
		errs = append(errs, fmt.Errorf("user_id is required"))
	}
	if doc.WeekStartDay != nil && (*doc.WeekStartDay < 0 || *doc.WeekStartDay > 6) {
		errs = append(errs, fmt.Errorf("week_start_day must be 0..6, got %d", *doc.WeekStartDay))
	}
	loc, err := location(doc)
	if err != nil {
		errs = append(errs, err)
		loc = time.UTC
	}

	for i, t := range doc.Templates {
		prefix := fmt.Sprintf("templates[%d]", i)
		if _, err := ParseWeekday(t.StartDay); err != nil {
			errs = append(errs, fmt.Errorf("%s.start_day: %w", prefix, err))
		}
		if _, _, err := timeutil.ParseClock(t.StartTime); err != nil {
			errs = append(errs, fmt.Errorf("%s.start_time: %w", prefix, err))
		}
		if t.Duration <= 0 {
			errs = append(errs, fmt.Errorf("%s.duration must be positive", prefix))
		}
	}

	for i, p := range doc.Planners {
		prefix := fmt.Sprintf("planners[%d]", i)
		if p.ID != "" {
			prefix = fmt.Sprintf("planners[%s]", p.ID)
		} else {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		}
		if !domain.ValidItemTypes[domain.ItemType(p.ItemType)] {
			errs = append(errs, fmt.Errorf("%s.item_type: invalid value %q", prefix, p.ItemType))
		}
		if p.Duration < 0 {
			errs = append(errs, fmt.Errorf("%s.duration must not be negative", prefix))
		}
		errs = append(errs, checkInstant(prefix+".deadline", p.Deadline, loc)...)
		errs = append(errs, checkInstant(prefix+".starts", p.Starts, loc)...)
		errs = append(errs, checkInstant(prefix+".completed_start_time", p.CompletedStartTime, loc)...)
		errs = append(errs, checkInstant(prefix+".completed_end_time", p.CompletedEndTime, loc)...)
	}

	for i, e := range doc.PreviousCalendar {
		prefix := fmt.Sprintf("previous_calendar[%d]", i)
		if e.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		}
		errs = append(errs, checkInstant(prefix+".start", &e.Start, loc)...)
		errs = append(errs, checkInstant(prefix+".end", &e.End, loc)...)
	}

	if c := doc.Config; c != nil {
		if c.BufferTimeMinutes != nil && *c.BufferTimeMinutes < 0 {
			errs = append(errs, fmt.Errorf("config.buffer_time_minutes must not be negative"))
		}
		if w := c.StrategyWeights; w != nil {
			weights := []struct {
				name string
				v    *float64
			}{{"urgency", w.Urgency}, {"dependency", w.Dependency}, {"energy", w.Energy}, {"earliest", w.Earliest}}
			for _, wt := range weights {
				if wt.v != nil && *wt.v < 0 {
					errs = append(errs, fmt.Errorf("config.strategy_weights.%s must not be negative", wt.name))
				}
			}
		}
	}

	return errs
}

func checkInstant(field string, s *string, loc *time.Location) []error {
	if s == nil {
		return nil
	}
	if _, err := timeutil.ParseISO(*s, loc); err != nil {
		return []error{fmt.Errorf("%s: %w", field, err)}
	}
	return nil
}

// location resolves the zone naive instants are read in: the document
// timezone, then the config override, then UTC.
func location(doc *Document) (*time.Location, error) {
	name := doc.Timezone
	if name == "" && doc.Config != nil && doc.Config.Timezone != nil {
		name = *doc.Config.Timezone
	}
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timezone: unknown location %q", name)
	}
	return loc, nil
}
