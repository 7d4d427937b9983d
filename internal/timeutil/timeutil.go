// Package timeutil holds the pure date arithmetic used by the engine. All
// functions keep the location of their input.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DayKeyLayout is the layout of per-day cache keys.
const DayKeyLayout = "2006-01-02"

// DayKey returns the year-month-day key of t in its own location.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays moves t by n calendar days, keeping wall-clock time across DST.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddMinutes returns t + m minutes.
func AddMinutes(t time.Time, m int) time.Time {
	return t.Add(time.Duration(m) * time.Minute)
}

// MinutesBetween returns the whole minutes from a to b (negative if b < a).
func MinutesBetween(a, b time.Time) int {
	return int(b.Sub(a) / time.Minute)
}

// DaysBetween returns the fractional days from a to b.
func DaysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}

// CeilMinute rounds t up to the next whole minute.
func CeilMinute(t time.Time) time.Time {
	tr := t.Truncate(time.Minute)
	if tr.Equal(t) {
		return t
	}
	return tr.Add(time.Minute)
}

// StartOfWeek returns midnight of the most recent weekStart day at or before t.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return AddDays(day, -offset)
}

// ParseClock parses "HH:MM" into hour and minute.
func ParseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h, m, nil
}

// ClockMinutes parses "HH:MM" into minutes after midnight.
func ClockMinutes(s string) (int, error) {
	h, m, err := ParseClock(s)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// MinuteOfDay returns the minutes elapsed since local midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	DayKeyLayout,
}

// ParseISO parses an ISO-8601 instant. Strings without an offset are read in loc.
func ParseISO(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 instant %q", s)
}

// FormatISO renders t as RFC 3339.
func FormatISO(t time.Time) string {
	return t.Format(time.RFC3339)
}

// Clamp01 limits v to [0, 1]; NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
