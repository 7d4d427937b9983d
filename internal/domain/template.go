package domain

import "time"

// EventTemplate is a block that recurs every week, e.g. sleep or work hours.
type EventTemplate struct {
	ID        string
	Title     string
	StartDay  time.Weekday
	StartTime string // HH:MM
	Duration  int    // minutes
	Color     string
}
