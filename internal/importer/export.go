package importer

import (
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/timeutil"
)

// ResultDoc is the machine-readable rendering of a generation result.
type ResultDoc struct {
	Success  bool         `yaml:"success" json:"success"`
	Events   []EventDoc   `yaml:"events" json:"events"`
	Failures []FailureDoc `yaml:"failures,omitempty" json:"failures,omitempty"`
	Metrics  MetricsDoc   `yaml:"metrics" json:"metrics"`
}

type FailureDoc struct {
	TaskID    string `yaml:"task_id" json:"task_id"`
	TaskTitle string `yaml:"task_title,omitempty" json:"task_title,omitempty"`
	Reason    string `yaml:"reason" json:"reason"`
	Details   string `yaml:"details,omitempty" json:"details,omitempty"`
}

type MetricsDoc struct {
	Candidates      int      `yaml:"candidates" json:"candidates"`
	Scheduled       int      `yaml:"scheduled" json:"scheduled"`
	Failed          int      `yaml:"failed" json:"failed"`
	FrozenEvents    int      `yaml:"frozen_events" json:"frozen_events"`
	TemplateEvents  int      `yaml:"template_events" json:"template_events"`
	WeeksSearched   int      `yaml:"weeks_searched" json:"weeks_searched"`
	LargestGap      int      `yaml:"largest_gap_minutes" json:"largest_gap_minutes"`
	TotalDurationMS int64    `yaml:"total_duration_ms" json:"total_duration_ms"`
	Warnings        []string `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// ExportEvent renders an event with RFC 3339 instants.
func ExportEvent(e domain.SimpleEvent) EventDoc {
	doc := EventDoc{
		ID:                 e.ID,
		Title:              e.Title,
		Start:              timeutil.FormatISO(e.Start),
		End:                timeutil.FormatISO(e.End),
		BackgroundColor:    e.BackgroundColor,
		ItemType:           string(e.ExtendedProps.ItemType),
		EventID:            e.ExtendedProps.EventID,
		ParentID:           e.ExtendedProps.ParentID,
		CompletedStartTime: formatOptional(e.ExtendedProps.CompletedStartTime),
		CompletedEndTime:   formatOptional(e.ExtendedProps.CompletedEndTime),
	}
	if r := e.Recurrence; r != nil {
		doc.Recurrence = &RecurrenceDoc{
			Freq:            r.Freq,
			DTStart:         timeutil.FormatISO(r.DTStart),
			DurationMinutes: r.DurationMinutes,
			Cron:            r.Cron,
		}
	}
	return doc
}

// ExportResult renders a whole result. Events keep their order.
func ExportResult(res domain.SchedulingResult) ResultDoc {
	out := ResultDoc{
		Success: res.Success,
		Events:  make([]EventDoc, 0, len(res.Events)),
	}
	for _, e := range res.Events {
		out.Events = append(out.Events, ExportEvent(e))
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, FailureDoc{
			TaskID:    f.TaskID,
			TaskTitle: f.TaskTitle,
			Reason:    string(f.Reason),
			Details:   f.Details,
		})
	}
	m := res.Metrics
	out.Metrics = MetricsDoc{
		Candidates:      m.TotalCandidates,
		Scheduled:       m.ScheduledTasks,
		Failed:          m.FailedTasks,
		FrozenEvents:    m.FrozenEvents,
		TemplateEvents:  m.TemplateEvents,
		WeeksSearched:   m.WeeksSearched,
		LargestGap:      m.LargestGapMinutes,
		TotalDurationMS: m.TotalDuration.Milliseconds(),
		Warnings:        m.Warnings,
	}
	return out
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := timeutil.FormatISO(*t)
	return &s
}
