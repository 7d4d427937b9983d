// Package ids derives name-based event ids so that re-running generation on
// the same input yields the same ids.
package ids

import (
	"fmt"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/google/uuid"
)

// Namespace scopes every derived id.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://timeweave.dev/events"))

func derive(parts ...string) string {
	name := ""
	for i, p := range parts {
		if i > 0 {
			name += "|"
		}
		name += p
	}
	return uuid.NewSHA1(Namespace, []byte(name)).String()
}

// TemplateKey identifies a template: its own ID when set, else a digest of its fields.
func TemplateKey(t domain.EventTemplate) string {
	if t.ID != "" {
		return t.ID
	}
	return derive("template-fields", fmt.Sprint(int(t.StartDay)), t.StartTime, fmt.Sprint(t.Duration), t.Title)
}

// Template is the id of the recurring event for a template.
func Template(key string) string { return derive("template", key) }

// Occurrence is the id of a single-week template materialization.
func Occurrence(key string, start time.Time) string {
	return derive("occurrence", key, start.UTC().Format(time.RFC3339))
}

// Scheduled is the id of the event placed for a task or goal leaf.
func Scheduled(itemID string) string { return derive("scheduled", itemID) }

// Plan is the id of a materialized fixed plan.
func Plan(itemID string) string { return derive("plan", itemID) }

// Completed is the id of a historical block for a completed item.
func Completed(itemID string) string { return derive("completed", itemID) }
