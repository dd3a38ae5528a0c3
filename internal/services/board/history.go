package board

import (
	"encoding/json"
	"time"

	"github.com/pmckit/pmboard/internal/domain"
)

// diffHistory builds one audit record per patched field whose value
// actually changed. Change detection is value equality over a stable JSON
// fingerprint: two values that serialize identically produce no record.
// UpdatedAt is never audited.
func diffHistory(old, updated *domain.Task, patch TaskPatch, now time.Time) []domain.TaskHistory {
	var records []domain.TaskHistory

	add := func(field string, oldVal, newVal any) {
		before := fingerprint(oldVal)
		after := fingerprint(newVal)
		if before == after {
			return
		}
		records = append(records, domain.TaskHistory{
			TaskID:    old.ID,
			Field:     field,
			OldValue:  before,
			NewValue:  after,
			ChangedAt: now,
		})
	}

	if patch.Title != nil {
		add("title", old.Title, updated.Title)
	}
	if patch.Description != nil {
		add("description", old.Description, updated.Description)
	}
	if patch.Status != nil {
		add("status", old.Status, updated.Status)
	}
	if patch.Priority != nil {
		add("priority", old.Priority, updated.Priority)
	}
	if patch.Assignee != nil {
		add("assignee", old.Assignee, updated.Assignee)
	}
	if patch.DueDate != nil {
		add("dueDate", old.DueDate, updated.DueDate)
	}
	if patch.Progress != nil {
		add("progress", old.Progress, updated.Progress)
	}
	if patch.Checklist != nil {
		add("checklist", old.Checklist, updated.Checklist)
	}

	return records
}

// fingerprint serializes a value for storage and comparison. Marshaling
// only ever sees strings, numbers, and checklist slices here, so an error
// cannot occur in practice; an errored value compares unequal to nothing.
func fingerprint(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
