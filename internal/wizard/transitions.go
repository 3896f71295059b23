package wizard

import (
	"strings"

	"github.com/jonathan/job-schema-collector/internal/types"
)

// ApplyExtraction installs an extracted record, recomputes the queue and moves
// the cursor to the first missing field. The record must come from the
// session's schema; anything else is re-projected onto it.
func ApplyExtraction(s Session, rec types.Record, sourceLabel string) Session {
	out := s.clone()
	if rec.Schema() != s.Record.Schema() {
		rec = s.Record.Schema().RecordFromMap(rec.Map())
	}
	out.Record = rec.Clone()
	out.Extracted = true
	out.SourceLabel = sourceLabel
	out.Cursor = ""
	return settle(out)
}

// Submit writes a manual value for the field under the cursor.
// On a validation error the returned session is the unchanged input.
func Submit(s Session, value string) (Session, error) {
	if s.State() != StateAwaitingInput || s.Cursor == "" {
		return s, ErrNoActiveField
	}

	field := s.Cursor
	answer := strings.TrimSpace(value)
	if err := ValidateField(field, answer); err != nil {
		return s, err
	}

	out := s.clone()
	rec, err := out.Record.Set(field, answer)
	if err != nil {
		return s, err
	}
	out.Record = rec
	out.Queue = without(out.Queue, field)
	out.Cursor = ""
	return settle(out), nil
}

// SubmitFor is Submit guarded by the name of the field the caller believes is
// active, so a stale form cannot write into a different field.
func SubmitFor(s Session, field, value string) (Session, error) {
	if field != "" && field != s.Cursor {
		return s, &StaleFieldError{Submitted: field, Current: s.Cursor}
	}
	return Submit(s, value)
}

// BulkEdit replaces the whole record with values (undeclared keys are
// ignored, declared keys absent from values become empty), then recomputes the
// queue from scratch. Per-field validation is not applied.
func BulkEdit(s Session, values map[string]string) Session {
	out := s.clone()
	out.Record = out.Record.Schema().RecordFromMap(values)
	out.Cursor = ""
	return settle(out)
}

func without(queue []string, field string) []string {
	out := make([]string, 0, len(queue))
	for _, f := range queue {
		if f != field {
			out = append(out, f)
		}
	}
	return out
}
