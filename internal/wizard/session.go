// Package wizard implements the completion state machine that turns an
// extracted record into a complete one by eliciting missing fields.
//
// A Session is a plain value. Every transition takes a Session and returns a
// new one; the input is never mutated, so callers can keep the previous state
// when a transition fails.
package wizard

import (
	"slices"

	"github.com/jonathan/job-schema-collector/internal/types"
)

// State is the wizard's position in the completion flow.
type State string

const (
	// StateIdle means extraction has not run yet.
	StateIdle State = "idle"
	// StateAwaitingInput means the cursor points at a field waiting for manual entry.
	StateAwaitingInput State = "awaiting-input"
	// StateComplete means extraction ran and no field is missing.
	StateComplete State = "complete"
)

// Session is the per-user state threaded through every stage.
type Session struct {
	Record        types.Record
	Queue         []string // unfilled fields in schema order
	Cursor        string   // field being elicited, "" when none
	Extracted     bool     // an extraction attempt has completed
	SourceLabel   string   // "file", "pasted text" or "URL"
	Authenticated bool
}

// NewSession returns a fresh session holding an all-empty record.
func NewSession(schema *types.Schema) Session {
	rec := schema.Empty()
	return Session{
		Record: rec,
		Queue:  rec.Missing(),
	}
}

// State derives the machine state from the session.
func (s Session) State() State {
	switch {
	case !s.Extracted:
		return StateIdle
	case len(s.Queue) == 0:
		return StateComplete
	default:
		return StateAwaitingInput
	}
}

// CurrentField returns the schema definition of the cursor field.
func (s Session) CurrentField() (types.Field, bool) {
	if s.Cursor == "" || s.Record.Schema() == nil {
		return types.Field{}, false
	}
	return s.Record.Schema().Field(s.Cursor)
}

// Progress returns the number of filled fields and the schema size.
func (s Session) Progress() (filled, total int) {
	return s.Record.FilledCount(), len(s.Record.Keys())
}

// clone copies the slices so transitions never share backing arrays.
func (s Session) clone() Session {
	out := s
	out.Record = s.Record.Clone()
	out.Queue = slices.Clone(s.Queue)
	return out
}

// settle recomputes the queue from the record and places the cursor on the
// first missing field once extraction has run.
func settle(s Session) Session {
	s.Queue = s.Record.Missing()
	if s.Cursor != "" && !slices.Contains(s.Queue, s.Cursor) {
		s.Cursor = ""
	}
	if s.Extracted && s.Cursor == "" && len(s.Queue) > 0 {
		s.Cursor = s.Queue[0]
	}
	return s
}
