package ingestion

import (
	"errors"
	"fmt"

	"github.com/jonathan/job-schema-collector/internal/fetch"
	"github.com/jonathan/job-schema-collector/internal/types"
)

var (
	// ErrNoSource is returned when no source carries any content.
	ErrNoSource = errors.New("no source provided")
	// ErrNoText is returned when a source was read but yielded no text.
	ErrNoText = errors.New("no text extracted")
)

// SourceError reports a failure to acquire text from one source.
type SourceError struct {
	Source  types.SourceKind
	Message string
	Cause   error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s source: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s source: %s", e.Source, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the inline message shown to the user.
func (e *SourceError) UserMessage() string {
	var fErr *fetch.Error
	if errors.As(e.Cause, &fErr) {
		return fErr.UserMessage()
	}
	if errors.Is(e.Cause, ErrNoText) && e.Source == types.SourceURL {
		return "No text was extracted from the page"
	}
	return e.Message
}

// UserMessage maps any acquisition error to the inline message for the user.
func UserMessage(err error) string {
	var sErr *SourceError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoSource):
		return "Please provide a source first."
	case errors.As(err, &sErr):
		return sErr.UserMessage()
	default:
		return err.Error()
	}
}
