package extraction

import (
	"errors"
	"fmt"
)

// ErrNoClient is returned when no LLM credential was configured.
var ErrNoClient = errors.New("no LLM client configured")

// APICallError represents a failed call to the extraction service.
type APICallError struct {
	Provider string
	Cause    error
}

func (e *APICallError) Error() string {
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Cause)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents a response that could not be parsed as a JSON object.
type ParseError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
