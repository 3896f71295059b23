package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-schema-collector/internal/extraction"
	"github.com/jonathan/job-schema-collector/internal/fetch"
	"github.com/jonathan/job-schema-collector/internal/gate"
	"github.com/jonathan/job-schema-collector/internal/ingestion"
	"github.com/jonathan/job-schema-collector/internal/types"
	"github.com/jonathan/job-schema-collector/internal/wizard"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "request validation", err: &ErrValidation{Field: "password", Message: "required"}, want: http.StatusBadRequest},
		{name: "unknown field", err: &types.UnknownFieldError{Field: "x"}, want: http.StatusBadRequest},
		{name: "no source", err: ingestion.ErrNoSource, want: http.StatusBadRequest},
		{name: "incorrect password", err: gate.ErrIncorrectPassword, want: http.StatusUnauthorized},
		{name: "locked", err: ErrLocked, want: http.StatusUnauthorized},
		{name: "not configured", err: gate.ErrNotConfigured, want: http.StatusServiceUnavailable},
		{name: "field validation", err: &wizard.ValidationError{Field: "closing_date"}, want: http.StatusUnprocessableEntity},
		{name: "no active field", err: wizard.ErrNoActiveField, want: http.StatusConflict},
		{name: "stale field", err: &wizard.StaleFieldError{Submitted: "a", Current: "b"}, want: http.StatusConflict},
		{name: "nothing to download", err: ErrNothingToDownload, want: http.StatusNotFound},
		{
			name: "fetch failure",
			err:  &ingestion.SourceError{Source: types.SourceURL, Cause: &fetch.Error{Kind: fetch.KindTimeout}},
			want: http.StatusBadGateway,
		},
		{
			name: "unsupported upload",
			err:  &ingestion.SourceError{Source: types.SourceUpload, Cause: ingestion.ErrUnsupportedFormat},
			want: http.StatusUnprocessableEntity,
		},
		{name: "llm failure", err: &extraction.APICallError{Provider: "m", Cause: errors.New("quota")}, want: http.StatusBadGateway},
		{name: "parse failure", err: &extraction.ParseError{Message: "bad"}, want: http.StatusBadGateway},
		{name: "wrapped", err: fmt.Errorf("unlock: %w", gate.ErrIncorrectPassword), want: http.StatusUnauthorized},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: gate.ErrNotConfigured, want: "No password configured on server"},
		{err: gate.ErrIncorrectPassword, want: "Incorrect password"},
		{err: ingestion.ErrNoSource, want: "Please provide a source in tab 1 first."},
		{
			err:  &ingestion.SourceError{Source: types.SourceURL, Cause: &fetch.Error{Kind: fetch.KindTimeout}},
			want: "The request timed out.",
		},
		{
			err:  &wizard.ValidationError{Field: types.FieldClosingDate, Message: "Please use format YYYY-MM-DD, e.g. 2025-11-07"},
			want: "Please use format YYYY-MM-DD, e.g. 2025-11-07",
		},
		{err: &extraction.ParseError{Message: "x"}, want: "Failed to extract structured data. Please try again."},
		{err: &extraction.APICallError{Provider: "m", Cause: errors.New("quota exceeded")}, want: "LLM API error: quota exceeded"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
	assert.Contains(t, UserMessage(&extraction.APICallError{Cause: extraction.ErrNoClient}), "No LLM API key")
	assert.Empty(t, UserMessage(nil))
}
