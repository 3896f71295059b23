package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-schema-collector/internal/extraction"
	"github.com/jonathan/job-schema-collector/internal/fetch"
	"github.com/jonathan/job-schema-collector/internal/gate"
	"github.com/jonathan/job-schema-collector/internal/ingestion"
	"github.com/jonathan/job-schema-collector/internal/schemas"
	"github.com/jonathan/job-schema-collector/internal/types"
	"github.com/jonathan/job-schema-collector/internal/wizard"
)

var (
	// ErrLocked is returned when a locked session calls a gated endpoint.
	ErrLocked = errors.New("session is locked")
	// ErrNothingToDownload is returned when the record has no filled field yet.
	ErrNothingToDownload = errors.New("no field has been filled yet")
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// validationFromStruct converts validator errors to an ErrValidation for the first failing field.
func validationFromStruct(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "(request)", Message: "invalid request"}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		reqErr     *ErrValidation
		fieldErr   *wizard.ValidationError
		staleErr   *wizard.StaleFieldError
		sourceErr  *ingestion.SourceError
		fetchErr   *fetch.Error
		apiErr     *extraction.APICallError
		parseErr   *extraction.ParseError
		schemaErr  *schemas.ValidationError
		unknownErr *types.UnknownFieldError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &reqErr), errors.As(err, &schemaErr), errors.As(err, &unknownErr),
		errors.Is(err, ingestion.ErrNoSource):
		return http.StatusBadRequest
	case errors.Is(err, gate.ErrIncorrectPassword), errors.Is(err, ErrLocked):
		return http.StatusUnauthorized
	case errors.Is(err, gate.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &fieldErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, wizard.ErrNoActiveField), errors.As(err, &staleErr):
		return http.StatusConflict
	case errors.Is(err, ErrNothingToDownload):
		return http.StatusNotFound
	case errors.As(err, &sourceErr):
		if errors.As(err, &fetchErr) {
			return http.StatusBadGateway
		}
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the inline message shown for err.
func UserMessage(err error) string {
	var (
		fieldErr  *wizard.ValidationError
		staleErr  *wizard.StaleFieldError
		sourceErr *ingestion.SourceError
		apiErr    *extraction.APICallError
		parseErr  *extraction.ParseError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, gate.ErrNotConfigured):
		return "No password configured on server"
	case errors.Is(err, gate.ErrIncorrectPassword):
		return "Incorrect password"
	case errors.Is(err, ErrLocked):
		return "Enter the password to continue."
	case errors.Is(err, ingestion.ErrNoSource):
		return "Please provide a source in tab 1 first."
	case errors.As(err, &sourceErr):
		return ingestion.UserMessage(err)
	case errors.Is(err, extraction.ErrNoClient):
		return "No LLM API key configured. Extraction will fail until one is set."
	case errors.As(err, &apiErr):
		return fmt.Sprintf("LLM API error: %v", apiErr.Cause)
	case errors.As(err, &parseErr):
		return "Failed to extract structured data. Please try again."
	case errors.As(err, &fieldErr):
		return fieldErr.Message
	case errors.As(err, &staleErr):
		return "That field has already been answered. Please try the current one."
	case errors.Is(err, wizard.ErrNoActiveField):
		return "There is no field waiting for input."
	case errors.Is(err, ErrNothingToDownload):
		return "Fill at least one field before downloading."
	default:
		return err.Error()
	}
}
