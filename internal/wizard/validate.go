package wizard

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-schema-collector/internal/types"
)

// ErrNoActiveField is returned when a value is submitted while no field is being elicited.
var ErrNoActiveField = errors.New("no field is waiting for input")

// isoDatePattern is the shape check for closing dates; it does not check the calendar.
var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidationError reports a rejected manual entry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// StaleFieldError is returned when a submission names a field other than the cursor.
type StaleFieldError struct {
	Submitted string
	Current   string
}

func (e *StaleFieldError) Error() string {
	return fmt.Sprintf("submitted %q but the current field is %q", e.Submitted, e.Current)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return isoDatePattern.MatchString(fl.Field().String())
	})
	return v
}

// fieldRules maps field names to validator tags applied on one-at-a-time entry.
var fieldRules = map[string]string{
	types.FieldClosingDate: "isodate",
}

// ValidateField checks a trimmed manual entry. Empty entries are rejected for
// every field so the wizard re-prompts instead of accepting a blank answer.
func ValidateField(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Message: "please enter a value"}
	}
	rule, ok := fieldRules[field]
	if !ok {
		return nil
	}
	if err := validate.Var(value, rule); err != nil {
		return &ValidationError{Field: field, Message: formatMessage(field)}
	}
	return nil
}

func formatMessage(field string) string {
	switch field {
	case types.FieldClosingDate:
		return "Please use format YYYY-MM-DD, e.g. 2025-11-07"
	default:
		return "invalid value"
	}
}
