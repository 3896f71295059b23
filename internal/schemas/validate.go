// Package schemas validates exported job schema documents with JSON Schema.
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/job-schema-collector/internal/types"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Fields returns the names of the offending fields, without duplicates.
func (ve *ValidationError) Fields() []string {
	seen := make(map[string]bool, len(ve.Errors))
	var out []string
	for _, e := range ve.Errors {
		if !seen[e.Field] {
			seen[e.Field] = true
			out = append(out, e.Field)
		}
	}
	return out
}

// ValidateDocument validates a JSON document against a schema definition.
func ValidateDocument(def jsonschema.Definition, document []byte) error {
	schemaBytes, err := json.Marshal(def)
	if err != nil {
		return &SchemaLoadError{Path: "(definition)", Message: "failed to marshal definition", Cause: err}
	}
	return ValidateJSONString(string(schemaBytes), string(document))
}

// ValidateRecord checks that rec serializes to a document of its own schema:
// every declared key present, all values strings, nothing else.
func ValidateRecord(rec types.Record) error {
	if rec.Schema() == nil {
		return &SchemaLoadError{Path: "(record)", Message: "record has no schema"}
	}
	data, err := rec.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return ValidateDocument(rec.Schema().Definition(), data)
}

// PartialDefinition returns def without required keys, for validating updates
// that name only some fields.
func PartialDefinition(def jsonschema.Definition) jsonschema.Definition {
	def.Required = nil
	return def
}

// ValidateFile validates a JSON file on disk against schema.
func ValidateFile(schema *types.Schema, jsonPath string) error {
	absPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("JSON file not found: %s", absPath)
		}
		return fmt.Errorf("failed to read %s: %w", absPath, err)
	}

	return ValidateDocument(schema.Definition(), data)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" || field == "(root)" {
			// gojsonschema reports required/additional property errors at the root
			if p, ok := desc.Details()["property"].(string); ok && p != "" {
				field = p
			} else {
				field = "(root)"
			}
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
