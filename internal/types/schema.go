// Package types provides type definitions for structured data used throughout the job schema collector.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Field names of the job advert schema.
const (
	FieldJobTitle          = "job_title"
	FieldDepartment        = "department"
	FieldLocation          = "location"
	FieldSalary            = "salary"
	FieldGrade             = "grade"
	FieldClosingDate       = "closing_date"
	FieldSummary           = "summary"
	FieldResponsibilities  = "responsibilities"
	FieldEssentialCriteria = "essential_criteria"
	FieldDesirableCriteria = "desirable_criteria"
)

// Field describes one entry of a Schema.
type Field struct {
	Name        string // JSON key
	Label       string // Human-readable label shown in prompts and forms
	Hint        string // Optional format hint appended to the prompt (presentation only)
	Description string // Description passed to the LLM
	Multiline   bool   // Rendered as a textarea in the edit form
}

// Schema is the fixed, ordered set of fields a completed record must contain.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema from fields in declaration order.
// Duplicate names keep their first position.
func NewSchema(fields ...Field) *Schema {
	s := &Schema{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			continue
		}
		if f.Label == "" {
			f.Label = PrettyLabel(f.Name)
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

// JobAdvertSchema returns the schema for civil service job adverts.
func JobAdvertSchema() *Schema {
	return NewSchema(
		Field{Name: FieldJobTitle, Description: "Title of the advertised role"},
		Field{Name: FieldDepartment, Description: "Department, agency or organisation advertising the role"},
		Field{Name: FieldLocation, Description: "Office location(s) or remote arrangement"},
		Field{Name: FieldSalary, Hint: "e.g. £38,000 - £44,000 national", Description: "Salary or salary range as written"},
		Field{Name: FieldGrade, Description: "Civil service grade, e.g. HEO, SEO, Grade 7"},
		Field{Name: FieldClosingDate, Hint: "format: YYYY-MM-DD", Description: "Application closing date as YYYY-MM-DD"},
		Field{Name: FieldSummary, Description: "Short summary of the role", Multiline: true},
		Field{Name: FieldResponsibilities, Description: "Main duties and responsibilities", Multiline: true},
		Field{Name: FieldEssentialCriteria, Description: "Essential skills, experience and qualifications", Multiline: true},
		Field{Name: FieldDesirableCriteria, Description: "Desirable skills, experience and qualifications", Multiline: true},
	)
}

// Fields returns a copy of the schema's fields in order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Keys returns the field names in order.
func (s *Schema) Keys() []string {
	keys := make([]string, len(s.fields))
	for i, f := range s.fields {
		keys[i] = f.Name
	}
	return keys
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Has reports whether name is a declared field.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Field returns the field definition for name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Empty returns a record with every declared field set to "".
func (s *Schema) Empty() Record {
	return Record{schema: s, values: make(map[string]string, len(s.fields))}
}

// Definition returns the JSON Schema for a record of this schema: an object
// whose properties are exactly the declared fields, all strings, all required.
func (s *Schema) Definition() jsonschema.Definition {
	props := make(map[string]jsonschema.Definition, len(s.fields))
	for _, f := range s.fields {
		props[f.Name] = jsonschema.Definition{
			Type:        jsonschema.String,
			Description: f.Description,
		}
	}
	return jsonschema.Definition{
		Type:                 jsonschema.Object,
		Properties:           props,
		Required:             s.Keys(),
		AdditionalProperties: false,
	}
}

// PrettyLabel turns a snake_case key into a title-cased label ("job_title" -> "Job Title").
func PrettyLabel(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
