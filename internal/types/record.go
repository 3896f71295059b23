package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// UnknownFieldError is returned when a caller writes a key the schema does not declare.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field: %s", e.Field)
}

// Record is one instance of a Schema. Its key set always equals the schema's
// key set; values are only ever overwritten, never added or removed.
type Record struct {
	schema *Schema
	values map[string]string
}

// Schema returns the schema the record belongs to.
func (r Record) Schema() *Schema {
	return r.schema
}

// Get returns the value for name ("" for unset or undeclared fields).
func (r Record) Get(name string) string {
	return r.values[name]
}

// Set returns a copy of the record with name set to value.
func (r Record) Set(name, value string) (Record, error) {
	if r.schema == nil || !r.schema.Has(name) {
		return r, &UnknownFieldError{Field: name}
	}
	out := r.Clone()
	out.values[name] = value
	return out, nil
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	values := make(map[string]string, len(r.values))
	for k, v := range r.values {
		values[k] = v
	}
	return Record{schema: r.schema, values: values}
}

// Keys returns the record's keys in schema order.
func (r Record) Keys() []string {
	if r.schema == nil {
		return nil
	}
	return r.schema.Keys()
}

// IsFilled reports whether the field has a non-blank value.
func (r Record) IsFilled(name string) bool {
	return strings.TrimSpace(r.values[name]) != ""
}

// Missing returns the unfilled fields in schema order.
func (r Record) Missing() []string {
	missing := []string{}
	for _, k := range r.Keys() {
		if !r.IsFilled(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// FilledCount returns the number of filled fields.
func (r Record) FilledCount() int {
	return len(r.Keys()) - len(r.Missing())
}

// AnyFilled reports whether at least one field is filled.
func (r Record) AnyFilled() bool {
	return r.FilledCount() > 0
}

// Map returns the values as a plain map containing every declared key.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.Keys()))
	for _, k := range r.Keys() {
		out[k] = r.values[k]
	}
	return out
}

// Equal reports whether both records share a schema and hold the same values.
func (r Record) Equal(other Record) bool {
	if r.schema != other.schema {
		return false
	}
	for _, k := range r.Keys() {
		if r.values[k] != other.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON writes the fields in schema order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ToJSON marshals the record to indented JSON in schema order.
func (r Record) ToJSON() ([]byte, error) {
	raw, err := r.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to indent record JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// RecordFromMap builds a record from values, keeping only declared keys.
// Declared keys absent from values are left empty.
func (s *Schema) RecordFromMap(values map[string]string) Record {
	rec := s.Empty()
	for _, k := range s.Keys() {
		if v, ok := values[k]; ok {
			rec.values[k] = v
		}
	}
	return rec
}
