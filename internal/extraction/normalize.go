package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jonathan/job-schema-collector/internal/types"
)

// fenceCutset is stripped from a response before the second parse attempt.
const fenceCutset = "` \n\t\r"

// Normalize parses a model response into a record of schema.
//
// The response is parsed strictly; on failure surrounding backticks and
// whitespace are stripped and parsing is retried once. The parsed object is
// intersected with the schema: undeclared keys are dropped and declared keys
// absent from the response stay empty. Non-string values are coerced to text.
func Normalize(raw string, schema *types.Schema) (types.Record, error) {
	obj, err := parseObject(raw)
	if err != nil {
		trimmed := strings.Trim(raw, fenceCutset)
		obj, err = parseObject(trimmed)
		if err != nil {
			return schema.Empty(), &ParseError{Message: "response is not a JSON object", Raw: raw, Cause: err}
		}
	}

	values := make(map[string]string, schema.Len())
	for _, key := range schema.Keys() {
		v, ok := obj[key]
		if !ok {
			continue
		}
		values[key] = coerce(v)
	}
	return schema.RecordFromMap(values), nil
}

// parseObject decodes s as exactly one JSON object, keeping numbers verbatim.
func parseObject(s string) (map[string]json.RawMessage, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("empty response")
	}
	dec := json.NewDecoder(strings.NewReader(s))
	var obj map[string]json.RawMessage
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("response is null")
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON object")
	}
	return obj, nil
}

// coerce renders a JSON value as field text: strings as-is, numbers and
// booleans as their JSON text, null as "", arrays as one element per line and
// objects as compact JSON.
func coerce(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case 'n':
		return ""
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			lines := make([]string, 0, len(items))
			for _, item := range items {
				if line := coerce(item); line != "" {
					lines = append(lines, line)
				}
			}
			return strings.Join(lines, "\n")
		}
	case '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			return buf.String()
		}
	}
	return string(raw)
}
