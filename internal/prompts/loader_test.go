package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ExtractionPrompt(t *testing.T) {
	prompt, err := Get(ExtractionFile, "job-advert")
	require.NoError(t, err)
	assert.Contains(t, prompt, "return ONLY valid JSON")
	assert.Contains(t, prompt, "{{.Schema}}")
	assert.Contains(t, prompt, "{{.Text}}")
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get(ExtractionFile, "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		expected string
	}{
		{name: "single", template: "Hello {{.Name}}", data: map[string]string{"Name": "World"}, expected: "Hello World"},
		{name: "repeated", template: "{{.A}}-{{.A}}", data: map[string]string{"A": "x"}, expected: "x-x"},
		{name: "missing key left as is", template: "{{.Missing}}", data: map[string]string{}, expected: "{{.Missing}}"},
		{name: "value with placeholder", template: "{{.Text}} {{.Schema}}", data: map[string]string{"Text": "{{.Schema}}", "Schema": "S"}, expected: "{{.Schema}} S"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.template, tt.data))
		})
	}
}

func TestRender(t *testing.T) {
	out, err := Render(ExtractionFile, "field-note", map[string]string{"Name": "grade", "Description": "Civil service grade"})
	require.NoError(t, err)
	assert.Equal(t, "- grade: Civil service grade", out)
}
