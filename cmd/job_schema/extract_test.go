package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-schema-collector/internal/types"
	"github.com/jonathan/job-schema-collector/internal/wizard"
)

func extractedSession(t *testing.T, values map[string]string) wizard.Session {
	t.Helper()
	schema := types.JobAdvertSchema()
	return wizard.ApplyExtraction(wizard.NewSession(schema), schema.RecordFromMap(values), "pasted text")
}

func TestCompleteInteractively(t *testing.T) {
	values := make(map[string]string)
	for _, k := range types.JobAdvertSchema().Keys() {
		values[k] = "known"
	}
	delete(values, types.FieldGrade)
	delete(values, types.FieldClosingDate)
	sess := extractedSession(t, values)

	in := strings.NewReader("SEO\n07/11/2025\n\n2025-11-07\n")
	var out bytes.Buffer

	got, err := completeInteractively(in, &out, sess)
	require.NoError(t, err)

	assert.Equal(t, wizard.StateComplete, got.State())
	assert.Equal(t, "SEO", got.Record.Get(types.FieldGrade))
	assert.Equal(t, "2025-11-07", got.Record.Get(types.FieldClosingDate))

	prompts := out.String()
	assert.Contains(t, prompts, "[8/10] Grade: ")
	assert.Contains(t, prompts, "[9/10] Closing Date (format: YYYY-MM-DD): ")
	assert.Contains(t, prompts, "Please use format YYYY-MM-DD, e.g. 2025-11-07")
	assert.Contains(t, prompts, "please enter a value")
}

func TestCompleteInteractively_StopsAtEOF(t *testing.T) {
	sess := extractedSession(t, map[string]string{types.FieldJobTitle: "Analyst"})

	got, err := completeInteractively(strings.NewReader("HM Treasury\n"), &bytes.Buffer{}, sess)
	require.NoError(t, err)

	assert.Equal(t, "HM Treasury", got.Record.Get(types.FieldDepartment))
	assert.Equal(t, types.FieldLocation, got.Cursor)
	assert.Len(t, got.Queue, 8)
}

func TestWriteRecord(t *testing.T) {
	schema := types.JobAdvertSchema()
	rec := schema.RecordFromMap(map[string]string{types.FieldJobTitle: "Policy Advisor"})
	path := filepath.Join(t.TempDir(), "nested", "job-schema.json")

	require.NoError(t, writeRecord(path, rec))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got, 10)
	assert.Equal(t, "Policy Advisor", got[types.FieldJobTitle])
}

func TestReadUpload(t *testing.T) {
	empty, err := readUpload("")
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	path := filepath.Join(t.TempDir(), "advert.txt")
	require.NoError(t, os.WriteFile(path, []byte("Policy Advisor"), 0o644))
	upload, err := readUpload(path)
	require.NoError(t, err)
	assert.Equal(t, "advert.txt", upload.Filename)
	assert.Equal(t, []byte("Policy Advisor"), upload.Data)

	_, err = readUpload(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestRunExtract_WithoutAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LLM_PROVIDER", "")

	out := filepath.Join(t.TempDir(), "job-schema.json")
	extractText, extractOut = "Policy Advisor\nHM Treasury", out
	t.Cleanup(func() { extractText, extractOut = "", "" })

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, runExtract(cmd, nil))

	output := buf.String()
	assert.Contains(t, output, "JOB ADVERT SCHEMA")
	assert.Contains(t, output, "Progress: 0 / 10 (0%)")
	assert.Contains(t, output, "10 field(s) still needed")
	assert.FileExists(t, out)
}

func TestRunExtract_NoSource(t *testing.T) {
	err := runExtract(&cobra.Command{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one of --file, --text or --url must be provided")
}
