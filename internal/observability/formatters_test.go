package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-schema-collector/internal/types"
)

func TestPrintRecord(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	rec, err := types.JobAdvertSchema().Empty().Set(types.FieldJobTitle, "Senior Policy Advisor")
	require.NoError(t, err)
	rec, err = rec.Set(types.FieldSummary, "Lead the team.\nSecond line.")
	require.NoError(t, err)

	p.PrintRecord(rec)
	output := buf.String()

	assert.Contains(t, output, "JOB ADVERT SCHEMA")
	assert.Contains(t, output, "Job Title:")
	assert.Contains(t, output, "Senior Policy Advisor")
	assert.Contains(t, output, "Lead the team. …")
	assert.NotContains(t, output, "Second line.")
	assert.Contains(t, output, "Progress: 2 / 10 (20%)")
}

func TestPrintRecord_NoSchema(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRecord(types.Record{})
	assert.Empty(t, buf.String())
}

func TestPrintRecord_LinesHaveEqualWidth(t *testing.T) {
	var buf bytes.Buffer
	rec, err := types.JobAdvertSchema().Empty().Set(types.FieldSalary, "£38,000 – £44,000 national, plus a very long allowance description")
	require.NoError(t, err)

	NewPrinter(&buf).PrintRecord(rec)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for _, line := range lines {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
}

func TestPrintMissing(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMissing(types.JobAdvertSchema().Empty())
	output := buf.String()

	assert.Contains(t, output, "MISSING FIELDS")
	assert.Contains(t, output, "10 field(s) still needed")
	assert.Contains(t, output, "• Closing Date")
}

func TestPrintMissing_Complete(t *testing.T) {
	schema := types.JobAdvertSchema()
	values := make(map[string]string)
	for _, k := range schema.Keys() {
		values[k] = "x"
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintMissing(schema.RecordFromMap(values))

	assert.Contains(t, buf.String(), "ALL FIELDS COMPLETE")
}

func TestPrintSource(t *testing.T) {
	var buf bytes.Buffer
	text := strings.Repeat("line\n", 8) + "last"

	NewPrinter(&buf).PrintSource("URL", text)
	output := buf.String()

	assert.Contains(t, output, "Detected source: URL")
	assert.Contains(t, output, "... and 4 more lines")
}

func TestPrintSource_Details(t *testing.T) {
	var buf bytes.Buffer

	NewPrinter(&buf).PrintSource("URL", "Trainee Analyst", "Status code: 200", "Content type: text/html")
	output := buf.String()

	assert.Contains(t, output, "Status code: 200")
	assert.Contains(t, output, "Content type: text/html")
	assert.Less(t, strings.Index(output, "Content type"), strings.Index(output, "Trainee Analyst"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "££££...", truncate("££££££££££", 7))
}
