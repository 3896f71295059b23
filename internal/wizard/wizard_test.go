package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-schema-collector/internal/types"
)

func extractedSession(t *testing.T, values map[string]string) Session {
	t.Helper()
	schema := types.JobAdvertSchema()
	s := NewSession(schema)
	return ApplyExtraction(s, schema.RecordFromMap(values), "pasted text")
}

func assertInvariants(t *testing.T, s Session) {
	t.Helper()
	schema := s.Record.Schema()
	require.NotNil(t, schema)
	assert.Equal(t, schema.Keys(), s.Record.Keys())
	assert.Len(t, s.Record.Map(), schema.Len())
	assert.Equal(t, s.Record.Missing(), s.Queue)
	if s.Cursor != "" {
		assert.Contains(t, s.Queue, s.Cursor)
	}
}

func TestNewSession_Idle(t *testing.T) {
	s := NewSession(types.JobAdvertSchema())

	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.Cursor)
	assert.False(t, s.Extracted)
	assert.Len(t, s.Queue, 10)
	assertInvariants(t, s)
}

func TestApplyExtraction_SetsCursorToFirstMissing(t *testing.T) {
	s := extractedSession(t, map[string]string{
		types.FieldJobTitle:   "Trainee Analyst",
		types.FieldDepartment: "HM Treasury",
	})

	assert.Equal(t, StateAwaitingInput, s.State())
	assert.Equal(t, types.FieldLocation, s.Cursor)
	assert.Equal(t, "pasted text", s.SourceLabel)
	assertInvariants(t, s)
}

func TestApplyExtraction_AllFilledIsComplete(t *testing.T) {
	values := map[string]string{}
	for _, k := range types.JobAdvertSchema().Keys() {
		values[k] = "x"
	}
	values[types.FieldClosingDate] = "2025-12-01"

	s := extractedSession(t, values)

	assert.Equal(t, StateComplete, s.State())
	assert.Empty(t, s.Cursor)
	assert.Empty(t, s.Queue)
	assertInvariants(t, s)
}

func TestApplyExtraction_ForeignSchemaIsProjected(t *testing.T) {
	s := NewSession(types.JobAdvertSchema())
	other := types.NewSchema(types.Field{Name: types.FieldJobTitle}, types.Field{Name: "bonus"})
	rec := other.RecordFromMap(map[string]string{types.FieldJobTitle: "Analyst", "bonus": "yes"})

	out := ApplyExtraction(s, rec, "URL")

	assert.Equal(t, "Analyst", out.Record.Get(types.FieldJobTitle))
	assert.NotContains(t, out.Record.Map(), "bonus")
	assertInvariants(t, out)
}

func TestApplyExtraction_DoesNotMutateInput(t *testing.T) {
	s := NewSession(types.JobAdvertSchema())
	_ = ApplyExtraction(s, s.Record.Schema().RecordFromMap(map[string]string{types.FieldGrade: "HEO"}), "file")

	assert.False(t, s.Extracted)
	assert.Empty(t, s.Record.Get(types.FieldGrade))
}

func TestSubmit_ValidValueRemovesExactlyThatField(t *testing.T) {
	s := extractedSession(t, map[string]string{types.FieldJobTitle: "Analyst"})
	before := s.Record.Map()
	require.Equal(t, types.FieldDepartment, s.Cursor)

	out, err := Submit(s, "  HM Treasury  ")
	require.NoError(t, err)

	assert.Equal(t, "HM Treasury", out.Record.Get(types.FieldDepartment))
	assert.Equal(t, without(s.Queue, types.FieldDepartment), out.Queue)
	for k, v := range before {
		if k == types.FieldDepartment {
			continue
		}
		assert.Equal(t, v, out.Record.Get(k), k)
	}
	assert.Equal(t, types.FieldLocation, out.Cursor)
	assertInvariants(t, out)
}

func TestSubmit_InvalidClosingDateLeavesStateUnchanged(t *testing.T) {
	values := map[string]string{}
	for _, k := range types.JobAdvertSchema().Keys() {
		values[k] = "filled"
	}
	values[types.FieldClosingDate] = ""
	values[types.FieldSummary] = ""
	s := extractedSession(t, values)
	require.Equal(t, types.FieldClosingDate, s.Cursor)

	out, err := Submit(s, "07/11/2025")
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, types.FieldClosingDate, vErr.Field)
	assert.Contains(t, vErr.Message, "YYYY-MM-DD")

	assert.True(t, out.Record.Equal(s.Record))
	assert.Equal(t, s.Queue, out.Queue)
	assert.Equal(t, types.FieldClosingDate, out.Cursor)
	assert.Equal(t, StateAwaitingInput, out.State())
}

func TestSubmit_ValidClosingDateAdvances(t *testing.T) {
	values := map[string]string{}
	for _, k := range types.JobAdvertSchema().Keys() {
		values[k] = "filled"
	}
	values[types.FieldClosingDate] = ""
	values[types.FieldSummary] = ""
	s := extractedSession(t, values)

	out, err := Submit(s, "2025-11-07")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-07", out.Record.Get(types.FieldClosingDate))
	assert.Equal(t, types.FieldSummary, out.Cursor)

	done, err := Submit(out, "A summary")
	require.NoError(t, err)
	assert.Empty(t, done.Cursor)
	assert.Equal(t, StateComplete, done.State())
}

func TestSubmit_EmptyValueIsRejected(t *testing.T) {
	s := extractedSession(t, nil)
	require.Equal(t, types.FieldJobTitle, s.Cursor)

	for _, v := range []string{"", "   ", "\n\t"} {
		out, err := Submit(s, v)
		require.Error(t, err)
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Equal(t, s.Queue, out.Queue)
		assert.Equal(t, types.FieldJobTitle, out.Cursor)
	}
}

func TestSubmit_NoActiveField(t *testing.T) {
	s := NewSession(types.JobAdvertSchema())
	_, err := Submit(s, "value")
	assert.ErrorIs(t, err, ErrNoActiveField)
}

func TestSubmitFor_StaleField(t *testing.T) {
	s := extractedSession(t, nil)

	_, err := SubmitFor(s, types.FieldGrade, "HEO")
	var stale *StaleFieldError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, types.FieldJobTitle, stale.Current)

	out, err := SubmitFor(s, types.FieldJobTitle, "Analyst")
	require.NoError(t, err)
	assert.Equal(t, "Analyst", out.Record.Get(types.FieldJobTitle))
}

func TestBulkEdit_ReplacesRecordAndRecomputesQueue(t *testing.T) {
	s := extractedSession(t, map[string]string{
		types.FieldJobTitle: "Analyst",
		types.FieldGrade:    "HEO",
	})

	out := BulkEdit(s, map[string]string{
		types.FieldJobTitle:   "Senior Analyst",
		types.FieldDepartment: "DWP",
		types.FieldGrade:      "",
		"unknown":             "ignored",
	})

	assert.Equal(t, "Senior Analyst", out.Record.Get(types.FieldJobTitle))
	assert.Equal(t, "DWP", out.Record.Get(types.FieldDepartment))
	assert.Contains(t, out.Queue, types.FieldGrade)
	assert.NotContains(t, out.Record.Map(), "unknown")
	assert.Equal(t, types.FieldLocation, out.Cursor)
	assertInvariants(t, out)
}

func TestBulkEdit_SkipsDateValidation(t *testing.T) {
	s := extractedSession(t, nil)
	out := BulkEdit(s, map[string]string{types.FieldClosingDate: "next Friday"})
	assert.Equal(t, "next Friday", out.Record.Get(types.FieldClosingDate))
}

func TestQueueRecomputationIsIdempotent(t *testing.T) {
	s := extractedSession(t, map[string]string{types.FieldSalary: "£30,000", types.FieldSummary: " "})

	first := settle(s.clone())
	second := settle(first.clone())
	assert.Equal(t, first.Queue, second.Queue)
	assert.Equal(t, first.Cursor, second.Cursor)
	assert.Contains(t, first.Queue, types.FieldSummary)
}

func TestEndToEnd_PastedAdvert(t *testing.T) {
	schema := types.JobAdvertSchema()
	s := NewSession(schema)

	// Stub extraction of "Trainee Analyst, HM Treasury, London. Closing 2025-12-01."
	extracted := schema.RecordFromMap(map[string]string{
		types.FieldJobTitle:    "Trainee Analyst",
		types.FieldDepartment:  "HM Treasury",
		types.FieldLocation:    "London",
		types.FieldClosingDate: "2025-12-01",
	})
	s = ApplyExtraction(s, extracted, "pasted text")

	assert.Equal(t, []string{
		types.FieldSalary, types.FieldGrade, types.FieldSummary,
		types.FieldResponsibilities, types.FieldEssentialCriteria, types.FieldDesirableCriteria,
	}, s.Queue)

	answers := []string{"£30,000", "EO", "Entry role", "Analysis", "Numeracy", "Excel"}
	for _, a := range answers {
		var err error
		s, err = Submit(s, a)
		require.NoError(t, err)
		assertInvariants(t, s)
	}

	assert.Empty(t, s.Queue)
	assert.Equal(t, StateComplete, s.State())
	filled, total := s.Progress()
	assert.Equal(t, 10, filled)
	assert.Equal(t, 10, total)
}

func TestValidateField(t *testing.T) {
	tests := []struct {
		field   string
		value   string
		wantErr bool
	}{
		{types.FieldClosingDate, "2025-11-07", false},
		{types.FieldClosingDate, "07/11/2025", true},
		{types.FieldClosingDate, "2025-1-7", true},
		{types.FieldClosingDate, "2025-13-45", false}, // shape only
		{types.FieldSalary, "anything goes", false},
		{types.FieldSalary, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.value, func(t *testing.T) {
			err := ValidateField(tt.field, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCurrentField(t *testing.T) {
	s := extractedSession(t, map[string]string{
		types.FieldJobTitle: "a", types.FieldDepartment: "b", types.FieldLocation: "c",
	})
	f, ok := s.CurrentField()
	require.True(t, ok)
	assert.Equal(t, types.FieldSalary, f.Name)
	assert.NotEmpty(t, f.Hint)
}
