package ingestion

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-schema-collector/internal/types"
)

func TestNewMetadata(t *testing.T) {
	m := NewMetadata(types.SourceText, "£30,000")

	assert.Equal(t, types.SourceText, m.Source)
	assert.Equal(t, 7, m.Length)
	assert.Len(t, m.Hash, 64)
}

func TestComputeHash(t *testing.T) {
	assert.Equal(t, computeHash("a"), computeHash("a"))
	assert.NotEqual(t, computeHash("a"), computeHash("b"))
}

func TestMetadata_LogObject(t *testing.T) {
	m := NewMetadata(types.SourceURL, "text")
	m.URL = "https://boards.greenhouse.io/acme/jobs/1"
	m.Platform = "greenhouse"
	m.StatusCode = 200
	m.ContentType = "text/html; charset=utf-8"

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Info().Object("metadata", m).Msg("Acquired advert text")

	var entry struct {
		Metadata map[string]any `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "url", entry.Metadata["kind"])
	assert.Equal(t, "greenhouse", entry.Metadata["platform"])
	assert.EqualValues(t, 200, entry.Metadata["status"])
	assert.Equal(t, "text/html; charset=utf-8", entry.Metadata["content_type"])
	assert.Equal(t, m.Hash, entry.Metadata["hash"])
	assert.NotContains(t, entry.Metadata, "filename")
}

func TestMetadata_Details(t *testing.T) {
	m := NewMetadata(types.SourceURL, "text")
	m.StatusCode = 200
	m.ContentType = "text/html"

	assert.Equal(t, []string{"Status code: 200", "Content type: text/html"}, m.Details())

	upload := NewMetadata(types.SourceUpload, "text")
	upload.Filename = "advert.pdf"
	assert.Equal(t, []string{"Filename: advert.pdf"}, upload.Details())

	var missing *Metadata
	assert.Empty(t, missing.Details())
}
