package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jonathan/job-schema-collector/internal/types"
)

// Metadata describes where acquired text came from.
type Metadata struct {
	Source      types.SourceKind
	Filename    string
	URL         string
	Platform    string // Detected job board platform
	StatusCode  int    // HTTP status of a URL fetch
	ContentType string // Response or sniffed upload content type
	Length      int    // Characters of acquired text
	Hash        string // SHA256 hex digest of the text
}

// NewMetadata records the kind, length and digest of content.
func NewMetadata(kind types.SourceKind, content string) *Metadata {
	return &Metadata{
		Source: kind,
		Length: len([]rune(content)),
		Hash:   computeHash(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// MarshalZerologObject adds the non-empty fields to a log event.
func (m *Metadata) MarshalZerologObject(e *zerolog.Event) {
	e.Str("kind", string(m.Source)).Int("length", m.Length).Str("hash", m.Hash)
	if m.Filename != "" {
		e.Str("filename", m.Filename)
	}
	if m.URL != "" {
		e.Str("url", m.URL)
	}
	if m.Platform != "" {
		e.Str("platform", m.Platform)
	}
	if m.StatusCode != 0 {
		e.Int("status", m.StatusCode)
	}
	if m.ContentType != "" {
		e.Str("content_type", m.ContentType)
	}
}

// Details returns the debug lines shown under the source preview.
func (m *Metadata) Details() []string {
	if m == nil {
		return nil
	}
	var lines []string
	if m.Filename != "" {
		lines = append(lines, "Filename: "+m.Filename)
	}
	if m.URL != "" {
		lines = append(lines, "URL: "+m.URL)
	}
	if m.Platform != "" {
		lines = append(lines, "Platform: "+m.Platform)
	}
	if m.StatusCode != 0 {
		lines = append(lines, fmt.Sprintf("Status code: %d", m.StatusCode))
	}
	if m.ContentType != "" {
		lines = append(lines, "Content type: "+m.ContentType)
	}
	return lines
}
