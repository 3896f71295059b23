// Package extraction turns raw advert text into a best-effort record of the
// target schema using an LLM.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonathan/job-schema-collector/internal/llm"
	"github.com/jonathan/job-schema-collector/internal/prompts"
	"github.com/jonathan/job-schema-collector/internal/types"
)

// schemaName names the response format sent to providers with structured output.
const schemaName = "job_advert"

// Extractor fills a schema from advert text. A nil client makes every
// extraction fail with ErrNoClient while still returning a usable record.
type Extractor struct {
	client llm.Client
	tier   llm.ModelTier
	logger zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTier selects the model tier used for extraction.
func WithTier(tier llm.ModelTier) Option {
	return func(e *Extractor) { e.tier = tier }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// New returns an Extractor backed by client.
func New(client llm.Client, opts ...Option) *Extractor {
	e := &Extractor{
		client: client,
		tier:   llm.TierStandard,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Available reports whether a client is configured.
func (e *Extractor) Available() bool {
	return e != nil && e.client != nil
}

// Extract asks the model to fill schema from text.
//
// It always returns a record of schema. On an API failure or an unparseable
// response the record is schema.Empty() and the error explains why.
func (e *Extractor) Extract(ctx context.Context, text string, schema *types.Schema) (types.Record, error) {
	if !e.Available() {
		return schema.Empty(), &APICallError{Provider: "llm", Cause: ErrNoClient}
	}

	prompt, err := BuildPrompt(schema, text)
	if err != nil {
		return schema.Empty(), err
	}

	model := e.client.GetModel(e.tier)
	e.logger.Info().Str("model", model).Int("text_length", len(text)).Msg("Extracting fields")

	var raw string
	if sc, ok := e.client.(llm.StructuredClient); ok {
		raw, err = sc.GenerateStructured(ctx, prompt, e.tier, schemaName, schema.Definition())
	} else {
		raw, err = e.client.GenerateJSON(ctx, prompt, e.tier)
	}
	if err != nil {
		e.logger.Error().Err(err).Str("model", model).Msg("Extraction call failed")
		return schema.Empty(), &APICallError{Provider: model, Cause: err}
	}

	rec, err := Normalize(raw, schema)
	if err != nil {
		e.logger.Warn().Err(err).Int("response_length", len(raw)).Msg("Could not parse extraction response")
		return schema.Empty(), err
	}

	e.logger.Info().
		Int("filled", rec.FilledCount()).
		Int("total", schema.Len()).
		Msg("Extraction finished")
	return rec, nil
}

// BuildPrompt renders the extraction prompt: the JSON skeleton of schema (all
// values empty, keys in schema order), per-field notes and the advert text.
func BuildPrompt(schema *types.Schema, text string) (string, error) {
	skeleton, err := json.MarshalIndent(schema.Empty(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render schema skeleton: %w", err)
	}

	var notes []string
	for _, f := range schema.Fields() {
		if f.Description == "" {
			continue
		}
		note, err := prompts.Render(prompts.ExtractionFile, "field-note", map[string]string{
			"Name":        f.Name,
			"Description": f.Description,
		})
		if err != nil {
			return "", err
		}
		notes = append(notes, note)
	}

	fieldNotes := ""
	if len(notes) > 0 {
		fieldNotes = "\nField notes:\n" + strings.Join(notes, "\n") + "\n"
	}

	return prompts.Render(prompts.ExtractionFile, "job-advert", map[string]string{
		"FieldNotes": fieldNotes,
		"Schema":     string(skeleton),
		"Text":       text,
	})
}
