package ingestion

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jonathan/job-schema-collector/internal/fetch"
	"github.com/jonathan/job-schema-collector/internal/types"
)

// Result is the text acquired from one source.
type Result struct {
	Text     string
	Label    string // "file", "pasted text" or "URL"
	Metadata *Metadata
}

// Select picks the source for one extraction attempt. With an explicit kind
// only that source is considered; otherwise the first non-empty source in the
// order upload, pasted text, URL wins. It returns nil when nothing qualifies.
func Select(kind types.SourceKind, upload types.UploadSource, text, url string) types.Source {
	candidates := map[types.SourceKind]types.Source{
		types.SourceUpload: upload,
		types.SourceText:   types.TextSource{Text: text},
		types.SourceURL:    types.URLSource{URL: url},
	}

	if kind != "" {
		src, ok := candidates[kind]
		if !ok || src.Empty() {
			return nil
		}
		return src
	}

	for _, k := range []types.SourceKind{types.SourceUpload, types.SourceText, types.SourceURL} {
		if src := candidates[k]; !src.Empty() {
			return src
		}
	}
	return nil
}

// Acquirer reads text from a selected source.
type Acquirer struct {
	FetchOptions *fetch.Options
	UseBrowser   bool
}

// NewAcquirer returns an Acquirer with default fetch options.
func NewAcquirer(opts *fetch.Options, useBrowser bool) *Acquirer {
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &Acquirer{FetchOptions: opts, UseBrowser: useBrowser}
}

// Acquire returns the cleaned text of src. A nil or empty source yields
// ErrNoSource; a source that produces no text yields a SourceError wrapping
// ErrNoText. Either way the caller must not run extraction.
func (a *Acquirer) Acquire(ctx context.Context, src types.Source) (*Result, error) {
	if src == nil || src.Empty() {
		return nil, ErrNoSource
	}

	var (
		text string
		meta *Metadata
		err  error
	)

	switch s := src.(type) {
	case types.UploadSource:
		text, meta, err = a.fromUpload(s)
	case types.TextSource:
		text = CleanText(s.Text)
		meta = NewMetadata(types.SourceText, text)
	case types.URLSource:
		text, meta, err = IngestFromURL(ctx, s.URL, a.FetchOptions, a.UseBrowser)
	default:
		return nil, fmt.Errorf("unknown source type %T", src)
	}
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, &SourceError{Source: src.Kind(), Message: "no text found", Cause: ErrNoText}
	}

	log.Info().
		Str("source", src.Label()).
		Object("metadata", meta).
		Msg("Acquired advert text")

	return &Result{Text: text, Label: src.Label(), Metadata: meta}, nil
}

func (a *Acquirer) fromUpload(s types.UploadSource) (string, *Metadata, error) {
	raw, err := ExtractUpload(s.Filename, s.Data)
	if err != nil {
		return "", nil, &SourceError{Source: types.SourceUpload, Message: err.Error(), Cause: err}
	}
	text := CleanText(raw)
	meta := NewMetadata(types.SourceUpload, text)
	meta.Filename = s.Filename
	meta.ContentType = http.DetectContentType(s.Data)
	return text, meta, nil
}
