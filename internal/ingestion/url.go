package ingestion

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/jonathan/job-schema-collector/internal/fetch"
	"github.com/jonathan/job-schema-collector/internal/types"
)

// IngestFromURL fetches an advert page, extracts its main text and cleans it.
// A missing scheme is treated as https. If useBrowser is true, pages with too
// little text are re-rendered in a headless browser.
func IngestFromURL(ctx context.Context, rawURL string, opts *fetch.Options, useBrowser bool) (string, *Metadata, error) {
	urlStr := fetch.NormalizeURL(rawURL)
	if urlStr == "" {
		return "", nil, ErrNoSource
	}

	result, err := fetch.Page(ctx, urlStr, opts, useBrowser)
	if err != nil {
		var fErr *fetch.Error
		msg := "failed to fetch URL"
		if errors.As(err, &fErr) {
			msg = fErr.Message
		}
		return "", nil, &SourceError{Source: types.SourceURL, Message: msg, Cause: err}
	}

	cleanedText := CleanText(result.Text)

	metadata := NewMetadata(types.SourceURL, cleanedText)
	metadata.URL = urlStr
	metadata.Platform = string(fetch.DetectPlatform(urlStr))
	metadata.StatusCode = result.StatusCode
	metadata.ContentType = result.ContentType

	if cleanedText == "" {
		log.Warn().Str("url", urlStr).Msg("No text was extracted from the page")
		return "", metadata, &SourceError{Source: types.SourceURL, Message: "page has no readable text", Cause: ErrNoText}
	}

	return cleanedText, metadata, nil
}
