// Package fetch provides URL fetching and HTML-to-text processing for job adverts.
package fetch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// MaxTimeout caps configured timeouts.
const MaxTimeout = 15 * time.Second

// DefaultUserAgent mimics a desktop browser; several job boards reject bot agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// maxBodyBytes bounds the response body read into memory.
const maxBodyBytes = 10 << 20

// Result holds the raw and processed content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	Text        string
	ContentType string
	StatusCode  int
}

// ErrorKind classifies fetch failures so callers can show distinct messages.
type ErrorKind string

const (
	KindInvalidURL  ErrorKind = "invalid_url"
	KindCertificate ErrorKind = "certificate"
	KindConnection  ErrorKind = "connection"
	KindTimeout     ErrorKind = "timeout"
	KindStatus      ErrorKind = "status"
	KindRead        ErrorKind = "read"
	KindParse       ErrorKind = "parse"
)

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	Kind       ErrorKind
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage returns a short message suitable for showing inline in the UI.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindInvalidURL:
		return "That doesn't look like a valid URL."
	case KindCertificate:
		return fmt.Sprintf("SSL Certificate Error: %v", e.Cause)
	case KindConnection:
		return "Connection error: check the URL and your connection."
	case KindTimeout:
		return "The request timed out."
	case KindStatus:
		return fmt.Sprintf("Error fetching URL: HTTP status %d", e.StatusCode)
	default:
		return fmt.Sprintf("Error fetching URL: %s", e.Message)
	}
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Verbose   bool
	// Client overrides the HTTP client (tests use the httptest TLS client).
	Client *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// ClampTimeout bounds d to (0, MaxTimeout], using DefaultTimeout for zero.
func ClampTimeout(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return DefaultTimeout
	case d > MaxTimeout:
		return MaxTimeout
	default:
		return d
	}
}

// NormalizeURL trims the input and prepends https:// when no scheme is given.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "https://" + raw
	}
	return raw
}

// URL retrieves HTML content from a URL.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Kind:    KindInvalidURL,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	timeout := ClampTimeout(opts.Timeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Kind:    KindInvalidURL,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, classify(urlStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if opts.Verbose {
		log.Debug().
			Str("url", urlStr).
			Int("status", resp.StatusCode).
			Str("content_type", resp.Header.Get("Content-Type")).
			Msg("Fetched URL")
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		fErr := classify(urlStr, err)
		if fErr.Kind == KindConnection {
			fErr.Kind = KindRead
			fErr.Message = "failed to read response body"
		}
		return nil, fErr
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{
			URL:        urlStr,
			Kind:       KindStatus,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	return result, nil
}

// classify maps a transport error to an Error with the matching kind.
func classify(urlStr string, err error) *Error {
	var (
		unknownAuth x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
		invalidCert x509.CertificateInvalidError
		verifyErr   *tls.CertificateVerificationError
		netErr      net.Error
	)

	switch {
	case errors.As(err, &verifyErr), errors.As(err, &unknownAuth),
		errors.As(err, &hostnameErr), errors.As(err, &invalidCert):
		return &Error{URL: urlStr, Kind: KindCertificate, Message: "TLS certificate verification failed", Cause: err}
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return &Error{URL: urlStr, Kind: KindTimeout, Message: "request timed out", Cause: err}
	default:
		return &Error{URL: urlStr, Kind: KindConnection, Message: "HTTP request failed", Cause: err}
	}
}

// ExtractMainText parses HTML and returns the main body text, one text node per line.
// It removes noise elements using noiseSelectors, then finds content using contentSelectors.
// If no content selectors match, it falls back to the body element.
func ExtractMainText(htmlStr string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, header, footer, nav").Remove()

	if len(noiseSelectors) > 0 {
		noiseSelector := strings.Join(noiseSelectors, ", ")
		if noiseSelector != "" {
			doc.Find(noiseSelector).Remove()
		}
	}

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}

	if mainContent == nil {
		mainContent = doc.Find("body")
		if mainContent.Length() == 0 {
			mainContent = doc.Selection
		}
	}

	var lines []string
	for _, n := range mainContent.Nodes {
		collectText(n, &lines)
	}
	return strings.Join(lines, "\n"), nil
}

// collectText appends the trimmed, non-empty text nodes under n in document order.
func collectText(n *html.Node, lines *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*lines = append(*lines, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, lines)
	}
}

// AdvertSelectors returns the generic content selectors in preference order.
func AdvertSelectors() []string {
	return []string{
		"main",
		"article",
		"div.content",
		".content",
	}
}

// Page fetches a job advert and extracts its main text. Platform-specific
// selectors are used when the host is recognized. With useBrowser set, pages
// whose text is shorter than MinContentLength are re-rendered in a headless browser.
func Page(ctx context.Context, rawURL string, opts *Options, useBrowser bool) (*Result, error) {
	urlStr := NormalizeURL(rawURL)
	if urlStr == "" {
		return nil, &Error{URL: rawURL, Kind: KindInvalidURL, Message: "empty URL"}
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	result, err := URL(ctx, urlStr, opts)
	if err != nil {
		return result, err
	}

	platform := DetectPlatform(urlStr)
	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)

	text, err := ExtractMainText(result.HTML, content, noise...)
	if err != nil {
		return result, &Error{URL: urlStr, Kind: KindParse, Message: "failed to parse HTML", Cause: err}
	}

	if useBrowser && ShouldUseBrowser(text) {
		rendered, bErr := WithBrowser(ctx, urlStr, MaxTimeout*2, opts.Verbose)
		if bErr != nil {
			log.Warn().Err(bErr).Str("url", urlStr).Msg("Browser fallback failed, keeping HTTP text")
		} else if bText, pErr := ExtractMainText(rendered, content, noise...); pErr == nil && len(bText) > len(text) {
			result.HTML = rendered
			text = bText
		}
	}

	result.Text = text
	if opts.Verbose {
		log.Debug().
			Str("url", urlStr).
			Str("platform", string(platform)).
			Int("length", len(text)).
			Str("preview", Preview(text, 100)).
			Msg("Extracted page text")
	}
	return result, nil
}

// Preview returns at most n runes of s followed by "..." when truncated.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
