package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, gotUA, "Chrome/")
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindInvalidURL, fetchErr.Kind)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindStatus, fetchErr.Kind)
	assert.Contains(t, fetchErr.UserMessage(), "404")
}

func TestURL_CertificateError(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	// The default client does not trust the test server's self-signed certificate.
	_, err := URL(context.Background(), server.URL, DefaultOptions())
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindCertificate, fetchErr.Kind)
	assert.Contains(t, fetchErr.UserMessage(), "SSL Certificate Error")
}

func TestURL_TrustedTLSClient(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<main>ok</main>"))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Client = server.Client()
	result, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
	assert.Contains(t, result.HTML, "ok")
}

func TestURL_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Timeout = 50 * time.Millisecond
	_, err := URL(context.Background(), server.URL, opts)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindTimeout, fetchErr.Kind)
	assert.Equal(t, "The request timed out.", fetchErr.UserMessage())
}

func TestURL_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := URL(context.Background(), addr, nil)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindConnection, fetchErr.Kind)
	assert.Contains(t, fetchErr.UserMessage(), "Connection error")
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"example.com/job":           "https://example.com/job",
		"  example.com  ":           "https://example.com",
		"http://example.com":        "http://example.com",
		"HTTPS://example.com/a?b=c": "HTTPS://example.com/a?b=c",
		"":                          "",
		"   ":                       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeURL(in), in)
	}
}

func TestClampTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, ClampTimeout(0))
	assert.Equal(t, MaxTimeout, ClampTimeout(time.Minute))
	assert.Equal(t, 12*time.Second, ClampTimeout(12*time.Second))
}

func TestExtractMainText_WithMainElement(t *testing.T) {
	html := `
	<html>
		<head><style>.x{}</style></head>
		<body>
			<header>Site header</header>
			<nav>Navigation</nav>
			<main>
				<h1>Main Content</h1>
				<p>This is the <b>important</b> text.</p>
				<script>var x = 1;</script>
			</main>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, AdvertSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Main Content\nThis is the\nimportant\ntext.", text)
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "var x")
}

func TestExtractMainText_PreferenceOrder(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "article before content div",
			html: `<body><div class="content">Div</div><article>Art</article></body>`,
			want: "Art",
		},
		{
			name: "content div",
			html: `<body><p>Outside</p><div class="content">Inside</div></body>`,
			want: "Inside",
		},
		{
			name: "body fallback",
			html: `<body><div>Some content here.</div><noscript>Enable JS</noscript></body>`,
			want: "Some content here.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractMainText(tt.html, AdvertSelectors())
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestExtractMainText_NoiseSelectors(t *testing.T) {
	html := `<main><div class="cookie-banner">Accept cookies</div><p>Grade 7</p></main>`

	text, err := ExtractMainText(html, AdvertSelectors(), PlatformNoiseSelectors(PlatformUnknown)...)
	require.NoError(t, err)
	assert.Equal(t, "Grade 7", text)
}

func TestPage_ExtractsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><nav>menu</nav><article><h1>Policy Advisor</h1><p>HM Treasury</p></article></body></html>`))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Verbose = true
	result, err := Page(context.Background(), server.URL, opts, false)
	require.NoError(t, err)
	assert.Equal(t, "Policy Advisor\nHM Treasury", result.Text)
	assert.True(t, strings.HasPrefix(result.ContentType, "text/html"))
}

func TestPage_EmptyURL(t *testing.T) {
	_, err := Page(context.Background(), "  ", nil, false)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindInvalidURL, fetchErr.Kind)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 100))
	assert.Equal(t, "ab...", Preview("abcdef", 2))
	assert.Equal(t, "£1...", Preview("£12", 2))
}
