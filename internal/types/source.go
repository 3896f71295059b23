package types

import "strings"

// SourceKind identifies which input a job advert came from.
type SourceKind string

const (
	// SourceUpload is an uploaded .txt, .docx or .pdf document
	SourceUpload SourceKind = "upload"
	// SourceText is text pasted by the user
	SourceText SourceKind = "text"
	// SourceURL is a page fetched from the web
	SourceURL SourceKind = "url"
)

// Source is one job advert input. Exactly one source is consulted per extraction attempt.
type Source interface {
	Kind() SourceKind
	// Label is the human-readable name shown as the detected source.
	Label() string
	// Empty reports whether the source carries no usable payload.
	Empty() bool
}

// UploadSource is a document uploaded by the user.
type UploadSource struct {
	Filename string
	Data     []byte
}

// Kind implements Source.
func (UploadSource) Kind() SourceKind { return SourceUpload }

// Label implements Source.
func (UploadSource) Label() string { return "file" }

// Empty implements Source.
func (s UploadSource) Empty() bool { return s.Filename == "" && len(s.Data) == 0 }

// TextSource is pasted advert text.
type TextSource struct {
	Text string
}

// Kind implements Source.
func (TextSource) Kind() SourceKind { return SourceText }

// Label implements Source.
func (TextSource) Label() string { return "pasted text" }

// Empty implements Source.
func (s TextSource) Empty() bool { return isBlank(s.Text) }

// URLSource is the address of an advert page.
type URLSource struct {
	URL string
}

// Kind implements Source.
func (URLSource) Kind() SourceKind { return SourceURL }

// Label implements Source.
func (URLSource) Label() string { return "URL" }

// Empty implements Source.
func (s URLSource) Empty() bool { return isBlank(s.URL) }

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
