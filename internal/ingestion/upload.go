package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

// SupportedExtensions lists the upload formats in the order the UI advertises them.
var SupportedExtensions = []string{".txt", ".docx", ".pdf"}

// ErrUnsupportedFormat is returned for uploads with any other extension.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// ExtractUpload returns the text of an uploaded document, dispatching on the
// filename extension. Parser failures (including panics inside either
// document reader) come back as errors.
func ExtractUpload(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return DecodeText(data), nil
	case ".docx":
		text, err := docxText(data)
		if err != nil {
			return "", fmt.Errorf("could not parse DOCX: %w", err)
		}
		return text, nil
	case ".pdf":
		text, err := pdfText(data)
		if err != nil {
			return "", fmt.Errorf("could not parse PDF: %w", err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w %q (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(SupportedExtensions, ", "))
	}
}

// docxText returns the body text of a Word document. Converter panics on
// archives with dangling content-type overrides come back as errors.
func docxText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed DOCX: %v", r)
		}
	}()

	body, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(body)
	if text == "" {
		return "", errors.New("no text found in word/document.xml")
	}
	return text, nil
}

// pdfText returns the plain text of every page, one page per block.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n"), nil
}
