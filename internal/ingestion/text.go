// Package ingestion turns an uploaded document, pasted text or a URL into
// plain advert text ready for extraction.
package ingestion

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var (
	multiSpace     = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	excessiveBlank = regexp.MustCompile(`\n\n\n+`)
)

// utf8BOM is stripped from decoded uploads.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText decodes uploaded bytes as UTF-8, falling back to Latin-1 when the
// input is not valid UTF-8. Latin-1 maps every byte, so decoding never fails.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "")
	}
	return string(out)
}

// CleanText normalizes line endings, collapses runs of spaces within a line,
// keeps bullet indentation and limits blank lines to one in a row.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := excessiveBlank.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine trims trailing space and collapses inner runs; bullets keep their indent.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t\u00a0")
	trimmed := strings.TrimLeft(line, " \t\u00a0")
	if trimmed == "" {
		return ""
	}

	body := multiSpace.ReplaceAllString(trimmed, " ")
	if isBulletLine(trimmed) {
		indent := len(line) - len(trimmed)
		return strings.Repeat(" ", indent) + body
	}
	return body
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	return strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") ||
		strings.HasPrefix(line, "• ") || strings.HasPrefix(line, "· ")
}
