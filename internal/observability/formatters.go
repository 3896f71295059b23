// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/job-schema-collector/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// valueWidth bounds a value preview inside the record box
	valueWidth = 34
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRecord outputs every field of the record with a one-line preview.
func (p *Printer) PrintRecord(rec types.Record) {
	schema := rec.Schema()
	if schema == nil {
		return
	}

	var sb strings.Builder
	for _, f := range schema.Fields() {
		value := firstLine(rec.Get(f.Name))
		if value == "" {
			value = "—"
		}
		sb.WriteString(fmt.Sprintf("%-20s %s\n", f.Label+":", truncate(value, valueWidth)))
	}
	sb.WriteString(fmt.Sprintf("\n%s", progressLine(rec)))

	p.printBox("JOB ADVERT SCHEMA", sb.String())
}

// PrintMissing outputs the fields still to be completed.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMissing(rec types.Record) {
	missing := rec.Missing()
	if len(missing) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad("✅ ALL FIELDS COMPLETE", boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d field(s) still needed:\n\n", len(missing)))
	for _, name := range missing {
		sb.WriteString(fmt.Sprintf("• %s\n", types.PrettyLabel(name)))
	}

	p.printBox("MISSING FIELDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSource outputs the acquired source caption, any fetch details and a
// text preview.
func (p *Printer) PrintSource(label string, text string, details ...string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Detected source: %s\n", label))
	sb.WriteString(fmt.Sprintf("Length:          %d characters\n", utf8.RuneCountInString(text)))
	for _, d := range details {
		sb.WriteString(d + "\n")
	}
	sb.WriteString("\n")

	lines := strings.Split(strings.TrimSpace(text), "\n")
	count := min(len(lines), 5)
	for i := 0; i < count; i++ {
		sb.WriteString(lines[i] + "\n")
	}
	if len(lines) > count {
		sb.WriteString(fmt.Sprintf("... and %d more lines", len(lines)-count))
	}

	p.printBox("SOURCE TEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// progressLine renders "Progress: done / total (pct%)".
func progressLine(rec types.Record) string {
	total := len(rec.Keys())
	done := rec.FilledCount()
	pct := 0
	if total > 0 {
		pct = done * 100 / total
	}
	return fmt.Sprintf("Progress: %d / %d (%d%%)", done, total, pct)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// pad right-pads s with spaces to n runes.
func pad(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}
