package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-schema-collector/internal/ingestion"
	"github.com/jonathan/job-schema-collector/internal/observability"
	"github.com/jonathan/job-schema-collector/internal/schemas"
	"github.com/jonathan/job-schema-collector/internal/types"
	"github.com/jonathan/job-schema-collector/internal/wizard"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the job advert schema from a file, text or URL",
	Long: `Read a job advert from --file (.txt, .docx, .pdf), --text or --url, extract the
schema fields with the configured LLM and print the result. With --interactive the
missing fields are asked for one at a time on stdin.`,
	RunE: runExtract,
}

var (
	extractFile        string
	extractText        string
	extractURL         string
	extractOut         string
	extractInteractive bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to a .txt, .docx or .pdf advert")
	extractCmd.Flags().StringVarP(&extractText, "text", "t", "", "Advert text")
	extractCmd.Flags().StringVarP(&extractURL, "url", "u", "", "URL of the advert page")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Write the record as JSON to this path")
	extractCmd.Flags().BoolVarP(&extractInteractive, "interactive", "i", false, "Ask for missing fields on stdin")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	upload, err := readUpload(extractFile)
	if err != nil {
		return err
	}
	src := ingestion.Select("", upload, extractText, extractURL)
	if src == nil {
		return fmt.Errorf("one of --file, --text or --url must be provided")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	acquired, err := newAcquirer(cfg).Acquire(ctx, src)
	if err != nil {
		return fmt.Errorf("failed to read advert: %s", ingestion.UserMessage(err))
	}

	extractor, closeLLM, err := newExtractor(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLLM()

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	if cfg.Verbose {
		printer.PrintSource(acquired.Label, acquired.Text, acquired.Metadata.Details()...)
	}

	schema := types.JobAdvertSchema()
	rec, extractErr := extractor.Extract(ctx, acquired.Text, schema)
	if extractErr != nil {
		log.Error().Err(extractErr).Msg("Extraction failed, continuing with an empty record")
	}

	sess := wizard.NewSession(schema)
	sess.Authenticated = true
	sess = wizard.ApplyExtraction(sess, rec, acquired.Label)

	if extractInteractive {
		sess, err = completeInteractively(cmd.InOrStdin(), out, sess)
		if err != nil {
			return err
		}
	}

	printer.PrintRecord(sess.Record)
	printer.PrintMissing(sess.Record)

	if extractOut != "" {
		if err := writeRecord(extractOut, sess.Record); err != nil {
			return err
		}
		fmt.Fprintf(out, "Record: %s\n", extractOut)
	}
	return nil
}

// readUpload loads path as an upload source; an empty path yields an empty source.
func readUpload(path string) (types.UploadSource, error) {
	if path == "" {
		return types.UploadSource{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.UploadSource{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return types.UploadSource{Filename: filepath.Base(path), Data: data}, nil
}

// completeInteractively asks for each missing field until the record is
// complete or in runs out. Rejected answers are reported and asked again.
func completeInteractively(in io.Reader, out io.Writer, sess wizard.Session) (wizard.Session, error) {
	scanner := bufio.NewScanner(in)
	for sess.State() == wizard.StateAwaitingInput {
		field, _ := sess.CurrentField()
		filled, total := sess.Progress()
		fmt.Fprintf(out, "[%d/%d] %s", filled, total, field.Label)
		if field.Hint != "" {
			fmt.Fprintf(out, " (%s)", field.Hint)
		}
		fmt.Fprint(out, ": ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return sess, fmt.Errorf("failed to read input: %w", err)
			}
			fmt.Fprintln(out)
			return sess, nil
		}

		next, err := wizard.Submit(sess, scanner.Text())
		var vErr *wizard.ValidationError
		switch {
		case errors.As(err, &vErr):
			fmt.Fprintf(out, "  %s\n", vErr.Message)
			continue
		case err != nil:
			return sess, err
		}
		sess = next
	}
	return sess, nil
}

// writeRecord writes rec as indented JSON and checks the file against the schema.
func writeRecord(path string, rec types.Record) error {
	data, err := rec.ToJSON()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return schemas.ValidateFile(rec.Schema(), path)
}
