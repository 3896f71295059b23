package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-schema-collector/internal/schemas"
	"github.com/jonathan/job-schema-collector/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file.json>",
	Short: "Validate a saved record against the job advert schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := schemas.ValidateFile(types.JobAdvertSchema(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid job advert record\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
