package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-schema-collector/internal/config"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print an APP_PW_HASH value for a password",
	Long:  "Hash a password for the APP_PW_HASH environment variable. Reads the password from stdin when no argument is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHashPassword,
}

var (
	hashBcrypt bool
	hashCost   int
)

func init() {
	hashPasswordCmd.Flags().BoolVar(&hashBcrypt, "bcrypt", false, "Produce a bcrypt hash instead of SHA-256 hex")
	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", 12, "bcrypt cost (10-14)")
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	var pw string
	if len(args) == 1 {
		pw = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		pw = strings.TrimRight(line, "\r\n")
	}
	if pw == "" {
		return fmt.Errorf("password must not be empty")
	}

	kind := config.HashSHA256
	if hashBcrypt {
		if hashCost < 10 || hashCost > 14 {
			return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", hashCost)
		}
		kind = config.HashBcrypt
	}

	hash, err := (&config.GateConfig{BcryptCost: hashCost}).HashPassword(pw, kind)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
