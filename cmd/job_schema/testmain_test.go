package main

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

// TestMain runs before all tests and keeps log output quiet
func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)

	os.Exit(m.Run())
}
