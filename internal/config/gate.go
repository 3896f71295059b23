// Package config provides access password configuration and hashing functionality.
package config

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashKind identifies the format of the configured access hash.
type HashKind string

const (
	HashNone   HashKind = ""
	HashSHA256 HashKind = "sha256"
	HashBcrypt HashKind = "bcrypt"
)

// GateConfig holds the shared access password hash.
type GateConfig struct {
	Hash       string
	BcryptCost int
}

// NewGateConfig creates a gate configuration from environment variables.
// It reads APP_PW_HASH (may be empty, which blocks all access) and BCRYPT_COST (default: 12).
func NewGateConfig() (*GateConfig, error) {
	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12"
	}

	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}

	config := &GateConfig{
		Hash:       strings.TrimSpace(os.Getenv("APP_PW_HASH")),
		BcryptCost: cost,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *GateConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	if c.Hash != "" && c.Kind() == HashNone {
		return fmt.Errorf("APP_PW_HASH is neither a hex SHA-256 digest nor a bcrypt hash")
	}
	return nil
}

// Configured reports whether an access hash is set.
func (c *GateConfig) Configured() bool {
	return c != nil && c.Hash != ""
}

// Kind detects the hash format.
func (c *GateConfig) Kind() HashKind {
	if c == nil || c.Hash == "" {
		return HashNone
	}
	if strings.HasPrefix(c.Hash, "$2") {
		return HashBcrypt
	}
	if len(c.Hash) == sha256.Size*2 {
		if _, err := hex.DecodeString(c.Hash); err == nil {
			return HashSHA256
		}
	}
	return HashNone
}

// VerifyPassword checks pw against the configured hash.
// An unconfigured gate never matches.
func (c *GateConfig) VerifyPassword(pw string) bool {
	switch c.Kind() {
	case HashSHA256:
		got := SHA256Hex(pw)
		return subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(c.Hash))) == 1
	case HashBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(pw)) == nil
	default:
		return false
	}
}

// HashPassword hashes a password in the given format for use as APP_PW_HASH.
func (c *GateConfig) HashPassword(pw string, kind HashKind) (string, error) {
	switch kind {
	case HashSHA256:
		return SHA256Hex(pw), nil
	case HashBcrypt:
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), c.BcryptCost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		return string(hash), nil
	default:
		return "", fmt.Errorf("unsupported hash kind: %q", kind)
	}
}

// SHA256Hex returns the lowercase hex SHA-256 digest of pw.
func SHA256Hex(pw string) string {
	sum := sha256.Sum256([]byte(pw))
	return hex.EncodeToString(sum[:])
}
