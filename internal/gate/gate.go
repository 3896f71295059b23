// Package gate guards the workflow behind a single shared password.
package gate

import (
	"errors"

	"github.com/jonathan/job-schema-collector/internal/wizard"
)

var (
	// ErrNotConfigured is returned when no access hash is set; all access is blocked.
	ErrNotConfigured = errors.New("access password is not configured")
	// ErrIncorrectPassword is returned when the submitted password does not match.
	ErrIncorrectPassword = errors.New("incorrect password")
)

// Verifier checks a password against the configured hash.
// config.GateConfig implements it.
type Verifier interface {
	Configured() bool
	VerifyPassword(pw string) bool
}

// Unlock returns a copy of s marked authenticated when password matches.
// On any failure s is returned unchanged.
func Unlock(s wizard.Session, v Verifier, password string) (wizard.Session, error) {
	if v == nil || !v.Configured() {
		return s, ErrNotConfigured
	}
	if !v.VerifyPassword(password) {
		return s, ErrIncorrectPassword
	}
	s.Authenticated = true
	return s, nil
}

// Lock clears the authenticated flag.
func Lock(s wizard.Session) wizard.Session {
	s.Authenticated = false
	return s
}
