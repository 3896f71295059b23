// Package middleware provides HTTP middleware for session tracking.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// sessionIDKey is the context key for storing the session ID.
const sessionIDKey ContextKey = "sessionID"

// CookieName is the name of the signed session cookie.
const CookieName = "job_schema_session"

// TokenHeader carries a freshly issued session token for clients without a cookie jar.
const TokenHeader = "X-Session-Token"

// TokenService issues and validates signed session tokens.
// This allows the middleware to work with any token implementation.
type TokenService interface {
	GenerateToken(sessionID uuid.UUID) (string, error)
	ValidateToken(tokenString string) (SessionIDGetter, error)
}

// SessionIDGetter is an interface for extracting the session ID and expiry
// from token claims.
type SessionIDGetter interface {
	GetSessionID() uuid.UUID
	GetExpiry() time.Time
}

// Sessions attaches a session ID to every request. The ID comes from the
// session cookie or a Bearer token; when neither is valid a new session is
// started and its token is returned as a cookie and in TokenHeader. A valid
// token with less than half of ttl left is reissued for the same session.
func Sessions(tokens TokenService, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := sessionFromRequest(tokens, r); ok {
				id := claims.GetSessionID()
				if time.Until(claims.GetExpiry()) < ttl/2 {
					if err := issueToken(w, r, tokens, id, ttl); err != nil {
						log.Warn().Err(err).Msg("Failed to renew session token")
					}
				}
				next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
				return
			}

			id := uuid.New()
			if err := issueToken(w, r, tokens, id, ttl); err != nil {
				log.Error().Err(err).Msg("Failed to issue session token")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}

// issueToken signs a token for id and sets it as the session cookie and in
// TokenHeader.
func issueToken(w http.ResponseWriter, r *http.Request, tokens TokenService, id uuid.UUID, ttl time.Duration) error {
	token, err := tokens.GenerateToken(id)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(TokenHeader, token)
	return nil
}

// sessionFromRequest returns the claims of a valid cookie or Authorization
// header token.
func sessionFromRequest(tokens TokenService, r *http.Request) (SessionIDGetter, bool) {
	var candidates []string
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		candidates = append(candidates, c.Value)
	}
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		candidates = append(candidates, token)
	}

	for _, token := range candidates {
		claims, err := tokens.ValidateToken(token)
		if err != nil {
			continue
		}
		if claims.GetSessionID() != uuid.Nil {
			return claims, true
		}
	}
	return nil, false
}

// bearerToken parses "Bearer <token>" with a case-insensitive scheme.
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// WithSessionID returns a context carrying id.
func WithSessionID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// GetSessionID extracts the session ID from the request context.
func GetSessionID(r *http.Request) (uuid.UUID, error) {
	id, ok := r.Context().Value(sessionIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("session ID not found in request context")
	}
	return id, nil
}
