package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jonathan/job-schema-collector/internal/extraction"
	"github.com/jonathan/job-schema-collector/internal/gate"
	"github.com/jonathan/job-schema-collector/internal/ingestion"
	"github.com/jonathan/job-schema-collector/internal/server/middleware"
	"github.com/jonathan/job-schema-collector/internal/types"
	"github.com/jonathan/job-schema-collector/internal/wizard"
)

// requireUnlocked wraps a transition so it only runs for authenticated sessions.
func requireUnlocked(fn func(wizard.Session) (wizard.Session, error)) func(wizard.Session) (wizard.Session, error) {
	return func(sess wizard.Session) (wizard.Session, error) {
		if !sess.Authenticated {
			return sess, ErrLocked
		}
		return fn(sess)
	}
}

// sessionID returns the ID attached by the session middleware.
func sessionID(r *http.Request) uuid.UUID {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		// Handlers are always mounted behind the session middleware.
		log.Error().Err(err).Msg("Request without session")
		return uuid.Nil
	}
	return id
}

// unlock checks password and marks the session authenticated.
func (s *Server) unlock(id uuid.UUID, password string) (wizard.Session, error) {
	sess, err := s.sessions.Update(id, func(cur wizard.Session) (wizard.Session, error) {
		return gate.Unlock(cur, s.gate, password)
	})
	if err != nil {
		log.Warn().Err(err).Str("session", id.String()).Msg("Unlock failed")
		return sess, err
	}
	log.Info().Str("session", id.String()).Msg("Session unlocked")
	return sess, nil
}

// lock clears authentication for the session.
func (s *Server) lock(id uuid.UUID) wizard.Session {
	sess, _ := s.sessions.Update(id, func(cur wizard.Session) (wizard.Session, error) {
		return gate.Lock(cur), nil
	})
	return sess
}

// extract runs one extraction attempt: acquire text from the selected source,
// extract a record and install it in the session. Acquisition failures halt
// before the extractor and leave the session untouched. Extractor failures
// still install the (empty) record and are returned alongside the session.
func (s *Server) extract(ctx context.Context, id uuid.UUID, req types.ExtractRequest) (wizard.Session, []message, error) {
	current := s.sessions.Get(id)
	if !current.Authenticated {
		return current, nil, ErrLocked
	}

	src := ingestion.Select(req.Source, types.UploadSource{Filename: req.Filename, Data: req.Data}, req.Text, req.URL)
	acquired, err := s.acquirer.Acquire(ctx, src)
	if err != nil {
		return current, []message{{Kind: kindFor(err), Text: UserMessage(err)}}, err
	}

	rec, extractErr := s.extractor.Extract(ctx, acquired.Text, s.schema)

	sess, err := s.sessions.Update(id, requireUnlocked(func(cur wizard.Session) (wizard.Session, error) {
		return wizard.ApplyExtraction(cur, rec, acquired.Label), nil
	}))
	if err != nil {
		return sess, nil, err
	}

	var messages []message
	if extractErr != nil {
		messages = append(messages, message{Kind: msgError, Text: UserMessage(extractErr)})
	}
	messages = append(messages, extractionMessage(sess))
	return sess, messages, extractErr
}

// extractorFailed reports whether err came from the extractor, in which case
// the empty record was still installed.
func extractorFailed(err error) bool {
	var (
		apiErr   *extraction.APICallError
		parseErr *extraction.ParseError
	)
	return errors.As(err, &apiErr) || errors.As(err, &parseErr)
}

// kindFor picks the banner kind for an acquisition error.
func kindFor(err error) string {
	if errors.Is(err, ingestion.ErrNoSource) || errors.Is(err, ingestion.ErrNoText) {
		return msgWarning
	}
	return msgError
}

// submit writes a wizard answer for field.
func (s *Server) submit(id uuid.UUID, field, value string) (wizard.Session, error) {
	return s.sessions.Update(id, requireUnlocked(func(cur wizard.Session) (wizard.Session, error) {
		return wizard.SubmitFor(cur, field, value)
	}))
}

// bulkEdit replaces the whole record. It is only allowed once an extraction
// has run.
func (s *Server) bulkEdit(id uuid.UUID, values map[string]string) (wizard.Session, error) {
	return s.sessions.Update(id, requireUnlocked(func(cur wizard.Session) (wizard.Session, error) {
		if !cur.Extracted {
			return cur, wizard.ErrNoActiveField
		}
		return wizard.BulkEdit(cur, values), nil
	}))
}

// parseExtractRequest reads an extraction request from a multipart form or a JSON body.
func (s *Server) parseExtractRequest(w http.ResponseWriter, r *http.Request) (types.ExtractRequest, error) {
	var req types.ExtractRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+1<<20)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
			return req, &ErrValidation{Field: "file", Message: fmt.Sprintf("could not read upload: %v", err)}
		}
		req.Source = types.SourceKind(r.FormValue("source"))
		req.Text = r.FormValue("text")
		req.URL = r.FormValue("url")

		file, header, err := r.FormFile("file")
		switch {
		case err == nil:
			defer func() { _ = file.Close() }()
			data, readErr := io.ReadAll(file)
			if readErr != nil {
				return req, &ErrValidation{Field: "file", Message: "could not read upload"}
			}
			req.Filename = header.Filename
			req.Data = data
		case !errors.Is(err, http.ErrMissingFile):
			return req, &ErrValidation{Field: "file", Message: err.Error()}
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, &ErrValidation{Field: "(body)", Message: "invalid request body"}
	}

	if err := s.validator.Struct(req); err != nil {
		return req, validationFromStruct(err)
	}
	return req, nil
}
