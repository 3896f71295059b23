package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jonathan/job-schema-collector/internal/schemas"
	"github.com/jonathan/job-schema-collector/internal/types"
)

// maxJSONBody bounds JSON request bodies other than extraction.
const maxJSONBody = 1 << 20

func (s *Server) handleAPIUnlock(w http.ResponseWriter, r *http.Request) {
	var req types.UnlockRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "(body)", Message: "invalid request body"})
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, validationFromStruct(err))
		return
	}

	sess, err := s.unlock(sessionID(r), req.Password)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sessionView(sess))
}

func (s *Server) handleAPILock(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, sessionView(s.lock(sessionID(r))))
}

func (s *Server) handleAPIExtract(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseExtractRequest(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	sess, messages, err := s.extract(r.Context(), sessionID(r), req)
	if err != nil && !extractorFailed(err) {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, HTTPStatus(err), sessionView(sess, messages...))
}

func (s *Server) handleAPISession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(sessionID(r))
	if !sess.Authenticated {
		s.errorResponse(w, ErrLocked)
		return
	}
	s.jsonResponse(w, http.StatusOK, sessionView(sess))
}

func (s *Server) handleAPIWizard(w http.ResponseWriter, r *http.Request) {
	var req types.SubmitFieldRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "(body)", Message: "invalid request body"})
		return
	}

	sess, err := s.submit(sessionID(r), req.Field, req.Value)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sessionView(sess))
}

func (s *Server) handleAPIPutRecord(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "(body)", Message: "could not read body"})
		return
	}
	if !s.sessions.Get(sessionID(r)).Authenticated {
		s.errorResponse(w, ErrLocked)
		return
	}
	if err := schemas.ValidateDocument(schemas.PartialDefinition(s.schema.Definition()), body); err != nil {
		s.errorResponse(w, err)
		return
	}

	var values map[string]string
	if err := json.Unmarshal(body, &values); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "(body)", Message: "invalid request body"})
		return
	}

	sess, err := s.bulkEdit(sessionID(r), values)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sessionView(sess, message{Kind: msgSuccess, Text: msgSavedAll}))
}

func (s *Server) handleAPIGetRecord(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(sessionID(r))
	if !sess.Authenticated {
		s.errorResponse(w, ErrLocked)
		return
	}
	s.writeRecord(w, sess.Record, r.URL.Query().Has("download"))
}
