package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jonathan/job-schema-collector/internal/schemas"
	"github.com/jonathan/job-schema-collector/internal/types"
	"github.com/jonathan/job-schema-collector/internal/wizard"
)

// downloadFilename is the name offered for the exported record.
const downloadFilename = "job-schema.json"

// renderGate shows the password page.
func (s *Server) renderGate(w http.ResponseWriter, status int, messages ...message) {
	s.pages.render(w, status, "gate", pageData{Title: "Protected PoC", Messages: messages})
}

// renderIndex shows the workflow page for an unlocked session.
func (s *Server) renderIndex(w http.ResponseWriter, status int, sess wizard.Session, messages ...message) {
	s.pages.render(w, status, "index", newPageData(sess, !s.extractor.Available(), messages))
}

// renderError shows err inline on the page matching the session state.
func (s *Server) renderError(w http.ResponseWriter, sess wizard.Session, err error) {
	msg := message{Kind: msgError, Text: UserMessage(err)}
	if !sess.Authenticated {
		s.renderGate(w, HTTPStatus(err), msg)
		return
	}
	s.renderIndex(w, HTTPStatus(err), sess, msg)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(sessionID(r))
	if !sess.Authenticated {
		s.renderGate(w, http.StatusOK)
		return
	}
	s.renderIndex(w, http.StatusOK, sess)
}

func (s *Server) handleUnlockForm(w http.ResponseWriter, r *http.Request) {
	sess, err := s.unlock(sessionID(r), r.PostFormValue("password"))
	if err != nil {
		s.renderError(w, sess, err)
		return
	}
	s.renderIndex(w, http.StatusOK, sess)
}

func (s *Server) handleLockForm(w http.ResponseWriter, r *http.Request) {
	s.lock(sessionID(r))
	s.renderGate(w, http.StatusOK)
}

func (s *Server) handleExtractForm(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	req, err := s.parseExtractRequest(w, r)
	if err != nil {
		s.renderError(w, s.sessions.Get(id), err)
		return
	}

	sess, messages, err := s.extract(r.Context(), id, req)
	if !sess.Authenticated {
		s.renderGate(w, http.StatusUnauthorized, message{Kind: msgError, Text: UserMessage(ErrLocked)})
		return
	}

	data := newPageData(sess, !s.extractor.Available(), messages)
	if req.Source != "" {
		data.SourceTab = string(req.Source)
	}
	status := http.StatusOK
	if err != nil && !extractorFailed(err) {
		// keep the inputs so the user can correct them
		data.PastedText = req.Text
		data.URL = req.URL
		status = HTTPStatus(err)
	}
	s.pages.render(w, status, "index", data)
}

func (s *Server) handleWizardForm(w http.ResponseWriter, r *http.Request) {
	sess, err := s.submit(sessionID(r), r.PostFormValue("field"), r.PostFormValue("value"))
	if err != nil {
		kind := msgError
		if HTTPStatus(err) == http.StatusUnprocessableEntity {
			kind = msgWarning
		}
		if !sess.Authenticated {
			s.renderError(w, sess, err)
			return
		}
		s.renderIndex(w, HTTPStatus(err), sess, message{Kind: kind, Text: UserMessage(err)})
		return
	}
	s.renderIndex(w, http.StatusOK, sess)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, s.sessions.Get(sessionID(r)), &ErrValidation{Field: "(form)", Message: err.Error()})
		return
	}

	values := make(map[string]string, s.schema.Len())
	for _, key := range s.schema.Keys() {
		values[key] = r.PostForm.Get(key)
	}

	sess, err := s.bulkEdit(sessionID(r), values)
	if err != nil {
		s.renderError(w, sess, err)
		return
	}
	s.renderIndex(w, http.StatusOK, sess, message{Kind: msgSuccess, Text: msgSavedAll})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(sessionID(r))
	if !sess.Authenticated {
		s.renderError(w, sess, ErrLocked)
		return
	}
	if !sess.Record.AnyFilled() {
		s.renderError(w, sess, ErrNothingToDownload)
		return
	}
	s.writeRecord(w, sess.Record, true)
}

// writeRecord writes the record as indented JSON in schema order.
func (s *Server) writeRecord(w http.ResponseWriter, rec types.Record, attachment bool) {
	if err := schemas.ValidateRecord(rec); err != nil {
		log.Error().Err(err).Msg("Record failed schema validation")
		s.errorResponse(w, err)
		return
	}
	data, err := rec.ToJSON()
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if attachment {
		w.Header().Set("Content-Disposition", `attachment; filename="`+downloadFilename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(append(data, '\n')); err != nil {
		log.Debug().Err(err).Msg("Failed to write record")
	}
}
