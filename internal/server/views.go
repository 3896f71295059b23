package server

import (
	"github.com/jonathan/job-schema-collector/internal/types"
	"github.com/jonathan/job-schema-collector/internal/wizard"
)

// Message kinds rendered as inline banners.
const (
	msgError   = "error"
	msgWarning = "warning"
	msgSuccess = "success"
	msgInfo    = "info"
)

// Success messages shown after an extraction attempt.
const (
	msgExtractedPartial = "Extracted what I could. Head to 3. Complete to fill in the rest."
	msgExtractedAll     = "Successfully extracted all fields! ✅ You can view/download them in 3. Complete."
	msgSavedAll         = "All changes saved."
)

type message struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type fieldView struct {
	Name      string
	Label     string
	Hint      string
	Value     string
	Multiline bool
}

// pageData is the model for the HTML templates.
type pageData struct {
	Title         string
	Messages      []message
	View          types.SessionView
	Current       *fieldView
	Fields        []fieldView
	Percent       int
	RawJSON       string
	CanDownload   bool
	APIKeyMissing bool
	SourceTab     string
	PastedText    string
	URL           string
}

// sessionView projects a session onto its API representation.
func sessionView(sess wizard.Session, messages ...message) types.SessionView {
	filled, total := sess.Progress()
	view := types.SessionView{
		Authenticated: sess.Authenticated,
		Extracted:     sess.Extracted,
		State:         string(sess.State()),
		Source:        sess.SourceLabel,
		Record:        sess.Record,
		Missing:       append([]string{}, sess.Queue...),
		Filled:        filled,
		Total:         total,
	}
	if f, ok := sess.CurrentField(); ok {
		view.Current = f.Name
		view.CurrentLabel = f.Label
		view.CurrentHint = f.Hint
	}
	for _, m := range messages {
		view.Messages = append(view.Messages, m.Text)
	}
	return view
}

// newPageData builds the template model for an unlocked session.
func newPageData(sess wizard.Session, apiKeyMissing bool, messages []message) pageData {
	view := sessionView(sess)
	data := pageData{
		Title:         "AI Job Schema Collector",
		Messages:      messages,
		View:          view,
		APIKeyMissing: apiKeyMissing,
		CanDownload:   sess.Record.AnyFilled(),
		SourceTab:     string(types.SourceUpload),
	}
	if view.Total > 0 {
		data.Percent = view.Filled * 100 / view.Total
	}

	if schema := sess.Record.Schema(); schema != nil {
		for _, f := range schema.Fields() {
			data.Fields = append(data.Fields, fieldView{
				Name:      f.Name,
				Label:     f.Label,
				Hint:      f.Hint,
				Value:     sess.Record.Get(f.Name),
				Multiline: f.Multiline,
			})
		}
	}
	if f, ok := sess.CurrentField(); ok {
		data.Current = &fieldView{Name: f.Name, Label: f.Label, Hint: f.Hint, Multiline: f.Multiline}
	}
	if raw, err := sess.Record.ToJSON(); err == nil {
		data.RawJSON = string(raw)
	}
	return data
}

// extractionMessage returns the banner shown after a completed extraction.
func extractionMessage(sess wizard.Session) message {
	if len(sess.Queue) > 0 {
		return message{Kind: msgSuccess, Text: msgExtractedPartial}
	}
	return message{Kind: msgSuccess, Text: msgExtractedAll}
}
