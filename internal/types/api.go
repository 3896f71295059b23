package types

// UnlockRequest is the body of an access gate attempt.
type UnlockRequest struct {
	Password string `json:"password" validate:"required"`
}

// ExtractRequest selects a source for an extraction attempt. Source names the
// tab the user chose; when it is empty the first non-empty input wins in the
// order upload, text, URL.
type ExtractRequest struct {
	Source   SourceKind `json:"source,omitempty" validate:"omitempty,oneof=upload text url"`
	Filename string     `json:"filename,omitempty" validate:"required_with=Data"`
	Data     []byte     `json:"data,omitempty"` // base64 in JSON
	Text     string     `json:"text,omitempty"`
	URL      string     `json:"url,omitempty"`
}

// SubmitFieldRequest supplies a value for the field under the wizard cursor.
type SubmitFieldRequest struct {
	Field string `json:"field,omitempty"` // optional guard: must equal the cursor when set
	Value string `json:"value"`
}

// SessionView is the JSON representation of a session returned by the API.
type SessionView struct {
	Authenticated bool     `json:"authenticated"`
	Extracted     bool     `json:"extracted"`
	State         string   `json:"state"`
	Source        string   `json:"source,omitempty"`
	Record        Record   `json:"record"`
	Missing       []string `json:"missing"`
	Current       string   `json:"current_field,omitempty"`
	CurrentLabel  string   `json:"current_label,omitempty"`
	CurrentHint   string   `json:"current_hint,omitempty"`
	Filled        int      `json:"filled"`
	Total         int      `json:"total"`
	Messages      []string `json:"messages,omitempty"`
}
