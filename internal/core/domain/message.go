package domain

// MessageType identifies a message on the analysis bridge.
type MessageType string

// Message types exchanged with the page side.
const (
	// MessageAnalyze asks for a relevance analysis of the current page.
	MessageAnalyze MessageType = "ANALYZE"

	// MessageResult answers MessageAnalyze.
	MessageResult MessageType = "RESULT"

	// MessageGetPageText asks for the extracted text of a page.
	MessageGetPageText MessageType = "GET_PAGE_TEXT"

	// MessagePageText answers MessageGetPageText.
	MessagePageText MessageType = "PAGE_TEXT"
)

// Message is the typed envelope of the analysis bridge.
// Exactly one reply is produced per request; ID is echoed so callers
// can correlate replies.
type Message struct {
	Type MessageType `json:"type"`
	ID   string      `json:"id,omitempty"`

	// Request fields.
	Goal   string `json:"goal,omitempty"`
	MaxLen int    `json:"maxLen,omitempty"`
	URL    string `json:"url,omitempty"`

	// RESULT fields.
	Summary        string         `json:"summary,omitempty"`
	Relevance      int            `json:"relevance"`
	Recommendation Recommendation `json:"recommendation,omitempty"`
	Error          string         `json:"error,omitempty"`

	// PAGE_TEXT fields. An ANALYZE request may carry them to skip extraction.
	Text  string `json:"text,omitempty"`
	Title string `json:"title,omitempty"`
}

// PageText is the extracted main content of a page.
type PageText struct {
	URL   string
	Title string
	Text  string
}
