package dto

type ChatRequest struct {
	ProductID string `json:"product_id"`
	SessionID string `json:"session_id"` // optional, a temporary session is created when absent
	Question  string `json:"question" validate:"required,min=1"`
	Language  string `json:"language"` // optional override, "en" or "hi"
}

type ChatResponse struct {
	Answer           string   `json:"answer"`
	Sources          []string `json:"sources"`
	ResponseTime     float64  `json:"response_time"`
	Cached           bool     `json:"cached"`
	DetectedLanguage string   `json:"detected_language"`
	DebugInfo        string   `json:"debug_info,omitempty"`
}

// Stream events are NDJSON lines: one meta event, then token events, then
// either the implicit end of stream or a single error event.
const (
	StreamEventMeta  = "meta"
	StreamEventToken = "token"
	StreamEventError = "error"
)

type StreamMetaEvent struct {
	Type             string   `json:"type"`
	Sources          []string `json:"sources"`
	Cached           bool     `json:"cached"`
	DetectedLanguage string   `json:"detected_language"`
	DebugInfo        string   `json:"debug_info,omitempty"`
}

type StreamTokenEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type StreamErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}
