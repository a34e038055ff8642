package dto

import "time"

type AuditRecordResponse struct {
	Id         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	ProductID  string    `json:"product_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Language   string    `json:"language"`
	Cached     bool      `json:"cached"`
	DebugTag   string    `json:"debug_tag"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

type AuditListResponse struct {
	Records []AuditRecordResponse `json:"records"`
	Total   int64                 `json:"total"`
}

type ClearCachesResponse struct {
	ExactCleared    bool `json:"exact_cleared"`
	SemanticCleared bool `json:"semantic_cleared"`
}
