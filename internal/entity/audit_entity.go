package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord captures one resolved exchange for the admin dashboard. Written
// best effort after the answer is delivered.
type AuditRecord struct {
	Id         uuid.UUID
	SessionId  string
	ProductId  string
	Question   string
	Answer     string
	Language   string
	Cached     bool
	DebugTag   string
	DurationMs int64
	CreatedAt  time.Time
}
