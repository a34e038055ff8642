package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusCompleted  = "completed"
	DocumentStatusFailed     = "failed"
)

// PolicyDocument tracks one uploaded policy PDF through the ingestion worker.
type PolicyDocument struct {
	Id         uuid.UUID
	ProductId  uuid.UUID
	FileName   string
	FilePath   string
	Status     string
	ChunkCount int
	Error      string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// DocumentChunk is one embedded window of a policy document. ProductName is
// denormalized so index searches filter without a join.
type DocumentChunk struct {
	Id          uuid.UUID
	DocumentId  uuid.UUID
	ProductName string
	OriginFile  string
	Text        string
	ChunkIndex  int
	WordCount   int
	Embedding   []float32
	CreatedAt   time.Time
}
