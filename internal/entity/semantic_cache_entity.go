package entity

import (
	"time"

	"github.com/google/uuid"
)

// SemanticCacheEntry is one cached answer in the vector tier, keyed by the
// embedding of the question that produced it.
type SemanticCacheEntry struct {
	Id           uuid.UUID
	QuestionHash string
	Question     string
	Answer       string
	Sources      []string
	Embedding    []float32
	CreatedAt    time.Time
}
