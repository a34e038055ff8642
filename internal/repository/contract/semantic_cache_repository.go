package contract

import (
	"context"

	"insurance-faq-be/internal/entity"
)

type SemanticCacheRepository interface {
	// Upsert stores an entry keyed by question hash, replacing any previous
	// answer for the same question.
	Upsert(ctx context.Context, entry *entity.SemanticCacheEntry) error
	// Nearest returns the single closest entry and its cosine distance.
	// found is false when the cache is empty.
	Nearest(ctx context.Context, embedding []float32) (*entity.SemanticCacheEntry, float64, bool, error)
	Clear(ctx context.Context) error
}
