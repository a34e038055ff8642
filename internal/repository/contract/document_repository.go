package contract

import (
	"context"

	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.PolicyDocument) error
	Update(ctx context.Context, doc *entity.PolicyDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PolicyDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyDocument, error)
}

type ChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar returns the k nearest chunks by cosine distance, optionally
	// restricted to a product name. Distance is populated on each result.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, productName string) ([]*ScoredChunk, error)
}

// ScoredChunk pairs a chunk with its cosine distance to the query vector.
type ScoredChunk struct {
	Chunk    *entity.DocumentChunk
	Distance float64
}
