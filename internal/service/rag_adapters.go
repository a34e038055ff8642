package service

import (
	"context"

	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/repository/contract"
	"insurance-faq-be/pkg/store"

	"github.com/google/uuid"
)

// Adapters narrowing the repositories to the capability interfaces the
// resolution chain consumes.

type curatedFAQAdapter struct {
	faq contract.FAQRepository
}

func NewCuratedFAQAdapter(faq contract.FAQRepository) *curatedFAQAdapter {
	return &curatedFAQAdapter{faq: faq}
}

func (a *curatedFAQAdapter) Lookup(ctx context.Context, productID, question string) (string, bool) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return "", false
	}
	answer, ok, err := a.faq.FindAnswer(ctx, id, question)
	if err != nil {
		return "", false
	}
	return answer, ok
}

type semanticCacheAdapter struct {
	repo contract.SemanticCacheRepository
}

func NewSemanticCacheAdapter(repo contract.SemanticCacheRepository) *semanticCacheAdapter {
	return &semanticCacheAdapter{repo: repo}
}

func (a *semanticCacheAdapter) Nearest(ctx context.Context, vector []float32) (*store.CachedAnswer, float64, bool, error) {
	entry, distance, found, err := a.repo.Nearest(ctx, vector)
	if err != nil || !found {
		return nil, 0, false, err
	}
	return &store.CachedAnswer{
		Answer:   entry.Answer,
		Sources:  entry.Sources,
		Question: entry.Question,
	}, distance, true, nil
}

func (a *semanticCacheAdapter) Store(ctx context.Context, question string, vector []float32, answer *store.CachedAnswer) error {
	return a.repo.Upsert(ctx, &entity.SemanticCacheEntry{
		Question:  question,
		Answer:    answer.Answer,
		Sources:   answer.Sources,
		Embedding: vector,
	})
}

type documentIndexAdapter struct {
	chunks contract.ChunkRepository
}

func NewDocumentIndexAdapter(chunks contract.ChunkRepository) *documentIndexAdapter {
	return &documentIndexAdapter{chunks: chunks}
}

func (a *documentIndexAdapter) Search(ctx context.Context, vector []float32, k int, productFilter string) ([]store.Chunk, error) {
	scored, err := a.chunks.SearchSimilar(ctx, vector, k, productFilter)
	if err != nil {
		return nil, err
	}

	chunks := make([]store.Chunk, len(scored))
	for i, sc := range scored {
		chunks[i] = store.Chunk{
			ID:          sc.Chunk.Id.String(),
			Text:        sc.Chunk.Text,
			ProductName: sc.Chunk.ProductName,
			OriginFile:  sc.Chunk.OriginFile,
			ChunkIndex:  sc.Chunk.ChunkIndex,
			WordCount:   sc.Chunk.WordCount,
			Distance:    sc.Distance,
		}
	}
	return chunks, nil
}
