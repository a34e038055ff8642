package pipeline

import (
	"context"

	"insurance-faq-be/pkg/embedding"
	"insurance-faq-be/pkg/rag/rerank"
	"insurance-faq-be/pkg/store"
)

// Chosen parameterization: fetch a broad candidate set, keep the best three
// after re-ranking.
const (
	BroadCandidateCount = 15
	SelectedChunkCount  = 3

	// Comparison intent retrieves a small scoped set per entity and skips
	// the re-ranker.
	ComparisonChunksPerEntity = 2
)

// Retrieval is the prepared context for generation after a full cache miss.
type Retrieval struct {
	Chunks []store.Chunk
	Vector []float32
}

// Retriever embeds the query, fetches the broad candidate set and applies
// the re-ranker. Both the blocking and streaming paths use it, so their
// routing decisions are identical by construction.
type Retriever struct {
	index    DocumentIndex
	embedder embedding.EmbeddingProvider
}

func NewRetriever(index DocumentIndex, embedder embedding.EmbeddingProvider) *Retriever {
	return &Retriever{
		index:    index,
		embedder: embedder,
	}
}

// Fetch returns the selected chunks for a query. An empty Chunks slice means
// the index had no candidates at all; the caller must answer with the fixed
// not-found reply and skip generation.
func (r *Retriever) Fetch(ctx context.Context, req *Request) (*Retrieval, error) {
	vector, err := req.Embed(r.embedder)
	if err != nil {
		return nil, err
	}

	candidates, err := r.index.Search(ctx, vector, BroadCandidateCount, req.ProductName)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &Retrieval{Vector: vector}, nil
	}

	return &Retrieval{
		Chunks: rerank.Rank(req.Query, candidates, SelectedChunkCount),
		Vector: vector,
	}, nil
}

// FetchScoped retrieves the top chunks for a single named product without
// re-ranking. Used by the comparison intent.
func (r *Retriever) FetchScoped(ctx context.Context, req *Request, productName string) ([]store.Chunk, error) {
	vector, err := req.Embed(r.embedder)
	if err != nil {
		return nil, err
	}
	return r.index.Search(ctx, vector, ComparisonChunksPerEntity, productName)
}
