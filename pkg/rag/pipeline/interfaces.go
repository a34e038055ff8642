package pipeline

import (
	"context"

	"insurance-faq-be/pkg/store"
)

// Capabilities consumed by the resolution chain. Each is a narrow view of an
// external service so tests can substitute fakes.

// ExactCache is the literal-key tier. Keys are derived from the normalized
// (product scope, language, question) triple by the implementation.
type ExactCache interface {
	Get(ctx context.Context, product, language, question string) (*store.CachedAnswer, bool)
	Set(ctx context.Context, product, language, question string, answer *store.CachedAnswer) error
}

// SemanticCache is the embedding-distance tier. Nearest returns the closest
// stored entry and its cosine distance; ok is false when the cache is empty.
type SemanticCache interface {
	Nearest(ctx context.Context, vector []float32) (*store.CachedAnswer, float64, bool, error)
	Store(ctx context.Context, question string, vector []float32, answer *store.CachedAnswer) error
}

// DocumentIndex answers nearest-neighbor queries over ingested policy chunks,
// optionally restricted to a single product.
type DocumentIndex interface {
	Search(ctx context.Context, vector []float32, k int, productFilter string) ([]store.Chunk, error)
}

// CuratedFAQ looks up admin-curated answers for a product by literal
// (case-insensitive) question text. Curated answers never expire.
type CuratedFAQ interface {
	Lookup(ctx context.Context, productID, question string) (string, bool)
}

// HistoryStore is the capped per-session conversation history.
type HistoryStore interface {
	Get(ctx context.Context, sessionID string) ([]store.HistoryEntry, error)
	Append(ctx context.Context, sessionID, role, content string) error
}

// Request carries one query through the chain. History reflects the session
// state before the current exchange is appended. Vector is the embedding of
// Query, computed lazily and memoized across resolvers.
type Request struct {
	ProductID   string // raw product scope from the caller ("" = global)
	ProductName string // resolved catalog name for index filtering, may be ""
	SessionID   string
	RawQuestion string // as the user typed it
	Query       string // contextualized standalone form
	Language    string
	History     []store.HistoryEntry

	vector []float32
}

// Result is a terminal outcome of the chain.
type Result struct {
	Answer   string
	Sources  []string
	Cached   bool
	DebugTag string
}

// Resolver is one step of the ordered chain. Returning (nil, nil) means
// "continue to the next tier"; an error is treated as a miss as well.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, req *Request) (*Result, error)
}
