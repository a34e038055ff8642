package pipeline

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"insurance-faq-be/internal/pkg/logger"
	"insurance-faq-be/pkg/embedding"
	"insurance-faq-be/pkg/store"
)

// SemanticDistanceThreshold is the strict cutoff for trusting a semantic
// cache match: a hit requires distance < threshold, never equal.
const SemanticDistanceThreshold = 0.20

// Chain evaluates the cache tiers in a fixed order. The order is part of the
// contract and must not be rearranged: curated FAQ answers take precedence
// over everything, the exact tier is cheaper than the semantic tier.
type Chain struct {
	resolvers []Resolver
	logger    logger.ILogger
}

// NewChain wires the standard three-tier chain.
func NewChain(
	curated CuratedFAQ,
	exact ExactCache,
	semantic SemanticCache,
	embedder embedding.EmbeddingProvider,
	log logger.ILogger,
) *Chain {
	return &Chain{
		resolvers: []Resolver{
			&curatedResolver{faq: curated},
			&exactResolver{cache: exact},
			&semanticResolver{cache: semantic, exact: exact, embedder: embedder, logger: log},
		},
		logger: log,
	}
}

// Resolve walks the tiers in order and returns the first terminal result, or
// nil on a full miss. Resolver errors are logged and treated as misses.
func (c *Chain) Resolve(ctx context.Context, req *Request) *Result {
	for _, resolver := range c.resolvers {
		result, err := resolver.Resolve(ctx, req)
		if err != nil {
			c.logger.Warn("pipeline", "resolver failed, treating as miss", map[string]interface{}{
				"resolver": resolver.Name(),
				"error":    err.Error(),
			})
			continue
		}
		if result != nil {
			return result
		}
	}
	return nil
}

// Embed returns the memoized embedding of the contextualized query.
func (req *Request) Embed(embedder embedding.EmbeddingProvider) ([]float32, error) {
	if req.vector != nil {
		return req.vector, nil
	}
	res, err := embedder.Generate(req.Query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	req.vector = res.Embedding.Values
	return req.vector, nil
}

// --- Layer 0: curated FAQ ---

// curatedResolver matches the raw question against admin-curated answers.
// Curated entries are authoritative and never expire.
type curatedResolver struct {
	faq CuratedFAQ
}

func (r *curatedResolver) Name() string { return "curated_faq" }

func (r *curatedResolver) Resolve(ctx context.Context, req *Request) (*Result, error) {
	if req.ProductID == "" {
		return nil, nil
	}
	answer, ok := r.faq.Lookup(ctx, req.ProductID, req.RawQuestion)
	if !ok {
		return nil, nil
	}
	return &Result{
		Answer:   answer,
		Sources:  []string{"Official FAQ"},
		Cached:   true,
		DebugTag: "Layer 0: Manual FAQ Hit",
	}, nil
}

// --- Layer 1: exact-match tier ---

type exactResolver struct {
	cache ExactCache
}

func (r *exactResolver) Name() string { return "exact_cache" }

func (r *exactResolver) Resolve(ctx context.Context, req *Request) (*Result, error) {
	entry, ok := r.cache.Get(ctx, req.productScope(), req.Language, req.Query)
	if !ok {
		return nil, nil
	}
	return &Result{
		Answer:   entry.Answer,
		Sources:  entry.Sources,
		Cached:   true,
		DebugTag: "Layer 1: Redis Hit",
	}, nil
}

// --- Layer 2: semantic tier ---

type semanticResolver struct {
	cache    SemanticCache
	exact    ExactCache
	embedder embedding.EmbeddingProvider
	logger   logger.ILogger
}

func (r *semanticResolver) Name() string { return "semantic_cache" }

func (r *semanticResolver) Resolve(ctx context.Context, req *Request) (*Result, error) {
	// Numeric queries are context-sensitive; follow-ups need fresh
	// grounding. Both skip this tier entirely.
	if containsDigit(req.Query) || len(req.History) > 0 {
		return nil, nil
	}

	vector, err := req.Embed(r.embedder)
	if err != nil {
		return nil, err
	}

	entry, distance, ok, err := r.cache.Nearest(ctx, vector)
	if err != nil {
		return nil, err
	}
	if !ok || distance >= SemanticDistanceThreshold {
		return nil, nil
	}

	// Promote into the exact tier so identical phrasing skips the vector
	// lookup next time. Promotion failure never downgrades the hit.
	promoted := &store.CachedAnswer{Answer: entry.Answer, Sources: entry.Sources}
	if err := r.exact.Set(ctx, req.productScope(), req.Language, req.Query, promoted); err != nil {
		r.logger.Warn("pipeline", "semantic hit promotion failed", map[string]interface{}{"error": err.Error()})
	}

	return &Result{
		Answer:   entry.Answer,
		Sources:  entry.Sources,
		Cached:   true,
		DebugTag: "Layer 2: Semantic Hit",
	}, nil
}

func (req *Request) productScope() string {
	if strings.TrimSpace(req.ProductID) == "" {
		return "global"
	}
	return req.ProductID
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
