package intent

import (
	"fmt"
	"strings"

	"insurance-faq-be/pkg/store"
)

// Kind classifies a contextualized query before any cache or index is touched.
type Kind string

const (
	KindSummary    Kind = "SUMMARY"    // enumerate the catalog, no retrieval/generation
	KindComparison Kind = "COMPARISON" // two-entity comparison, bypasses caches
	KindStandard   Kind = "STANDARD"   // everything else: cache chain then RAG
)

// Intent is the routing decision for one query.
type Intent struct {
	Kind     Kind
	Products []string // resolved catalog names, comparison only (exactly 2)
}

var summaryPhrases = []string{
	"what plans",
	"which plans",
	"all plans",
	"list plans",
	"list all plans",
	"plans do you offer",
	"available plans",
	"what policies do you offer",
	"compare plans",
}

var comparisonTriggers = []string{
	"compare",
	" vs ",
	" vs.",
	"versus",
	"difference between",
}

// Router classifies queries by substring matching against fixed keyword sets.
// Classification is deterministic and makes no model calls.
type Router struct{}

func NewRouter() *Router {
	return &Router{}
}

// Classify inspects the contextualized query. catalog is the full list of
// known product names; history is the session history used as a secondary
// source for comparison entity resolution.
func (r *Router) Classify(query string, catalog []string, history []store.HistoryEntry) Intent {
	lowered := strings.ToLower(query)

	for _, phrase := range summaryPhrases {
		if strings.Contains(lowered, phrase) {
			return Intent{Kind: KindSummary}
		}
	}

	for _, trigger := range comparisonTriggers {
		if strings.Contains(lowered, trigger) {
			products := resolveEntities(lowered, catalog, history)
			if len(products) == 2 {
				return Intent{Kind: KindComparison, Products: products}
			}
			// Fewer than two entities resolve: fall through to standard
			break
		}
	}

	return Intent{Kind: KindStandard}
}

// SummaryAnswer is the deterministic templated sentence for summary intent.
func (r *Router) SummaryAnswer(catalog []string) string {
	if len(catalog) == 0 {
		return "We currently have no insurance plans on record."
	}
	return fmt.Sprintf(
		"We currently offer the following insurance plans: %s. Ask me about any of them for details.",
		strings.Join(catalog, ", "),
	)
}

// resolveEntities finds catalog names mentioned in the query, then in recent
// history. Order of discovery is preserved; at most two are returned.
func resolveEntities(loweredQuery string, catalog []string, history []store.HistoryEntry) []string {
	var found []string
	seen := make(map[string]bool)

	appendMatch := func(text string) {
		for _, name := range catalog {
			if seen[name] {
				continue
			}
			if strings.Contains(text, strings.ToLower(name)) {
				found = append(found, name)
				seen[name] = true
			}
		}
	}

	appendMatch(loweredQuery)

	if len(found) < 2 {
		// Walk history newest-first so the most recent mention wins
		for i := len(history) - 1; i >= 0 && len(found) < 2; i-- {
			appendMatch(strings.ToLower(history[i].Content))
		}
	}

	if len(found) > 2 {
		found = found[:2]
	}
	return found
}
