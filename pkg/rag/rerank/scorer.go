package rerank

import (
	"sort"
	"strings"
	"unicode"

	"insurance-faq-be/pkg/store"
)

// Scoring weights. Keyword and digit bonuses reward chunks that carry the
// hard facts insurance questions ask about; boilerplate and OCR garbage are
// pushed below zero so they lose to any substantive chunk.
const (
	keywordBonus     = 10
	digitBonus       = 5
	boilerplateMalus = -20
	ocrMalus         = -10

	// Query tokens at or below this length are too generic to score.
	minKeywordLen = 3
)

var boilerplateMarkers = []string{
	"Disclaimer",
	"Regd. Office",
	"Registered Office",
}

var ocrMarkers = []string{
	"(cid:",
}

// ScoredChunk pairs a candidate with its score and original retrieval rank.
type ScoredChunk struct {
	Chunk store.Chunk
	Score int
	Rank  int // position in the index's own ranking
}

// Rank filters and re-orders the candidate set for a query. Candidates with a
// positive ordering survive: sort is by score descending, ties broken by the
// earlier original rank. The top `limit` chunks are returned. If scoring
// eliminates everything (no candidate above zero), the first two raw
// candidates are returned so the generator always has material to work with.
func Rank(query string, candidates []store.Chunk, limit int) []store.Chunk {
	if len(candidates) == 0 {
		return nil
	}

	keywords := queryKeywords(query)

	scored := make([]ScoredChunk, len(candidates))
	for i, chunk := range candidates {
		scored[i] = ScoredChunk{
			Chunk: chunk,
			Score: scoreChunk(chunk.Text, keywords),
			Rank:  i,
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		return scored[a].Rank < scored[b].Rank
	})

	var selected []store.Chunk
	for _, s := range scored {
		if s.Score <= 0 {
			continue
		}
		selected = append(selected, s.Chunk)
		if len(selected) == limit {
			break
		}
	}

	// Everything filtered out: fall back to the index's own top 2
	if len(selected) == 0 {
		n := 2
		if len(candidates) < n {
			n = len(candidates)
		}
		return candidates[:n]
	}

	return selected
}

func scoreChunk(text string, keywords []string) int {
	lowered := strings.ToLower(text)
	score := 0

	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			score += keywordBonus
		}
	}

	if containsDigit(text) {
		score += digitBonus
	}

	for _, marker := range boilerplateMarkers {
		if strings.Contains(text, marker) {
			score += boilerplateMalus
			break
		}
	}

	for _, marker := range ocrMarkers {
		if strings.Contains(text, marker) {
			score += ocrMalus
			break
		}
	}

	return score
}

// queryKeywords tokenizes the query and keeps tokens longer than
// minKeywordLen characters, lowercased and stripped of punctuation.
func queryKeywords(query string) []string {
	words := strings.Fields(strings.ToLower(query))
	keywords := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.TrimFunc(word, func(r rune) bool {
			return unicode.IsPunct(r)
		})
		if len(word) > minKeywordLen {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
