package rerank

import (
	"testing"

	"insurance-faq-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func chunk(text string) store.Chunk {
	return store.Chunk{Text: text}
}

func TestRankPrefersKeywordMatches(t *testing.T) {
	candidates := []store.Chunk{
		chunk("General information about the company history."),
		chunk("The maternity waiting period is covered under section 4."),
		chunk("Claims can be filed online or via the branch."),
	}

	result := Rank("maternity waiting period", candidates, 3)

	assert.NotEmpty(t, result)
	assert.Equal(t, candidates[1].Text, result[0].Text)
}

func TestRankDigitBonusBreaksKeywordTie(t *testing.T) {
	candidates := []store.Chunk{
		chunk("The premium depends on your age and plan."),
		chunk("The premium is 4500 per year for adults."),
	}

	result := Rank("what is the premium", candidates, 2)

	// Both match "premium"; the digit-bearing chunk outscores the other.
	assert.Equal(t, candidates[1].Text, result[0].Text)
}

func TestRankPenalizesBoilerplate(t *testing.T) {
	candidates := []store.Chunk{
		chunk("Disclaimer: premium figures are indicative. Regd. Office: Mumbai."),
		chunk("Your premium is calculated from the sum insured."),
	}

	result := Rank("premium calculation", candidates, 2)

	// Boilerplate scores 10 - 20 < 0 and is dropped entirely.
	assert.Len(t, result, 1)
	assert.Equal(t, candidates[1].Text, result[0].Text)
}

func TestRankPenalizesOCRGarbage(t *testing.T) {
	candidates := []store.Chunk{
		chunk("(cid:127)(cid:45) premium premium garbled output"),
		chunk("The premium for the base plan starts at a fixed rate."),
	}

	result := Rank("premium", candidates, 2)

	assert.Equal(t, candidates[1].Text, result[0].Text)
}

func TestRankStableTieBreakByOriginalOrder(t *testing.T) {
	candidates := []store.Chunk{
		chunk("Coverage details for hospitalization expenses."),
		chunk("Coverage limits for hospitalization claims."),
	}

	result := Rank("hospitalization coverage", candidates, 2)

	// Equal scores keep the index's own ordering.
	assert.Len(t, result, 2)
	assert.Equal(t, candidates[0].Text, result[0].Text)
	assert.Equal(t, candidates[1].Text, result[1].Text)
}

func TestRankFallbackWhenNothingScores(t *testing.T) {
	candidates := []store.Chunk{
		chunk("Unrelated paragraph one."),
		chunk("Unrelated paragraph two."),
		chunk("Unrelated paragraph three."),
	}

	result := Rank("zzzz", candidates, 3)

	// No candidate scores above zero: first two raw candidates come back.
	assert.Len(t, result, 2)
	assert.Equal(t, candidates[0].Text, result[0].Text)
	assert.Equal(t, candidates[1].Text, result[1].Text)
}

func TestRankRespectsLimit(t *testing.T) {
	candidates := []store.Chunk{
		chunk("room rent limit applies"),
		chunk("room rent capped daily"),
		chunk("room rent waiver rider"),
		chunk("room rent sub-limits table"),
	}

	result := Rank("room rent", candidates, 3)
	assert.Len(t, result, 3)
}

func TestRankEmptyCandidates(t *testing.T) {
	assert.Nil(t, Rank("anything", nil, 3))
}

func TestQueryKeywordsSkipsShortTokens(t *testing.T) {
	keywords := queryKeywords("What is the ICU sub-limit?")
	assert.Contains(t, keywords, "what")
	assert.Contains(t, keywords, "sub-limit")
	assert.NotContains(t, keywords, "is")
	assert.NotContains(t, keywords, "the")
	assert.NotContains(t, keywords, "icu")
}
