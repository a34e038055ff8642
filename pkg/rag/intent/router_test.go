package intent

import (
	"testing"

	"insurance-faq-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

var catalog = []string{"Health Shield", "Family Floater Plus", "Secure Life"}

func TestClassifySummary(t *testing.T) {
	router := NewRouter()

	tests := []struct {
		name  string
		query string
	}{
		{"direct question", "What plans do you offer?"},
		{"list form", "please list all plans"},
		{"available", "tell me the available plans"},
		{"policies variant", "what policies do you offer"},
		{"bare compare plans", "compare plans"},
		{"compare plans request", "can you compare plans for me?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := router.Classify(tt.query, catalog, nil)
			assert.Equal(t, KindSummary, result.Kind)
			assert.Empty(t, result.Products)
		})
	}
}

func TestClassifyComparison(t *testing.T) {
	router := NewRouter()

	result := router.Classify("compare Health Shield and Secure Life", catalog, nil)
	assert.Equal(t, KindComparison, result.Kind)
	assert.Equal(t, []string{"Health Shield", "Secure Life"}, result.Products)
}

func TestClassifyComparisonResolvesFromHistory(t *testing.T) {
	router := NewRouter()

	history := []store.HistoryEntry{
		{Role: store.RoleUser, Content: "tell me about Family Floater Plus"},
		{Role: store.RoleAssistant, Content: "Family Floater Plus covers your whole family."},
	}

	// Only one entity in the query; the second comes from history.
	result := router.Classify("how does it compare to Secure Life?", catalog, history)
	assert.Equal(t, KindComparison, result.Kind)
	assert.Len(t, result.Products, 2)
	assert.Contains(t, result.Products, "Secure Life")
	assert.Contains(t, result.Products, "Family Floater Plus")
}

func TestClassifyComparisonFallsBackToStandard(t *testing.T) {
	router := NewRouter()

	// Trigger word present but only one resolvable entity.
	result := router.Classify("compare Health Shield with something good", catalog, nil)
	assert.Equal(t, KindStandard, result.Kind)
}

func TestClassifyStandard(t *testing.T) {
	router := NewRouter()

	result := router.Classify("what is the waiting period for maternity?", catalog, nil)
	assert.Equal(t, KindStandard, result.Kind)
}

func TestSummaryAnswer(t *testing.T) {
	router := NewRouter()

	answer := router.SummaryAnswer(catalog)
	assert.Equal(t,
		"We currently offer the following insurance plans: Health Shield, Family Floater Plus, Secure Life. Ask me about any of them for details.",
		answer,
	)
}

func TestSummaryAnswerEmptyCatalog(t *testing.T) {
	router := NewRouter()

	assert.Equal(t, "We currently have no insurance plans on record.", router.SummaryAnswer(nil))
}
