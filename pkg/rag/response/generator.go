package response

import (
	"context"
	"strings"
	"time"

	"insurance-faq-be/internal/pkg/logger"
	"insurance-faq-be/pkg/llm"
)

const (
	maxAttempts  = 3
	retryBackoff = 1500 * time.Millisecond

	answerMaxTokens   = 300
	answerTemperature = 0.5

	// ApologyAnswer is returned after the retry budget is exhausted. It is
	// intentionally one of the error phrases so it is never cached.
	ApologyAnswer = "I apologize, but I encountered an error generating the response."

	// NotFoundAnswer is the deterministic reply for empty retrieval.
	NotFoundAnswer = "I couldn't find relevant information in any of our policies."
)

// Error responses are delivered to the caller but excluded from cache
// write-back.
var errorPhrases = []string{
	"I apologize",
	"Error generating",
	"internal error",
}

// IsErrorResponse reports whether a generated answer matches the fixed set of
// failure-indicating phrases.
func IsErrorResponse(answer string) bool {
	for _, phrase := range errorPhrases {
		if strings.Contains(answer, phrase) {
			return true
		}
	}
	return false
}

// Generator wraps the LLM provider with the bounded-retry blocking call and
// the no-retry streaming call.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	backoff     time.Duration
}

func NewGenerator(llmProvider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      log,
		backoff:     retryBackoff,
	}
}

// Generate performs the blocking call: up to maxAttempts tries with a fixed
// backoff in between, degrading to the apology string. It never returns an
// error; transient provider failure must not surface as a hard failure.
func (g *Generator) Generate(ctx context.Context, messages []llm.Message) string {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		answer, err := g.llmProvider.Chat(ctx, messages,
			llm.WithMaxTokens(answerMaxTokens),
			llm.WithTemperature(answerTemperature),
		)
		if err == nil {
			return answer
		}

		lastErr = err
		g.logger.Warn("generator", "llm attempt failed", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
		if attempt < maxAttempts {
			select {
			case <-time.After(g.backoff):
			case <-ctx.Done():
				return ApologyAnswer
			}
		}
	}

	g.logger.Error("generator", "llm retries exhausted", map[string]interface{}{"error": lastErr.Error()})
	return ApologyAnswer
}

// Stream opens a streaming call. There is no retry: a failure after the
// stream begins is delivered as the final chunk's Err.
func (g *Generator) Stream(ctx context.Context, messages []llm.Message) (<-chan llm.StreamChunk, error) {
	return g.llmProvider.ChatStream(ctx, messages,
		llm.WithMaxTokens(answerMaxTokens),
		llm.WithTemperature(answerTemperature),
	)
}
