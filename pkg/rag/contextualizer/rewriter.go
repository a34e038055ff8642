package contextualizer

import (
	"context"
	"fmt"
	"strings"

	"insurance-faq-be/internal/pkg/logger"
	"insurance-faq-be/pkg/llm"
	"insurance-faq-be/pkg/store"
)

const (
	// History turns included in the rewrite instruction.
	maxHistoryTurns = 4

	// A rewrite longer than this multiple of the original question is
	// treated as a hallucinated continuation and discarded.
	maxGrowthFactor = 4

	rewriteMaxTokens   = 50
	rewriteTemperature = 0.3
)

// Rewriter turns a follow-up question into a standalone query using the
// session history. It never fails: every error path falls back to the raw
// question.
type Rewriter struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewRewriter(llmProvider llm.LLMProvider, log logger.ILogger) *Rewriter {
	return &Rewriter{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Rewrite returns the standalone form of question. With empty history the raw
// question is returned without any model call.
func (r *Rewriter) Rewrite(ctx context.Context, history []store.HistoryEntry, question string) string {
	if len(history) == 0 {
		return question
	}

	prompt := buildRewritePrompt(history, question)

	rewritten, err := r.llmProvider.Generate(ctx, prompt,
		llm.WithMaxTokens(rewriteMaxTokens),
		llm.WithTemperature(rewriteTemperature),
	)
	if err != nil {
		r.logger.Warn("contextualizer", "rewrite failed, using raw question", map[string]interface{}{"error": err.Error()})
		return question
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" || len(rewritten) > len(question)*maxGrowthFactor {
		r.logger.Debug("contextualizer", "rewrite rejected by safety check", map[string]interface{}{
			"original_len": len(question),
			"rewrite_len":  len(rewritten),
		})
		return question
	}

	return rewritten
}

func buildRewritePrompt(history []store.HistoryEntry, question string) string {
	recent := history
	if len(recent) > maxHistoryTurns {
		recent = recent[len(recent)-maxHistoryTurns:]
	}

	var historyText strings.Builder
	for i, msg := range recent {
		if i > 0 {
			historyText.WriteString("\n")
		}
		historyText.WriteString(fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}

	return fmt.Sprintf(
		"Given the conversation history, rewrite the last user input to be a standalone question. "+
			"Do not answer it. Just clarify what the user is asking.\n\n"+
			"History:\n%s\n\n"+
			"User Input: %s\n\n"+
			"Rewritten Question:",
		historyText.String(), question,
	)
}
