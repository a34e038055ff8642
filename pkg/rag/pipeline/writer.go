package pipeline

import (
	"context"

	"insurance-faq-be/internal/pkg/logger"
	"insurance-faq-be/pkg/rag/response"
	"insurance-faq-be/pkg/store"
)

// Writer populates both cache tiers after a successful generation. By the
// time it runs the answer has already been delivered (or is being streamed),
// so failures are logged and swallowed, never surfaced.
type Writer struct {
	exact    ExactCache
	semantic SemanticCache
	logger   logger.ILogger
}

func NewWriter(exact ExactCache, semantic SemanticCache, log logger.ILogger) *Writer {
	return &Writer{
		exact:    exact,
		semantic: semantic,
		logger:   log,
	}
}

// WriteBack stores the answer in the exact tier, then the semantic tier.
// Answers classified as error responses are never written.
func (w *Writer) WriteBack(ctx context.Context, req *Request, answer string, sources []string, vector []float32) {
	if response.IsErrorResponse(answer) {
		w.logger.Debug("pipeline", "error response excluded from write-back", nil)
		return
	}

	entry := &store.CachedAnswer{Answer: answer, Sources: sources}
	if err := w.exact.Set(ctx, req.productScope(), req.Language, req.Query, entry); err != nil {
		w.logger.Warn("pipeline", "exact cache write failed", map[string]interface{}{"error": err.Error()})
	}

	if vector != nil {
		semEntry := &store.CachedAnswer{Answer: answer, Sources: sources, Question: req.Query}
		if err := w.semantic.Store(ctx, req.Query, vector, semEntry); err != nil {
			w.logger.Warn("pipeline", "semantic cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
