package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"insurance-faq-be/internal/dto"
	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/pkg/logger"
	"insurance-faq-be/internal/pkg/metrics"
	"insurance-faq-be/internal/repository/contract"
	"insurance-faq-be/internal/repository/specification"
	"insurance-faq-be/pkg/langdetect"
	"insurance-faq-be/pkg/rag/contextualizer"
	"insurance-faq-be/pkg/rag/intent"
	"insurance-faq-be/pkg/rag/pipeline"
	"insurance-faq-be/pkg/rag/prompt"
	"insurance-faq-be/pkg/rag/response"
	"insurance-faq-be/pkg/rag/stream"
	"insurance-faq-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	maxSuggestions    = 5
	maxAuditAnswerLen = 5000
)

// StreamEmitter delivers one NDJSON event to the client. Returning an error
// aborts the stream (the client went away).
type StreamEmitter func(event interface{}) error

type IChatService interface {
	Ask(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	AskStream(ctx context.Context, req *dto.ChatRequest, emit StreamEmitter) error
	Suggestions(ctx context.Context, productID string) (*dto.SuggestionsResponse, error)
}

// chatService runs the full resolution pipeline. Ask and AskStream share the
// same preparation path, so a query routes identically regardless of
// delivery mode.
type chatService struct {
	history   pipeline.HistoryStore
	rewriter  *contextualizer.Rewriter
	router    *intent.Router
	chain     *pipeline.Chain
	retriever *pipeline.Retriever
	writer    *pipeline.Writer
	generator *response.Generator
	products  IProductService
	faqs      contract.FAQRepository
	audits    contract.AuditRepository
	logger    logger.ILogger
}

func NewChatService(
	history pipeline.HistoryStore,
	rewriter *contextualizer.Rewriter,
	router *intent.Router,
	chain *pipeline.Chain,
	retriever *pipeline.Retriever,
	writer *pipeline.Writer,
	generator *response.Generator,
	products IProductService,
	faqs contract.FAQRepository,
	audits contract.AuditRepository,
	log logger.ILogger,
) IChatService {
	return &chatService{
		history:   history,
		rewriter:  rewriter,
		router:    router,
		chain:     chain,
		retriever: retriever,
		writer:    writer,
		generator: generator,
		products:  products,
		faqs:      faqs,
		audits:    audits,
		logger:    log,
	}
}

// preparedQuery is the shared state after contextualization, intent routing
// and the cache chain. result is non-nil when the query terminated before
// generation (summary intent or any cache hit).
type preparedQuery struct {
	req     *pipeline.Request
	intent  intent.Intent
	result  *pipeline.Result
	started time.Time
}

func (s *chatService) prepare(ctx context.Context, in *dto.ChatRequest) *preparedQuery {
	started := time.Now()

	// Anonymous callers still get per-conversation history and auditing.
	if in.SessionID == "" {
		in.SessionID = fmt.Sprintf("temp_%d", time.Now().UnixMilli())
	}

	language := langdetect.Detect(in.Question, in.Language)

	history, err := s.history.Get(ctx, in.SessionID)
	if err != nil {
		s.logger.Warn("chat", "history load failed, continuing without", map[string]interface{}{"error": err.Error()})
		history = nil
	}

	query := s.rewriter.Rewrite(ctx, history, in.Question)
	catalog := s.products.CatalogNames(ctx)
	routed := s.router.Classify(query, catalog, history)

	req := &pipeline.Request{
		ProductID:   in.ProductID,
		ProductName: s.products.ResolveName(ctx, in.ProductID),
		SessionID:   in.SessionID,
		RawQuestion: in.Question,
		Query:       query,
		Language:    language,
		History:     history,
	}

	p := &preparedQuery{req: req, intent: routed, started: started}

	switch routed.Kind {
	case intent.KindSummary:
		// Deterministic catalog answer, never cached, never generated.
		p.result = &pipeline.Result{
			Answer:   s.router.SummaryAnswer(catalog),
			DebugTag: "Intent: Plan Summary",
		}
	case intent.KindComparison:
		// Comparisons bypass every cache tier.
	default:
		if result := s.chain.Resolve(ctx, req); result != nil {
			metrics.CacheHits.WithLabelValues(tierLabel(result.DebugTag)).Inc()
			p.result = result
		} else {
			metrics.CacheMisses.Inc()
		}
	}
	return p
}

func (s *chatService) Ask(ctx context.Context, in *dto.ChatRequest) (*dto.ChatResponse, error) {
	p := s.prepare(ctx, in)

	if p.result != nil {
		return s.finish(ctx, in, p, p.result.Answer, p.result.Sources, p.result.Cached, p.result.DebugTag), nil
	}

	var (
		answer   string
		sources  []string
		debugTag string
	)

	if p.intent.Kind == intent.KindComparison {
		var err error
		answer, sources, err = s.generateComparison(ctx, p)
		if err != nil {
			return nil, err
		}
		debugTag = "Intent: Comparison"
	} else {
		retrieval, err := s.retriever.Fetch(ctx, p.req)
		if err != nil {
			return nil, err
		}
		if len(retrieval.Chunks) == 0 {
			answer = response.NotFoundAnswer
			debugTag = "RAG: No Context"
		} else {
			systemPrompt, userPrompt := prompt.Build(p.req.Query, retrieval.Chunks, p.req.Language, p.req.History)
			answer = s.generator.Generate(ctx, prompt.ToMessages(systemPrompt, userPrompt))
			sources = chunkSources(retrieval.Chunks)
			debugTag = "RAG: Generated"
			s.writer.WriteBack(ctx, p.req, answer, sources, retrieval.Vector)
		}
	}

	if response.IsErrorResponse(answer) {
		metrics.GenerationFailures.Inc()
	}
	return s.finish(ctx, in, p, answer, sources, false, debugTag), nil
}

func (s *chatService) AskStream(ctx context.Context, in *dto.ChatRequest, emit StreamEmitter) error {
	// An abandoned stream must unblock the provider's producer goroutine,
	// which sends on an unbuffered channel until its context dies.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := s.prepare(ctx, in)

	if p.result != nil {
		if err := s.emitMeta(emit, p, p.result.Sources, p.result.Cached, p.result.DebugTag); err != nil {
			return err
		}
		if err := emit(dto.StreamTokenEvent{Type: dto.StreamEventToken, Content: p.result.Answer}); err != nil {
			return err
		}
		s.record(ctx, in, p, p.result.Answer, p.result.Cached, p.result.DebugTag)
		return nil
	}

	var (
		systemPrompt string
		userPrompt   string
		sources      []string
		vector       []float32
		debugTag     string
	)

	if p.intent.Kind == intent.KindComparison {
		productA, productB := p.intent.Products[0], p.intent.Products[1]
		chunksA, err := s.retriever.FetchScoped(ctx, p.req, productA)
		if err != nil {
			return err
		}
		chunksB, err := s.retriever.FetchScoped(ctx, p.req, productB)
		if err != nil {
			return err
		}
		if len(chunksA) == 0 && len(chunksB) == 0 {
			return s.streamFixedAnswer(ctx, in, p, emit, response.NotFoundAnswer, nil, "RAG: No Context")
		}
		systemPrompt, userPrompt = prompt.BuildComparison(p.req.Query, productA, productB, chunksA, chunksB, p.req.Language)
		sources = []string{productA, productB}
		debugTag = "Intent: Comparison"
	} else {
		retrieval, err := s.retriever.Fetch(ctx, p.req)
		if err != nil {
			return err
		}
		if len(retrieval.Chunks) == 0 {
			return s.streamFixedAnswer(ctx, in, p, emit, response.NotFoundAnswer, nil, "RAG: No Context")
		}
		systemPrompt, userPrompt = prompt.Build(p.req.Query, retrieval.Chunks, p.req.Language, p.req.History)
		sources = chunkSources(retrieval.Chunks)
		vector = retrieval.Vector
		debugTag = "RAG: Generated"
	}

	if err := s.emitMeta(emit, p, sources, false, debugTag); err != nil {
		return err
	}

	tokens, err := s.generator.Stream(ctx, prompt.ToMessages(systemPrompt, userPrompt))
	if err != nil {
		s.logger.Error("chat", "stream open failed", map[string]interface{}{"error": err.Error()})
		return emit(dto.StreamErrorEvent{Type: dto.StreamEventError, Message: "generation failed"})
	}

	filter := stream.NewReasoningFilter()
	var full strings.Builder
	for chunk := range tokens {
		if chunk.Err != nil {
			s.logger.Error("chat", "stream aborted", map[string]interface{}{"error": chunk.Err.Error()})
			metrics.GenerationFailures.Inc()
			// Nothing is cached from a broken stream.
			return emit(dto.StreamErrorEvent{Type: dto.StreamEventError, Message: "generation failed"})
		}
		if out := filter.Write(chunk.Content); out != "" {
			full.WriteString(out)
			if err := emit(dto.StreamTokenEvent{Type: dto.StreamEventToken, Content: out}); err != nil {
				return err
			}
		}
	}
	if tail := filter.Flush(); tail != "" {
		full.WriteString(tail)
		if err := emit(dto.StreamTokenEvent{Type: dto.StreamEventToken, Content: tail}); err != nil {
			return err
		}
	}

	answer := full.String()
	if p.intent.Kind == intent.KindStandard && vector != nil {
		s.writer.WriteBack(ctx, p.req, answer, sources, vector)
	}
	s.record(ctx, in, p, answer, false, debugTag)
	return nil
}

func (s *chatService) Suggestions(ctx context.Context, productID string) (*dto.SuggestionsResponse, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	entries, err := s.faqs.FindAll(ctx,
		specification.ByProductID{ProductID: id},
		specification.OrderBy{Column: "created_at", Desc: true},
		specification.Limit{Limit: maxSuggestions},
	)
	if err != nil {
		return nil, err
	}

	suggestions := make([]string, len(entries))
	for i, e := range entries {
		suggestions[i] = e.Question
	}
	return &dto.SuggestionsResponse{Suggestions: suggestions}, nil
}

func (s *chatService) generateComparison(ctx context.Context, p *preparedQuery) (string, []string, error) {
	productA, productB := p.intent.Products[0], p.intent.Products[1]

	chunksA, err := s.retriever.FetchScoped(ctx, p.req, productA)
	if err != nil {
		return "", nil, err
	}
	chunksB, err := s.retriever.FetchScoped(ctx, p.req, productB)
	if err != nil {
		return "", nil, err
	}
	if len(chunksA) == 0 && len(chunksB) == 0 {
		return response.NotFoundAnswer, nil, nil
	}

	systemPrompt, userPrompt := prompt.BuildComparison(p.req.Query, productA, productB, chunksA, chunksB, p.req.Language)
	answer := s.generator.Generate(ctx, prompt.ToMessages(systemPrompt, userPrompt))
	return answer, []string{productA, productB}, nil
}

func (s *chatService) streamFixedAnswer(ctx context.Context, in *dto.ChatRequest, p *preparedQuery, emit StreamEmitter, answer string, sources []string, debugTag string) error {
	if err := s.emitMeta(emit, p, sources, false, debugTag); err != nil {
		return err
	}
	if err := emit(dto.StreamTokenEvent{Type: dto.StreamEventToken, Content: answer}); err != nil {
		return err
	}
	s.record(ctx, in, p, answer, false, debugTag)
	return nil
}

func (s *chatService) emitMeta(emit StreamEmitter, p *preparedQuery, sources []string, cached bool, debugTag string) error {
	return emit(dto.StreamMetaEvent{
		Type:             dto.StreamEventMeta,
		Sources:          sources,
		Cached:           cached,
		DetectedLanguage: p.req.Language,
		DebugInfo:        debugTag,
	})
}

// finish appends the exchange to history, audits it and builds the blocking
// response.
func (s *chatService) finish(ctx context.Context, in *dto.ChatRequest, p *preparedQuery, answer string, sources []string, cached bool, debugTag string) *dto.ChatResponse {
	s.record(ctx, in, p, answer, cached, debugTag)

	elapsed := time.Since(p.started)
	return &dto.ChatResponse{
		Answer:           answer,
		Sources:          sources,
		ResponseTime:     elapsed.Seconds(),
		Cached:           cached,
		DetectedLanguage: p.req.Language,
		DebugInfo:        debugTag,
	}
}

// record persists history and the audit trail. Both are best effort: a Redis
// or Postgres hiccup here must not fail an already-answered query.
func (s *chatService) record(ctx context.Context, in *dto.ChatRequest, p *preparedQuery, answer string, cached bool, debugTag string) {
	// Error answers never become history turns; a stored apology would
	// pollute the next follow-up rewrite.
	if !response.IsErrorResponse(answer) {
		if err := s.history.Append(ctx, in.SessionID, store.RoleUser, in.Question); err != nil {
			s.logger.Warn("chat", "history append failed", map[string]interface{}{"error": err.Error()})
		}
		if err := s.history.Append(ctx, in.SessionID, store.RoleAssistant, answer); err != nil {
			s.logger.Warn("chat", "history append failed", map[string]interface{}{"error": err.Error()})
		}
	}

	elapsed := time.Since(p.started)
	outcome := "generated"
	if cached {
		outcome = "cached"
	}
	metrics.QueryDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())

	// Keep audit rows bounded; cut on a rune boundary so currency symbols
	// and Devanagari text stay valid UTF-8.
	auditAnswer := answer
	if len(auditAnswer) > maxAuditAnswerLen {
		cut := maxAuditAnswerLen
		for cut > 0 && !utf8.RuneStart(auditAnswer[cut]) {
			cut--
		}
		auditAnswer = auditAnswer[:cut]
	}

	record := &entity.AuditRecord{
		Id:         uuid.New(),
		SessionId:  in.SessionID,
		ProductId:  in.ProductID,
		Question:   in.Question,
		Answer:     auditAnswer,
		Language:   p.req.Language,
		Cached:     cached,
		DebugTag:   debugTag,
		DurationMs: elapsed.Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if err := s.audits.Create(ctx, record); err != nil {
		s.logger.Warn("chat", "audit write failed", map[string]interface{}{"error": err.Error()})
	}
}

func tierLabel(debugTag string) string {
	switch {
	case strings.Contains(debugTag, "Manual FAQ"):
		return "curated_faq"
	case strings.Contains(debugTag, "Redis"):
		return "exact_cache"
	case strings.Contains(debugTag, "Semantic"):
		return "semantic_cache"
	default:
		return "unknown"
	}
}

// chunkSources lists the distinct policy names backing an answer, in
// retrieval order.
func chunkSources(chunks []store.Chunk) []string {
	var sources []string
	seen := make(map[string]bool)
	for _, chunk := range chunks {
		name := chunk.ProductName
		if name == "" {
			name = chunk.OriginFile
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		sources = append(sources, name)
	}
	return sources
}
