package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"insurance-faq-be/internal/dto"
	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/pkg/logger"
	"insurance-faq-be/internal/repository/specification"
	"insurance-faq-be/pkg/embedding"
	"insurance-faq-be/pkg/llm"
	"insurance-faq-be/pkg/rag/contextualizer"
	"insurance-faq-be/pkg/rag/intent"
	"insurance-faq-be/pkg/rag/pipeline"
	"insurance-faq-be/pkg/rag/response"
	"insurance-faq-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeLLM struct {
	chatAnswer   string
	chatErr      error
	chatCalls    int
	streamChunks []llm.StreamChunk
	streamErr    error

	// unbufferedStream makes ChatStream behave like a real provider: a
	// producer goroutine sending on an unbuffered channel that only gives
	// up when its context dies. streamDone closes when the producer exits.
	unbufferedStream bool
	streamDone       chan struct{}
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.chatCalls++
	return f.chatAnswer, f.chatErr
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeLLM) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.StreamChunk, error) {
	if f.streamErr != nil {
		return nil, f.streamErr
	}

	if f.unbufferedStream {
		ch := make(chan llm.StreamChunk)
		go func() {
			defer close(ch)
			defer close(f.streamDone)
			for _, chunk := range f.streamChunks {
				select {
				case ch <- chunk:
				case <-ctx.Done():
					return
				}
			}
		}()
		return ch, nil
	}

	ch := make(chan llm.StreamChunk, len(f.streamChunks))
	for _, chunk := range f.streamChunks {
		ch <- chunk
	}
	close(ch)
	return ch, nil
}

type fakeHistoryStore struct {
	entries map[string][]store.HistoryEntry
	getErr  error
}

func (f *fakeHistoryStore) Get(ctx context.Context, sessionID string) ([]store.HistoryEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[sessionID], nil
}

func (f *fakeHistoryStore) Append(ctx context.Context, sessionID, role, content string) error {
	if f.entries == nil {
		f.entries = make(map[string][]store.HistoryEntry)
	}
	f.entries[sessionID] = append(f.entries[sessionID], store.HistoryEntry{Role: role, Content: content})
	return nil
}

type fakeCurated struct {
	answers map[string]string // productID|question
}

func (f *fakeCurated) Lookup(ctx context.Context, productID, question string) (string, bool) {
	answer, ok := f.answers[productID+"|"+question]
	return answer, ok
}

type fakeExact struct {
	entries map[string]*store.CachedAnswer
	sets    int
}

func (f *fakeExact) Get(ctx context.Context, product, language, question string) (*store.CachedAnswer, bool) {
	entry, ok := f.entries[product+"|"+language+"|"+question]
	return entry, ok
}

func (f *fakeExact) Set(ctx context.Context, product, language, question string, answer *store.CachedAnswer) error {
	f.sets++
	if f.entries == nil {
		f.entries = make(map[string]*store.CachedAnswer)
	}
	f.entries[product+"|"+language+"|"+question] = answer
	return nil
}

type fakeSemantic struct {
	stores int
}

func (f *fakeSemantic) Nearest(ctx context.Context, vector []float32) (*store.CachedAnswer, float64, bool, error) {
	return nil, 0, false, nil
}

func (f *fakeSemantic) Store(ctx context.Context, question string, vector []float32, answer *store.CachedAnswer) error {
	f.stores++
	return nil
}

type fakeIndex struct {
	chunks      []store.Chunk
	searchCalls int
	lastFilters []string
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, k int, productFilter string) ([]store.Chunk, error) {
	f.searchCalls++
	f.lastFilters = append(f.lastFilters, productFilter)
	return f.chunks, nil
}

type fakeEmbedder struct{}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.5, 0.5}},
	}, nil
}

type fakeProducts struct {
	IProductService
	catalog []string
	names   map[string]string
}

func (f *fakeProducts) CatalogNames(ctx context.Context) []string {
	return f.catalog
}

func (f *fakeProducts) ResolveName(ctx context.Context, productID string) string {
	return f.names[productID]
}

type fakeFAQRepo struct {
	entries []*entity.FAQEntry
	findErr error
}

func (f *fakeFAQRepo) Create(ctx context.Context, entry *entity.FAQEntry) error { return nil }
func (f *fakeFAQRepo) Update(ctx context.Context, entry *entity.FAQEntry) error { return nil }
func (f *fakeFAQRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }

func (f *fakeFAQRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FAQEntry, error) {
	return nil, nil
}

func (f *fakeFAQRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FAQEntry, error) {
	return f.entries, f.findErr
}

func (f *fakeFAQRepo) FindAnswer(ctx context.Context, productId uuid.UUID, question string) (string, bool, error) {
	return "", false, nil
}

type fakeAuditRepo struct {
	records []*entity.AuditRecord
}

func (f *fakeAuditRepo) Create(ctx context.Context, record *entity.AuditRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeAuditRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditRecord, error) {
	return f.records, nil
}

func (f *fakeAuditRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.records)), nil
}

// --- harness ---

type chatFixture struct {
	svc      IChatService
	llm      *fakeLLM
	history  *fakeHistoryStore
	curated  *fakeCurated
	exact    *fakeExact
	semantic *fakeSemantic
	index    *fakeIndex
	audits   *fakeAuditRepo
}

func newChatFixture() *chatFixture {
	log := logger.NewNop()
	llmFake := &fakeLLM{chatAnswer: "Generated answer with 30 days."}
	history := &fakeHistoryStore{}
	curated := &fakeCurated{}
	exact := &fakeExact{}
	semantic := &fakeSemantic{}
	index := &fakeIndex{}
	embedder := &fakeEmbedder{}
	audits := &fakeAuditRepo{}

	products := &fakeProducts{
		catalog: []string{"Health Shield", "Secure Life"},
		names:   map[string]string{"11111111-1111-1111-1111-111111111111": "Health Shield"},
	}

	svc := NewChatService(
		history,
		contextualizer.NewRewriter(llmFake, log),
		intent.NewRouter(),
		pipeline.NewChain(curated, exact, semantic, embedder, log),
		pipeline.NewRetriever(index, embedder),
		pipeline.NewWriter(exact, semantic, log),
		response.NewGenerator(llmFake, log),
		products,
		&fakeFAQRepo{},
		audits,
		log,
	)

	return &chatFixture{
		svc:      svc,
		llm:      llmFake,
		history:  history,
		curated:  curated,
		exact:    exact,
		semantic: semantic,
		index:    index,
		audits:   audits,
	}
}

const testProductID = "11111111-1111-1111-1111-111111111111"

// --- blocking path ---

func TestAskSummaryIntent(t *testing.T) {
	f := newChatFixture()

	res, err := f.svc.Ask(context.Background(), &dto.ChatRequest{
		SessionID: "s1",
		Question:  "what plans do you offer?",
	})

	require.NoError(t, err)
	assert.Equal(t, "We currently offer the following insurance plans: Health Shield, Secure Life. Ask me about any of them for details.", res.Answer)
	assert.Equal(t, "Intent: Plan Summary", res.DebugInfo)
	assert.False(t, res.Cached)
	assert.Zero(t, f.llm.chatCalls)
	assert.Zero(t, f.index.searchCalls)
}

func TestAskCuratedHit(t *testing.T) {
	f := newChatFixture()
	f.curated.answers = map[string]string{
		testProductID + "|What is the waiting period?": "Thirty days.",
	}

	res, err := f.svc.Ask(context.Background(), &dto.ChatRequest{
		ProductID: testProductID,
		SessionID: "s1",
		Question:  "What is the waiting period?",
	})

	require.NoError(t, err)
	assert.Equal(t, "Thirty days.", res.Answer)
	assert.True(t, res.Cached)
	assert.Equal(t, "Layer 0: Manual FAQ Hit", res.DebugInfo)
	assert.Equal(t, []string{"Official FAQ"}, res.Sources)
	assert.Zero(t, f.llm.chatCalls)
}

func TestAskExactHit(t *testing.T) {
	f := newChatFixture()
	f.exact.entries = map[string]*store.CachedAnswer{
		"global|en|What is the waiting period?": {Answer: "Cached thirty days.", Sources: []string{"Health Shield"}},
	}

	res, err := f.svc.Ask(context.Background(), &dto.ChatRequest{
		SessionID: "s1",
		Question:  "What is the waiting period?",
	})

	require.NoError(t, err)
	assert.Equal(t, "Cached thirty days.", res.Answer)
	assert.True(t, res.Cached)
	assert.Equal(t, "Layer 1: Redis Hit", res.DebugInfo)
	assert.Zero(t, f.llm.chatCalls)
	assert.Zero(t, f.index.searchCalls)
}

func TestAskGeneratesOnFullMiss(t *testing.T) {
	f := newChatFixture()
	f.index.chunks = []store.Chunk{
		{Text: "The waiting period is 30 days.", ProductName: "Health Shield"},
		{Text: "Maternity waiting period is 9 months.", ProductName: "Health Shield"},
	}

	res, err := f.svc.Ask(context.Background(), &dto.ChatRequest{
		ProductID: testProductID,
		SessionID: "s1",
		Question:  "What is the waiting period?",
	})

	require.NoError(t, err)
	assert.Equal(t, "Generated answer with 30 days.", res.Answer)
	assert.False(t, res.Cached)
	assert.Equal(t, "RAG: Generated", res.DebugInfo)
	assert.Equal(t, []string{"Health Shield"}, res.Sources)
	assert.Equal(t, 1, f.llm.chatCalls)

	// Write-back hit both tiers.
	assert.Equal(t, 1, f.exact.sets)
	assert.Equal(t, 1, f.semantic.stores)

	// Session history recorded both turns.
	assert.Len(t, f.history.entries["s1"], 2)
	assert.Equal(t, store.RoleAssistant, f.history.entries["s1"][1].Role)

	// Audit trail recorded.
	require.Len(t, f.audits.records, 1)
	assert.Equal(t, "RAG: Generated", f.audits.records[0].DebugTag)
}

func TestAskNoContext(t *testing.T) {
	f := newChatFixture()

	res, err := f.svc.Ask(context.Background(), &dto.ChatRequest{
		SessionID: "s1",
		Question:  "What is the waiting period?",
	})

	require.NoError(t, err)
	assert.Equal(t, response.NotFoundAnswer, res.Answer)
	assert.Equal(t, "RAG: No Context", res.DebugInfo)
	assert.Zero(t, f.llm.chatCalls)
	assert.Zero(t, f.exact.sets)
	assert.Zero(t, f.semantic.stores)
}

func TestAskComparison(t *testing.T) {
	f := newChatFixture()
	f.llm.chatAnswer = "Side by side comparison."
	f.index.chunks = []store.Chunk{{Text: "coverage details", ProductName: "Health Shield"}}

	res, err := f.svc.Ask(context.Background(), &dto.ChatRequest{
		SessionID: "s1",
		Question:  "compare Health Shield and Secure Life",
	})

	require.NoError(t, err)
	assert.Equal(t, "Side by side comparison.", res.Answer)
	assert.Equal(t, "Intent: Comparison", res.DebugInfo)
	assert.Equal(t, []string{"Health Shield", "Secure Life"}, res.Sources)
	// One scoped search per entity, no cache write-back.
	assert.Equal(t, 2, f.index.searchCalls)
	assert.Equal(t, []string{"Health Shield", "Secure Life"}, f.index.lastFilters)
	assert.Zero(t, f.exact.sets)
	assert.Zero(t, f.semantic.stores)
}

// --- streaming path ---

type eventSink struct {
	events []interface{}
	err    error
}

func (e *eventSink) emit(event interface{}) error {
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

func TestAskStreamCacheHit(t *testing.T) {
	f := newChatFixture()
	f.exact.entries = map[string]*store.CachedAnswer{
		"global|en|What is the waiting period?": {Answer: "Cached answer.", Sources: []string{"Health Shield"}},
	}
	sink := &eventSink{}

	err := f.svc.AskStream(context.Background(), &dto.ChatRequest{
		SessionID: "s1",
		Question:  "What is the waiting period?",
	}, sink.emit)

	require.NoError(t, err)
	require.Len(t, sink.events, 2)

	meta, ok := sink.events[0].(dto.StreamMetaEvent)
	require.True(t, ok)
	assert.Equal(t, dto.StreamEventMeta, meta.Type)
	assert.True(t, meta.Cached)
	assert.Equal(t, "Layer 1: Redis Hit", meta.DebugInfo)

	token, ok := sink.events[1].(dto.StreamTokenEvent)
	require.True(t, ok)
	assert.Equal(t, "Cached answer.", token.Content)
}

func TestAskStreamGeneratesAndFiltersReasoning(t *testing.T) {
	f := newChatFixture()
	f.index.chunks = []store.Chunk{{Text: "waiting period is 30 days", ProductName: "Health Shield"}}
	f.llm.streamChunks = []llm.StreamChunk{
		{Content: "<think>reasoning here</think>"},
		{Content: "The waiting "},
		{Content: "period is 30 days."},
	}
	sink := &eventSink{}

	err := f.svc.AskStream(context.Background(), &dto.ChatRequest{
		SessionID: "s1",
		Question:  "What is the waiting period?",
	}, sink.emit)

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(sink.events), 2)

	meta, ok := sink.events[0].(dto.StreamMetaEvent)
	require.True(t, ok)
	assert.False(t, meta.Cached)
	assert.Equal(t, "RAG: Generated", meta.DebugInfo)
	assert.Equal(t, []string{"Health Shield"}, meta.Sources)

	var full string
	for _, event := range sink.events[1:] {
		token, ok := event.(dto.StreamTokenEvent)
		require.True(t, ok)
		full += token.Content
	}
	assert.Equal(t, "The waiting period is 30 days.", full)

	// The accumulated answer, not the raw stream, was written back.
	assert.Equal(t, 1, f.exact.sets)
	assert.Equal(t, 1, f.semantic.stores)
	entry, ok := f.exact.Get(context.Background(), "global", "en", "What is the waiting period?")
	require.True(t, ok)
	assert.Equal(t, "The waiting period is 30 days.", entry.Answer)
}

func TestAskStreamNoContext(t *testing.T) {
	f := newChatFixture()
	sink := &eventSink{}

	err := f.svc.AskStream(context.Background(), &dto.ChatRequest{
		SessionID: "s1",
		Question:  "What is the waiting period?",
	}, sink.emit)

	require.NoError(t, err)
	require.Len(t, sink.events, 2)

	token, ok := sink.events[1].(dto.StreamTokenEvent)
	require.True(t, ok)
	assert.Equal(t, response.NotFoundAnswer, token.Content)
}

func TestAskStreamMidStreamError(t *testing.T) {
	f := newChatFixture()
	f.index.chunks = []store.Chunk{{Text: "waiting period is 30 days", ProductName: "Health Shield"}}
	f.llm.streamChunks = []llm.StreamChunk{
		{Content: "Partial "},
		{Err: errors.New("upstream closed")},
	}
	sink := &eventSink{}

	err := f.svc.AskStream(context.Background(), &dto.ChatRequest{
		SessionID: "s1",
		Question:  "What is the waiting period?",
	}, sink.emit)

	require.NoError(t, err)
	last := sink.events[len(sink.events)-1]
	errEvent, ok := last.(dto.StreamErrorEvent)
	require.True(t, ok)
	assert.Equal(t, dto.StreamEventError, errEvent.Type)

	// A broken stream never reaches the caches.
	assert.Zero(t, f.exact.sets)
	assert.Zero(t, f.semantic.stores)
}

func TestAskStreamComparisonSkipsWriteBack(t *testing.T) {
	f := newChatFixture()
	f.index.chunks = []store.Chunk{{Text: "coverage details", ProductName: "Health Shield"}}
	f.llm.streamChunks = []llm.StreamChunk{{Content: "Comparison answer."}}
	sink := &eventSink{}

	err := f.svc.AskStream(context.Background(), &dto.ChatRequest{
		SessionID: "s1",
		Question:  "compare Health Shield and Secure Life",
	}, sink.emit)

	require.NoError(t, err)

	meta, ok := sink.events[0].(dto.StreamMetaEvent)
	require.True(t, ok)
	assert.Equal(t, "Intent: Comparison", meta.DebugInfo)
	assert.Equal(t, []string{"Health Shield", "Secure Life"}, meta.Sources)

	assert.Zero(t, f.exact.sets)
	assert.Zero(t, f.semantic.stores)
}

func TestAskStreamClientDisconnectUnblocksProvider(t *testing.T) {
	f := newChatFixture()
	f.index.chunks = []store.Chunk{{Text: "waiting period is 30 days", ProductName: "Health Shield"}}
	f.llm.unbufferedStream = true
	f.llm.streamDone = make(chan struct{})
	f.llm.streamChunks = []llm.StreamChunk{
		{Content: "first token "},
		{Content: "second token "},
		{Content: "third token"},
	}

	// Meta and the first token go through; then the client goes away.
	calls := 0
	emit := func(event interface{}) error {
		calls++
		if calls > 2 {
			return errors.New("client disconnected")
		}
		return nil
	}

	err := f.svc.AskStream(context.Background(), &dto.ChatRequest{
		SessionID: "s1",
		Question:  "What is the waiting period?",
	}, emit)
	require.Error(t, err)

	select {
	case <-f.llm.streamDone:
	case <-time.After(2 * time.Second):
		t.Fatal("provider stream goroutine still blocked after AskStream returned")
	}
}

func TestAskSynthesizesSessionWhenAbsent(t *testing.T) {
	f := newChatFixture()

	res, err := f.svc.Ask(context.Background(), &dto.ChatRequest{
		Question: "what plans do you offer?",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, res.Answer)

	require.Len(t, f.audits.records, 1)
	sessionID := f.audits.records[0].SessionId
	assert.True(t, strings.HasPrefix(sessionID, "temp_"))
	// History landed under the synthesized session.
	assert.Len(t, f.history.entries[sessionID], 2)
}

func TestAskErrorAnswerExcludedFromHistory(t *testing.T) {
	f := newChatFixture()
	f.index.chunks = []store.Chunk{{Text: "waiting period is 30 days", ProductName: "Health Shield"}}
	f.llm.chatAnswer = "an internal error occurred upstream"

	res, err := f.svc.Ask(context.Background(), &dto.ChatRequest{
		SessionID: "s1",
		Question:  "What is the waiting period?",
	})

	require.NoError(t, err)
	assert.Equal(t, "an internal error occurred upstream", res.Answer)

	// Not a history turn, not cached; the audit row still exists.
	assert.Empty(t, f.history.entries["s1"])
	assert.Zero(t, f.exact.sets)
	assert.Zero(t, f.semantic.stores)
	require.Len(t, f.audits.records, 1)
}

func TestAskAuditTruncatesOnRuneBoundary(t *testing.T) {
	f := newChatFixture()
	f.index.chunks = []store.Chunk{{Text: "sum insured options table", ProductName: "Health Shield"}}
	// 2000 rupee signs: 6000 bytes, and 5000 is not a rune boundary.
	f.llm.chatAnswer = strings.Repeat("₹", 2000)

	res, err := f.svc.Ask(context.Background(), &dto.ChatRequest{
		SessionID: "s1",
		Question:  "What is the sum insured?",
	})

	require.NoError(t, err)
	// The caller gets the full answer; only the audit row is bounded.
	assert.Equal(t, 6000, len(res.Answer))

	require.Len(t, f.audits.records, 1)
	stored := f.audits.records[0].Answer
	assert.LessOrEqual(t, len(stored), 5000)
	assert.True(t, utf8.ValidString(stored))
}

// --- suggestions ---

func TestSuggestionsInvalidProductID(t *testing.T) {
	f := newChatFixture()

	_, err := f.svc.Suggestions(context.Background(), "not-a-uuid")
	assert.Error(t, err)
}

func TestSuggestionsReturnsQuestions(t *testing.T) {
	log := logger.NewNop()
	faqs := &fakeFAQRepo{entries: []*entity.FAQEntry{
		{Question: "What is the waiting period?"},
		{Question: "How do I file a claim?"},
	}}

	svc := NewChatService(
		&fakeHistoryStore{},
		contextualizer.NewRewriter(&fakeLLM{}, log),
		intent.NewRouter(),
		pipeline.NewChain(&fakeCurated{}, &fakeExact{}, &fakeSemantic{}, &fakeEmbedder{}, log),
		pipeline.NewRetriever(&fakeIndex{}, &fakeEmbedder{}),
		pipeline.NewWriter(&fakeExact{}, &fakeSemantic{}, log),
		response.NewGenerator(&fakeLLM{}, log),
		&fakeProducts{},
		faqs,
		&fakeAuditRepo{},
		log,
	)

	res, err := svc.Suggestions(context.Background(), uuid.New().String())

	require.NoError(t, err)
	assert.Equal(t, []string{"What is the waiting period?", "How do I file a claim?"}, res.Suggestions)
}
