package bootstrap

import (
	"context"
	"log"
	"time"

	"insurance-faq-be/internal/config"
	"insurance-faq-be/internal/controller"
	"insurance-faq-be/internal/pkg/logger"
	"insurance-faq-be/internal/repository/implementation"
	redisrepo "insurance-faq-be/internal/repository/redis"
	"insurance-faq-be/internal/service"
	"insurance-faq-be/pkg/embedding"
	"insurance-faq-be/pkg/llm/factory"
	"insurance-faq-be/pkg/rag/contextualizer"
	"insurance-faq-be/pkg/rag/intent"
	"insurance-faq-be/pkg/rag/pipeline"
	"insurance-faq-be/pkg/rag/response"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	ProductController controller.IProductController
	AuthController    controller.IAuthController
	AdminController   controller.IAdminController

	// Background services (exposed for main.go to run)
	IngestionService service.IIngestionService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.Groq,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 5. Repositories
	productRepo := implementation.NewProductRepository(db)
	faqRepo := implementation.NewFAQRepository(db)
	documentRepo := implementation.NewDocumentRepository(db)
	chunkRepo := implementation.NewChunkRepository(db)
	semanticRepo := implementation.NewSemanticCacheRepository(db)
	auditRepo := implementation.NewAuditRepository(db)
	adminRepo := implementation.NewAdminRepository(db)

	qaCache := redisrepo.NewQACache(rdb, time.Duration(cfg.Chat.ExactCacheTTLSeconds)*time.Second, sysLogger)
	historyStore := redisrepo.NewHistoryStore(rdb, time.Duration(cfg.Chat.HistoryTTLSeconds)*time.Second, cfg.Chat.HistoryMaxEntries)

	// 6. Resolution pipeline
	curatedFAQ := service.NewCuratedFAQAdapter(faqRepo)
	semanticCache := service.NewSemanticCacheAdapter(semanticRepo)
	documentIndex := service.NewDocumentIndexAdapter(chunkRepo)

	chain := pipeline.NewChain(curatedFAQ, qaCache, semanticCache, embeddingProvider, sysLogger)
	retriever := pipeline.NewRetriever(documentIndex, embeddingProvider)
	writer := pipeline.NewWriter(qaCache, semanticCache, sysLogger)
	rewriter := contextualizer.NewRewriter(llmProvider, sysLogger)
	intentRouter := intent.NewRouter()
	generator := response.NewGenerator(llmProvider, sysLogger)

	// 7. Services
	productService := service.NewProductService(productRepo)
	faqService := service.NewFAQService(faqRepo, productRepo)
	chatService := service.NewChatService(
		historyStore,
		rewriter,
		intentRouter,
		chain,
		retriever,
		writer,
		generator,
		productService,
		faqRepo,
		auditRepo,
		sysLogger,
	)
	ingestionService := service.NewIngestionService(
		pubSub,
		cfg.Keys.IngestTopic,
		cfg.App.UploadDir,
		productRepo,
		documentRepo,
		chunkRepo,
		embeddingProvider,
		sysLogger,
	)
	authService := service.NewAuthService(adminRepo, cfg.Keys.JWTSecret)
	adminService := service.NewAdminService(qaCache, semanticRepo, auditRepo, sysLogger)

	// 8. Controllers
	return &Container{
		ChatController:    controller.NewChatController(chatService, sysLogger),
		ProductController: controller.NewProductController(productService, faqService),
		AuthController:    controller.NewAuthController(authService),
		AdminController:   controller.NewAdminController(adminService, productService, faqService, ingestionService),

		IngestionService: ingestionService,
		Logger:           sysLogger,
	}
}
