package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"naijalaw-ai/internal/ai"
	appsvc "naijalaw-ai/internal/app"
	"naijalaw-ai/internal/bootstrap"
	"naijalaw-ai/internal/cache"
	"naijalaw-ai/internal/platform/rabbitmq"
	"naijalaw-ai/internal/rag"
	"naijalaw-ai/internal/repository"
	"naijalaw-ai/internal/search"
	"naijalaw-ai/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/healthz", handler.Health)

	cfg := app.Config

	docRepo := repository.NewDocumentRepository(app.MySQL)
	chunkRepo := repository.NewChunkRepository(app.MySQL)
	sessionRepo := repository.NewSessionRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)

	llmClient := ai.NewClient()
	embedder := ai.NewEmbeddingClient(llmClient, ai.EmbeddingConfig{
		BaseURL:    cfg.LLM.BaseURL,
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.LLM.EmbeddingModel,
		Dimensions: cfg.LLM.EmbeddingDimensions,
	})
	synthesizer := rag.NewSynthesizer(llmClient, ai.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.ChatModel,
	})
	chunker := rag.NewChunker(cfg.Retrieval.ChunkSize, cfg.Retrieval.ChunkOverlap)
	retriever := rag.NewRetriever(chunkRepo, embedder, cfg.Retrieval.UseVector, cfg.Retrieval.TopK)

	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(cfg.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	sessionLock := cache.NewSessionLock(app.Redis, time.Duration(cfg.Redis.SendLockTTLSeconds)*time.Second)

	documentService := appsvc.NewDocumentService(docRepo, chunkRepo)
	ingestService := appsvc.NewIngestService(docRepo, chunkRepo, embedder, chunker)
	chatService := appsvc.NewChatService(sessionRepo, messageRepo, retriever, synthesizer, sessionLock, historyCache)

	searchChain := search.NewChain(
		cfg.Search.MaxResults,
		search.NewTavilyProvider(cfg.Search.TavilyAPIKey),
		search.NewSerpAPIProvider(cfg.Search.SerpAPIKey),
		search.NewBingProvider(cfg.Search.BingAPIKey),
	)

	eventPublisher := rabbitmq.NewEventPublisher(app.MQConn, cfg.RabbitMQ.PaystackEventQueue)

	ragHandler := handler.NewRAGHandler(documentService, ingestService)
	chatHandler := handler.NewChatHandler(chatService)
	searchHandler := handler.NewSearchHandler(searchChain)
	webhookHandler := handler.NewWebhookHandler(cfg.Paystack.SecretKey, eventPublisher)

	v1 := router.Group("/api/v1")

	ragGroup := v1.Group("/rag")
	ragGroup.POST("/documents", ragHandler.CreateDocument)
	ragGroup.GET("/documents", ragHandler.ListDocuments)
	ragGroup.DELETE("/documents/:id", ragHandler.DeleteDocument)
	ragGroup.POST("/documents/upload", ragHandler.UploadDocument)
	ragGroup.POST("/ingest", ragHandler.Ingest)

	chatGroup := v1.Group("/chat")
	chatGroup.POST("/sessions", chatHandler.CreateSession)
	chatGroup.GET("/sessions", chatHandler.ListSessions)
	chatGroup.DELETE("/sessions/:id", chatHandler.DeleteSession)
	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.GET("/history", chatHandler.GetHistory)

	v1.POST("/search", searchHandler.Search)
	v1.POST("/webhooks/paystack", webhookHandler.Paystack)

	return router
}
