package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/go-redis/redis/v8"

	"cutru-ai/internal/cache"
	"cutru-ai/internal/config"
	"cutru-ai/internal/guardrails"
	"cutru-ai/internal/http"
	"cutru-ai/internal/ingest"
	"cutru-ai/internal/intent"
	"cutru-ai/internal/legal"
	"cutru-ai/internal/llm"
	"cutru-ai/internal/rag"
	"cutru-ai/internal/rerank"
	"cutru-ai/internal/rewrite"
	"cutru-ai/internal/storage"
	"cutru-ai/internal/vectorstore"
	"cutru-ai/internal/workflow"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize the tracking database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	queryRepo := storage.NewQueryRepo(db)

	ctx := context.Background()

	// Initialize Qdrant vector store and make sure every collection the
	// router can dispatch to exists.
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	for _, collection := range intent.ManagedCollections {
		if err := vectorStore.EnsureCollection(ctx, collection, cfg.QdrantVectorSize); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection %s: %v", collection, err)
		}
	}
	slog.Info("Qdrant collections ready", "collections", intent.ManagedCollections, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.QdrantVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Reranker is optional; without it hits keep their vector-score order.
	var reranker rag.Reranker
	if cfg.RerankerBaseURL != "" {
		reranker = rerank.NewClient(cfg.RerankerBaseURL, cfg.RerankerModelName)
		slog.Info("Reranker enabled", "base_url", cfg.RerankerBaseURL, "model", cfg.RerankerModelName)
	}

	classifier := intent.NewClassifier(intent.DefaultRules())
	router := intent.NewRouter(cfg.AmbiguousWeight)
	expander := legal.NewExpander(vectorStore, legal.Limits{
		Parent: cfg.ExpandParentLimit,
		Clause: cfg.ExpandClauseLimit,
		Point:  cfg.ExpandPointLimit,
	})

	retriever := rag.NewRetriever(classifier, router, embedder, vectorStore, expander, reranker, rag.Options{
		SearchLimit:    cfg.SearchLimit,
		RerankTopK:     cfg.RerankTopK,
		MaxLawDocs:     cfg.MaxLawDocs,
		MaxContextDocs: cfg.MaxContextDocs,
	})
	slog.Info("Retrieval pipeline initialized")

	// Answer cache is optional; without Redis every question runs the
	// full pipeline.
	var answerCache workflow.AnswerCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis unreachable, answer cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			answerCache = cache.New(redisClient, cfg.CacheTTL)
			slog.Info("Answer cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		}
	}

	assistant := workflow.New(
		guardrails.NewFilter(),
		answerCache,
		rewrite.NewRewriter(llmClient),
		retriever,
		llmClient,
		queryRepo,
	)

	ingestPipeline := ingest.NewPipeline(vectorStore, embedder, cfg.QdrantVectorSize)

	httpRouter := http.NewRouter(&http.Deps{
		Assistant: assistant,
		Ingester:  ingestPipeline,
		Queries:   queryRepo,
	})

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, httpRouter); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
