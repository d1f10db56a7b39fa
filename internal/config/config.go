package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	RerankerBaseURL    string
	RerankerModelName  string

	QdrantURL        string
	QdrantVectorSize int

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	DBPath string

	// Limits for the hierarchical expansion lookups. The reference values
	// (30/50/30 records) are heuristic caps, not correctness bounds; tune to
	// the real cardinality of clauses per article and points per clause.
	ExpandParentLimit int
	ExpandClauseLimit int
	ExpandPointLimit  int

	// SearchLimit is the per-collection semantic search depth.
	SearchLimit int
	// RerankTopK is how many candidates survive the reranker.
	RerankTopK int
	// MaxLawDocs caps merged article documents handed to the prompt.
	MaxLawDocs int
	// MaxContextDocs caps raw documents for non-law intents.
	MaxContextDocs int

	// AmbiguousWeight is the per-collection weight when intent is ambiguous
	// or unknown and every collection is searched.
	AmbiguousWeight float64

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it is loaded
// automatically; variables already set take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Walk up from the working directory looking for a project-root .env.
	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:       getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:          getEnv("LLM_API_KEY", "dummy-key"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "Qwen3-Embedding-0.6B"),
		RerankerBaseURL:    getEnv("RERANKER_BASE_URL", ""),
		RerankerModelName:  getEnv("RERANKER_MODEL_NAME", "bge-reranker-v2-m3"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		DBPath:             getEnv("DB_PATH", "./data/cutru-ai.db"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.QdrantVectorSize, err = getEnvInt("QDRANT_VECTOR_SIZE", 0); err != nil {
		return nil, err
	}
	if cfg.QdrantVectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required and must be greater than 0")
	}

	if cfg.ExpandParentLimit, err = getEnvInt("EXPAND_PARENT_LIMIT", 30); err != nil {
		return nil, err
	}
	if cfg.ExpandClauseLimit, err = getEnvInt("EXPAND_CLAUSE_LIMIT", 50); err != nil {
		return nil, err
	}
	if cfg.ExpandPointLimit, err = getEnvInt("EXPAND_POINT_LIMIT", 30); err != nil {
		return nil, err
	}
	if cfg.SearchLimit, err = getEnvInt("SEARCH_LIMIT", 50); err != nil {
		return nil, err
	}
	if cfg.RerankTopK, err = getEnvInt("RERANK_TOP_K", 50); err != nil {
		return nil, err
	}
	if cfg.MaxLawDocs, err = getEnvInt("MAX_LAW_DOCS", 20); err != nil {
		return nil, err
	}
	if cfg.MaxContextDocs, err = getEnvInt("MAX_CONTEXT_DOCS", 30); err != nil {
		return nil, err
	}

	weightStr := getEnv("AMBIGUOUS_WEIGHT", "0.2")
	cfg.AmbiguousWeight, err = strconv.ParseFloat(weightStr, 64)
	if err != nil {
		return nil, fmt.Errorf("AMBIGUOUS_WEIGHT must be a valid float: %w", err)
	}

	ttlSeconds, err := getEnvInt("CACHE_TTL_SECONDS", 3600)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		cfg.LogLevel = slog.LevelInfo
	}

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer environment variable, falling back to a default.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}
