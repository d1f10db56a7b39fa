// Package cache memoizes full answers in Redis keyed by the normalized
// question text.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"cutru-ai/internal/contextutil"
)

// redisClient is the slice of the redis API the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Entry is a cached answer with the classification that produced it.
type Entry struct {
	Answer     string `json:"answer"`
	Intent     string `json:"intent"`
	Confidence string `json:"confidence"`
}

// AnswerCache caches answers with a TTL. Every Redis failure is
// treated as a cache miss: the cache can never make a request fail.
type AnswerCache struct {
	client redisClient
	ttl    time.Duration
}

// New creates an AnswerCache over an existing Redis client.
func New(client redisClient, ttl time.Duration) *AnswerCache {
	return &AnswerCache{client: client, ttl: ttl}
}

// Get returns the cached entry for question, or ok=false on miss.
func (c *AnswerCache) Get(ctx context.Context, question string) (Entry, bool) {
	raw, err := c.client.Get(ctx, Key(question)).Result()
	if err == redis.Nil {
		return Entry{}, false
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "cache lookup failed, treating as miss", "error", err)
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "cache entry corrupt, treating as miss", "error", err)
		return Entry{}, false
	}
	return entry, true
}

// Set stores an entry for question. Failures are logged and dropped.
func (c *AnswerCache) Set(ctx context.Context, question string, entry Entry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, Key(question), raw, c.ttl).Err(); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "cache store failed", "error", err)
	}
}

// Key derives the cache key for a question: questions differing only
// in case or spacing share an entry.
func Key(question string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(question)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return "answer:" + hex.EncodeToString(sum[:])
}
