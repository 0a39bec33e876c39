package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const matchCacheTTL = 12 * time.Hour

// MatchCache memoizes match scores per (user, job, content) so the provider
// applicant list and repeated match lookups do not re-pay one model call per
// row.
type MatchCache interface {
	Get(ctx context.Context, key string) (MatchResult, bool)
	Set(ctx context.Context, key string, result MatchResult)
}

// MatchCacheKey binds a cached score to the exact resume and description
// texts, so a resume re-upload or job edit naturally misses.
func MatchCacheKey(userID, jobID uuid.UUID, resumeText, jobDescription string) string {
	sum := sha256.Sum256([]byte(resumeText + "\x00" + jobDescription))
	return fmt.Sprintf("match:%s:%s:%x", userID, jobID, sum[:8])
}

// NoopMatchCache disables memoization.
type NoopMatchCache struct{}

func (NoopMatchCache) Get(context.Context, string) (MatchResult, bool) { return MatchResult{}, false }
func (NoopMatchCache) Set(context.Context, string, MatchResult)       {}

// RedisMatchCache backs MatchCache with Redis. If the server is unreachable
// at startup the cache degrades to a no-op rather than failing requests.
type RedisMatchCache struct {
	client *redis.Client
}

func NewRedisMatchCache(addr, password string) *RedisMatchCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, match scores will not be cached", "addr", addr, "error", err)
		_ = client.Close()
		return &RedisMatchCache{client: nil}
	}

	return &RedisMatchCache{client: client}
}

func (c *RedisMatchCache) Get(ctx context.Context, key string) (MatchResult, bool) {
	if c == nil || c.client == nil {
		return MatchResult{}, false
	}

	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("match cache read failed", "error", err)
		}
		return MatchResult{}, false
	}

	var result MatchResult
	if err := json.Unmarshal(b, &result); err != nil {
		return MatchResult{}, false
	}
	return result, true
}

func (c *RedisMatchCache) Set(ctx context.Context, key string, result MatchResult) {
	if c == nil || c.client == nil || result.Error != "" {
		return
	}

	b, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, b, matchCacheTTL).Err(); err != nil {
		slog.Warn("match cache write failed", "error", err)
	}
}
