// Package ratelimit implements a soft per-key fixed-window limiter on
// Redis (INCR + EXPIRE). Soft means fail-open: if Redis is unreachable the
// request is allowed, since limiting here protects against abuse, not
// correctness.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter counts hits per key in fixed windows.
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	log    *zap.Logger
}

// NewLimiter creates a limiter allowing `limit` hits per `window` per key.
func NewLimiter(rdb *redis.Client, limit int, window time.Duration, log *zap.Logger) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window, log: log.With(zap.String("component", "ratelimit"))}
}

// Allow reports whether the key is within its window limit.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	redisKey := "ratelimit:" + key

	pipe := l.rdb.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		l.log.Warn("limiter unavailable, allowing", zap.String("key", key), zap.Error(err))
		return true
	}
	return incr.Val() <= int64(l.limit)
}
