// Package ratelimit implements fixed-window request limits backed by
// Redis, shared across server instances. A nil client disables
// limiting, which keeps local development and most tests simple.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Limiter struct {
	RDB    *redis.Client
	Logger *zap.Logger
}

func New(rdb *redis.Client, logger *zap.Logger) *Limiter {
	return &Limiter{RDB: rdb, Logger: logger}
}

// Allow reports whether another attempt is permitted for the given
// scope/subject pair within the window. Redis failures allow the
// request: losing rate limiting briefly beats failing logins outright.
func (l *Limiter) Allow(ctx context.Context, scope, subject string, limit int, window time.Duration) bool {
	if l == nil || l.RDB == nil {
		return true
	}

	key := fmt.Sprintf("ratelimit:%s:%s", scope, subject)
	count, err := l.RDB.Incr(ctx, key).Result()
	if err != nil {
		l.Logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.RDB.Expire(ctx, key, window).Err(); err != nil {
			l.Logger.Warn("failed to set rate limit expiry", zap.String("key", key), zap.Error(err))
		}
	}
	return count <= int64(limit)
}
