package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Limiter enforces a per-officer hourly query quota backed by Redis.
// A nil Redis client disables enforcement entirely.
type Limiter struct {
	client       *redis.Client
	defaultLimit int
}

// NewLimiter creates a limiter. defaultLimit applies when an officer row
// carries no explicit rate_limit_per_hour.
func NewLimiter(client *redis.Client, defaultLimit int) *Limiter {
	return &Limiter{client: client, defaultLimit: defaultLimit}
}

// Allow counts one query attempt for the officer in the current hour window
// and reports whether it is within the limit. limit <= 0 falls back to the
// configured default.
func (l *Limiter) Allow(ctx context.Context, officerID uuid.UUID, limit int) (bool, error) {
	if l == nil || l.client == nil {
		return true, nil
	}
	if limit <= 0 {
		limit = l.defaultLimit
	}

	key := fmt.Sprintf("ratelimit:officer:%s:%s", officerID, time.Now().UTC().Format("2006010215"))

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		// Redis outage must not block queries
		log.Warn().Err(err).Msg("rate limiter unavailable, allowing query")
		return true, nil
	}
	if count == 1 {
		l.client.Expire(ctx, key, time.Hour)
	}

	return count <= int64(limit), nil
}
