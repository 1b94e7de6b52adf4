// Package ratelimiter counts requests per identity in fixed redis windows, so
// every api instance shares the same budget.
package ratelimiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "modcore:rl:"

type Limiter struct {
	client *redis.Client
	name   string
	limit  int64
	window time.Duration
}

// New allows limit requests per identity in every window.
func New(client *redis.Client, name string, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, name: name, limit: int64(limit), window: window}
}

// Allow counts one request of identity. The window starts with the first request.
func (l *Limiter) Allow(ctx context.Context, identity string) (bool, error) {
	key := keyPrefix + l.name + ":" + identity

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= l.limit, nil
}

// Reset forgets the requests of identity.
func (l *Limiter) Reset(ctx context.Context, identity string) error {
	return l.client.Del(ctx, keyPrefix+l.name+":"+identity).Err()
}
