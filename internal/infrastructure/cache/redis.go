package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

type RedisOption func(*redis.Options)

func WithPassword(pass string) RedisOption { return func(o *redis.Options) { o.Password = pass } }

func WithPoolSize(n int) RedisOption {
	return func(o *redis.Options) {
		if n > 0 {
			o.PoolSize = n
		}
	}
}

// OpenRedis connects and pings once; the client is closed again if the ping fails.
func OpenRedis(ctx context.Context, addr string, db int, opts ...RedisOption) (*redis.Client, error) {
	o := &redis.Options{Addr: addr, DB: db}
	for _, opt := range opts {
		opt(o)
	}
	r := redis.NewClient(o)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return r, nil
}
