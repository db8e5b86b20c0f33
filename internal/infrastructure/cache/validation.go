package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "cargotrace-backend/internal/domain/verification"

	"github.com/redis/go-redis/v9"
)

const validationKeyPrefix = "acid:validation:"

var _ domain.Cache = (*ValidationCache)(nil)

// ValidationCache keeps definitive authority answers in Redis for ttl.
type ValidationCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewValidationCache(rdb *redis.Client, ttl time.Duration) *ValidationCache {
	return &ValidationCache{rdb: rdb, ttl: ttl}
}

func (c *ValidationCache) Get(ctx context.Context, number string) (*domain.Validation, error) {
	raw, err := c.rdb.Get(ctx, validationKeyPrefix+number).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("validation cache get: %w", err)
	}
	var v domain.Validation
	if err := json.Unmarshal(raw, &v); err != nil {
		// a corrupt entry is a miss; the next Set overwrites it
		return nil, nil
	}
	return &v, nil
}

func (c *ValidationCache) Set(ctx context.Context, v *domain.Validation) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("validation cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, validationKeyPrefix+v.Number, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("validation cache set: %w", err)
	}
	return nil
}
