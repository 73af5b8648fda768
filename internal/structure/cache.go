package structure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fbts/job-offer/pkg/constants"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "job-offer:salary-structure:"

// Cache is a read-through Redis cache in front of another Provider. Redis
// failures never fail a lookup; the wrapped provider answers instead.
type Cache struct {
	next   Provider
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache wraps next. A non-positive ttl uses the default.
func NewCache(logger *zap.Logger, client redis.UniversalClient, next Provider, ttl time.Duration) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = constants.DefaultStructureCacheTTL
	}
	return &Cache{next: next, client: client, ttl: ttl, logger: logger}
}

func cacheKey(name string) string {
	return cacheKeyPrefix + name
}

// Lookup implements Provider.
func (c *Cache) Lookup(ctx context.Context, name string) (*Structure, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	data, err := c.client.Get(ctx, cacheKey(name)).Bytes()
	switch {
	case err == nil:
		var s Structure
		jsonErr := json.Unmarshal(data, &s)
		if jsonErr == nil {
			return &s, nil
		}
		c.logger.Warn("discarding undecodable cached salary structure",
			zap.String("op", "structure.Cache.Lookup"),
			zap.String("structure", name),
			zap.Error(jsonErr),
		)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("salary structure cache unavailable",
			zap.String("op", "structure.Cache.Lookup"),
			zap.String("structure", name),
			zap.Error(err),
		)
	}

	s, err := c.next.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(s)
	if err != nil {
		c.logger.Warn("failed to encode salary structure for cache",
			zap.String("op", "structure.Cache.Lookup"),
			zap.String("structure", name),
			zap.Error(err),
		)
		return s, nil
	}
	if err := c.client.Set(ctx, cacheKey(name), encoded, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache salary structure",
			zap.String("op", "structure.Cache.Lookup"),
			zap.String("structure", name),
			zap.Error(err),
		)
	}
	return s, nil
}

// Invalidate drops a cached structure so the next lookup reaches the
// wrapped provider. Dropping a structure that is not cached is not an error.
func (c *Cache) Invalidate(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if err := c.client.Del(ctx, cacheKey(name)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached structure %s: %w", name, err)
	}
	c.logger.Info("invalidated cached salary structure",
		zap.String("op", "structure.Cache.Invalidate"),
		zap.String("structure", name),
	)
	return nil
}
