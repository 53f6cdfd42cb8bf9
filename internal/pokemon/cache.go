package pokemon

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	appredis "pokemon-map/internal/shared/redis"

	"github.com/redis/go-redis/v9"
)

const catalogCacheKey = "pokemon:catalog:v1"

// CatalogCache stores the species sidebar. A miss is (nil, false, nil).
type CatalogCache interface {
	Get(ctx context.Context) ([]Summary, bool, error)
	Set(ctx context.Context, summaries []Summary) error
	Invalidate(ctx context.Context) error
}

type RedisCatalogCache struct {
	client *appredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCatalogCache returns a Redis-backed cache, or a no-op cache when
// client is nil.
func NewCatalogCache(client *appredis.Client, ttl time.Duration, logger *slog.Logger) CatalogCache {
	if client == nil {
		return noopCatalogCache{}
	}
	return &RedisCatalogCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCatalogCache) Get(ctx context.Context) ([]Summary, bool, error) {
	raw, err := c.client.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read catalog cache: %w", err)
	}

	var summaries []Summary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		c.logger.Warn("Discarding corrupt catalog cache entry", "component", "catalog_cache", "error", err)
		return nil, false, nil
	}
	return summaries, true, nil
}

func (c *RedisCatalogCache) Set(ctx context.Context, summaries []Summary) error {
	raw, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := c.client.Set(ctx, catalogCacheKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	return nil
}

func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}

type noopCatalogCache struct{}

func (noopCatalogCache) Get(context.Context) ([]Summary, bool, error) { return nil, false, nil }
func (noopCatalogCache) Set(context.Context, []Summary) error          { return nil }
func (noopCatalogCache) Invalidate(context.Context) error              { return nil }
