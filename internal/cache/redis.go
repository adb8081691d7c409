package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/i211534/movieapp-recommendations/internal/domain"
)

const defaultTTL = 5 * time.Minute

// Cache holds the user-independent popular-fallback catalog entries.
// Recommendation results themselves are never cached; they are built
// fresh per request.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func buildKey(limit int) string {
	return fmt.Sprintf("catalog:recent:limit:%d", limit)
}

// GetRecent returns cached fallback entries for limit, or found=false on
// a miss.
func (c *Cache) GetRecent(ctx context.Context, limit int) ([]domain.CatalogEntry, bool, error) {
	key := buildKey(limit)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get fallback entries from cache: %w", err)
	}

	var entries []domain.CatalogEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal fallback entries %s: %w", key, err)
	}

	return entries, true, nil
}

// SetRecent stores fallback entries for limit with the configured TTL.
func (c *Cache) SetRecent(ctx context.Context, limit int, entries []domain.CatalogEntry) error {
	key := buildKey(limit)
	val, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal fallback entries: %w", err)
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set fallback entries in cache: %w", err)
	}

	return nil
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
