package attachment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	"github.com/noah-isme/intranet-portal-client/internal/telemetry"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/logger"
)

// ContentStore persists serialized attachment payloads by key.
type ContentStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisStore keeps attachment content in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the cached content or CACHE_MISS.
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	if r.client == nil {
		return "", appErrors.ErrCacheMiss
	}
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", appErrors.ErrCacheMiss
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value with ttl.
func (r *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Close releases the Redis connection.
func (r *RedisStore) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// FetchFunc loads an attachment from the API.
type FetchFunc func(ctx context.Context) (*models.AttachmentPayload, error)

// Cache serves lazily fetched attachment content, optionally from a store.
// Cache failures never fail the fetch; they are logged and bypassed.
type Cache struct {
	store   ContentStore
	ttl     time.Duration
	metrics *telemetry.Metrics
	logger  *zap.Logger
}

// NewCache constructs a cache; a nil store disables caching.
func NewCache(store ContentStore, ttl time.Duration, metrics *telemetry.Metrics, l *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Cache{store: store, ttl: ttl, metrics: metrics, logger: logger.OrNop(l)}
}

// Enabled reports whether a store is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.store != nil
}

// Key builds the cache key for a record attachment.
func Key(kind, id string) string {
	return fmt.Sprintf("attachment:%s:%s", kind, id)
}

// Fetch returns the attachment for kind/id, consulting the store first.
// Only payloads with loaded content are cached.
func (c *Cache) Fetch(ctx context.Context, kind, id string, fetch FetchFunc) (*models.AttachmentPayload, error) {
	if !c.Enabled() {
		return fetch(ctx)
	}
	key := Key(kind, id)
	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var cached models.AttachmentPayload
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil && cached.ContentLoaded() {
			c.metrics.RecordCacheLookup(true)
			return &cached, nil
		}
		c.metrics.RecordCacheLookup(false)
		c.logger.Warn("discarding unreadable cached attachment", zap.String("key", key))
	case errors.Is(err, appErrors.ErrCacheMiss):
		c.metrics.RecordCacheLookup(false)
	default:
		c.metrics.RecordCacheLookup(false)
		c.logger.Warn("attachment cache get failed", zap.String("key", key), zap.Error(err))
	}

	payload, err := fetch(ctx)
	if err != nil || payload == nil || !payload.ContentLoaded() {
		return payload, err
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return payload, nil
	}
	if err := c.store.Set(ctx, key, string(encoded), c.ttl); err != nil {
		c.logger.Warn("attachment cache set failed", zap.String("key", key), zap.Error(err))
	}
	return payload, nil
}

// Invalidate drops the cached content for kind/id, e.g. after an update or delete.
func (c *Cache) Invalidate(ctx context.Context, kind, id string) {
	if !c.Enabled() {
		return
	}
	if err := c.store.Delete(ctx, Key(kind, id)); err != nil {
		c.logger.Warn("attachment cache invalidate failed", zap.String("key", Key(kind, id)), zap.Error(err))
	}
}
