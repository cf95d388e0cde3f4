// Package cache provides the Redis-backed dashboard metrics cache.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appshipping "github.com/garmentcrm/backend/internal/application/shipping"
	"github.com/garmentcrm/backend/internal/infrastructure/config"
)

// Ensure RedisMetricsCache implements MetricsCache
var _ appshipping.MetricsCache = (*RedisMetricsCache)(nil)

const metricsKey = "dashboard:metrics"

// RedisMetricsCache caches dashboard aggregates in Redis with a TTL.
// Get misses and transport errors both report a miss so callers fall
// through to the database.
type RedisMetricsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisMetricsCache connects to Redis and returns the cache
func NewRedisMetricsCache(cfg config.RedisConfig, logger *zap.Logger) (*RedisMetricsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisMetricsCache{client: client, ttl: cfg.TTL, logger: logger}, nil
}

// NewRedisMetricsCacheWithClient wraps an existing client, useful for tests
func NewRedisMetricsCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisMetricsCache {
	return &RedisMetricsCache{client: client, ttl: ttl, logger: logger}
}

// GetDashboardMetrics returns the cached aggregate, ok=false on a miss
func (c *RedisMetricsCache) GetDashboardMetrics(ctx context.Context) (*appshipping.DashboardMetrics, bool) {
	payload, err := c.client.Get(ctx, metricsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("metrics cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var metrics appshipping.DashboardMetrics
	if err := json.Unmarshal(payload, &metrics); err != nil {
		c.logger.Warn("metrics cache payload corrupt, dropping", zap.Error(err))
		c.client.Del(ctx, metricsKey)
		return nil, false
	}
	return &metrics, true
}

// SetDashboardMetrics stores the aggregate with the configured TTL
func (c *RedisMetricsCache) SetDashboardMetrics(ctx context.Context, metrics *appshipping.DashboardMetrics) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encoding metrics: %w", err)
	}
	if err := c.client.Set(ctx, metricsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing metrics cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached aggregate
func (c *RedisMetricsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, metricsKey).Err(); err != nil {
		return fmt.Errorf("invalidating metrics cache: %w", err)
	}
	return nil
}

// Close releases the Redis connection
func (c *RedisMetricsCache) Close() error {
	return c.client.Close()
}
