package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pulselabs/community-pulse-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &CacheService{
		client: client,
		logger: logger,
	}, nil
}

func (c *CacheService) Get(ctx context.Context, key string, dest any) error {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // Key doesn't exist - not an error
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
			return errors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}

	return nil
}

func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}

	return nil
}

func (c *CacheService) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("delete failed", "del", key, err)
	}
	return nil
}

func (c *CacheService) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		c.logger.Error("Cache keys search failed", zap.String("pattern", pattern), zap.Error(err))
		return []string{}, errors.NewCacheError("keys search failed", "keys", pattern, err)
	}
	return keys, nil
}

func (c *CacheService) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	c.logger.Info("Redis disconnected")
	return nil
}

// ReportKey builds the cache key for a formatted report. Reports are
// cached per community, report type, and window length.
func ReportKey(reportType, communityID string, days int) string {
	return fmt.Sprintf("pulse:report:%s:%s:%d", reportType, communityID, days)
}

// GetReport returns a cached formatted report, or ok=false on a miss.
// Cache failures count as misses so the report is recomputed.
func (c *CacheService) GetReport(ctx context.Context, key string) (string, bool) {
	var report string
	if err := c.Get(ctx, key, &report); err != nil {
		c.logger.Debug("Report cache miss or error", zap.String("key", key))
		return "", false
	}
	if report == "" {
		return "", false
	}
	return report, true
}

// SetReport caches a formatted report. Failures are logged and
// swallowed: a cold cache only costs a recompute.
func (c *CacheService) SetReport(ctx context.Context, key, report string, ttl time.Duration) {
	if err := c.Set(ctx, key, report, ttl); err != nil {
		c.logger.Error("Failed to cache report", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateReports drops every cached report for a community,
// regardless of report type or window length. Runs after the daily
// roll-up so cached reports never outlive fresh metrics.
func (c *CacheService) InvalidateReports(ctx context.Context, communityID string) error {
	pattern := fmt.Sprintf("pulse:report:*:%s:*", communityID)

	keys, err := c.Keys(ctx, pattern)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := c.Del(ctx, key); err != nil {
			return err
		}
	}

	if len(keys) > 0 {
		c.logger.Debug("Invalidated cached reports",
			zap.String("community", communityID),
			zap.Int("keys", len(keys)),
		)
	}
	return nil
}
