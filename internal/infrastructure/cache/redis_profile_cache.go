package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/simudouane/backend/internal/domain/customs"
)

const defaultKeyPrefix = "simu:profile:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// RedisProfileCache implements ProfileCache using Redis, so that several
// processes share one view of the catalog.
type RedisProfileCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisProfileCache connects to Redis and verifies the connection
func NewRedisProfileCache(cfg RedisConfig) (*RedisProfileCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisProfileCacheWithClient(client, "", cfg.TTL), nil
}

// NewRedisProfileCacheWithClient wraps an existing client
func NewRedisProfileCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisProfileCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &RedisProfileCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisProfileCache) key(productID uuid.UUID) string {
	return c.keyPrefix + productID.String()
}

// Get returns the cached profile of productID
func (c *RedisProfileCache) Get(ctx context.Context, productID uuid.UUID) (customs.ProductTariffProfile, bool, error) {
	var profile customs.ProductTariffProfile

	data, err := c.client.Get(ctx, c.key(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return profile, false, nil
	}
	if err != nil {
		return profile, false, fmt.Errorf("failed to read cached profile: %w", err)
	}

	if err := json.Unmarshal(data, &profile); err != nil {
		return profile, false, fmt.Errorf("failed to decode cached profile: %w", err)
	}
	return profile, true, nil
}

// Set stores profile with the configured TTL
func (c *RedisProfileCache) Set(ctx context.Context, productID uuid.UUID, profile customs.ProductTariffProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := c.client.Set(ctx, c.key(productID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache profile: %w", err)
	}
	return nil
}

// Invalidate deletes the entry of productID
func (c *RedisProfileCache) Invalidate(ctx context.Context, productID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(productID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate profile: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisProfileCache) Close() error {
	return c.client.Close()
}

var _ ProfileCache = (*RedisProfileCache)(nil)
