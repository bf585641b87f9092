package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/simudouane/backend/internal/infrastructure/config"
)

// ProfileCacheFactory creates profile caches based on configuration
type ProfileCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*ProfileCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *ProfileCacheFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *ProfileCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewProfileCacheFactory creates a new factory
func NewProfileCacheFactory(cfg config.RedisConfig, opts ...FactoryOption) *ProfileCacheFactory {
	f := &ProfileCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisCache creates a Redis-backed profile cache
func (f *ProfileCacheFactory) CreateRedisCache() (*RedisProfileCache, error) {
	c, err := NewRedisProfileCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
		TTL:      f.redisConfig.ProfileTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis profile cache: %w", err)
	}
	return c, nil
}

// CreateInMemoryCache creates a process-local profile cache
func (f *ProfileCacheFactory) CreateInMemoryCache() *InMemoryProfileCache {
	return NewInMemoryProfileCache(
		WithTTL(f.redisConfig.ProfileTTL),
		WithInMemoryLogger(f.logger.Named("profile_cache")),
	)
}

// CreateCache returns a Redis cache when Redis is enabled and reachable, and
// the in-memory cache otherwise (unless fallback is disabled).
func (f *ProfileCacheFactory) CreateCache() (ProfileCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Debug("redis disabled, using in-memory profile cache")
		return f.CreateInMemoryCache(), nil
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis profile cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for profile cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory profile cache",
		zap.String("addr", f.redisConfig.Addr()),
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
