package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simudouane/backend/internal/domain/customs"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryProfileCache implements ProfileCache in process memory. It is the
// fallback when Redis is disabled or unreachable.
type InMemoryProfileCache struct {
	entries sync.Map // map[uuid.UUID]*cacheEntry
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32
}

type cacheEntry struct {
	value     customs.ProductTariffProfile
	expiresAt time.Time
}

func (e *cacheEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemoryOption configures an InMemoryProfileCache
type InMemoryOption func(*InMemoryProfileCache)

// WithTTL sets the entry lifetime
func WithTTL(ttl time.Duration) InMemoryOption {
	return func(c *InMemoryProfileCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryOption {
	return func(c *InMemoryProfileCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewInMemoryProfileCache creates the cache and starts its cleanup goroutine.
// Close stops it.
func NewInMemoryProfileCache(opts ...InMemoryOption) *InMemoryProfileCache {
	c := &InMemoryProfileCache{
		ttl:    DefaultProfileTTL,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupExpired()
	return c
}

// Get returns the cached profile of productID
func (c *InMemoryProfileCache) Get(_ context.Context, productID uuid.UUID) (customs.ProductTariffProfile, bool, error) {
	if value, ok := c.entries.Load(productID); ok {
		entry := value.(*cacheEntry)
		if !entry.isExpired(time.Now()) {
			return entry.value, true, nil
		}
		c.entries.Delete(productID)
	}

	c.logger.Debug("profile cache miss", zap.String("product_id", productID.String()))
	return customs.ProductTariffProfile{}, false, nil
}

// Set stores profile for the configured TTL
func (c *InMemoryProfileCache) Set(_ context.Context, productID uuid.UUID, profile customs.ProductTariffProfile) error {
	c.entries.Store(productID, &cacheEntry{
		value:     profile,
		expiresAt: time.Now().Add(c.ttl),
	})
	return nil
}

// Invalidate drops the entry of productID
func (c *InMemoryProfileCache) Invalidate(_ context.Context, productID uuid.UUID) error {
	c.entries.Delete(productID)
	return nil
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *InMemoryProfileCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

func (c *InMemoryProfileCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.removeExpired(time.Now())
		}
	}
}

func (c *InMemoryProfileCache) removeExpired(now time.Time) int {
	removed := 0
	c.entries.Range(func(key, value any) bool {
		if value.(*cacheEntry).isExpired(now) {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("removed expired profile cache entries", zap.Int("count", removed))
	}
	return removed
}

var _ ProfileCache = (*InMemoryProfileCache)(nil)
