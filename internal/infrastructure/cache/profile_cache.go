package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/simudouane/backend/internal/domain/customs"
)

// DefaultProfileTTL is used when a cache is created with a zero TTL.
const DefaultProfileTTL = 10 * time.Minute

// ProfileCache stores product tariff profiles keyed by product ID.
// A miss is reported with ok=false and a nil error.
type ProfileCache interface {
	Get(ctx context.Context, productID uuid.UUID) (profile customs.ProductTariffProfile, ok bool, err error)
	Set(ctx context.Context, productID uuid.UUID, profile customs.ProductTariffProfile) error
	Invalidate(ctx context.Context, productID uuid.UUID) error
	Close() error
}
