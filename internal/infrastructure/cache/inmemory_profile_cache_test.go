package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simudouane/backend/internal/domain/customs"
)

func TestInMemoryProfileCache_GetSet(t *testing.T) {
	c := NewInMemoryProfileCache()
	defer c.Close()

	ctx := context.Background()
	id := uuid.New()

	_, ok, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	profile := customs.ProductTariffProfile{TariffSpecies: customs.SpeciesRawMaterials, RequiresPhytosanitary: true}
	require.NoError(t, c.Set(ctx, id, profile))

	got, ok, err := c.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, profile, got)
}

func TestInMemoryProfileCache_Invalidate(t *testing.T) {
	c := NewInMemoryProfileCache()
	defer c.Close()

	ctx := context.Background()
	id := uuid.New()
	require.NoError(t, c.Set(ctx, id, customs.ProductTariffProfile{TariffSpecies: customs.SpeciesConsumptionGoods}))
	require.NoError(t, c.Invalidate(ctx, id))

	_, ok, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryProfileCache_Expiry(t *testing.T) {
	c := NewInMemoryProfileCache(WithTTL(time.Minute))
	defer c.Close()

	ctx := context.Background()
	first, second := uuid.New(), uuid.New()
	require.NoError(t, c.Set(ctx, first, customs.ProductTariffProfile{}))
	require.NoError(t, c.Set(ctx, second, customs.ProductTariffProfile{}))

	assert.Equal(t, 0, c.removeExpired(time.Now()))
	assert.Equal(t, 2, c.removeExpired(time.Now().Add(2*time.Minute)))

	_, ok, err := c.Get(ctx, first)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryProfileCache_ExpiredEntryIsAMiss(t *testing.T) {
	c := NewInMemoryProfileCache(WithTTL(time.Millisecond))
	defer c.Close()

	ctx := context.Background()
	id := uuid.New()
	require.NoError(t, c.Set(ctx, id, customs.ProductTariffProfile{}))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryProfileCache_CloseTwice(t *testing.T) {
	c := NewInMemoryProfileCache()
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
