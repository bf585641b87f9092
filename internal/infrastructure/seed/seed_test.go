package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/simudouane/backend/internal/domain/catalog"
	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/shared"
	"github.com/simudouane/backend/internal/infrastructure/config"
	"github.com/simudouane/backend/internal/infrastructure/persistence"
)

func newTestSeeder(t *testing.T) (*Seeder, *persistence.GormCategoryRepository, *persistence.GormProductRepository) {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        ":memory:",
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	categories := persistence.NewGormCategoryRepository(db.DB)
	products := persistence.NewGormProductRepository(db.DB)
	return NewSeeder(categories, products, zaptest.NewLogger(t)), categories, products
}

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Len(t, c.Categories, 13)
	assert.Len(t, c.Products, 103)

	hsCodes := make(map[string]bool, len(c.Products))
	for _, p := range c.Products {
		assert.False(t, hsCodes[p.HSCode], "duplicate HS code %s", p.HSCode)
		hsCodes[p.HSCode] = true
	}
}

func TestParseCatalog_InvalidYAML(t *testing.T) {
	_, err := ParseCatalog([]byte("categories: [unterminated"))
	assert.ErrorContains(t, err, "seed: parse catalog")
}

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	seeder, categories, products := newTestSeeder(t)

	c, err := DefaultCatalog()
	require.NoError(t, err)

	res, err := seeder.Run(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, Result{CategoriesCreated: 13, ProductsCreated: 103}, res)

	rice, err := products.FindByHSCode(ctx, "1006.30.00.00")
	require.NoError(t, err)
	assert.Equal(t, "Riz (sacs de 50kg)", rice.Name)
	assert.Equal(t, customs.SpeciesNecessityGoods, rice.TariffSpecies)
	assert.True(t, rice.RequiresPhytosanitary)
	assert.False(t, rice.IsLuxury)

	food, err := categories.FindByName(ctx, "Produits Alimentaires de Première Nécessité")
	require.NoError(t, err)
	require.NotNil(t, rice.CategoryID)
	assert.Equal(t, food.ID, *rice.CategoryID)
	assert.Equal(t, "01-24", food.HSCodePrefix)

	whisky, err := products.FindByHSCode(ctx, "2208.30.00.00")
	require.NoError(t, err)
	assert.True(t, whisky.IsAlcoholTobacco)

	t.Run("second run changes nothing", func(t *testing.T) {
		again, err := seeder.Run(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, Result{}, again)

		total, err := products.Count(ctx, catalog.ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(103), total)
	})
}

func TestSeeder_UpdatesExistingProduct(t *testing.T) {
	ctx := context.Background()
	seeder, _, products := newTestSeeder(t)

	first := &Catalog{
		Categories: []CategoryEntry{{Name: "Véhicules", HSCodePrefix: "87"}},
		Products: []ProductEntry{
			{Name: "Moto 125cc", Category: "Véhicules", TariffSpecies: "BCC", HSCode: "8711.20.00.00", Vehicle: true},
		},
	}
	_, err := seeder.Run(ctx, first)
	require.NoError(t, err)

	second := &Catalog{
		Categories: first.Categories,
		Products: []ProductEntry{
			{Name: "Tricycle à moteur", Category: "Véhicules", TariffSpecies: "bid", HSCode: "8711.20.00.00"},
		},
	}
	res, err := seeder.Run(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, Result{ProductsUpdated: 1}, res)

	p, err := products.FindByHSCode(ctx, "8711.20.00.00")
	require.NoError(t, err)
	assert.Equal(t, "Tricycle à moteur", p.Name)
	assert.Equal(t, customs.SpeciesIntermediateDiverseGoods, p.TariffSpecies)
	assert.False(t, p.IsVehicle)
}

func TestSeeder_SkipsInvalidProducts(t *testing.T) {
	ctx := context.Background()
	seeder, _, products := newTestSeeder(t)

	res, err := seeder.Run(ctx, &Catalog{
		Products: []ProductEntry{
			{Name: "Sans catégorie", HSCode: "0000.00"},
			{Name: "Espèce inconnue", TariffSpecies: "XYZ", HSCode: "1111.00"},
			{Name: "Code invalide", HSCode: "AB-12"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, Result{ProductsCreated: 1, ProductsSkipped: 2}, res)

	p, err := products.FindByHSCode(ctx, "0000.00")
	require.NoError(t, err)
	assert.Nil(t, p.CategoryID)
	assert.Equal(t, customs.SpeciesConsumptionGoods, p.TariffSpecies)

	_, err = products.FindByHSCode(ctx, "1111.00")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
