package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/simudouane/backend/internal/domain/catalog"
	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/simulation"
	"github.com/simudouane/backend/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newTestProduct(t *testing.T, name, hsCode string, species customs.TariffSpecies) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, hsCode, species)
	require.NoError(t, err)
	return p
}

func newTestSimulation(t *testing.T, userID uuid.UUID, product *catalog.Product, code string) *simulation.Simulation {
	t.Helper()
	s, err := simulation.NewSimulation(
		simulation.Owner{UserID: userID, Email: "importer@example.cm"},
		simulation.ProductRef{ID: product.ID, Name: product.Name, HSCode: product.HSCode, Profile: product.Profile()},
		simulation.Inputs{
			DeclaredValue: decimal.NewFromInt(1000),
			TransportCost: decimal.NewFromInt(50),
			HandlingCost:  decimal.NewFromInt(20),
			WeightInTons:  decimal.RequireFromString("2.5"),
			TransportMode: simulation.TransportMaritime,
		},
		customs.NewDefaultCalculator(),
		code,
	)
	require.NoError(t, err)
	return s
}
