package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simudouane/backend/internal/infrastructure/config"
)

func TestNewDatabase(t *testing.T) {
	t.Run("sqlite in memory with migration", func(t *testing.T) {
		db, err := NewDatabase(&config.DatabaseConfig{
			Driver:      "sqlite",
			Path:        ":memory:",
			AutoMigrate: true,
		})
		require.NoError(t, err)
		defer db.Close()

		assert.NoError(t, db.Ping())
		for _, table := range []string{"categories", "products", "simulations"} {
			assert.True(t, db.DB.Migrator().HasTable(table), table)
		}
		assert.True(t, db.DB.Migrator().HasIndex("simulations", "idx_simulations_payment_code"))
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"})
		assert.ErrorContains(t, err, "unsupported database driver")
	})
}
