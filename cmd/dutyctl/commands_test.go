package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/shared"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunCompute(t *testing.T) {
	a := &app{log: zaptest.NewLogger(t), calc: customs.NewDefaultCalculator()}

	t.Run("inline profile", func(t *testing.T) {
		path := writeFile(t, `
declared_value: 1000000
transport_cost: "150000"
handling_cost: 0
weight_in_tons: 2
operator_has_unique_id: true
product:
  tariff_species: BCC
  is_luxury: true
`)
		assert.NoError(t, runCompute(context.Background(), a, []string{"-f", path}))
	})

	t.Run("negative amount", func(t *testing.T) {
		path := writeFile(t, "declared_value: -1\nproduct:\n  tariff_species: MP\n")
		err := runCompute(context.Background(), a, []string{"-f", path})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("missing profile", func(t *testing.T) {
		path := writeFile(t, "declared_value: 10\n")
		err := runCompute(context.Background(), a, []string{"-f", path})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestActorFlags(t *testing.T) {
	t.Setenv("SIMU_USER_ID", "")

	parse := func(args ...string) *actorFlags {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		var f actorFlags
		f.register(fs)
		require.NoError(t, fs.Parse(args))
		return &f
	}

	t.Run("user is required", func(t *testing.T) {
		_, err := parse().actor()
		assert.ErrorIs(t, err, errUsage)
	})

	t.Run("admin target", func(t *testing.T) {
		user, simID := uuid.New(), uuid.New()
		who, id, err := parse("-user", user.String(), "-admin").target(simID.String())
		require.NoError(t, err)
		assert.True(t, who.IsAdmin)
		assert.Equal(t, user, who.UserID)
		assert.Equal(t, simID, id)
	})

	t.Run("bad simulation id", func(t *testing.T) {
		_, _, err := parse("-user", uuid.NewString()).target("nope")
		assert.ErrorIs(t, err, errUsage)
	})
}

func TestPage(t *testing.T) {
	out := page[string](nil, 0, 1, 20)
	assert.NotNil(t, out.Items)
	assert.Equal(t, 20, out.PageSize)
}
