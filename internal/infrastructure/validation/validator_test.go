package validation

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simudouane/backend/internal/domain/shared"
)

type productRequest struct {
	Name          string    `json:"name" validate:"required,max=255"`
	HSCode        string    `json:"hs_code" validate:"required,max=20,hscode"`
	TariffSpecies string    `json:"tariff_species" validate:"omitempty,oneof=VG1 MP BID BCC"`
	CategoryID    uuid.UUID `json:"category_id" validate:"required"`
	Contact       string    `json:"contact,omitempty" validate:"omitempty,email"`
	Internal      string    `json:"-" validate:"max=3"`
}

func TestValidator_Struct(t *testing.T) {
	v := New()

	t.Run("valid request", func(t *testing.T) {
		err := v.Struct(productRequest{
			Name:          "Riz (sacs de 50kg)",
			HSCode:        "1006.30.00.00",
			TariffSpecies: "VG1",
			CategoryID:    uuid.New(),
		})
		assert.NoError(t, err)
	})

	t.Run("reports every failing field by json name", func(t *testing.T) {
		err := v.Struct(productRequest{
			HSCode:        "10-06",
			TariffSpecies: "XX",
			Contact:       "not-an-email",
		})
		require.Error(t, err)

		var verr *Error
		require.True(t, errors.As(err, &verr))
		got := map[string]string{}
		for _, d := range verr.Details {
			got[d.Field] = d.Message
		}
		assert.Equal(t, map[string]string{
			"name":           "This field is required",
			"hs_code":        "Must contain only digits and dots",
			"tariff_species": "Must be one of: VG1 MP BID BCC",
			"category_id":    "This field is required",
			"contact":        "Invalid email format",
		}, got)
	})

	t.Run("matches invalid input sentinel", func(t *testing.T) {
		err := v.Struct(productRequest{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.NotErrorIs(t, err, shared.ErrNotFound)
		assert.Contains(t, err.Error(), "name: This field is required")
	})
}

func TestStruct_DefaultValidator(t *testing.T) {
	type req struct {
		Email string `json:"email" validate:"required,email"`
	}
	assert.NoError(t, Struct(req{Email: "importer@example.cm"}))
	assert.ErrorIs(t, Struct(req{}), shared.ErrInvalidInput)
}
