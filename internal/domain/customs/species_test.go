package customs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTariffSpecies(t *testing.T) {
	sp, err := ParseTariffSpecies(" bcc ")
	require.NoError(t, err)
	assert.Equal(t, SpeciesConsumptionGoods, sp)

	_, err = ParseTariffSpecies("NOPE")
	assert.Error(t, err)
}

func TestTariffSpecies_Label(t *testing.T) {
	assert.Equal(t, "Biens de première nécessité", SpeciesNecessityGoods.Label())
	assert.Equal(t, "ZZ", TariffSpecies("ZZ").Label())
	assert.False(t, TariffSpecies("ZZ").IsValid())
}

func TestRateSchedule_DutyRates(t *testing.T) {
	s := DefaultRateSchedule()
	want := map[TariffSpecies]string{
		SpeciesNecessityGoods:           "0.05",
		SpeciesRawMaterials:             "0.1",
		SpeciesIntermediateDiverseGoods: "0.2",
		SpeciesConsumptionGoods:         "0.3",
	}
	for species, rate := range want {
		assert.True(t, s.DutyRate(species).Equal(dec(rate)), species)
	}
}
