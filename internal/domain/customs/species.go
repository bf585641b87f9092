package customs

import (
	"fmt"
	"strings"
)

// TariffSpecies is the regulatory bucket that selects the base customs duty rate.
type TariffSpecies string

const (
	SpeciesNecessityGoods           TariffSpecies = "VG1" // first-necessity goods, 5%
	SpeciesRawMaterials             TariffSpecies = "MP"  // raw materials and equipment, 10%
	SpeciesIntermediateDiverseGoods TariffSpecies = "BID" // intermediate and diverse goods, 20%
	SpeciesConsumptionGoods         TariffSpecies = "BCC" // current consumption goods, 30%
)

// AllTariffSpecies lists every species in catalog order.
var AllTariffSpecies = []TariffSpecies{
	SpeciesNecessityGoods,
	SpeciesRawMaterials,
	SpeciesIntermediateDiverseGoods,
	SpeciesConsumptionGoods,
}

var speciesLabels = map[TariffSpecies]string{
	SpeciesNecessityGoods:           "Biens de première nécessité",
	SpeciesRawMaterials:             "Matières premières et biens d'équipement",
	SpeciesIntermediateDiverseGoods: "Biens intermédiaires et divers",
	SpeciesConsumptionGoods:         "Biens de consommation courante",
}

// ParseTariffSpecies accepts a species code in any case.
func ParseTariffSpecies(s string) (TariffSpecies, error) {
	sp := TariffSpecies(strings.ToUpper(strings.TrimSpace(s)))
	if !sp.IsValid() {
		return "", fmt.Errorf("unknown tariff species %q", s)
	}
	return sp, nil
}

// IsValid reports whether s is one of the known species.
func (s TariffSpecies) IsValid() bool {
	_, ok := speciesLabels[s]
	return ok
}

// Label returns the human readable name of the species.
func (s TariffSpecies) Label() string {
	if l, ok := speciesLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s TariffSpecies) String() string {
	return string(s)
}

// ExciseClass names a product flag that can attract excise duty.
type ExciseClass string

const (
	ExciseLuxury         ExciseClass = "luxury"
	ExciseAlcoholTobacco ExciseClass = "alcohol_tobacco"
	ExciseVehicle        ExciseClass = "vehicle"
)

// IsValid reports whether c is a known excise class.
func (c ExciseClass) IsValid() bool {
	switch c {
	case ExciseLuxury, ExciseAlcoholTobacco, ExciseVehicle:
		return true
	}
	return false
}
