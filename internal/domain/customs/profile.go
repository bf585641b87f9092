package customs

// ProductTariffProfile carries the catalog attributes that drive the duty chain.
type ProductTariffProfile struct {
	TariffSpecies         TariffSpecies `json:"tariff_species" yaml:"tariff_species"`
	IsLuxury              bool          `json:"is_luxury" yaml:"is_luxury"`
	IsAlcoholOrTobacco    bool          `json:"is_alcohol_or_tobacco" yaml:"is_alcohol_or_tobacco"`
	IsVehicle             bool          `json:"is_vehicle" yaml:"is_vehicle"`
	RequiresPhytosanitary bool          `json:"requires_phytosanitary" yaml:"requires_phytosanitary"`
}

// Has reports whether the profile carries the flag for class.
func (p ProductTariffProfile) Has(class ExciseClass) bool {
	switch class {
	case ExciseLuxury:
		return p.IsLuxury
	case ExciseAlcoholTobacco:
		return p.IsAlcoholOrTobacco
	case ExciseVehicle:
		return p.IsVehicle
	}
	return false
}
