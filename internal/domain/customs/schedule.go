package customs

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ExciseRule applies Rate to products carrying Class. Rules are evaluated in
// order and only the first matching rule fires.
type ExciseRule struct {
	Class ExciseClass
	Rate  decimal.Decimal
}

// RateSchedule holds every rate and fixed fee used by the calculator.
// Changing a regulatory rate is an edit to this table, not to Calculator.
type RateSchedule struct {
	DutyRates   map[TariffSpecies]decimal.Decimal
	ExciseRules []ExciseRule

	VATRate                     decimal.Decimal
	CommunalSurtaxRate          decimal.Decimal // applied to VAT
	ITRoyaltyRate               decimal.Decimal
	CommunityIntegrationRate    decimal.Decimal
	IntegrationContributionRate decimal.Decimal
	OHADARate                   decimal.Decimal
	PrepaymentRegisteredRate    decimal.Decimal // operator holds a unique identification number
	PrepaymentUnregisteredRate  decimal.Decimal

	FacilitationFee     decimal.Decimal
	PhytosanitaryPerTon decimal.Decimal
	AdministrativeFee   decimal.Decimal
}

// DefaultRateSchedule returns the CEMAC rates currently in force.
func DefaultRateSchedule() RateSchedule {
	d := decimal.RequireFromString
	return RateSchedule{
		DutyRates: map[TariffSpecies]decimal.Decimal{
			SpeciesNecessityGoods:           d("0.05"),
			SpeciesRawMaterials:             d("0.10"),
			SpeciesIntermediateDiverseGoods: d("0.20"),
			SpeciesConsumptionGoods:         d("0.30"),
		},
		ExciseRules: []ExciseRule{
			{Class: ExciseLuxury, Rate: d("0.25")},
			{Class: ExciseAlcoholTobacco, Rate: d("0.25")},
			{Class: ExciseVehicle, Rate: d("0.125")},
		},
		VATRate:                     d("0.175"),
		CommunalSurtaxRate:          d("0.10"),
		ITRoyaltyRate:               d("0.0045"),
		CommunityIntegrationRate:    d("0.006"),
		IntegrationContributionRate: d("0.004"),
		OHADARate:                   d("0.0005"),
		PrepaymentRegisteredRate:    d("0.01"),
		PrepaymentUnregisteredRate:  d("0.05"),
		FacilitationFee:             d("12500"),
		PhytosanitaryPerTon:         d("50"),
		AdministrativeFee:           d("10000"),
	}
}

// DutyRate returns the base duty rate for species; unmapped species yield zero.
func (s RateSchedule) DutyRate(species TariffSpecies) decimal.Decimal {
	if r, ok := s.DutyRates[species]; ok {
		return r
	}
	return decimal.Zero
}

// ExciseRate returns the rate of the first rule whose class the profile carries.
func (s RateSchedule) ExciseRate(p ProductTariffProfile) decimal.Decimal {
	for _, rule := range s.ExciseRules {
		if p.Has(rule.Class) {
			return rule.Rate
		}
	}
	return decimal.Zero
}

// PrepaymentRate selects the purchase prepayment rate by registration status.
func (s RateSchedule) PrepaymentRate(hasUniqueID bool) decimal.Decimal {
	if hasUniqueID {
		return s.PrepaymentRegisteredRate
	}
	return s.PrepaymentUnregisteredRate
}

// Validate rejects negative rates and unknown excise classes.
func (s RateSchedule) Validate() error {
	for species, r := range s.DutyRates {
		if r.IsNegative() {
			return fmt.Errorf("duty rate for %s cannot be negative", species)
		}
	}
	seen := make(map[ExciseClass]bool, len(s.ExciseRules))
	for _, rule := range s.ExciseRules {
		if !rule.Class.IsValid() {
			return fmt.Errorf("unknown excise class %q", rule.Class)
		}
		if seen[rule.Class] {
			return fmt.Errorf("excise class %q listed twice", rule.Class)
		}
		seen[rule.Class] = true
		if rule.Rate.IsNegative() {
			return fmt.Errorf("excise rate for %s cannot be negative", rule.Class)
		}
	}
	named := []struct {
		name string
		v    decimal.Decimal
	}{
		{"vat_rate", s.VATRate},
		{"communal_surtax_rate", s.CommunalSurtaxRate},
		{"it_royalty_rate", s.ITRoyaltyRate},
		{"community_integration_rate", s.CommunityIntegrationRate},
		{"integration_contribution_rate", s.IntegrationContributionRate},
		{"ohada_rate", s.OHADARate},
		{"prepayment_registered_rate", s.PrepaymentRegisteredRate},
		{"prepayment_unregistered_rate", s.PrepaymentUnregisteredRate},
		{"facilitation_fee", s.FacilitationFee},
		{"phytosanitary_per_ton", s.PhytosanitaryPerTon},
		{"administrative_fee", s.AdministrativeFee},
	}
	for _, n := range named {
		if n.v.IsNegative() {
			return fmt.Errorf("%s cannot be negative", n.name)
		}
	}
	return nil
}
