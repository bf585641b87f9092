// Package tariff loads rate schedules from YAML files.
//
// A schedule file overrides the built-in CEMAC rates field by field; fields
// left out keep their default. Rates may be written as quoted strings or
// plain numbers and are parsed as exact decimals.
//
//	vat_rate: "0.18"
//	duty_rates:
//	  BCC: "0.30"
//	excise_rules:
//	  - class: luxury
//	    rate: "0.25"
package tariff

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/infrastructure/config"
)

// File mirrors the YAML layout of a schedule file.
type File struct {
	DutyRates   map[string]decimal.Decimal `yaml:"duty_rates"`
	ExciseRules []ExciseRuleFile           `yaml:"excise_rules"`

	VATRate                     *decimal.Decimal `yaml:"vat_rate"`
	CommunalSurtaxRate          *decimal.Decimal `yaml:"communal_surtax_rate"`
	ITRoyaltyRate               *decimal.Decimal `yaml:"it_royalty_rate"`
	CommunityIntegrationRate    *decimal.Decimal `yaml:"community_integration_rate"`
	IntegrationContributionRate *decimal.Decimal `yaml:"integration_contribution_rate"`
	OHADARate                   *decimal.Decimal `yaml:"ohada_rate"`
	PrepaymentRegisteredRate    *decimal.Decimal `yaml:"prepayment_registered_rate"`
	PrepaymentUnregisteredRate  *decimal.Decimal `yaml:"prepayment_unregistered_rate"`
	FacilitationFee             *decimal.Decimal `yaml:"facilitation_fee"`
	PhytosanitaryPerTon         *decimal.Decimal `yaml:"phytosanitary_per_ton"`
	AdministrativeFee           *decimal.Decimal `yaml:"administrative_fee"`
}

// ExciseRuleFile is one excise_rules entry.
type ExciseRuleFile struct {
	Class string          `yaml:"class"`
	Rate  decimal.Decimal `yaml:"rate"`
}

// ParseSchedule applies the YAML document in data on top of the default
// schedule and validates the result.
func ParseSchedule(data []byte) (customs.RateSchedule, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return customs.RateSchedule{}, fmt.Errorf("tariff: parse schedule: %w", err)
	}
	schedule, err := f.Apply(customs.DefaultRateSchedule())
	if err != nil {
		return customs.RateSchedule{}, err
	}
	if err := schedule.Validate(); err != nil {
		return customs.RateSchedule{}, fmt.Errorf("tariff: %w", err)
	}
	return schedule, nil
}

// LoadSchedule reads and parses a schedule file.
func LoadSchedule(path string) (customs.RateSchedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return customs.RateSchedule{}, fmt.Errorf("tariff: read %s: %w", path, err)
	}
	return ParseSchedule(data)
}

// Apply overlays the file onto base. Duty rates are merged per species; a
// non-empty excise_rules list replaces the base list, keeping its order.
func (f File) Apply(base customs.RateSchedule) (customs.RateSchedule, error) {
	out := base
	out.DutyRates = make(map[customs.TariffSpecies]decimal.Decimal, len(base.DutyRates))
	for k, v := range base.DutyRates {
		out.DutyRates[k] = v
	}
	for code, rate := range f.DutyRates {
		species, err := customs.ParseTariffSpecies(code)
		if err != nil {
			return customs.RateSchedule{}, fmt.Errorf("tariff: duty_rates: %w", err)
		}
		out.DutyRates[species] = rate
	}

	if len(f.ExciseRules) > 0 {
		out.ExciseRules = make([]customs.ExciseRule, 0, len(f.ExciseRules))
		for _, r := range f.ExciseRules {
			out.ExciseRules = append(out.ExciseRules, customs.ExciseRule{
				Class: customs.ExciseClass(strings.TrimSpace(strings.ToLower(r.Class))),
				Rate:  r.Rate,
			})
		}
	}

	overrides := []struct {
		src *decimal.Decimal
		dst *decimal.Decimal
	}{
		{f.VATRate, &out.VATRate},
		{f.CommunalSurtaxRate, &out.CommunalSurtaxRate},
		{f.ITRoyaltyRate, &out.ITRoyaltyRate},
		{f.CommunityIntegrationRate, &out.CommunityIntegrationRate},
		{f.IntegrationContributionRate, &out.IntegrationContributionRate},
		{f.OHADARate, &out.OHADARate},
		{f.PrepaymentRegisteredRate, &out.PrepaymentRegisteredRate},
		{f.PrepaymentUnregisteredRate, &out.PrepaymentUnregisteredRate},
		{f.FacilitationFee, &out.FacilitationFee},
		{f.PhytosanitaryPerTon, &out.PhytosanitaryPerTon},
		{f.AdministrativeFee, &out.AdministrativeFee},
	}
	for _, o := range overrides {
		if o.src != nil {
			*o.dst = *o.src
		}
	}
	return out, nil
}

// NewCalculator builds the calculator selected by cfg: the schedule file when
// one is configured, the built-in rates otherwise.
func NewCalculator(cfg config.TariffConfig) (*customs.Calculator, error) {
	if cfg.ScheduleFile == "" {
		return customs.NewDefaultCalculator(), nil
	}
	schedule, err := LoadSchedule(cfg.ScheduleFile)
	if err != nil {
		return nil, err
	}
	return customs.NewCalculator(schedule)
}
