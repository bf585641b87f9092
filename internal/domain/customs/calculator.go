// Package customs computes CEMAC import duties from a declaration and a
// product tariff profile. It performs no I/O and holds no mutable state, so a
// Calculator can be shared between goroutines.
package customs

import (
	"github.com/shopspring/decimal"

	"github.com/simudouane/backend/internal/domain/shared/valueobject"
)

// Calculator applies a RateSchedule to import declarations. The zero value
// uses DefaultRateSchedule.
type Calculator struct {
	schedule RateSchedule
}

// NewCalculator validates schedule and returns a calculator bound to it.
func NewCalculator(schedule RateSchedule) (*Calculator, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{schedule: schedule}, nil
}

// NewDefaultCalculator returns a calculator using DefaultRateSchedule.
func NewDefaultCalculator() *Calculator {
	return &Calculator{schedule: DefaultRateSchedule()}
}

// Schedule returns the rate schedule in use.
func (c *Calculator) Schedule() RateSchedule {
	if c.schedule.DutyRates == nil {
		return DefaultRateSchedule()
	}
	return c.schedule
}

// Compute runs the duty chain. Each stage keeps full precision for the stages
// that depend on it; amounts are rounded half-up to two places only when the
// breakdown is assembled, and Total sums the rounded lines.
func (c *Calculator) Compute(decl ImportDeclaration) (DutyBreakdown, error) {
	if err := decl.Validate(); err != nil {
		return DutyBreakdown{}, err
	}
	s := c.Schedule()
	p := *decl.Product

	cv := decl.DeclaredValue.Add(decl.TransportCost).Add(decl.HandlingCost)
	cd := cv.Mul(s.DutyRate(p.TariffSpecies))
	ed := cv.Add(cd).Mul(s.ExciseRate(p))
	vat := cv.Add(cd).Add(ed).Mul(s.VATRate)
	communal := vat.Mul(s.CommunalSurtaxRate)

	phyto := decimal.Zero
	if p.RequiresPhytosanitary {
		phyto = decl.WeightInTons.Mul(s.PhytosanitaryPerTon)
	}

	r := valueobject.RoundHalfUp
	b := DutyBreakdown{
		CustomsValue:            r(cv),
		CustomsDuty:             r(cd),
		ExciseDuty:              r(ed),
		VAT:                     r(vat),
		CommunalSurtax:          r(communal),
		ITRoyalty:               r(cv.Mul(s.ITRoyaltyRate)),
		CommunityIntegrationTax: r(cv.Mul(s.CommunityIntegrationRate)),
		IntegrationContribution: r(cv.Mul(s.IntegrationContributionRate)),
		OHADALevy:               r(cv.Mul(s.OHADARate)),
		PurchasePrepayment:      r(cv.Mul(s.PrepaymentRate(decl.OperatorHasUniqueID))),
		FacilitationFee:         r(s.FacilitationFee),
		PhytosanitaryTax:        r(phyto),
		AdministrativeFee:       r(s.AdministrativeFee),
	}
	b.Total = b.Sum()
	return b, nil
}
