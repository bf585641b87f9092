package customs

import "github.com/shopspring/decimal"

// DutyBreakdown is the result of a computation. Every amount is rounded to
// two places and Total is the exact sum of the thirteen lines.
type DutyBreakdown struct {
	CustomsValue            decimal.Decimal `json:"customs_value"`
	CustomsDuty             decimal.Decimal `json:"customs_duty"`
	ExciseDuty              decimal.Decimal `json:"excise_duty"`
	VAT                     decimal.Decimal `json:"vat"`
	CommunalSurtax          decimal.Decimal `json:"communal_surtax"`
	ITRoyalty               decimal.Decimal `json:"it_royalty"`
	CommunityIntegrationTax decimal.Decimal `json:"community_integration_tax"`
	IntegrationContribution decimal.Decimal `json:"integration_contribution"`
	OHADALevy               decimal.Decimal `json:"ohada_levy"`
	PurchasePrepayment      decimal.Decimal `json:"purchase_prepayment"`
	FacilitationFee         decimal.Decimal `json:"facilitation_fee"`
	PhytosanitaryTax        decimal.Decimal `json:"phytosanitary_tax"`
	AdministrativeFee       decimal.Decimal `json:"administrative_fee"`
	Total                   decimal.Decimal `json:"total"`
}

// Line is one named amount of a breakdown.
type Line struct {
	Code   string
	Label  string
	Amount decimal.Decimal
}

// Components returns the thirteen lines in computation order, Total excluded.
func (b DutyBreakdown) Components() []Line {
	return []Line{
		{"customs_value", "Valeur en douane", b.CustomsValue},
		{"customs_duty", "Droit de douane", b.CustomsDuty},
		{"excise_duty", "Droit d'accise", b.ExciseDuty},
		{"vat", "TVA", b.VAT},
		{"communal_surtax", "Centimes additionnels communaux", b.CommunalSurtax},
		{"it_royalty", "Redevance informatique", b.ITRoyalty},
		{"community_integration_tax", "Taxe communautaire d'intégration", b.CommunityIntegrationTax},
		{"integration_contribution", "Contribution à l'intégration", b.IntegrationContribution},
		{"ohada_levy", "Prélèvement OHADA", b.OHADALevy},
		{"purchase_prepayment", "Précompte sur achat", b.PurchasePrepayment},
		{"facilitation_fee", "Frais de facilitation GUCE", b.FacilitationFee},
		{"phytosanitary_tax", "Taxe phytosanitaire", b.PhytosanitaryTax},
		{"administrative_fee", "Taxe d'enlèvement local", b.AdministrativeFee},
	}
}

// Sum adds the component lines.
func (b DutyBreakdown) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range b.Components() {
		sum = sum.Add(l.Amount)
	}
	return sum
}

// Levies returns Total minus the customs value, the tax-only part of the cost.
func (b DutyBreakdown) Levies() decimal.Decimal {
	return b.Total.Sub(b.CustomsValue)
}
