package customs

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ImportDeclaration is the input of one duty computation.
type ImportDeclaration struct {
	DeclaredValue       decimal.Decimal `json:"declared_value" yaml:"declared_value"`
	TransportCost       decimal.Decimal `json:"transport_cost" yaml:"transport_cost"`
	HandlingCost        decimal.Decimal `json:"handling_cost" yaml:"handling_cost"`
	WeightInTons        decimal.Decimal `json:"weight_in_tons" yaml:"weight_in_tons"`
	OperatorHasUniqueID bool            `json:"operator_has_unique_id" yaml:"operator_has_unique_id"`

	// ProductID is informational; it names the product in ProductNotFoundError.
	ProductID uuid.UUID             `json:"product_id,omitempty" yaml:"product_id,omitempty"`
	Product   *ProductTariffProfile `json:"product,omitempty" yaml:"product,omitempty"`
}

// Validate returns an InvalidInputError for the first negative amount, checked
// in field order, or ProductNotFoundError when no profile is attached.
func (d ImportDeclaration) Validate() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"declared_value", d.DeclaredValue},
		{"transport_cost", d.TransportCost},
		{"handling_cost", d.HandlingCost},
		{"weight_in_tons", d.WeightInTons},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return &InvalidInputError{Field: f.name, Value: f.value}
		}
	}
	if d.Product == nil {
		return &ProductNotFoundError{ProductID: d.ProductID}
	}
	return nil
}
