// Package simulation models a user's saved duty computation and its
// payment-confirmation lifecycle.
package simulation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/shared"
	"github.com/simudouane/backend/internal/domain/shared/valueobject"
)

// TransportMode is how the goods reach the customs territory.
type TransportMode string

const (
	TransportMaritime  TransportMode = "maritime"
	TransportAir       TransportMode = "aerien"
	TransportTerrestre TransportMode = "terrestre"
)

// IsValid reports whether m is a known mode. The empty mode is allowed.
func (m TransportMode) IsValid() bool {
	switch m {
	case "", TransportMaritime, TransportAir, TransportTerrestre:
		return true
	}
	return false
}

// PaymentMethod is the mobile money operator used to pay for a simulation result.
type PaymentMethod string

const (
	PaymentOrangeMoney PaymentMethod = "orange"
	PaymentMTNMoMo     PaymentMethod = "mtn"
)

// IsValid reports whether m is a supported payment method
func (m PaymentMethod) IsValid() bool {
	return m == PaymentOrangeMoney || m == PaymentMTNMoMo
}

// Calculator computes a breakdown from a declaration.
type Calculator interface {
	Compute(decl customs.ImportDeclaration) (customs.DutyBreakdown, error)
}

// Owner identifies who created a simulation and where its result goes.
type Owner struct {
	UserID uuid.UUID
	Email  string
}

// Actor is the caller of an operation.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// ProductRef is the product a simulation was computed for, with the tariff
// profile in force at computation time.
type ProductRef struct {
	ID      uuid.UUID
	Name    string
	HSCode  string
	Profile customs.ProductTariffProfile
}

// Inputs are the user-editable fields of a simulation.
type Inputs struct {
	DeclaredValue   decimal.Decimal
	TransportCost   decimal.Decimal
	HandlingCost    decimal.Decimal
	WeightInTons    decimal.Decimal
	HasUniqueID     bool
	CountryOfOrigin string
	TransportMode   TransportMode
}

// WeightScale is the number of decimal places kept on weights.
const WeightScale int32 = 3

// Normalize rounds amounts half-up to two places and the weight to
// WeightScale places, the precision inputs are stored with.
func (in Inputs) Normalize() Inputs {
	in.DeclaredValue = valueobject.RoundHalfUp(in.DeclaredValue)
	in.TransportCost = valueobject.RoundHalfUp(in.TransportCost)
	in.HandlingCost = valueobject.RoundHalfUp(in.HandlingCost)
	in.WeightInTons = in.WeightInTons.Round(WeightScale)
	return in
}

// prepare rejects negative amounts as given, then normalizes them. The sign
// check runs first so -0.001 is not rounded into an accepted zero.
func (in Inputs) prepare(product ProductRef) (Inputs, error) {
	if !in.TransportMode.IsValid() {
		return in, shared.NewDomainError("INVALID_INPUT", "Unknown transport mode: "+string(in.TransportMode))
	}
	if err := in.Declaration(product).Validate(); err != nil {
		return in, err
	}
	return in.Normalize(), nil
}

// Declaration builds the calculator input for product.
func (in Inputs) Declaration(product ProductRef) customs.ImportDeclaration {
	profile := product.Profile
	return customs.ImportDeclaration{
		DeclaredValue:       in.DeclaredValue,
		TransportCost:       in.TransportCost,
		HandlingCost:        in.HandlingCost,
		WeightInTons:        in.WeightInTons,
		OperatorHasUniqueID: in.HasUniqueID,
		ProductID:           product.ID,
		Product:             &profile,
	}
}

// Simulation is the aggregate root for a saved computation.
type Simulation struct {
	shared.BaseAggregateRoot
	UserID         uuid.UUID
	RecipientEmail string
	ProductID      uuid.UUID
	ProductName    string
	ProductHSCode  string
	Inputs         Inputs
	Breakdown      customs.DutyBreakdown
	PaymentCode    string
	PaymentMethod  PaymentMethod
	IsPaid         bool
	PaidAt         *time.Time
	ResultNotified bool
}

// NewSimulation computes the breakdown for inputs and returns an unpaid
// simulation holding paymentCode. No simulation is returned when the
// computation fails.
func NewSimulation(owner Owner, product ProductRef, inputs Inputs, calc Calculator, paymentCode string) (*Simulation, error) {
	if owner.UserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Simulation owner is required")
	}
	if strings.TrimSpace(paymentCode) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment code is required")
	}
	inputs, err := inputs.prepare(product)
	if err != nil {
		return nil, err
	}
	breakdown, err := calc.Compute(inputs.Declaration(product))
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            owner.UserID,
		RecipientEmail:    owner.Email,
		ProductID:         product.ID,
		ProductName:       product.Name,
		ProductHSCode:     product.HSCode,
		Inputs:            inputs,
		Breakdown:         breakdown,
		PaymentCode:       paymentCode,
	}
	s.AddDomainEvent(NewSimulationCreatedEvent(s))
	return s, nil
}

// Recalculate replaces the inputs and breakdown. Paid simulations are frozen.
func (s *Simulation) Recalculate(product ProductRef, inputs Inputs, calc Calculator) error {
	if s.IsPaid {
		return shared.NewDomainError("INVALID_STATE", "A paid simulation cannot be modified")
	}
	inputs, err := inputs.prepare(product)
	if err != nil {
		return err
	}
	breakdown, err := calc.Compute(inputs.Declaration(product))
	if err != nil {
		return err
	}

	s.ProductID = product.ID
	s.ProductName = product.Name
	s.ProductHSCode = product.HSCode
	s.Inputs = inputs
	s.Breakdown = breakdown
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewSimulationRecalculatedEvent(s))
	return nil
}

// ReassignPaymentCode replaces the code of an unpaid simulation, used when the
// first generated code collides with an existing one.
func (s *Simulation) ReassignPaymentCode(code string) error {
	if s.IsPaid {
		return shared.NewDomainError("INVALID_STATE", "A paid simulation keeps its payment code")
	}
	if strings.TrimSpace(code) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Payment code is required")
	}
	s.PaymentCode = code
	return nil
}

// ConfirmPayment marks the simulation paid. The submitted code must match the
// assigned one, ignoring case and surrounding spaces.
func (s *Simulation) ConfirmPayment(code string, method PaymentMethod, at time.Time) error {
	if s.IsPaid {
		return shared.NewDomainError("INVALID_STATE", "This simulation is already paid")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unsupported payment method: "+string(method))
	}
	if !strings.EqualFold(strings.TrimSpace(code), s.PaymentCode) {
		return shared.NewDomainError("INVALID_INPUT", "Invalid payment confirmation code")
	}

	s.IsPaid = true
	s.PaymentMethod = method
	paidAt := at
	s.PaidAt = &paidAt
	s.UpdatedAt = at
	s.IncrementVersion()
	s.AddDomainEvent(NewSimulationPaidEvent(s))
	return nil
}

// MarkResultNotified records that the result was handed to the notifier.
func (s *Simulation) MarkResultNotified() {
	s.ResultNotified = true
	s.UpdatedAt = time.Now()
}

// VisibleTo reports whether actor may read the simulation.
func (s *Simulation) VisibleTo(actor Actor) bool {
	return actor.IsAdmin || actor.UserID == s.UserID
}

// CanDelete reports whether the simulation may be removed.
func (s *Simulation) CanDelete() error {
	if s.IsPaid {
		return shared.NewDomainError("INVALID_STATE", "A paid simulation cannot be deleted")
	}
	return nil
}
