package simulation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/shared"
	"github.com/simudouane/backend/internal/domain/simulation"
)

// DeclarationInput holds the user-supplied amounts of a declaration.
type DeclarationInput struct {
	DeclaredValue   decimal.Decimal `json:"declared_value" yaml:"declared_value"`
	TransportCost   decimal.Decimal `json:"transport_cost" yaml:"transport_cost"`
	HandlingCost    decimal.Decimal `json:"handling_cost" yaml:"handling_cost"`
	WeightInTons    decimal.Decimal `json:"weight_in_tons" yaml:"weight_in_tons"`
	HasUniqueID     bool            `json:"has_unique_id" yaml:"has_unique_id"`
	CountryOfOrigin string          `json:"country_of_origin" yaml:"country_of_origin" validate:"max=100"`
	TransportMode   string          `json:"transport_mode" yaml:"transport_mode" validate:"omitempty,oneof=maritime aerien terrestre"`
}

func (in DeclarationInput) toDomain() simulation.Inputs {
	return simulation.Inputs{
		DeclaredValue:   in.DeclaredValue,
		TransportCost:   in.TransportCost,
		HandlingCost:    in.HandlingCost,
		WeightInTons:    in.WeightInTons,
		HasUniqueID:     in.HasUniqueID,
		CountryOfOrigin: in.CountryOfOrigin,
		TransportMode:   simulation.TransportMode(in.TransportMode),
	}
}

// PreviewRequest asks for a computation without saving it
type PreviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	DeclarationInput
}

// CreateSimulationRequest represents a request to save a new simulation
type CreateSimulationRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	DeclarationInput
}

// UpdateSimulationRequest changes the inputs of an unpaid simulation.
// Nil fields keep their current value. Result fields are not accepted.
type UpdateSimulationRequest struct {
	ProductID       *uuid.UUID       `json:"product_id"`
	DeclaredValue   *decimal.Decimal `json:"declared_value"`
	TransportCost   *decimal.Decimal `json:"transport_cost"`
	HandlingCost    *decimal.Decimal `json:"handling_cost"`
	WeightInTons    *decimal.Decimal `json:"weight_in_tons"`
	HasUniqueID     *bool            `json:"has_unique_id"`
	CountryOfOrigin *string          `json:"country_of_origin" validate:"omitempty,max=100"`
	TransportMode   *string          `json:"transport_mode" validate:"omitempty,oneof=maritime aerien terrestre"`
}

func (r UpdateSimulationRequest) apply(in simulation.Inputs) simulation.Inputs {
	if r.DeclaredValue != nil {
		in.DeclaredValue = *r.DeclaredValue
	}
	if r.TransportCost != nil {
		in.TransportCost = *r.TransportCost
	}
	if r.HandlingCost != nil {
		in.HandlingCost = *r.HandlingCost
	}
	if r.WeightInTons != nil {
		in.WeightInTons = *r.WeightInTons
	}
	if r.HasUniqueID != nil {
		in.HasUniqueID = *r.HasUniqueID
	}
	if r.CountryOfOrigin != nil {
		in.CountryOfOrigin = *r.CountryOfOrigin
	}
	if r.TransportMode != nil {
		in.TransportMode = simulation.TransportMode(*r.TransportMode)
	}
	return in
}

// ConfirmPaymentRequest carries the code the user received and the mobile
// money operator used.
type ConfirmPaymentRequest struct {
	PaymentCode   string `json:"payment_code" validate:"required,max=32"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=orange mtn"`
}

// ListFilter represents filter options for simulation listings.
// UserID is only honoured for administrators.
type ListFilter struct {
	UserID    *uuid.UUID `json:"user_id"`
	ProductID *uuid.UUID `json:"product_id"`
	IsPaid    *bool      `json:"is_paid"`
	Search    string     `json:"search"`
	Page      int        `json:"page" validate:"gte=0"`
	PageSize  int        `json:"page_size" validate:"gte=0,max=100"`
	OrderBy   string     `json:"order_by"`
	OrderDir  string     `json:"order_dir" validate:"omitempty,oneof=asc desc ASC DESC"`
}

func (f ListFilter) toDomain(actor simulation.Actor) simulation.Filter {
	out := simulation.Filter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		},
		ProductID: f.ProductID,
		IsPaid:    f.IsPaid,
	}
	if actor.IsAdmin {
		out.UserID = f.UserID
	} else {
		userID := actor.UserID
		out.UserID = &userID
	}
	return out
}

// PreviewResponse is the result of a computation that was not saved
type PreviewResponse struct {
	ProductID uuid.UUID             `json:"product_id"`
	Breakdown customs.DutyBreakdown `json:"breakdown"`
	Levies    decimal.Decimal       `json:"levies"`
}

// SimulationResponse represents a saved simulation
type SimulationResponse struct {
	ID              uuid.UUID             `json:"id"`
	UserID          uuid.UUID             `json:"user_id"`
	RecipientEmail  string                `json:"recipient_email"`
	ProductID       uuid.UUID             `json:"product_id"`
	ProductName     string                `json:"product_name"`
	ProductHSCode   string                `json:"product_hs_code"`
	DeclaredValue   decimal.Decimal       `json:"declared_value"`
	TransportCost   decimal.Decimal       `json:"transport_cost"`
	HandlingCost    decimal.Decimal       `json:"handling_cost"`
	WeightInTons    decimal.Decimal       `json:"weight_in_tons"`
	HasUniqueID     bool                  `json:"has_unique_id"`
	CountryOfOrigin string                `json:"country_of_origin,omitempty"`
	TransportMode   string                `json:"transport_mode,omitempty"`
	Breakdown       customs.DutyBreakdown `json:"breakdown"`
	Levies          decimal.Decimal       `json:"levies"`
	PaymentCode     string                `json:"payment_code"`
	PaymentMethod   string                `json:"payment_method,omitempty"`
	IsPaid          bool                  `json:"is_paid"`
	PaidAt          *time.Time            `json:"paid_at,omitempty"`
	ResultNotified  bool                  `json:"result_notified"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

// ToSimulationResponse converts a domain Simulation to SimulationResponse
func ToSimulationResponse(s *simulation.Simulation) SimulationResponse {
	return SimulationResponse{
		ID:              s.ID,
		UserID:          s.UserID,
		RecipientEmail:  s.RecipientEmail,
		ProductID:       s.ProductID,
		ProductName:     s.ProductName,
		ProductHSCode:   s.ProductHSCode,
		DeclaredValue:   s.Inputs.DeclaredValue,
		TransportCost:   s.Inputs.TransportCost,
		HandlingCost:    s.Inputs.HandlingCost,
		WeightInTons:    s.Inputs.WeightInTons,
		HasUniqueID:     s.Inputs.HasUniqueID,
		CountryOfOrigin: s.Inputs.CountryOfOrigin,
		TransportMode:   string(s.Inputs.TransportMode),
		Breakdown:       s.Breakdown,
		Levies:          s.Breakdown.Levies(),
		PaymentCode:     s.PaymentCode,
		PaymentMethod:   string(s.PaymentMethod),
		IsPaid:          s.IsPaid,
		PaidAt:          s.PaidAt,
		ResultNotified:  s.ResultNotified,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		Version:         s.Version,
	}
}
