package simulation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simudouane/backend/internal/domain/shared"
)

// AggregateTypeSimulation is the aggregate type of simulation events.
const AggregateTypeSimulation = "Simulation"

// Event type constants
const (
	EventTypeSimulationCreated      = "SimulationCreated"
	EventTypeSimulationRecalculated = "SimulationRecalculated"
	EventTypeSimulationPaid         = "SimulationPaid"
)

// SimulationCreatedEvent is published when a simulation is saved for the first time
type SimulationCreatedEvent struct {
	shared.BaseDomainEvent
	SimulationID uuid.UUID       `json:"simulation_id"`
	UserID       uuid.UUID       `json:"user_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Total        decimal.Decimal `json:"total"`
}

// NewSimulationCreatedEvent creates a new SimulationCreatedEvent
func NewSimulationCreatedEvent(s *Simulation) *SimulationCreatedEvent {
	return &SimulationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSimulationCreated, AggregateTypeSimulation, s.ID),
		SimulationID:    s.ID,
		UserID:          s.UserID,
		ProductID:       s.ProductID,
		Total:           s.Breakdown.Total,
	}
}

// SimulationRecalculatedEvent is published when the inputs of a simulation change
type SimulationRecalculatedEvent struct {
	shared.BaseDomainEvent
	SimulationID uuid.UUID       `json:"simulation_id"`
	Total        decimal.Decimal `json:"total"`
}

// NewSimulationRecalculatedEvent creates a new SimulationRecalculatedEvent
func NewSimulationRecalculatedEvent(s *Simulation) *SimulationRecalculatedEvent {
	return &SimulationRecalculatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSimulationRecalculated, AggregateTypeSimulation, s.ID),
		SimulationID:    s.ID,
		Total:           s.Breakdown.Total,
	}
}

// SimulationPaidEvent is published once payment is confirmed
type SimulationPaidEvent struct {
	shared.BaseDomainEvent
	SimulationID   uuid.UUID       `json:"simulation_id"`
	UserID         uuid.UUID       `json:"user_id"`
	RecipientEmail string          `json:"recipient_email"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	Total          decimal.Decimal `json:"total"`
}

// NewSimulationPaidEvent creates a new SimulationPaidEvent
func NewSimulationPaidEvent(s *Simulation) *SimulationPaidEvent {
	return &SimulationPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSimulationPaid, AggregateTypeSimulation, s.ID),
		SimulationID:    s.ID,
		UserID:          s.UserID,
		RecipientEmail:  s.RecipientEmail,
		PaymentMethod:   s.PaymentMethod,
		Total:           s.Breakdown.Total,
	}
}
