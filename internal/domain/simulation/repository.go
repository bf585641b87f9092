package simulation

import (
	"context"

	"github.com/google/uuid"

	"github.com/simudouane/backend/internal/domain/shared"
)

// Filter narrows simulation listings.
type Filter struct {
	shared.Filter
	UserID    *uuid.UUID
	ProductID *uuid.UUID
	IsPaid    *bool
}

// Repository defines the interface for simulation persistence.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Simulation, error)
	FindByPaymentCode(ctx context.Context, code string) (*Simulation, error)
	FindAll(ctx context.Context, filter Filter) ([]Simulation, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// Create inserts a new simulation. A payment code already in use yields
	// an error matching shared.ErrAlreadyExists.
	Create(ctx context.Context, s *Simulation) error
	// Save updates an existing simulation.
	Save(ctx context.Context, s *Simulation) error
	Delete(ctx context.Context, id uuid.UUID) error
}
