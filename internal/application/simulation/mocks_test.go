package simulation

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/simudouane/backend/internal/domain/catalog"
	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/shared"
	"github.com/simudouane/backend/internal/domain/simulation"
)

// MockSimulationRepository is a mock implementation of simulation.Repository
type MockSimulationRepository struct {
	mock.Mock
}

func (m *MockSimulationRepository) FindByID(ctx context.Context, id uuid.UUID) (*simulation.Simulation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*simulation.Simulation), args.Error(1)
}

func (m *MockSimulationRepository) FindByPaymentCode(ctx context.Context, code string) (*simulation.Simulation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*simulation.Simulation), args.Error(1)
}

func (m *MockSimulationRepository) FindAll(ctx context.Context, filter simulation.Filter) ([]simulation.Simulation, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]simulation.Simulation), args.Error(1)
}

func (m *MockSimulationRepository) Count(ctx context.Context, filter simulation.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSimulationRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSimulationRepository) Create(ctx context.Context, s *simulation.Simulation) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSimulationRepository) Save(ctx context.Context, s *simulation.Simulation) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSimulationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductCatalog is a mock implementation of ProductCatalog
type MockProductCatalog struct {
	mock.Mock
}

func (m *MockProductCatalog) FindProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductCatalog) LookupProfile(ctx context.Context, productID uuid.UUID) (customs.ProductTariffProfile, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(customs.ProductTariffProfile), args.Error(1)
}

// MockResultNotifier is a mock implementation of ResultNotifier
type MockResultNotifier struct {
	mock.Mock
}

func (m *MockResultNotifier) NotifyResult(ctx context.Context, n ResultNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// sequenceCodes hands out the given codes in order, then repeats the last one.
type sequenceCodes struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (g *sequenceCodes) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	code := g.codes[g.next]
	if g.next < len(g.codes)-1 {
		g.next++
	}
	return code
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	n := 0
	for _, e := range p.events {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}
