// Package simulation implements the simulation use cases: previewing a duty
// computation, saving it with a payment code, confirming payment and
// rendering statements.
package simulation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simudouane/backend/internal/domain/catalog"
	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/shared"
	"github.com/simudouane/backend/internal/domain/simulation"
	"github.com/simudouane/backend/internal/infrastructure/export"
	"github.com/simudouane/backend/internal/infrastructure/logger"
	"github.com/simudouane/backend/internal/infrastructure/telemetry"
	"github.com/simudouane/backend/internal/infrastructure/validation"
)

// DefaultPaymentCodeAttempts bounds payment code regeneration on collisions.
const DefaultPaymentCodeAttempts = 5

// exportPageSize is the page size used when walking the history for export.
const exportPageSize = 100

// ProductCatalog resolves the products simulations are computed for.
type ProductCatalog interface {
	customs.ProfileLookup
	FindProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error)
}

// Config holds Service settings
type Config struct {
	PaymentCodeAttempts int
	Currency            string
}

// Option configures a Service
type Option func(*Service)

// WithEventPublisher publishes simulation events after each write.
func WithEventPublisher(p shared.EventPublisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

// WithMetrics records computations and payments.
func WithMetrics(m *telemetry.SimulationMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for payment timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service handles simulation use cases
type Service struct {
	repo        simulation.Repository
	products    ProductCatalog
	calc        *customs.Calculator
	codes       simulation.PaymentCodeGenerator
	maxAttempts int
	currency    string
	events      shared.EventPublisher
	metrics     *telemetry.SimulationMetrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new simulation Service
func NewService(
	repo simulation.Repository,
	products ProductCatalog,
	calc *customs.Calculator,
	codes simulation.PaymentCodeGenerator,
	cfg Config,
	opts ...Option,
) *Service {
	if cfg.PaymentCodeAttempts <= 0 {
		cfg.PaymentCodeAttempts = DefaultPaymentCodeAttempts
	}
	if cfg.Currency == "" {
		cfg.Currency = export.DefaultCurrency
	}
	s := &Service{
		repo:        repo,
		products:    products,
		calc:        calc,
		codes:       codes,
		maxAttempts: cfg.PaymentCodeAttempts,
		currency:    cfg.Currency,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Preview computes the breakdown for a catalogued product without saving it.
func (s *Service) Preview(ctx context.Context, req PreviewRequest) (*PreviewResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "simulation", "preview", telemetry.SpanAttrProductID, req.ProductID.String())
	defer span.End()

	if err := validation.Struct(req); err != nil {
		s.recordRejected(ctx, "preview", err)
		return nil, err
	}

	inputs := req.toDomain()
	if err := validateAmounts(inputs); err != nil {
		s.recordRejected(ctx, "preview", err)
		return nil, err
	}

	lookup := &capturingLookup{inner: s.products}
	decl := inputs.Normalize().Declaration(simulation.ProductRef{ID: req.ProductID})
	decl.Product = nil

	start := time.Now()
	breakdown, err := s.calc.ComputeForProduct(ctx, decl, lookup)
	if err != nil {
		telemetry.RecordError(span, err)
		s.recordRejected(ctx, "preview", err)
		return nil, err
	}
	s.recordComputed(ctx, "preview", lookup.profile.TariffSpecies, time.Since(start))

	telemetry.SetAttributes(span, telemetry.SpanAttrTotal, breakdown.Total.String())
	return &PreviewResponse{
		ProductID: req.ProductID,
		Breakdown: breakdown,
		Levies:    breakdown.Levies(),
	}, nil
}

// Create computes and saves a simulation for owner. A payment code that is
// already taken is regenerated up to the configured number of attempts.
func (s *Service) Create(ctx context.Context, owner simulation.Owner, req CreateSimulationRequest) (*SimulationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "simulation", "create", telemetry.SpanAttrProductID, req.ProductID.String())
	defer span.End()

	if err := validation.Struct(req); err != nil {
		s.recordRejected(ctx, "create", err)
		return nil, err
	}
	inputs := req.toDomain()
	if err := validateAmounts(inputs); err != nil {
		s.recordRejected(ctx, "create", err)
		return nil, err
	}

	ref, err := s.productRef(ctx, req.ProductID)
	if err != nil {
		s.recordRejected(ctx, "create", err)
		return nil, err
	}

	start := time.Now()
	sim, err := simulation.NewSimulation(owner, ref, inputs, s.calc, s.codes.Generate())
	if err != nil {
		telemetry.RecordError(span, err)
		s.recordRejected(ctx, "create", err)
		return nil, err
	}
	elapsed := time.Since(start)

	for attempt := 1; ; attempt++ {
		err = s.repo.Create(ctx, sim)
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt >= s.maxAttempts {
			telemetry.RecordError(span, err)
			telemetry.SetAttributes(span, telemetry.SpanAttrAttempt, attempt)
			return nil, err
		}
		logger.For(ctx, s.logger).Warn("Payment code collision, regenerating",
			zap.String("simulation_id", sim.ID.String()),
			zap.Int("attempt", attempt),
		)
		if err := sim.ReassignPaymentCode(s.codes.Generate()); err != nil {
			return nil, err
		}
	}

	s.recordComputed(ctx, "create", ref.Profile.TariffSpecies, elapsed)
	s.publish(ctx, sim)

	telemetry.SetAttributes(span,
		telemetry.SpanAttrSimulationID, sim.ID.String(),
		telemetry.SpanAttrTotal, sim.Breakdown.Total.String(),
	)
	logger.For(ctx, s.logger).Info("Simulation created",
		zap.String("simulation_id", sim.ID.String()),
		zap.String("user_id", owner.UserID.String()),
		zap.String("product_id", ref.ID.String()),
		zap.String("total", sim.Breakdown.Total.String()),
	)

	resp := ToSimulationResponse(sim)
	return &resp, nil
}

// Get returns a simulation visible to actor. Simulations of other users are
// reported as not found.
func (s *Service) Get(ctx context.Context, actor simulation.Actor, id uuid.UUID) (*SimulationResponse, error) {
	sim, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToSimulationResponse(sim)
	return &resp, nil
}

// List returns a page of the simulations visible to actor and the total count
func (s *Service) List(ctx context.Context, actor simulation.Actor, filter ListFilter) ([]SimulationResponse, int64, error) {
	if err := validation.Struct(filter); err != nil {
		return nil, 0, err
	}
	domainFilter := filter.toDomain(actor)

	sims, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SimulationResponse, len(sims))
	for i := range sims {
		responses[i] = ToSimulationResponse(&sims[i])
	}
	return responses, total, nil
}

// UpdateInputs replaces inputs of an unpaid simulation and recomputes it
// against the product's current tariff attributes.
func (s *Service) UpdateInputs(ctx context.Context, actor simulation.Actor, id uuid.UUID, req UpdateSimulationRequest) (*SimulationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "simulation", "update_inputs", telemetry.SpanAttrSimulationID, id.String())
	defer span.End()

	if err := validation.Struct(req); err != nil {
		s.recordRejected(ctx, "update", err)
		return nil, err
	}

	sim, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if sim.IsPaid {
		return nil, shared.NewDomainError("INVALID_STATE", "A paid simulation cannot be modified")
	}

	inputs := req.apply(sim.Inputs)
	if err := validateAmounts(inputs); err != nil {
		s.recordRejected(ctx, "update", err)
		return nil, err
	}

	productID := sim.ProductID
	if req.ProductID != nil {
		productID = *req.ProductID
	}
	ref, err := s.productRef(ctx, productID)
	if err != nil {
		s.recordRejected(ctx, "update", err)
		return nil, err
	}

	start := time.Now()
	if err := sim.Recalculate(ref, inputs, s.calc); err != nil {
		telemetry.RecordError(span, err)
		s.recordRejected(ctx, "update", err)
		return nil, err
	}
	elapsed := time.Since(start)

	if err := s.repo.Save(ctx, sim); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.recordComputed(ctx, "update", ref.Profile.TariffSpecies, elapsed)
	s.publish(ctx, sim)

	resp := ToSimulationResponse(sim)
	return &resp, nil
}

// Delete removes an unpaid simulation visible to actor.
func (s *Service) Delete(ctx context.Context, actor simulation.Actor, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "simulation", "delete", telemetry.SpanAttrSimulationID, id.String())
	defer span.End()

	sim, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := sim.CanDelete(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.logger.Info("Simulation deleted", zap.String("simulation_id", id.String()))
	return nil
}

// ConfirmPayment marks the simulation paid when the submitted code matches
// the assigned one, then publishes SimulationPaid so the result is sent.
func (s *Service) ConfirmPayment(ctx context.Context, actor simulation.Actor, id uuid.UUID, req ConfirmPaymentRequest) (*SimulationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "simulation", "confirm_payment",
		telemetry.SpanAttrSimulationID, id.String(),
		telemetry.SpanAttrPaymentMethod, req.PaymentMethod,
	)
	defer span.End()

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	sim, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := sim.ConfirmPayment(req.PaymentCode, simulation.PaymentMethod(req.PaymentMethod), s.now()); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.repo.Save(ctx, sim); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPaid(ctx, req.PaymentMethod, sim.Breakdown.Total)
	}
	s.publish(ctx, sim)

	logger.For(ctx, s.logger).Info("Simulation paid",
		zap.String("simulation_id", sim.ID.String()),
		zap.String("payment_method", req.PaymentMethod),
		zap.String("total", sim.Breakdown.Total.String()),
	)

	// handlers may have updated the stored row (result notification)
	if fresh, err := s.repo.FindByID(ctx, id); err == nil {
		sim = fresh
	}
	resp := ToSimulationResponse(sim)
	return &resp, nil
}

// Statement renders the PDF statement of a simulation visible to actor.
func (s *Service) Statement(ctx context.Context, actor simulation.Actor, id uuid.UUID) ([]byte, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "simulation", "statement", telemetry.SpanAttrSimulationID, id.String())
	defer span.End()

	sim, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	data, err := export.BuildStatementPDF(sim, s.currency)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return data, nil
}

// ExportHistory renders every simulation matching filter as an XLSX
// workbook. Pagination fields of filter are ignored.
func (s *Service) ExportHistory(ctx context.Context, actor simulation.Actor, filter ListFilter) ([]byte, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "simulation", "export_history")
	defer span.End()

	filter.Page, filter.PageSize = 0, 0
	if err := validation.Struct(filter); err != nil {
		return nil, err
	}
	domainFilter := filter.toDomain(actor)
	domainFilter.PageSize = exportPageSize

	var all []simulation.Simulation
	for page := 1; ; page++ {
		domainFilter.Page = page
		batch, err := s.repo.FindAll(ctx, domainFilter)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < exportPageSize {
			break
		}
	}

	data, err := export.BuildHistoryXLSX(all, s.currency)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return data, nil
}

func (s *Service) load(ctx context.Context, actor simulation.Actor, id uuid.UUID) (*simulation.Simulation, error) {
	sim, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sim.VisibleTo(actor) {
		return nil, shared.ErrNotFound
	}
	return sim, nil
}

func (s *Service) productRef(ctx context.Context, productID uuid.UUID) (simulation.ProductRef, error) {
	product, err := s.products.FindProduct(ctx, productID)
	if errors.Is(err, shared.ErrNotFound) {
		return simulation.ProductRef{}, &customs.ProductNotFoundError{ProductID: productID}
	}
	if err != nil {
		return simulation.ProductRef{}, err
	}
	return simulation.ProductRef{
		ID:      product.ID,
		Name:    product.Name,
		HSCode:  product.HSCode,
		Profile: product.Profile(),
	}, nil
}

func (s *Service) publish(ctx context.Context, sim *simulation.Simulation) {
	events := sim.GetDomainEvents()
	sim.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish simulation events",
			zap.String("simulation_id", sim.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) recordComputed(ctx context.Context, operation string, species customs.TariffSpecies, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordComputed(ctx, operation, species.String(), elapsed)
	}
}

func (s *Service) recordRejected(ctx context.Context, operation string, err error) {
	if s.metrics != nil {
		s.metrics.RecordRejected(ctx, operation, rejectReason(err))
	}
}

// validateAmounts checks the amounts alone, so a negative input is reported
// before the product is resolved.
func validateAmounts(in simulation.Inputs) error {
	return in.Declaration(simulation.ProductRef{}).Validate()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, shared.ErrNotFound):
		return "product_not_found"
	case errors.Is(err, shared.ErrInvalidState):
		return "invalid_state"
	default:
		return "internal"
	}
}

// capturingLookup remembers the last profile it resolved.
type capturingLookup struct {
	inner   customs.ProfileLookup
	profile customs.ProductTariffProfile
}

func (l *capturingLookup) LookupProfile(ctx context.Context, productID uuid.UUID) (customs.ProductTariffProfile, error) {
	p, err := l.inner.LookupProfile(ctx, productID)
	if err == nil {
		l.profile = p
	}
	return p, err
}
