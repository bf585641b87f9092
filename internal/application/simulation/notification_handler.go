package simulation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/shared"
	"github.com/simudouane/backend/internal/domain/shared/valueobject"
	"github.com/simudouane/backend/internal/domain/simulation"
)

// ResultNotification is what a user receives once a simulation is paid.
type ResultNotification struct {
	SimulationID   uuid.UUID
	RecipientEmail string
	ProductName    string
	ProductHSCode  string
	PaymentMethod  simulation.PaymentMethod
	Breakdown      customs.DutyBreakdown
	Total          valueobject.Money
}

// ResultNotifier delivers paid simulation results.
type ResultNotifier interface {
	NotifyResult(ctx context.Context, n ResultNotification) error
}

// ResultNotificationHandler sends the result of a simulation when it is paid
// and records the delivery on the simulation.
type ResultNotificationHandler struct {
	repo     simulation.Repository
	notifier ResultNotifier
	logger   *zap.Logger
}

// NewResultNotificationHandler creates a new ResultNotificationHandler
func NewResultNotificationHandler(repo simulation.Repository, notifier ResultNotifier, logger *zap.Logger) *ResultNotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultNotificationHandler{
		repo:     repo,
		notifier: notifier,
		logger:   logger.Named("result_notification"),
	}
}

// EventTypes implements shared.EventHandler
func (h *ResultNotificationHandler) EventTypes() []string {
	return []string{simulation.EventTypeSimulationPaid}
}

// Handle implements shared.EventHandler
func (h *ResultNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	paid, ok := event.(*simulation.SimulationPaidEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	sim, err := h.repo.FindByID(ctx, paid.SimulationID)
	if err != nil {
		return fmt.Errorf("load simulation %s: %w", paid.SimulationID, err)
	}
	if sim.ResultNotified {
		return nil
	}

	err = h.notifier.NotifyResult(ctx, ResultNotification{
		SimulationID:   sim.ID,
		RecipientEmail: sim.RecipientEmail,
		ProductName:    sim.ProductName,
		ProductHSCode:  sim.ProductHSCode,
		PaymentMethod:  sim.PaymentMethod,
		Breakdown:      sim.Breakdown,
		Total:          valueobject.NewMoneyXAF(sim.Breakdown.Total),
	})
	if err != nil {
		h.logger.Warn("Result notification failed",
			zap.String("simulation_id", sim.ID.String()),
			zap.Error(err),
		)
		return err
	}

	sim.MarkResultNotified()
	if err := h.repo.Save(ctx, sim); err != nil {
		return fmt.Errorf("mark simulation %s notified: %w", sim.ID, err)
	}
	return nil
}

var _ shared.EventHandler = (*ResultNotificationHandler)(nil)

// LogNotifier writes result notifications to the log instead of sending them.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// NotifyResult implements ResultNotifier
func (n *LogNotifier) NotifyResult(_ context.Context, r ResultNotification) error {
	n.logger.Info("Simulation result ready",
		zap.String("simulation_id", r.SimulationID.String()),
		zap.String("recipient", r.RecipientEmail),
		zap.String("product", r.ProductName),
		zap.String("payment_method", string(r.PaymentMethod)),
		zap.String("total", r.Total.String()),
	)
	return nil
}
