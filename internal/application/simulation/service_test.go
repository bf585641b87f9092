package simulation

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/simudouane/backend/internal/domain/catalog"
	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/shared"
	"github.com/simudouane/backend/internal/domain/simulation"
)

var fixedNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

type serviceFixture struct {
	svc       *Service
	repo      *MockSimulationRepository
	products  *MockProductCatalog
	publisher *recordingPublisher
	calc      *customs.Calculator
}

func newServiceFixture(t *testing.T, attempts int, codes ...string) *serviceFixture {
	t.Helper()
	if len(codes) == 0 {
		codes = []string{"A1B2C3D4E5"}
	}
	f := &serviceFixture{
		repo:      new(MockSimulationRepository),
		products:  new(MockProductCatalog),
		publisher: &recordingPublisher{},
		calc:      customs.NewDefaultCalculator(),
	}
	f.svc = NewService(f.repo, f.products, f.calc, &sequenceCodes{codes: codes},
		Config{PaymentCodeAttempts: attempts, Currency: "FCFA"},
		WithEventPublisher(f.publisher),
		WithLogger(zaptest.NewLogger(t)),
		WithClock(func() time.Time { return fixedNow }),
	)
	return f
}

func newTelevision(t *testing.T) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Téléviseur LED", "8528.72.00.00", customs.SpeciesConsumptionGoods)
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func newStoredSimulation(t *testing.T, owner simulation.Owner, product *catalog.Product) *simulation.Simulation {
	t.Helper()
	ref := simulation.ProductRef{ID: product.ID, Name: product.Name, HSCode: product.HSCode, Profile: product.Profile()}
	inputs := simulation.Inputs{DeclaredValue: decimal.NewFromInt(1000000)}
	s, err := simulation.NewSimulation(owner, ref, inputs, customs.NewDefaultCalculator(), "A1B2C3D4E5")
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}

func declaration(value int64) DeclarationInput {
	return DeclarationInput{
		DeclaredValue: decimal.NewFromInt(value),
		TransportCost: decimal.Zero,
		HandlingCost:  decimal.Zero,
		WeightInTons:  decimal.Zero,
	}
}

func TestService_Preview(t *testing.T) {
	ctx := context.Background()

	t.Run("computes without saving", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		product := newTelevision(t)
		f.products.On("LookupProfile", mock.Anything, product.ID).Return(product.Profile(), nil)

		resp, err := f.svc.Preview(ctx, PreviewRequest{ProductID: product.ID, DeclarationInput: declaration(1000000)})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1000000).Equal(resp.Breakdown.CustomsValue))
		assert.True(t, decimal.NewFromInt(300000).Equal(resp.Breakdown.CustomsDuty))
		assert.True(t, resp.Breakdown.Total.Equal(resp.Breakdown.Sum()))
		assert.True(t, resp.Levies.Equal(resp.Breakdown.Total.Sub(resp.Breakdown.CustomsValue)))
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.events)
	})

	t.Run("matches the stored precision", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		product := newTelevision(t)
		f.products.On("LookupProfile", mock.Anything, product.ID).Return(product.Profile(), nil)
		in := declaration(0)
		in.DeclaredValue = decimal.RequireFromString("100.004")
		in.TransportCost = decimal.RequireFromString("100.004")

		resp, err := f.svc.Preview(ctx, PreviewRequest{ProductID: product.ID, DeclarationInput: in})
		require.NoError(t, err)
		assert.Equal(t, "200.00", resp.Breakdown.CustomsValue.StringFixed(2))
	})

	t.Run("negative amount is reported before lookup", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		in := declaration(1000)
		in.TransportCost = decimal.NewFromInt(-5)

		_, err := f.svc.Preview(ctx, PreviewRequest{ProductID: uuid.New(), DeclarationInput: in})
		var invalid *customs.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "transport_cost", invalid.Field)
		f.products.AssertNotCalled(t, "LookupProfile", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		id := uuid.New()
		f.products.On("LookupProfile", mock.Anything, id).Return(customs.ProductTariffProfile{}, shared.ErrNotFound)

		_, err := f.svc.Preview(ctx, PreviewRequest{ProductID: id, DeclarationInput: declaration(1000)})
		var notFound *customs.ProductNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, id, notFound.ProductID)
	})

	t.Run("product is required", func(t *testing.T) {
		f := newServiceFixture(t, 0)

		_, err := f.svc.Preview(ctx, PreviewRequest{DeclarationInput: declaration(1000)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	owner := simulation.Owner{UserID: uuid.New(), Email: "importateur@example.cm"}

	t.Run("saves simulation with payment code", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		product := newTelevision(t)
		f.products.On("FindProduct", mock.Anything, product.ID).Return(product, nil)
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*simulation.Simulation")).Return(nil)

		resp, err := f.svc.Create(ctx, owner, CreateSimulationRequest{ProductID: product.ID, DeclarationInput: declaration(1000000)})
		require.NoError(t, err)
		assert.Equal(t, "A1B2C3D4E5", resp.PaymentCode)
		assert.Equal(t, owner.UserID, resp.UserID)
		assert.Equal(t, "8528.72.00.00", resp.ProductHSCode)
		assert.False(t, resp.IsPaid)
		assert.True(t, resp.Breakdown.Total.Equal(resp.Breakdown.Sum()))
		assert.Equal(t, 1, f.publisher.count(simulation.EventTypeSimulationCreated))
	})

	t.Run("regenerates colliding payment code", func(t *testing.T) {
		f := newServiceFixture(t, 5, "TAKEN00001", "FREE000002")
		product := newTelevision(t)
		f.products.On("FindProduct", mock.Anything, product.ID).Return(product, nil)
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*simulation.Simulation")).Return(shared.ErrAlreadyExists).Once()
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*simulation.Simulation")).Return(nil).Once()

		resp, err := f.svc.Create(ctx, owner, CreateSimulationRequest{ProductID: product.ID, DeclarationInput: declaration(500000)})
		require.NoError(t, err)
		assert.Equal(t, "FREE000002", resp.PaymentCode)
		f.repo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("gives up after configured attempts", func(t *testing.T) {
		f := newServiceFixture(t, 3, "TAKEN00001")
		product := newTelevision(t)
		f.products.On("FindProduct", mock.Anything, product.ID).Return(product, nil)
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*simulation.Simulation")).Return(shared.ErrAlreadyExists)

		_, err := f.svc.Create(ctx, owner, CreateSimulationRequest{ProductID: product.ID, DeclarationInput: declaration(500000)})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.repo.AssertNumberOfCalls(t, "Create", 3)
		assert.Empty(t, f.publisher.events)
	})

	t.Run("negative amount is rejected before product lookup", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		in := declaration(-1)

		_, err := f.svc.Create(ctx, owner, CreateSimulationRequest{ProductID: uuid.New(), DeclarationInput: in})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		f.products.AssertNotCalled(t, "FindProduct", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		id := uuid.New()
		f.products.On("FindProduct", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, owner, CreateSimulationRequest{ProductID: id, DeclarationInput: declaration(1000)})
		var notFound *customs.ProductNotFoundError
		require.ErrorAs(t, err, &notFound)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown transport mode", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		in := declaration(1000)
		in.TransportMode = "ferroviaire"

		_, err := f.svc.Create(ctx, owner, CreateSimulationRequest{ProductID: uuid.New(), DeclarationInput: in})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	owner := simulation.Owner{UserID: uuid.New(), Email: "a@example.cm"}
	sim := newStoredSimulation(t, owner, newTelevision(t))

	f := newServiceFixture(t, 0)
	f.repo.On("FindByID", mock.Anything, sim.ID).Return(sim, nil)

	t.Run("owner", func(t *testing.T) {
		resp, err := f.svc.Get(ctx, simulation.Actor{UserID: owner.UserID}, sim.ID)
		require.NoError(t, err)
		assert.Equal(t, sim.ID, resp.ID)
	})

	t.Run("other user sees not found", func(t *testing.T) {
		_, err := f.svc.Get(ctx, simulation.Actor{UserID: uuid.New()}, sim.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("admin", func(t *testing.T) {
		_, err := f.svc.Get(ctx, simulation.Actor{UserID: uuid.New(), IsAdmin: true}, sim.ID)
		assert.NoError(t, err)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	actor := simulation.Actor{UserID: uuid.New()}
	other := uuid.New()

	f := newServiceFixture(t, 0)
	ownOnly := mock.MatchedBy(func(filter simulation.Filter) bool {
		return filter.UserID != nil && *filter.UserID == actor.UserID
	})
	f.repo.On("FindAll", mock.Anything, ownOnly).Return([]simulation.Simulation{}, nil)
	f.repo.On("Count", mock.Anything, ownOnly).Return(int64(0), nil)

	items, total, err := f.svc.List(ctx, actor, ListFilter{UserID: &other, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	f.repo.AssertExpectations(t)
}

func TestService_UpdateInputs(t *testing.T) {
	ctx := context.Background()
	owner := simulation.Owner{UserID: uuid.New(), Email: "a@example.cm"}
	actor := simulation.Actor{UserID: owner.UserID}

	t.Run("recomputes with new amounts", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		product := newTelevision(t)
		sim := newStoredSimulation(t, owner, product)
		f.repo.On("FindByID", mock.Anything, sim.ID).Return(sim, nil)
		f.products.On("FindProduct", mock.Anything, product.ID).Return(product, nil)
		f.repo.On("Save", mock.Anything, sim).Return(nil)

		value := decimal.NewFromInt(2000000)
		resp, err := f.svc.UpdateInputs(ctx, actor, sim.ID, UpdateSimulationRequest{DeclaredValue: &value})
		require.NoError(t, err)
		assert.True(t, value.Equal(resp.DeclaredValue))
		assert.True(t, decimal.NewFromInt(600000).Equal(resp.Breakdown.CustomsDuty))
		assert.Equal(t, "A1B2C3D4E5", resp.PaymentCode)
		assert.Equal(t, 1, f.publisher.count(simulation.EventTypeSimulationRecalculated))
	})

	t.Run("sub-cent amounts are stored rounded", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		product := newTelevision(t)
		sim := newStoredSimulation(t, owner, product)
		f.repo.On("FindByID", mock.Anything, sim.ID).Return(sim, nil)
		f.products.On("FindProduct", mock.Anything, product.ID).Return(product, nil)
		f.repo.On("Save", mock.Anything, sim).Return(nil)

		value := decimal.RequireFromString("100.004")
		resp, err := f.svc.UpdateInputs(ctx, actor, sim.ID, UpdateSimulationRequest{DeclaredValue: &value, TransportCost: &value})
		require.NoError(t, err)
		assert.Equal(t, "100.00", resp.DeclaredValue.StringFixed(2))
		assert.Equal(t, "200.00", resp.Breakdown.CustomsValue.StringFixed(2))
		duty := resp.Breakdown.CustomsDuty

		flag := true
		resp, err = f.svc.UpdateInputs(ctx, actor, sim.ID, UpdateSimulationRequest{HasUniqueID: &flag})
		require.NoError(t, err)
		assert.Equal(t, "200.00", resp.Breakdown.CustomsValue.StringFixed(2))
		assert.True(t, duty.Equal(resp.Breakdown.CustomsDuty))
	})

	t.Run("paid simulation is frozen", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		sim := newStoredSimulation(t, owner, newTelevision(t))
		require.NoError(t, sim.ConfirmPayment("A1B2C3D4E5", simulation.PaymentMTNMoMo, fixedNow))
		f.repo.On("FindByID", mock.Anything, sim.ID).Return(sim, nil)

		value := decimal.NewFromInt(1)
		_, err := f.svc.UpdateInputs(ctx, actor, sim.ID, UpdateSimulationRequest{DeclaredValue: &value})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("negative amount", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		sim := newStoredSimulation(t, owner, newTelevision(t))
		f.repo.On("FindByID", mock.Anything, sim.ID).Return(sim, nil)

		weight := decimal.NewFromInt(-2)
		_, err := f.svc.UpdateInputs(ctx, actor, sim.ID, UpdateSimulationRequest{WeightInTons: &weight})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		f.products.AssertNotCalled(t, "FindProduct", mock.Anything, mock.Anything)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	owner := simulation.Owner{UserID: uuid.New(), Email: "a@example.cm"}
	actor := simulation.Actor{UserID: owner.UserID}

	t.Run("unpaid", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		sim := newStoredSimulation(t, owner, newTelevision(t))
		f.repo.On("FindByID", mock.Anything, sim.ID).Return(sim, nil)
		f.repo.On("Delete", mock.Anything, sim.ID).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, actor, sim.ID))
		f.repo.AssertExpectations(t)
	})

	t.Run("paid", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		sim := newStoredSimulation(t, owner, newTelevision(t))
		require.NoError(t, sim.ConfirmPayment("A1B2C3D4E5", simulation.PaymentOrangeMoney, fixedNow))
		f.repo.On("FindByID", mock.Anything, sim.ID).Return(sim, nil)

		assert.ErrorIs(t, f.svc.Delete(ctx, actor, sim.ID), shared.ErrInvalidState)
		f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestService_ConfirmPayment(t *testing.T) {
	ctx := context.Background()
	owner := simulation.Owner{UserID: uuid.New(), Email: "a@example.cm"}
	actor := simulation.Actor{UserID: owner.UserID}

	t.Run("confirms once", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		sim := newStoredSimulation(t, owner, newTelevision(t))
		f.repo.On("FindByID", mock.Anything, sim.ID).Return(sim, nil)
		f.repo.On("Save", mock.Anything, sim).Return(nil)

		resp, err := f.svc.ConfirmPayment(ctx, actor, sim.ID, ConfirmPaymentRequest{PaymentCode: " a1b2c3d4e5 ", PaymentMethod: "orange"})
		require.NoError(t, err)
		assert.True(t, resp.IsPaid)
		assert.Equal(t, "orange", resp.PaymentMethod)
		require.NotNil(t, resp.PaidAt)
		assert.Equal(t, fixedNow, *resp.PaidAt)
		assert.Equal(t, 1, f.publisher.count(simulation.EventTypeSimulationPaid))

		_, err = f.svc.ConfirmPayment(ctx, actor, sim.ID, ConfirmPaymentRequest{PaymentCode: "A1B2C3D4E5", PaymentMethod: "mtn"})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Equal(t, 1, f.publisher.count(simulation.EventTypeSimulationPaid))
		f.repo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("wrong code", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		sim := newStoredSimulation(t, owner, newTelevision(t))
		f.repo.On("FindByID", mock.Anything, sim.ID).Return(sim, nil)

		_, err := f.svc.ConfirmPayment(ctx, actor, sim.ID, ConfirmPaymentRequest{PaymentCode: "ZZZZZZZZZZ", PaymentMethod: "mtn"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.False(t, sim.IsPaid)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unsupported method", func(t *testing.T) {
		f := newServiceFixture(t, 0)

		_, err := f.svc.ConfirmPayment(ctx, actor, uuid.New(), ConfirmPaymentRequest{PaymentCode: "A1B2C3D4E5", PaymentMethod: "cash"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		f.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("other user", func(t *testing.T) {
		f := newServiceFixture(t, 0)
		sim := newStoredSimulation(t, owner, newTelevision(t))
		f.repo.On("FindByID", mock.Anything, sim.ID).Return(sim, nil)

		_, err := f.svc.ConfirmPayment(ctx, simulation.Actor{UserID: uuid.New()}, sim.ID, ConfirmPaymentRequest{PaymentCode: "A1B2C3D4E5", PaymentMethod: "mtn"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_Statement(t *testing.T) {
	owner := simulation.Owner{UserID: uuid.New(), Email: "a@example.cm"}
	sim := newStoredSimulation(t, owner, newTelevision(t))

	f := newServiceFixture(t, 0)
	f.repo.On("FindByID", mock.Anything, sim.ID).Return(sim, nil)

	data, err := f.svc.Statement(context.Background(), simulation.Actor{UserID: owner.UserID}, sim.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestService_ExportHistory(t *testing.T) {
	owner := simulation.Owner{UserID: uuid.New(), Email: "a@example.cm"}
	sim := newStoredSimulation(t, owner, newTelevision(t))

	f := newServiceFixture(t, 0)
	firstPage := mock.MatchedBy(func(filter simulation.Filter) bool {
		return filter.Page == 1 && filter.PageSize == exportPageSize &&
			filter.UserID != nil && *filter.UserID == owner.UserID
	})
	f.repo.On("FindAll", mock.Anything, firstPage).Return([]simulation.Simulation{*sim}, nil).Once()

	data, err := f.svc.ExportHistory(context.Background(), simulation.Actor{UserID: owner.UserID}, ListFilter{Page: 3, PageSize: 5})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
	f.repo.AssertExpectations(t)
}
