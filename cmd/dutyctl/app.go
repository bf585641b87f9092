package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	catalogapp "github.com/simudouane/backend/internal/application/catalog"
	simulationapp "github.com/simudouane/backend/internal/application/simulation"
	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/simulation"
	"github.com/simudouane/backend/internal/infrastructure/cache"
	"github.com/simudouane/backend/internal/infrastructure/config"
	"github.com/simudouane/backend/internal/infrastructure/event"
	"github.com/simudouane/backend/internal/infrastructure/logger"
	"github.com/simudouane/backend/internal/infrastructure/persistence"
	"github.com/simudouane/backend/internal/infrastructure/seed"
	"github.com/simudouane/backend/internal/infrastructure/tariff"
	"github.com/simudouane/backend/internal/infrastructure/telemetry"
)

const shutdownTimeout = 5 * time.Second

// app holds the wired services of one dutyctl invocation.
type app struct {
	cfg  *config.Config
	log  *zap.Logger
	calc *customs.Calculator

	db       *persistence.Database
	profiles cache.ProfileCache
	bus      *event.InMemoryEventBus
	tracer   *telemetry.TracerProvider
	meter    *telemetry.MeterProvider

	categories  *catalogapp.CategoryService
	products    *catalogapp.ProductService
	simulations *simulationapp.Service
	seeder      *seed.Seeder
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger, withDB bool) (*app, error) {
	a := &app{cfg: cfg, log: log}

	calc, err := tariff.NewCalculator(cfg.Tariff)
	if err != nil {
		return nil, fmt.Errorf("load tariff schedule: %w", err)
	}
	a.calc = calc
	if !withDB {
		return a, nil
	}

	traceCfg, metricsCfg := telemetry.FromAppConfig(cfg.Telemetry)
	if a.tracer, err = telemetry.NewTracerProvider(ctx, traceCfg, log); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	if a.meter, err = telemetry.NewMeterProvider(ctx, metricsCfg, log); err != nil {
		a.close()
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	metrics, err := telemetry.NewSimulationMetrics(telemetry.SimulationMetricsConfig{
		Meter:  a.meter.Meter(telemetry.TracerName),
		Logger: log,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.GormLevel))
	if a.db, err = persistence.NewDatabaseWithLogger(&cfg.Database, gormLog); err != nil {
		a.close()
		return nil, err
	}
	tracing := telemetry.DefaultDBTracingConfig()
	tracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	tracing.DBSystem = cfg.Database.Driver
	if err := telemetry.NewDBTracingPlugin(tracing, log).Register(a.db.DB); err != nil {
		a.close()
		return nil, fmt.Errorf("register database tracing: %w", err)
	}

	a.profiles, err = cache.NewProfileCacheFactory(cfg.Redis, cache.WithLogger(log)).CreateCache()
	if err != nil {
		a.close()
		return nil, err
	}

	categoryRepo := persistence.NewGormCategoryRepository(a.db.DB)
	productRepo := persistence.NewGormProductRepository(a.db.DB)
	simulationRepo := persistence.NewGormSimulationRepository(a.db.DB)

	a.bus = event.NewInMemoryEventBus(log)
	a.bus.Subscribe(simulationapp.NewResultNotificationHandler(
		simulationRepo, simulationapp.NewLogNotifier(log.Named("notifier")), log,
	))
	if err := a.bus.Start(ctx); err != nil {
		a.close()
		return nil, err
	}

	a.categories = catalogapp.NewCategoryService(categoryRepo, productRepo, a.bus, log)
	a.products = catalogapp.NewProductService(productRepo, categoryRepo, simulationRepo,
		catalogapp.WithProfileCache(a.profiles),
		catalogapp.WithEventPublisher(a.bus),
		catalogapp.WithProductLogger(log),
	)
	a.simulations = simulationapp.NewService(simulationRepo, a.products, calc,
		simulation.NewUUIDCodeGenerator(cfg.Simulation.PaymentCodeLength),
		simulationapp.Config{
			PaymentCodeAttempts: cfg.Simulation.PaymentCodeAttempts,
			Currency:            cfg.Tariff.Currency,
		},
		simulationapp.WithEventPublisher(a.bus),
		simulationapp.WithMetrics(metrics),
		simulationapp.WithLogger(log),
	)
	a.seeder = seed.NewSeeder(categoryRepo, productRepo, log)
	return a, nil
}

// close releases everything newApp opened, in reverse order.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.bus != nil {
		_ = a.bus.Stop(ctx)
	}
	if a.profiles != nil {
		if err := a.profiles.Close(); err != nil {
			a.log.Warn("Error closing profile cache", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error("Error closing database", zap.Error(err))
		}
	}
	if a.meter != nil {
		if err := a.meter.Shutdown(ctx); err != nil {
			a.log.Warn("Error shutting down meter provider", zap.Error(err))
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.log.Warn("Error shutting down tracer provider", zap.Error(err))
		}
	}
}
