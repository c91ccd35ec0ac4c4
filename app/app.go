// Package app wires configuration, storage, the event bus and the module
// registry into a runnable HTTP service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"

	"github.com/Black-And-White-Club/club-review/app/eventbus"
	"github.com/Black-And-White-Club/club-review/app/shared/attr"
	"github.com/Black-And-White-Club/club-review/app/shared/httpx"
	"github.com/Black-And-White-Club/club-review/app/shared/metrics"
	"github.com/Black-And-White-Club/club-review/app/shared/observability"
	"github.com/Black-And-White-Club/club-review/config"
	"github.com/Black-And-White-Club/club-review/internal/db/bundb"
	"github.com/Black-And-White-Club/club-review/internal/modules"
)

// MetricsNamespace prefixes every exported Prometheus series.
const MetricsNamespace = "clubreview"

type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *bun.DB
	EventBus eventbus.Publisher
	Router   chi.Router
	Modules  *modules.ModuleRegistry

	registry    *prometheus.Registry
	auditRouter *message.Router
}

// NewApp opens the database and the event bus described by cfg and builds
// the application on top of them.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := bundb.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	bus, audit, err := newEventBus(ctx, cfg, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	app, err := New(ctx, cfg, logger, db, bus)
	if err != nil {
		bus.Close()
		db.Close()
		return nil, err
	}
	app.auditRouter = audit
	return app, nil
}

// New builds the router and modules over an already opened database and
// publisher. db may be nil when only the HTTP surface is exercised.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *bun.DB, bus eventbus.Publisher) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if bus == nil {
		bus = eventbus.Discard{}
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		EventBus: bus,
	}

	var opMetrics metrics.OperationMetrics
	if cfg.Observability.MetricsEnabled {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		pm, err := metrics.NewPrometheus(app.registry, MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		opMetrics = pm
	}
	obs := observability.New(logger, nil, opMetrics)

	app.Router = app.newRouter()

	limiter := httpx.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimitRPS), cfg.HTTP.RateLimitBurst)
	moduleMiddleware := []func(http.Handler) http.Handler{
		httpx.MutatingOnly(httpx.RateLimit(limiter)),
	}

	registry, err := modules.NewModuleRegistry(ctx, obs, bus, app.Router, moduleMiddleware, db)
	if err != nil {
		return nil, err
	}
	app.Modules = registry

	logger.InfoContext(ctx, "Application initialized",
		attr.String("environment", cfg.Observability.Environment),
		attr.Any("metrics_enabled", cfg.Observability.MetricsEnabled),
	)
	return app, nil
}

// newEventBus publishes to JetStream when a NATS URL is configured, and to
// an in-process channel with an audit logger otherwise.
func newEventBus(ctx context.Context, cfg *config.Config, logger *slog.Logger) (eventbus.Publisher, *message.Router, error) {
	if cfg.NATS.URL != "" {
		bus, err := eventbus.NewNATSBus(ctx, cfg.NATS.URL, logger)
		if err != nil {
			return nil, nil, err
		}
		return bus, nil, nil
	}

	bus := eventbus.NewChannelBus(logger)
	audit, err := eventbus.NewAuditRouter(bus.Subscriber(), logger)
	if err != nil {
		bus.Close()
		return nil, nil, err
	}
	return bus, audit, nil
}
