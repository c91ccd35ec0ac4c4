// Package observability bundles the logger, tracer and metrics handed to
// every module.
package observability

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/club-review/app/shared/metrics"
)

// TracerName is the instrumentation scope used for service spans.
const TracerName = "github.com/Black-And-White-Club/club-review"

type Observability struct {
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics metrics.OperationMetrics
}

// New fills in defaults for any nil component: slog.Default, the global
// otel tracer and no-op metrics.
func New(logger *slog.Logger, tracer trace.Tracer, m metrics.OperationMetrics) Observability {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	return Observability{Logger: logger, Tracer: tracer, Metrics: m}
}
