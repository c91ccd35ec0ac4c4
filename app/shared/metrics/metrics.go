// Package metrics records per-operation service metrics.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics is the metrics surface every service depends on.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)
}

// PrometheusMetrics implements OperationMetrics with labelled counters and a
// duration histogram.
type PrometheusMetrics struct {
	attempts *prometheus.CounterVec
	success  *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheus registers the collectors on reg under the given namespace.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*PrometheusMetrics, error) {
	labels := []string{"service", "operation"}
	m := &PrometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, labels),
		success: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_success_total",
			Help:      "Service operations that completed without an infrastructure error.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Service operations that returned an infrastructure error or panicked.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}
	for _, c := range []prometheus.Collector{m.attempts, m.success, m.failures, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(service, operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.success.WithLabelValues(service, operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(service, operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.duration.WithLabelValues(service, operation).Observe(d.Seconds())
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func NewNoop() NoopMetrics { return NoopMetrics{} }

func (NoopMetrics) RecordOperationAttempt(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationSuccess(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationFailure(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
