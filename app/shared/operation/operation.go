// Package operation runs service operations inside a transaction with
// tracing, metrics, logging and panic recovery.
package operation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/club-review/app/integrity"
	"github.com/Black-And-White-Club/club-review/app/shared/attr"
	"github.com/Black-And-White-Club/club-review/app/shared/metrics"
	"github.com/Black-And-White-Club/club-review/app/shared/results"
	"github.com/Black-And-White-Club/club-review/app/validation"
)

// errRollback aborts a transaction whose operation returned a domain failure.
var errRollback = errors.New("operation failed: rolling back")

// Runner carries what every operation of one service shares.
type Runner struct {
	Service string
	Logger  *slog.Logger
	Metrics metrics.OperationMetrics
	Tracer  trace.Tracer
	DB      *bun.DB
}

// NewRunner fills in defaults for nil collaborators.
func NewRunner(service string, logger *slog.Logger, m metrics.OperationMetrics, tracer trace.Tracer, db *bun.DB) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	return &Runner{Service: service, Logger: logger, Metrics: m, Tracer: tracer, DB: db}
}

// TxFunc is the body of an operation. A domain failure is returned as a
// failure result; an error means infrastructure trouble.
type TxFunc[S any] func(ctx context.Context, db bun.IDB) (results.OperationResult[S, error], error)

// Run executes fn in a transaction under telemetry and flattens the result:
// a domain failure comes back as the returned error.
func Run[S any](r *Runner, ctx context.Context, operationName, identifier string, fn TxFunc[S]) (S, error) {
	var zero S
	result, err := withTelemetry(r, ctx, operationName, identifier, func(ctx context.Context) (results.OperationResult[S, error], error) {
		return runInTx(r, ctx, fn)
	})
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, fmt.Errorf("%s: empty result", operationName)
	}
	return *result.Success, nil
}

// withTelemetry wraps an operation with tracing, metrics, and panic recovery.
func withTelemetry[S any](
	r *Runner,
	ctx context.Context,
	operationName string,
	identifier string,
	op func(ctx context.Context) (results.OperationResult[S, error], error),
) (result results.OperationResult[S, error], err error) {
	var span trace.Span
	if r.Tracer != nil {
		ctx, span = r.Tracer.Start(ctx, r.Service+"."+operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	r.Metrics.RecordOperationAttempt(ctx, operationName, r.Service)

	startTime := time.Now()
	defer func() {
		r.Metrics.RecordOperationDuration(ctx, operationName, r.Service, time.Since(startTime))
	}()

	r.Logger.InfoContext(ctx, "Operation triggered",
		attr.ExtractCorrelationID(ctx),
		attr.String("operation", operationName),
	)

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, rec)
			r.Logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			r.Metrics.RecordOperationFailure(ctx, operationName, r.Service)
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			result = results.OperationResult[S, error]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		r.Logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		r.Metrics.RecordOperationFailure(ctx, operationName, r.Service)
		span.RecordError(wrappedErr)
		span.SetStatus(codes.Error, "infrastructure error")
		return result, wrappedErr
	}

	if result.IsFailure() {
		r.Logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", (*result.Failure).Error()),
		)
	}

	if result.IsSuccess() {
		r.Logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	r.Metrics.RecordOperationSuccess(ctx, operationName, r.Service)
	return result, nil
}

// runInTx runs fn in a transaction. A failure result rolls the transaction
// back; a constraint violation raised by the database becomes a failure.
func runInTx[S any](r *Runner, ctx context.Context, fn TxFunc[S]) (results.OperationResult[S, error], error) {
	if r.DB == nil {
		return classify(fn(ctx, nil))
	}

	var result results.OperationResult[S, error]
	err := r.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		if txErr != nil {
			return txErr
		}
		if result.IsFailure() {
			return errRollback
		}
		return nil
	})
	if errors.Is(err, errRollback) {
		return result, nil
	}
	return classify(result, err)
}

// classify turns integrity violations into failure results.
func classify[S any](result results.OperationResult[S, error], err error) (results.OperationResult[S, error], error) {
	if err == nil {
		return result, nil
	}
	if mapped := integrity.FromConstraint(err); errors.Is(mapped, validation.ErrInvalid) {
		return results.FailureResult[S, error](mapped), nil
	}
	return result, err
}
