// Package attr builds the slog attributes shared by every service.
package attr

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
)

type correlationKey struct{}

// WithCorrelationID stores id on ctx for later log lines.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id stored on ctx, falling back to the chi
// request id.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok && id != "" {
		return id
	}
	return middleware.GetReqID(ctx)
}

// ExtractCorrelationID returns the correlation id as a log attribute.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", CorrelationID(ctx))
}

func String(key, value string) slog.Attr      { return slog.String(key, value) }
func Int(key string, value int) slog.Attr     { return slog.Int(key, value) }
func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }
func Any(key string, value any) slog.Attr     { return slog.Any(key, value) }

// Error renders err under the "error" key; nil renders as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
