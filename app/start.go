package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/club-review/app/shared/attr"
)

const shutdownTimeout = 10 * time.Second

// Start serves HTTP until ctx is canceled, then shuts the server down
// gracefully and releases every resource.
func (a *App) Start(ctx context.Context) error {
	if a.auditRouter != nil {
		go func() {
			if err := a.auditRouter.Run(ctx); err != nil {
				a.Logger.ErrorContext(ctx, "Audit router stopped", attr.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.InfoContext(ctx, "Starting HTTP server", attr.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		a.Close()
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	a.Close()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
