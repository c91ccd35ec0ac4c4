package app

import (
	"github.com/Black-And-White-Club/club-review/app/shared/attr"
)

// Close stops the audit router and closes the event bus and the database.
// Failures are logged; Close is safe to call more than once.
func (a *App) Close() {
	if a.auditRouter != nil {
		if err := a.auditRouter.Close(); err != nil {
			a.Logger.Warn("Failed to close audit router", attr.Error(err))
		}
		a.auditRouter = nil
	}
	if a.EventBus != nil {
		if err := a.EventBus.Close(); err != nil {
			a.Logger.Warn("Failed to close event bus", attr.Error(err))
		}
		a.EventBus = nil
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn("Failed to close database", attr.Error(err))
		}
		a.DB = nil
	}
	a.Logger.Info("Application shut down gracefully")
}
