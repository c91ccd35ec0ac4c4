package userrouter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	userhandlers "github.com/Black-And-White-Club/club-review/app/modules/user/infrastructure/handlers"
)

// UserRouter registers the user HTTP routes on a shared chi router.
type UserRouter struct {
	logger     *slog.Logger
	router     chi.Router
	middleware []func(http.Handler) http.Handler
}

// NewUserRouter creates a new UserRouter.
func NewUserRouter(logger *slog.Logger, router chi.Router, middleware ...func(http.Handler) http.Handler) *UserRouter {
	return &UserRouter{
		logger:     logger,
		router:     router,
		middleware: middleware,
	}
}

// Configure sets up the router with handlers.
func (r *UserRouter) Configure(handlers userhandlers.Handlers) {
	r.logger.Info("Registering user module routes")

	r.router.Group(func(g chi.Router) {
		g.Use(r.middleware...)

		g.Get("/api/users", handlers.HandleListUsers)
		g.Post("/api/users", handlers.HandleCreateUser)
		g.Get("/api/users/{id}", handlers.HandleGetUser)
		g.Put("/api/users/{id}", handlers.HandleUpdateUser)
		g.Delete("/api/users/{id}", handlers.HandleDeleteUser)
		g.Post("/api/users/{id}/favorites/{code}", handlers.HandleAddFavorite)
		g.Delete("/api/users/{id}/favorites/{code}", handlers.HandleRemoveFavorite)
	})
}
