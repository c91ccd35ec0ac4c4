package clubrouter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	clubhandlers "github.com/Black-And-White-Club/club-review/app/modules/club/infrastructure/handlers"
)

// ClubRouter registers the club HTTP routes on a shared chi router.
type ClubRouter struct {
	logger     *slog.Logger
	router     chi.Router
	middleware []func(http.Handler) http.Handler
}

// NewClubRouter creates a new ClubRouter. The middleware is applied to every
// club route, in order.
func NewClubRouter(logger *slog.Logger, router chi.Router, middleware ...func(http.Handler) http.Handler) *ClubRouter {
	return &ClubRouter{
		logger:     logger,
		router:     router,
		middleware: middleware,
	}
}

// Configure sets up the router with handlers.
func (r *ClubRouter) Configure(handlers clubhandlers.Handlers) {
	r.logger.Info("Registering club module routes")

	r.router.Group(func(g chi.Router) {
		g.Use(r.middleware...)

		g.Get("/api/clubs", handlers.HandleListClubs)
		g.Post("/api/clubs", handlers.HandleCreateClub)
		g.Get("/api/clubs/search", handlers.HandleSearchClubs)
		g.Get("/api/clubs/{code}", handlers.HandleGetClub)
		g.Put("/api/clubs/{code}", handlers.HandleUpdateClub)
		g.Delete("/api/clubs/{code}", handlers.HandleDeleteClub)
		g.Get("/api/clubs/{code}/favoritedBy", handlers.HandleFavoritedBy)
		g.Get("/api/tags/{name}", handlers.HandleClubsByTag)
	})
}
