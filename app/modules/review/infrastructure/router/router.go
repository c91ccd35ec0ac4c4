package reviewrouter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	reviewhandlers "github.com/Black-And-White-Club/club-review/app/modules/review/infrastructure/handlers"
)

// ReviewRouter registers the review HTTP routes on a shared chi router,
// including the review listings nested under clubs and users.
type ReviewRouter struct {
	logger     *slog.Logger
	router     chi.Router
	middleware []func(http.Handler) http.Handler
}

// NewReviewRouter creates a new ReviewRouter.
func NewReviewRouter(logger *slog.Logger, router chi.Router, middleware ...func(http.Handler) http.Handler) *ReviewRouter {
	return &ReviewRouter{
		logger:     logger,
		router:     router,
		middleware: middleware,
	}
}

// Configure sets up the router with handlers.
func (r *ReviewRouter) Configure(handlers reviewhandlers.Handlers) {
	r.logger.Info("Registering review module routes")

	r.router.Group(func(g chi.Router) {
		g.Use(r.middleware...)

		g.Get("/api/reviews", handlers.HandleListReviews)
		g.Post("/api/reviews", handlers.HandleCreateReview)
		g.Get("/api/reviews/{id}", handlers.HandleGetReview)
		g.Put("/api/reviews/{id}", handlers.HandleUpdateReview)
		g.Delete("/api/reviews/{id}", handlers.HandleDeleteReview)

		g.Get("/api/clubs/{code}/reviews", handlers.HandleClubReviews)
		g.Get("/api/clubs/{code}/reviews/stats", handlers.HandleClubStats)
		g.Get("/api/users/{id}/reviews", handlers.HandleUserReviews)
		g.Get("/api/users/{id}/reviews/{code}", handlers.HandleUserClubReview)
	})
}
