package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Black-And-White-Club/club-review/app/shared/apierr"
	"github.com/Black-And-White-Club/club-review/app/shared/attr"
	"github.com/Black-And-White-Club/club-review/app/shared/httpx"
)

// newRouter builds the root router with the process-wide middleware and
// the routes that belong to no module.
func (a *App) newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(a.Logger))
	r.Use(middleware.Recoverer)
	r.Use(httpx.CORS(a.Config.HTTP.AllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusNotFound, apierr.ErrResponse{Error: apierr.NotFound})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusMethodNotAllowed, apierr.ErrResponse{Error: apierr.APIError{
			Code:    "METHOD_NOT_ALLOWED",
			Message: "method not allowed",
		}})
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Welcome to Penn Club Review!"))
	})
	r.Get("/api", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, httpx.Message{Message: "Welcome to the Penn Club Review API!"})
	})
	r.Get("/healthz", a.handleHealth)

	if a.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	}
	return r
}

type healthStatus struct {
	Status string `json:"status"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.DB == nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, healthStatus{Status: "unavailable"})
		return
	}
	if err := a.DB.PingContext(r.Context()); err != nil {
		a.Logger.WarnContext(r.Context(), "Health check failed", attr.Error(err))
		httpx.WriteJSON(w, http.StatusServiceUnavailable, healthStatus{Status: "unavailable"})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, healthStatus{Status: "ok"})
}
