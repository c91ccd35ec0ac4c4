package userhandlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	userservice "github.com/Black-And-White-Club/club-review/app/modules/user/application"
	userdomain "github.com/Black-And-White-Club/club-review/app/modules/user/domain"
	"github.com/Black-And-White-Club/club-review/app/shared/attr"
	"github.com/Black-And-White-Club/club-review/app/shared/httpx"
	"github.com/Black-And-White-Club/club-review/app/validation"
)

// UserHandlers implements the Handlers interface over a user service.
type UserHandlers struct {
	service userservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewUserHandlers creates a new UserHandlers instance.
func NewUserHandlers(service userservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (h *UserHandlers) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

func (h *UserHandlers) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	data, err := httpx.DecodeObject(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := validation.RequireFields(data, "username", "email"); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	var p userdomain.Params
	if p.Username, err = validation.StringValue(data["username"], "username"); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if p.Email, err = validation.StringValue(data["email"], "email"); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if raw, ok := data["favorites"]; ok {
		if p.Favorites, err = validation.StringList(raw, "favorites"); err != nil {
			httpx.WriteError(w, r, h.logger, err)
			return
		}
	}

	user, err := h.service.CreateUser(r.Context(), p)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.logger.InfoContext(r.Context(), "User created",
		attr.ExtractCorrelationID(r.Context()),
		attr.Int64("user_id", user.ID),
	)
	httpx.WriteJSON(w, http.StatusCreated, user)
}

func (h *UserHandlers) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"), "user_id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandlers) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"), "user_id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	data, err := httpx.DecodeObject(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	var u userservice.Update
	if u.Email, err = validation.Optional(data, "email", validation.StringValue); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if u.Username, err = validation.Optional(data, "username", validation.StringValue); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if u.Favorites, err = validation.Optional(data, "favorites", validation.StringList); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, u)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandlers) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"), "user_id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	user, err := h.service.DeleteUser(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Message{
		Message: fmt.Sprintf("User %s deleted", user.Username),
	})
}

func (h *UserHandlers) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"), "user_id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	user, err := h.service.AddFavorite(r.Context(), id, chi.URLParam(r, "code"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandlers) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"), "user_id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	user, err := h.service.RemoveFavorite(r.Context(), id, chi.URLParam(r, "code"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}
