package clubhandlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	clubservice "github.com/Black-And-White-Club/club-review/app/modules/club/application"
	clubdomain "github.com/Black-And-White-Club/club-review/app/modules/club/domain"
	"github.com/Black-And-White-Club/club-review/app/shared/attr"
	"github.com/Black-And-White-Club/club-review/app/shared/httpx"
	"github.com/Black-And-White-Club/club-review/app/validation"
)

var requiredCreateFields = []string{"code", "name", "description", "undergraduatesAllowed", "graduatesAllowed"}

// ClubHandlers implements the Handlers interface over a club service.
type ClubHandlers struct {
	service clubservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewClubHandlers creates a new ClubHandlers instance.
func NewClubHandlers(service clubservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClubHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (h *ClubHandlers) HandleListClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.service.ListClubs(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubs)
}

func (h *ClubHandlers) HandleCreateClub(w http.ResponseWriter, r *http.Request) {
	data, err := httpx.DecodeObject(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := validation.RequireFields(data, requiredCreateFields...); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	params, err := createParams(data)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	club, err := h.service.CreateClub(r.Context(), params)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Club created",
		attr.ExtractCorrelationID(r.Context()),
		attr.String("club_code", club.Code),
	)
	httpx.WriteJSON(w, http.StatusCreated, club)
}

func (h *ClubHandlers) HandleSearchClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.service.SearchClubs(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubs)
}

func (h *ClubHandlers) HandleGetClub(w http.ResponseWriter, r *http.Request) {
	club, err := h.service.GetClub(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, club)
}

func (h *ClubHandlers) HandleUpdateClub(w http.ResponseWriter, r *http.Request) {
	data, err := httpx.DecodeObject(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	update, err := updateFromPayload(data)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	club, err := h.service.UpdateClub(r.Context(), chi.URLParam(r, "code"), update)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, club)
}

func (h *ClubHandlers) HandleDeleteClub(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.service.DeleteClub(r.Context(), code); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Message{
		Message: fmt.Sprintf("Club %s deleted", clubdomain.NormalizeCode(code)),
	})
}

func (h *ClubHandlers) HandleFavoritedBy(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.service.FavoritedBy(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, favorites)
}

func (h *ClubHandlers) HandleClubsByTag(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ClubsByTag(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

// createParams converts a create payload. memberCount defaults to 0 and
// tags to none.
func createParams(data map[string]any) (clubdomain.Params, error) {
	var p clubdomain.Params
	var err error

	if err = validation.ClubCode(data["code"]); err != nil {
		return p, err
	}
	p.Code = data["code"].(string)
	if p.Name, err = validation.StringValue(data["name"], "name"); err != nil {
		return p, err
	}
	if p.Description, err = validation.StringValue(data["description"], "description"); err != nil {
		return p, err
	}
	if p.UndergraduatesAllowed, err = validation.Boolean(data["undergraduatesAllowed"], "undergraduatesAllowed"); err != nil {
		return p, err
	}
	if p.GraduatesAllowed, err = validation.Boolean(data["graduatesAllowed"], "graduatesAllowed"); err != nil {
		return p, err
	}

	count, err := validation.Optional(data, "memberCount", validation.IntValue)
	if err != nil {
		return p, err
	}
	if count != nil {
		p.MemberCount = *count
	}

	p.Tags = []string{}
	if raw, ok := data["tags"]; ok {
		if p.Tags, err = validation.Tags(raw); err != nil {
			return p, err
		}
	}
	return p, nil
}

func updateFromPayload(data map[string]any) (clubservice.Update, error) {
	var u clubservice.Update
	var err error

	if u.Name, err = validation.Optional(data, "name", validation.StringValue); err != nil {
		return u, err
	}
	if u.Description, err = validation.Optional(data, "description", validation.StringValue); err != nil {
		return u, err
	}
	if u.MemberCount, err = validation.Optional(data, "memberCount", validation.IntValue); err != nil {
		return u, err
	}
	if u.UndergraduatesAllowed, err = validation.Optional(data, "undergraduatesAllowed", validation.Boolean); err != nil {
		return u, err
	}
	if u.GraduatesAllowed, err = validation.Optional(data, "graduatesAllowed", validation.Boolean); err != nil {
		return u, err
	}
	if raw, ok := data["tags"]; ok {
		tags, err := validation.Tags(raw)
		if err != nil {
			return u, err
		}
		u.Tags = &tags
	}
	return u, nil
}
