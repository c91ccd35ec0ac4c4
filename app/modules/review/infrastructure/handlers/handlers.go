package reviewhandlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	reviewservice "github.com/Black-And-White-Club/club-review/app/modules/review/application"
	reviewdomain "github.com/Black-And-White-Club/club-review/app/modules/review/domain"
	"github.com/Black-And-White-Club/club-review/app/shared/attr"
	"github.com/Black-And-White-Club/club-review/app/shared/httpx"
	"github.com/Black-And-White-Club/club-review/app/validation"
)

// ReviewHandlers implements the Handlers interface over a review service.
type ReviewHandlers struct {
	service reviewservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewReviewHandlers creates a new ReviewHandlers instance.
func NewReviewHandlers(service reviewservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (h *ReviewHandlers) HandleListReviews(w http.ResponseWriter, r *http.Request) {
	page, err := httpx.QueryInt(r, "page", reviewservice.DefaultPage)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	perPage, err := httpx.QueryInt(r, "per_page", reviewservice.DefaultPerPage)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	result, err := h.service.ListReviews(r.Context(), page, perPage)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

func (h *ReviewHandlers) HandleCreateReview(w http.ResponseWriter, r *http.Request) {
	data, err := httpx.DecodeObject(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if err := validation.RequireFields(data, "user_id", "club_code", "rating", "title"); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	p, err := createParams(data)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	review, err := h.service.CreateReview(r.Context(), p)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Review created",
		attr.ExtractCorrelationID(r.Context()),
		attr.Int64("review_id", review.ID),
		attr.String("club_code", review.ClubCode),
	)
	httpx.WriteJSON(w, http.StatusCreated, review)
}

func createParams(data map[string]any) (reviewdomain.Params, error) {
	var p reviewdomain.Params
	userID, err := validation.IntValue(data["user_id"], "user_id")
	if err != nil {
		return p, err
	}
	p.UserID = int64(userID)
	if p.ClubCode, err = validation.StringValue(data["club_code"], "club_code"); err != nil {
		return p, err
	}
	if p.Rating, err = validation.IntValue(data["rating"], "rating"); err != nil {
		return p, err
	}
	if p.Title, err = validation.StringValue(data["title"], "title"); err != nil {
		return p, err
	}
	if raw, ok := data["text"]; ok && raw != nil {
		if p.Text, err = validation.StringValue(raw, "text"); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (h *ReviewHandlers) HandleGetReview(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"), "review_id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	review, err := h.service.GetReview(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, review)
}

// HandleUpdateReview applies rating, title and text; other keys, including
// user_id and club_code, are ignored.
func (h *ReviewHandlers) HandleUpdateReview(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"), "review_id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	data, err := httpx.DecodeObject(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	var u reviewservice.Update
	if u.Rating, err = validation.Optional(data, "rating", validation.IntValue); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if u.Title, err = validation.Optional(data, "title", validation.StringValue); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if raw, ok := data["text"]; ok && raw == nil {
		empty := ""
		u.Text = &empty
	} else if u.Text, err = validation.Optional(data, "text", validation.StringValue); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), id, u)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, review)
}

func (h *ReviewHandlers) HandleDeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"), "review_id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	review, err := h.service.DeleteReview(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Message{
		Message: fmt.Sprintf("Review %d deleted", review.ID),
	})
}

func (h *ReviewHandlers) HandleClubReviews(w http.ResponseWriter, r *http.Request) {
	minRating, err := httpx.QueryInt(r, "min_rating", 0)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	q := reviewservice.ClubQuery{
		SortBy:    r.URL.Query().Get("sort_by"),
		Order:     r.URL.Query().Get("order"),
		MinRating: minRating,
	}
	reviews, err := h.service.ClubReviews(r.Context(), chi.URLParam(r, "code"), q)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandlers) HandleClubStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.ClubStats(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

func (h *ReviewHandlers) HandleUserReviews(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"), "user_id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	reviews, err := h.service.UserReviews(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandlers) HandleUserClubReview(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"), "user_id")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	review, err := h.service.UserClubReview(r.Context(), id, chi.URLParam(r, "code"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, review)
}
