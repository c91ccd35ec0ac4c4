package review

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/club-review/app/eventbus"
	"github.com/Black-And-White-Club/club-review/app/integrity"
	reviewservice "github.com/Black-And-White-Club/club-review/app/modules/review/application"
	reviewhandlers "github.com/Black-And-White-Club/club-review/app/modules/review/infrastructure/handlers"
	reviewdb "github.com/Black-And-White-Club/club-review/app/modules/review/infrastructure/repositories"
	reviewrouter "github.com/Black-And-White-Club/club-review/app/modules/review/infrastructure/router"
	"github.com/Black-And-White-Club/club-review/app/shared/observability"
)

// Module represents the review module.
type Module struct {
	ReviewService reviewservice.Service
	ReviewRouter  *reviewrouter.ReviewRouter
}

// NewReviewModule creates and initializes a new review module. Routes are only
// registered when httpRouter is non-nil.
func NewReviewModule(
	ctx context.Context,
	obs observability.Observability,
	publisher eventbus.Publisher,
	httpRouter chi.Router,
	middleware []func(http.Handler) http.Handler,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "review.NewReviewModule initializing")

	repo := reviewdb.NewRepository(db)
	service := reviewservice.NewReviewService(repo, integrity.Bind, publisher, logger, obs.Metrics, obs.Tracer, db)

	module := &Module{ReviewService: service}
	if httpRouter == nil {
		return module, nil
	}

	handlers := reviewhandlers.NewReviewHandlers(service, logger, obs.Tracer)
	module.ReviewRouter = reviewrouter.NewReviewRouter(logger, httpRouter, middleware...)
	module.ReviewRouter.Configure(handlers)

	return module, nil
}
