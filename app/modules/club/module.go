package club

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/club-review/app/eventbus"
	"github.com/Black-And-White-Club/club-review/app/integrity"
	clubservice "github.com/Black-And-White-Club/club-review/app/modules/club/application"
	clubhandlers "github.com/Black-And-White-Club/club-review/app/modules/club/infrastructure/handlers"
	clubdb "github.com/Black-And-White-Club/club-review/app/modules/club/infrastructure/repositories"
	clubrouter "github.com/Black-And-White-Club/club-review/app/modules/club/infrastructure/router"
	"github.com/Black-And-White-Club/club-review/app/shared/observability"
)

// Module represents the club module.
type Module struct {
	ClubService clubservice.Service
	ClubRouter  *clubrouter.ClubRouter
}

// NewClubModule creates and initializes a new club module. Routes are only
// registered when httpRouter is non-nil, which lets the import command reuse
// the service without an HTTP surface.
func NewClubModule(
	ctx context.Context,
	obs observability.Observability,
	publisher eventbus.Publisher,
	httpRouter chi.Router,
	middleware []func(http.Handler) http.Handler,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "club.NewClubModule initializing")

	// 1. Initialize Repository
	repo := clubdb.NewRepository(db)

	// 2. Initialize Service
	service := clubservice.NewClubService(repo, integrity.Bind, publisher, logger, obs.Metrics, obs.Tracer, db)

	module := &Module{ClubService: service}
	if httpRouter == nil {
		return module, nil
	}

	// 3. Initialize Handlers
	handlers := clubhandlers.NewClubHandlers(service, logger, obs.Tracer)

	// 4. Initialize Router and register the routes
	module.ClubRouter = clubrouter.NewClubRouter(logger, httpRouter, middleware...)
	module.ClubRouter.Configure(handlers)

	return module, nil
}
