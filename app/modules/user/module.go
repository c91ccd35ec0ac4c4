package user

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/club-review/app/eventbus"
	"github.com/Black-And-White-Club/club-review/app/integrity"
	userservice "github.com/Black-And-White-Club/club-review/app/modules/user/application"
	userhandlers "github.com/Black-And-White-Club/club-review/app/modules/user/infrastructure/handlers"
	userdb "github.com/Black-And-White-Club/club-review/app/modules/user/infrastructure/repositories"
	userrouter "github.com/Black-And-White-Club/club-review/app/modules/user/infrastructure/router"
	"github.com/Black-And-White-Club/club-review/app/shared/observability"
)

// Module represents the user module.
type Module struct {
	UserService userservice.Service
	UserRouter  *userrouter.UserRouter
}

// NewUserModule creates and initializes a new user module. Routes are only
// registered when httpRouter is non-nil.
func NewUserModule(
	ctx context.Context,
	obs observability.Observability,
	publisher eventbus.Publisher,
	httpRouter chi.Router,
	middleware []func(http.Handler) http.Handler,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "user.NewUserModule initializing")

	repo := userdb.NewRepository(db)
	service := userservice.NewUserService(repo, integrity.Bind, publisher, logger, obs.Metrics, obs.Tracer, db)

	module := &Module{UserService: service}
	if httpRouter == nil {
		return module, nil
	}

	handlers := userhandlers.NewUserHandlers(service, logger, obs.Tracer)
	module.UserRouter = userrouter.NewUserRouter(logger, httpRouter, middleware...)
	module.UserRouter.Configure(handlers)

	return module, nil
}
