package modules

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/club-review/app/eventbus"
	"github.com/Black-And-White-Club/club-review/app/modules/club"
	"github.com/Black-And-White-Club/club-review/app/modules/review"
	"github.com/Black-And-White-Club/club-review/app/modules/user"
	"github.com/Black-And-White-Club/club-review/app/shared/observability"
)

// ModuleRegistry stores and manages application modules.
type ModuleRegistry struct {
	ClubModule   *club.Module
	UserModule   *user.Module
	ReviewModule *review.Module
}

// NewModuleRegistry initializes every module against the shared database,
// publisher and router. A nil router builds the services only.
func NewModuleRegistry(
	ctx context.Context,
	obs observability.Observability,
	publisher eventbus.Publisher,
	router chi.Router,
	middleware []func(http.Handler) http.Handler,
	db *bun.DB,
) (*ModuleRegistry, error) {
	clubModule, err := club.NewClubModule(ctx, obs, publisher, router, middleware, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize club module: %w", err)
	}
	userModule, err := user.NewUserModule(ctx, obs, publisher, router, middleware, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user module: %w", err)
	}
	reviewModule, err := review.NewReviewModule(ctx, obs, publisher, router, middleware, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize review module: %w", err)
	}

	return &ModuleRegistry{
		ClubModule:   clubModule,
		UserModule:   userModule,
		ReviewModule: reviewModule,
	}, nil
}
