package userservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/club-review/app/eventbus"
	"github.com/Black-And-White-Club/club-review/app/integrity"
	userdomain "github.com/Black-And-White-Club/club-review/app/modules/user/domain"
	userdb "github.com/Black-And-White-Club/club-review/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/club-review/app/shared/attr"
	"github.com/Black-And-White-Club/club-review/app/shared/metrics"
	"github.com/Black-And-White-Club/club-review/app/shared/operation"
	"github.com/Black-And-White-Club/club-review/app/shared/results"
	"github.com/Black-And-White-Club/club-review/app/validation"
)

type userResult = results.OperationResult[userdomain.View, error]

// UserService implements the Service interface.
type UserService struct {
	repo      userdb.Repository
	bind      integrity.Binder
	publisher eventbus.Publisher
	runner    *operation.Runner
	logger    *slog.Logger
	now       func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(
	repo userdb.Repository,
	bind integrity.Binder,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *UserService {
	runner := operation.NewRunner("UserService", logger, m, tracer, db)
	if bind == nil {
		bind = integrity.Bind
	}
	if publisher == nil {
		publisher = eventbus.Discard{}
	}
	return &UserService{
		repo:      repo,
		bind:      bind,
		publisher: publisher,
		runner:    runner,
		logger:    runner.Logger,
		now:       time.Now,
	}
}

// CreateUser inserts the user and then links its favorites, all in one
// transaction. Favorites whose club disappeared after validation are
// skipped.
func (s *UserService) CreateUser(ctx context.Context, p userdomain.Params) (userdomain.View, error) {
	view, err := operation.Run(s.runner, ctx, "CreateUser", p.Username, func(ctx context.Context, db bun.IDB) (userResult, error) {
		return s.createUserLogic(ctx, db, p)
	})
	if err != nil {
		return userdomain.View{}, err
	}
	eventbus.PublishAfterCommit(ctx, s.publisher, s.logger, eventbus.UserCreated, view)
	return view, nil
}

func (s *UserService) createUserLogic(ctx context.Context, db bun.IDB, p userdomain.Params) (userResult, error) {
	user, err := userdomain.NewUser(ctx, s.bind(db), p, s.now())
	if err != nil {
		return domainFailure(err)
	}

	row := userdb.FromDomain(user)
	if err := s.repo.Insert(ctx, db, row); err != nil {
		return userResult{}, err
	}
	linked, err := s.repo.AddFavorites(ctx, db, row.ID, user.PendingFavorites())
	if err != nil {
		return userResult{}, err
	}
	if skipped := len(user.PendingFavorites()) - len(linked); skipped > 0 {
		s.logger.WarnContext(ctx, "Skipped favorites for clubs that no longer exist",
			attr.ExtractCorrelationID(ctx),
			attr.Int64("user_id", row.ID),
			attr.Int64("skipped", int64(skipped)),
		)
	}
	row.Favorites = linked
	return results.SuccessResult[userdomain.View, error](row.ToDomain().Snapshot()), nil
}

// GetUser returns one user.
func (s *UserService) GetUser(ctx context.Context, id int64) (userdomain.View, error) {
	return operation.Run(s.runner, ctx, "GetUser", idString(id), func(ctx context.Context, db bun.IDB) (userResult, error) {
		row, failure, err := s.load(ctx, db, id)
		if failure != nil || err != nil {
			return userResult{Failure: failure}, err
		}
		return results.SuccessResult[userdomain.View, error](row.ToDomain().Snapshot()), nil
	})
}

// ListUsers returns every user.
func (s *UserService) ListUsers(ctx context.Context) ([]userdomain.View, error) {
	return operation.Run(s.runner, ctx, "ListUsers", "", func(ctx context.Context, db bun.IDB) (results.OperationResult[[]userdomain.View, error], error) {
		rows, err := s.repo.List(ctx, db)
		if err != nil {
			return results.OperationResult[[]userdomain.View, error]{}, err
		}
		views := make([]userdomain.View, 0, len(rows))
		for _, r := range rows {
			views = append(views, r.ToDomain().Snapshot())
		}
		return results.SuccessResult[[]userdomain.View, error](views), nil
	})
}

// UpdateUser applies a partial update in one transaction.
func (s *UserService) UpdateUser(ctx context.Context, id int64, u Update) (userdomain.View, error) {
	view, err := operation.Run(s.runner, ctx, "UpdateUser", idString(id), func(ctx context.Context, db bun.IDB) (userResult, error) {
		return s.mutate(ctx, db, id, func(user *userdomain.User, reg userdomain.Registry) error {
			if u.Email != nil {
				if err := user.UpdateEmail(ctx, reg, *u.Email); err != nil {
					return err
				}
			}
			if u.Username != nil {
				if err := user.UpdateUsername(ctx, reg, *u.Username); err != nil {
					return err
				}
			}
			if u.Favorites != nil {
				return user.ReplaceFavorites(ctx, reg, *u.Favorites)
			}
			return nil
		})
	})
	if err != nil {
		return userdomain.View{}, err
	}
	eventbus.PublishAfterCommit(ctx, s.publisher, s.logger, eventbus.UserUpdated, view)
	return view, nil
}

// AddFavorite favorites an existing club.
func (s *UserService) AddFavorite(ctx context.Context, id int64, code string) (userdomain.View, error) {
	view, err := operation.Run(s.runner, ctx, "AddFavorite", idString(id), func(ctx context.Context, db bun.IDB) (userResult, error) {
		return s.mutate(ctx, db, id, func(user *userdomain.User, reg userdomain.Registry) error {
			return user.AddFavorite(ctx, reg, code)
		})
	})
	if err != nil {
		return userdomain.View{}, err
	}
	eventbus.PublishAfterCommit(ctx, s.publisher, s.logger, eventbus.UserUpdated, view)
	return view, nil
}

// RemoveFavorite unfavorites a club; an absent favorite is not an error.
func (s *UserService) RemoveFavorite(ctx context.Context, id int64, code string) (userdomain.View, error) {
	view, err := operation.Run(s.runner, ctx, "RemoveFavorite", idString(id), func(ctx context.Context, db bun.IDB) (userResult, error) {
		return s.mutate(ctx, db, id, func(user *userdomain.User, _ userdomain.Registry) error {
			user.RemoveFavorite(code)
			return nil
		})
	})
	if err != nil {
		return userdomain.View{}, err
	}
	eventbus.PublishAfterCommit(ctx, s.publisher, s.logger, eventbus.UserUpdated, view)
	return view, nil
}

// DeleteUser removes a user with its favorites and reviews.
func (s *UserService) DeleteUser(ctx context.Context, id int64) (userdomain.View, error) {
	view, err := operation.Run(s.runner, ctx, "DeleteUser", idString(id), func(ctx context.Context, db bun.IDB) (userResult, error) {
		row, failure, err := s.load(ctx, db, id)
		if failure != nil || err != nil {
			return userResult{Failure: failure}, err
		}
		if err := s.repo.Delete(ctx, db, id); err != nil {
			if errors.Is(err, userdb.ErrNotFound) {
				return results.FailureResult[userdomain.View, error](err), nil
			}
			return userResult{}, err
		}
		return results.SuccessResult[userdomain.View, error](row.ToDomain().Snapshot()), nil
	})
	if err != nil {
		return userdomain.View{}, err
	}
	eventbus.PublishAfterCommit(ctx, s.publisher, s.logger, eventbus.UserDeleted, view)
	return view, nil
}

// mutate loads the user, applies change, writes back the scalar columns and,
// when they changed, the favorite links.
func (s *UserService) mutate(
	ctx context.Context,
	db bun.IDB,
	id int64,
	change func(*userdomain.User, userdomain.Registry) error,
) (userResult, error) {
	row, failure, err := s.load(ctx, db, id)
	if failure != nil || err != nil {
		return userResult{Failure: failure}, err
	}
	user := row.ToDomain()
	before := user.Favorites()

	if err := change(user, s.bind(db)); err != nil {
		return domainFailure(err)
	}

	updated := userdb.FromDomain(user)
	if err := s.repo.Update(ctx, db, updated); err != nil {
		if errors.Is(err, userdb.ErrNoRowsAffected) {
			return results.FailureResult[userdomain.View, error](userdb.ErrNotFound), nil
		}
		return userResult{}, err
	}
	if !slices.Equal(before, updated.Favorites) {
		if err := s.repo.ReplaceFavorites(ctx, db, id, updated.Favorites); err != nil {
			return userResult{}, err
		}
	}

	stored, err := s.repo.GetByID(ctx, db, id)
	if err != nil {
		return userResult{}, fmt.Errorf("failed to reload user: %w", err)
	}
	return results.SuccessResult[userdomain.View, error](stored.ToDomain().Snapshot()), nil
}

func (s *UserService) load(ctx context.Context, db bun.IDB, id int64) (*userdb.User, *error, error) {
	row, err := s.repo.GetByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return nil, &err, nil
		}
		return nil, nil, err
	}
	return row, nil, nil
}

// domainFailure routes validation errors to a failure result and registry
// errors to the error channel.
func domainFailure(err error) (userResult, error) {
	if errors.Is(err, validation.ErrInvalid) {
		return results.FailureResult[userdomain.View, error](err), nil
	}
	return userResult{}, err
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
