package clubservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/club-review/app/eventbus"
	"github.com/Black-And-White-Club/club-review/app/integrity"
	clubdomain "github.com/Black-And-White-Club/club-review/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/club-review/app/modules/club/infrastructure/repositories"
	"github.com/Black-And-White-Club/club-review/app/shared/metrics"
	"github.com/Black-And-White-Club/club-review/app/shared/operation"
	"github.com/Black-And-White-Club/club-review/app/shared/results"
	"github.com/Black-And-White-Club/club-review/app/validation"
)

// MaxSearchLength bounds search queries.
const MaxSearchLength = 100

var tagNameRule = validation.StringRule{Min: validation.TagMinLength, Max: validation.TagMaxLength}

type clubResult = results.OperationResult[clubdomain.View, error]

// ClubService implements the Service interface.
type ClubService struct {
	repo      clubdb.Repository
	bind      integrity.Binder
	publisher eventbus.Publisher
	runner    *operation.Runner
	logger    *slog.Logger
	now       func() time.Time
}

// NewClubService creates a new ClubService.
func NewClubService(
	repo clubdb.Repository,
	bind integrity.Binder,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ClubService {
	runner := operation.NewRunner("ClubService", logger, m, tracer, db)
	if bind == nil {
		bind = integrity.Bind
	}
	if publisher == nil {
		publisher = eventbus.Discard{}
	}
	return &ClubService{
		repo:      repo,
		bind:      bind,
		publisher: publisher,
		runner:    runner,
		logger:    runner.Logger,
		now:       time.Now,
	}
}

// CreateClub validates and stores a new club.
func (s *ClubService) CreateClub(ctx context.Context, p clubdomain.Params) (clubdomain.View, error) {
	return s.create(ctx, "CreateClub", p, s.now())
}

// ImportClub stores a club with a recorded creation time.
func (s *ClubService) ImportClub(ctx context.Context, p clubdomain.Params, createdAt time.Time) (clubdomain.View, error) {
	return s.create(ctx, "ImportClub", p, createdAt)
}

func (s *ClubService) create(ctx context.Context, op string, p clubdomain.Params, now time.Time) (clubdomain.View, error) {
	view, err := operation.Run(s.runner, ctx, op, p.Code, func(ctx context.Context, db bun.IDB) (clubResult, error) {
		return s.createClubLogic(ctx, db, p, now)
	})
	if err != nil {
		return clubdomain.View{}, err
	}
	eventbus.PublishAfterCommit(ctx, s.publisher, s.logger, eventbus.ClubCreated, view)
	return view, nil
}

func (s *ClubService) createClubLogic(ctx context.Context, db bun.IDB, p clubdomain.Params, now time.Time) (clubResult, error) {
	club, err := clubdomain.NewClub(ctx, s.bind(db), p, now)
	if err != nil {
		return domainFailure(err)
	}
	if err := s.repo.Insert(ctx, db, clubdb.FromDomain(club)); err != nil {
		return clubResult{}, err
	}
	stored, err := s.repo.GetByCode(ctx, db, club.Code())
	if err != nil {
		return clubResult{}, fmt.Errorf("failed to reload club: %w", err)
	}
	return results.SuccessResult[clubdomain.View, error](stored.ToDomain().Snapshot()), nil
}

// GetClub returns one club.
func (s *ClubService) GetClub(ctx context.Context, code string) (clubdomain.View, error) {
	return operation.Run(s.runner, ctx, "GetClub", code, func(ctx context.Context, db bun.IDB) (clubResult, error) {
		club, failure, err := s.load(ctx, db, code)
		if failure != nil || err != nil {
			return clubResult{Failure: failure}, err
		}
		return results.SuccessResult[clubdomain.View, error](club.ToDomain().Snapshot()), nil
	})
}

// ListClubs returns every club.
func (s *ClubService) ListClubs(ctx context.Context) ([]clubdomain.View, error) {
	return operation.Run(s.runner, ctx, "ListClubs", "", func(ctx context.Context, db bun.IDB) (results.OperationResult[[]clubdomain.View, error], error) {
		clubs, err := s.repo.List(ctx, db)
		if err != nil {
			return results.OperationResult[[]clubdomain.View, error]{}, err
		}
		return results.SuccessResult[[]clubdomain.View, error](snapshots(clubs)), nil
	})
}

// SearchClubs matches club names case-insensitively. The query is trimmed
// and sanitized the same way names are, so escaped characters match.
func (s *ClubService) SearchClubs(ctx context.Context, query string) ([]clubdomain.View, error) {
	trimmed := strings.TrimSpace(query)
	return operation.Run(s.runner, ctx, "SearchClubs", trimmed, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]clubdomain.View, error], error) {
		if trimmed == "" {
			return results.FailureResult[[]clubdomain.View, error](
				validation.Fail("query", validation.KindRequired, "Query parameter is required and cannot be empty")), nil
		}
		if len([]rune(trimmed)) > MaxSearchLength {
			return results.FailureResult[[]clubdomain.View, error](
				validation.Fail("query", validation.KindLength, "Query cannot exceed %d characters", MaxSearchLength)), nil
		}
		clubs, err := s.repo.SearchByName(ctx, db, validation.Sanitize(trimmed))
		if err != nil {
			return results.OperationResult[[]clubdomain.View, error]{}, err
		}
		return results.SuccessResult[[]clubdomain.View, error](snapshots(clubs)), nil
	})
}

// UpdateClub applies a partial update in one transaction.
func (s *ClubService) UpdateClub(ctx context.Context, code string, u Update) (clubdomain.View, error) {
	view, err := operation.Run(s.runner, ctx, "UpdateClub", code, func(ctx context.Context, db bun.IDB) (clubResult, error) {
		return s.updateClubLogic(ctx, db, code, u)
	})
	if err != nil {
		return clubdomain.View{}, err
	}
	eventbus.PublishAfterCommit(ctx, s.publisher, s.logger, eventbus.ClubUpdated, view)
	return view, nil
}

func (s *ClubService) updateClubLogic(ctx context.Context, db bun.IDB, code string, u Update) (clubResult, error) {
	row, failure, err := s.load(ctx, db, code)
	if failure != nil || err != nil {
		return clubResult{Failure: failure}, err
	}
	club := row.ToDomain()
	if err := apply(club, u); err != nil {
		return domainFailure(err)
	}
	if err := s.repo.Update(ctx, db, clubdb.FromDomain(club)); err != nil {
		return clubResult{}, err
	}
	stored, err := s.repo.GetByCode(ctx, db, club.Code())
	if err != nil {
		return clubResult{}, fmt.Errorf("failed to reload club: %w", err)
	}
	return results.SuccessResult[clubdomain.View, error](stored.ToDomain().Snapshot()), nil
}

// apply runs the per-field updates. Flags being switched on go before flags
// being switched off so that swapping both in one payload succeeds.
func apply(club *clubdomain.Club, u Update) error {
	if u.Name != nil {
		if err := club.UpdateName(*u.Name); err != nil {
			return err
		}
	}
	if u.Description != nil {
		if err := club.UpdateDescription(*u.Description); err != nil {
			return err
		}
	}
	if u.MemberCount != nil {
		if err := club.UpdateMemberCount(*u.MemberCount); err != nil {
			return err
		}
	}

	flags := []struct {
		value *bool
		set   func(bool) error
	}{
		{u.UndergraduatesAllowed, club.UpdateUndergraduatesAllowed},
		{u.GraduatesAllowed, club.UpdateGraduatesAllowed},
	}
	for _, on := range []bool{true, false} {
		for _, f := range flags {
			if f.value != nil && *f.value == on {
				if err := f.set(on); err != nil {
					return err
				}
			}
		}
	}

	if u.Tags != nil {
		if err := club.ReplaceTags(*u.Tags); err != nil {
			return err
		}
	}
	return nil
}

// DeleteClub removes a club together with its tag links, favorites and
// reviews.
func (s *ClubService) DeleteClub(ctx context.Context, code string) error {
	normalized := clubdomain.NormalizeCode(code)
	_, err := operation.Run(s.runner, ctx, "DeleteClub", code, func(ctx context.Context, db bun.IDB) (results.OperationResult[string, error], error) {
		if err := validation.ClubCode(code); err != nil {
			return results.FailureResult[string, error](err), nil
		}
		if err := s.repo.Delete(ctx, db, normalized); err != nil {
			if errors.Is(err, clubdb.ErrNotFound) {
				return results.FailureResult[string, error](err), nil
			}
			return results.OperationResult[string, error]{}, err
		}
		return results.SuccessResult[string, error](normalized), nil
	})
	if err != nil {
		return err
	}
	eventbus.PublishAfterCommit(ctx, s.publisher, s.logger, eventbus.ClubDeleted, map[string]string{"code": normalized})
	return nil
}

// ClubsByTag returns the clubs carrying tag. Tag names are stored
// sanitized, so the lookup sanitizes tag first.
func (s *ClubService) ClubsByTag(ctx context.Context, tag string) (TagClubs, error) {
	return operation.Run(s.runner, ctx, "ClubsByTag", tag, func(ctx context.Context, db bun.IDB) (results.OperationResult[TagClubs, error], error) {
		if err := validation.String(tag, "Tag name", tagNameRule); err != nil {
			return results.FailureResult[TagClubs, error](err), nil
		}
		name := validation.Clean(tag)
		exists, err := s.repo.TagExists(ctx, db, name)
		if err != nil {
			return results.OperationResult[TagClubs, error]{}, err
		}
		if !exists {
			return results.FailureResult[TagClubs, error](clubdb.ErrTagNotFound), nil
		}
		clubs, err := s.repo.ListByTag(ctx, db, name)
		if err != nil {
			return results.OperationResult[TagClubs, error]{}, err
		}
		return results.SuccessResult[TagClubs, error](TagClubs{Tag: name, Clubs: snapshots(clubs)}), nil
	})
}

// FavoritedBy lists the users who favorited a club.
func (s *ClubService) FavoritedBy(ctx context.Context, code string) (Favorites, error) {
	return operation.Run(s.runner, ctx, "FavoritedBy", code, func(ctx context.Context, db bun.IDB) (results.OperationResult[Favorites, error], error) {
		club, failure, err := s.load(ctx, db, code)
		if failure != nil || err != nil {
			return results.OperationResult[Favorites, error]{Failure: failure}, err
		}
		usernames, err := s.repo.FavoritedBy(ctx, db, club.Code)
		if err != nil {
			return results.OperationResult[Favorites, error]{}, err
		}
		if usernames == nil {
			usernames = []string{}
		}
		return results.SuccessResult[Favorites, error](Favorites{Club: club.Code, FavoritedBy: usernames}), nil
	})
}

// load validates code and fetches the club. A bad code or a missing club is
// reported as a failure.
func (s *ClubService) load(ctx context.Context, db bun.IDB, code string) (*clubdb.Club, *error, error) {
	if err := validation.ClubCode(code); err != nil {
		return nil, &err, nil
	}
	club, err := s.repo.GetByCode(ctx, db, clubdomain.NormalizeCode(code))
	if err != nil {
		if errors.Is(err, clubdb.ErrNotFound) {
			return nil, &err, nil
		}
		return nil, nil, err
	}
	return club, nil, nil
}

// domainFailure routes validation errors to a failure result and everything
// else (registry lookups that hit the database) to the error channel.
func domainFailure(err error) (clubResult, error) {
	if errors.Is(err, validation.ErrInvalid) {
		return results.FailureResult[clubdomain.View, error](err), nil
	}
	return clubResult{}, err
}

func snapshots(clubs []*clubdb.Club) []clubdomain.View {
	out := make([]clubdomain.View, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, c.ToDomain().Snapshot())
	}
	return out
}
