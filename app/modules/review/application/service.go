package reviewservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/club-review/app/eventbus"
	"github.com/Black-And-White-Club/club-review/app/integrity"
	reviewdomain "github.com/Black-And-White-Club/club-review/app/modules/review/domain"
	reviewdb "github.com/Black-And-White-Club/club-review/app/modules/review/infrastructure/repositories"
	"github.com/Black-And-White-Club/club-review/app/shared/metrics"
	"github.com/Black-And-White-Club/club-review/app/shared/operation"
	"github.com/Black-And-White-Club/club-review/app/shared/results"
	"github.com/Black-And-White-Club/club-review/app/validation"
)

type (
	reviewResult = results.OperationResult[reviewdomain.View, error]
	listResult   = results.OperationResult[[]reviewdomain.View, error]
)

// ReviewService implements the Service interface.
type ReviewService struct {
	repo      reviewdb.Repository
	bind      integrity.Binder
	publisher eventbus.Publisher
	runner    *operation.Runner
	logger    *slog.Logger
	now       func() time.Time
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	repo reviewdb.Repository,
	bind integrity.Binder,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ReviewService {
	runner := operation.NewRunner("ReviewService", logger, m, tracer, db)
	if bind == nil {
		bind = integrity.Bind
	}
	if publisher == nil {
		publisher = eventbus.Discard{}
	}
	return &ReviewService{
		repo:      repo,
		bind:      bind,
		publisher: publisher,
		runner:    runner,
		logger:    runner.Logger,
		now:       time.Now,
	}
}

// CreateReview validates and stores a review. A second review of the same
// club by the same user is a duplicate.
func (s *ReviewService) CreateReview(ctx context.Context, p reviewdomain.Params) (reviewdomain.View, error) {
	identifier := idString(p.UserID) + "/" + p.ClubCode
	view, err := operation.Run(s.runner, ctx, "CreateReview", identifier, func(ctx context.Context, db bun.IDB) (reviewResult, error) {
		review, err := reviewdomain.NewReview(ctx, s.bind(db), p, s.now())
		if err != nil {
			return domainFailure(err)
		}
		row := reviewdb.FromDomain(review)
		if err := s.repo.Insert(ctx, db, row); err != nil {
			return reviewResult{}, err
		}
		return s.reload(ctx, db, row.ID)
	})
	if err != nil {
		return reviewdomain.View{}, err
	}
	eventbus.PublishAfterCommit(ctx, s.publisher, s.logger, eventbus.ReviewCreated, view)
	return view, nil
}

// GetReview returns one review.
func (s *ReviewService) GetReview(ctx context.Context, id int64) (reviewdomain.View, error) {
	return operation.Run(s.runner, ctx, "GetReview", idString(id), func(ctx context.Context, db bun.IDB) (reviewResult, error) {
		row, failure, err := s.load(ctx, db, id)
		if failure != nil || err != nil {
			return reviewResult{Failure: failure}, err
		}
		return results.SuccessResult[reviewdomain.View, error](row.ToDomain().Snapshot()), nil
	})
}

// ListReviews returns one page of all reviews ordered by id. A page past
// the end is empty.
func (s *ReviewService) ListReviews(ctx context.Context, page, perPage int) (Page, error) {
	return operation.Run(s.runner, ctx, "ListReviews", strconv.Itoa(page), func(ctx context.Context, db bun.IDB) (results.OperationResult[Page, error], error) {
		if err := checkPaging(page, perPage); err != nil {
			return results.FailureResult[Page, error](err), nil
		}
		rows, total, err := s.repo.Page(ctx, db, perPage, (page-1)*perPage)
		if err != nil {
			return results.OperationResult[Page, error]{}, err
		}
		return results.SuccessResult[Page, error](Page{
			Reviews:     snapshots(rows),
			Total:       total,
			Pages:       (total + perPage - 1) / perPage,
			CurrentPage: page,
		}), nil
	})
}

// UpdateReview applies a partial update. Every accepted change moves
// updated_at forward.
func (s *ReviewService) UpdateReview(ctx context.Context, id int64, u Update) (reviewdomain.View, error) {
	view, err := operation.Run(s.runner, ctx, "UpdateReview", idString(id), func(ctx context.Context, db bun.IDB) (reviewResult, error) {
		row, failure, err := s.load(ctx, db, id)
		if failure != nil || err != nil {
			return reviewResult{Failure: failure}, err
		}
		review := row.ToDomain()
		now := s.now()

		if u.Rating != nil {
			if err := review.UpdateRating(*u.Rating, now); err != nil {
				return domainFailure(err)
			}
		}
		if u.Title != nil {
			if err := review.UpdateTitle(*u.Title, now); err != nil {
				return domainFailure(err)
			}
		}
		if u.Text != nil {
			if err := review.UpdateText(*u.Text, now); err != nil {
				return domainFailure(err)
			}
		}

		if err := s.repo.Update(ctx, db, reviewdb.FromDomain(review)); err != nil {
			if errors.Is(err, reviewdb.ErrNoRowsAffected) {
				return results.FailureResult[reviewdomain.View, error](reviewdb.ErrNotFound), nil
			}
			return reviewResult{}, err
		}
		return s.reload(ctx, db, id)
	})
	if err != nil {
		return reviewdomain.View{}, err
	}
	eventbus.PublishAfterCommit(ctx, s.publisher, s.logger, eventbus.ReviewUpdated, view)
	return view, nil
}

// DeleteReview removes a review.
func (s *ReviewService) DeleteReview(ctx context.Context, id int64) (reviewdomain.View, error) {
	view, err := operation.Run(s.runner, ctx, "DeleteReview", idString(id), func(ctx context.Context, db bun.IDB) (reviewResult, error) {
		row, failure, err := s.load(ctx, db, id)
		if failure != nil || err != nil {
			return reviewResult{Failure: failure}, err
		}
		if err := s.repo.Delete(ctx, db, id); err != nil {
			if errors.Is(err, reviewdb.ErrNotFound) {
				return results.FailureResult[reviewdomain.View, error](err), nil
			}
			return reviewResult{}, err
		}
		return results.SuccessResult[reviewdomain.View, error](row.ToDomain().Snapshot()), nil
	})
	if err != nil {
		return reviewdomain.View{}, err
	}
	eventbus.PublishAfterCommit(ctx, s.publisher, s.logger, eventbus.ReviewDeleted, view)
	return view, nil
}

// ClubReviews lists the reviews of an existing club.
func (s *ReviewService) ClubReviews(ctx context.Context, code string, q ClubQuery) ([]reviewdomain.View, error) {
	code = normalizeCode(code)
	return operation.Run(s.runner, ctx, "ClubReviews", code, func(ctx context.Context, db bun.IDB) (listResult, error) {
		exists, err := s.bind(db).ClubExists(ctx, code)
		if err != nil {
			return listResult{}, err
		}
		if !exists {
			return results.FailureResult[[]reviewdomain.View, error](reviewdb.ErrClubNotFound), nil
		}

		filter := reviewdb.ClubFilter{
			SortBy:    reviewdb.SortByCreatedAt,
			Desc:      !strings.EqualFold(q.Order, "asc"),
			MinRating: q.MinRating,
		}
		if strings.EqualFold(q.SortBy, string(reviewdb.SortByRating)) {
			filter.SortBy = reviewdb.SortByRating
		}
		rows, err := s.repo.ListByClub(ctx, db, code, filter)
		if err != nil {
			return listResult{}, err
		}
		return results.SuccessResult[[]reviewdomain.View, error](snapshots(rows)), nil
	})
}

// ClubStats summarizes the ratings of an existing club.
func (s *ReviewService) ClubStats(ctx context.Context, code string) (reviewdomain.Stats, error) {
	code = normalizeCode(code)
	return operation.Run(s.runner, ctx, "ClubStats", code, func(ctx context.Context, db bun.IDB) (results.OperationResult[reviewdomain.Stats, error], error) {
		name, err := s.repo.ClubName(ctx, db, code)
		if err != nil {
			if errors.Is(err, reviewdb.ErrClubNotFound) {
				return results.FailureResult[reviewdomain.Stats, error](err), nil
			}
			return results.OperationResult[reviewdomain.Stats, error]{}, err
		}
		counts, err := s.repo.RatingCounts(ctx, db, code)
		if err != nil {
			return results.OperationResult[reviewdomain.Stats, error]{}, err
		}
		dist := reviewdomain.NewDistribution()
		for rating, n := range counts {
			dist.Add(rating, n)
		}
		return results.SuccessResult[reviewdomain.Stats, error](reviewdomain.NewStats(code, name, dist)), nil
	})
}

// UserReviews lists an existing user's reviews, newest first.
func (s *ReviewService) UserReviews(ctx context.Context, userID int64) ([]reviewdomain.View, error) {
	return operation.Run(s.runner, ctx, "UserReviews", idString(userID), func(ctx context.Context, db bun.IDB) (listResult, error) {
		exists, err := s.bind(db).UserExists(ctx, userID)
		if err != nil {
			return listResult{}, err
		}
		if !exists {
			return results.FailureResult[[]reviewdomain.View, error](reviewdb.ErrUserNotFound), nil
		}
		rows, err := s.repo.ListByUser(ctx, db, userID)
		if err != nil {
			return listResult{}, err
		}
		return results.SuccessResult[[]reviewdomain.View, error](snapshots(rows)), nil
	})
}

// UserClubReview returns the review a user wrote for a club.
func (s *ReviewService) UserClubReview(ctx context.Context, userID int64, code string) (reviewdomain.View, error) {
	code = normalizeCode(code)
	return operation.Run(s.runner, ctx, "UserClubReview", idString(userID)+"/"+code, func(ctx context.Context, db bun.IDB) (reviewResult, error) {
		row, err := s.repo.GetByUserAndClub(ctx, db, userID, code)
		if err != nil {
			if errors.Is(err, reviewdb.ErrNotFound) {
				return results.FailureResult[reviewdomain.View, error](err), nil
			}
			return reviewResult{}, err
		}
		return results.SuccessResult[reviewdomain.View, error](row.ToDomain().Snapshot()), nil
	})
}

func (s *ReviewService) load(ctx context.Context, db bun.IDB, id int64) (*reviewdb.Review, *error, error) {
	row, err := s.repo.GetByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, reviewdb.ErrNotFound) {
			return nil, &err, nil
		}
		return nil, nil, err
	}
	return row, nil, nil
}

// reload reads the stored row back so the view carries the author's
// username.
func (s *ReviewService) reload(ctx context.Context, db bun.IDB, id int64) (reviewResult, error) {
	stored, err := s.repo.GetByID(ctx, db, id)
	if err != nil {
		return reviewResult{}, fmt.Errorf("failed to reload review: %w", err)
	}
	return results.SuccessResult[reviewdomain.View, error](stored.ToDomain().Snapshot()), nil
}

func checkPaging(page, perPage int) error {
	if page < 1 {
		return validation.Fail("page", validation.KindRange, "page must be at least 1")
	}
	if perPage < 1 {
		return validation.Fail("per_page", validation.KindRange, "per_page must be at least 1")
	}
	if perPage > MaxPerPage {
		return validation.Fail("per_page", validation.KindRange, "per_page cannot exceed %d", MaxPerPage)
	}
	if page-1 > math.MaxInt32/perPage {
		return validation.Fail("page", validation.KindRange, "page is too large")
	}
	return nil
}

func snapshots(rows []*reviewdb.Review) []reviewdomain.View {
	views := make([]reviewdomain.View, 0, len(rows))
	for _, r := range rows {
		views = append(views, r.ToDomain().Snapshot())
	}
	return views
}

// domainFailure routes validation errors to a failure result and registry
// errors to the error channel.
func domainFailure(err error) (reviewResult, error) {
	if errors.Is(err, validation.ErrInvalid) {
		return results.FailureResult[reviewdomain.View, error](err), nil
	}
	return reviewResult{}, err
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
