package reviewservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/club-review/app/eventbus"
	"github.com/Black-And-White-Club/club-review/app/integrity"
	reviewdomain "github.com/Black-And-White-Club/club-review/app/modules/review/domain"
	reviewdb "github.com/Black-And-White-Club/club-review/app/modules/review/infrastructure/repositories"
	"github.com/Black-And-White-Club/club-review/app/shared/metrics"
	"github.com/Black-And-White-Club/club-review/app/validation"
)

var fixedNow = time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *FakeReviewRepo, reg *FakeRegistry, pub *FakePublisher) *ReviewService {
	if reg == nil {
		reg = &FakeRegistry{}
	}
	var publisher eventbus.Publisher
	if pub != nil {
		publisher = pub
	}
	svc := NewReviewService(
		repo,
		reg.Binder(),
		publisher,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics.NewNoop(),
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

// memoryRepo keeps rows in a map so that writes are visible to reloads.
func memoryRepo(rows ...*reviewdb.Review) *FakeReviewRepo {
	store := map[int64]*reviewdb.Review{}
	var nextID int64
	for _, r := range rows {
		store[r.ID] = r
		nextID = max(nextID, r.ID)
	}
	f := NewFakeReviewRepo()
	f.GetByIDFunc = func(_ context.Context, _ bun.IDB, id int64) (*reviewdb.Review, error) {
		if r, ok := store[id]; ok {
			cp := *r
			cp.Username = "josh"
			return &cp, nil
		}
		return nil, reviewdb.ErrNotFound
	}
	f.InsertFunc = func(_ context.Context, _ bun.IDB, r *reviewdb.Review) error {
		nextID++
		r.ID = nextID
		cp := *r
		store[r.ID] = &cp
		return nil
	}
	f.UpdateFunc = func(_ context.Context, _ bun.IDB, r *reviewdb.Review) error {
		if _, ok := store[r.ID]; !ok {
			return reviewdb.ErrNoRowsAffected
		}
		cp := *r
		store[r.ID] = &cp
		return nil
	}
	f.DeleteFunc = func(_ context.Context, _ bun.IDB, id int64) error {
		if _, ok := store[id]; !ok {
			return reviewdb.ErrNotFound
		}
		delete(store, id)
		return nil
	}
	return f
}

func stored() *reviewdb.Review {
	return &reviewdb.Review{
		ID: 7, UserID: 1, ClubCode: "pppjo", Rating: 8, Title: "Great club",
		CreatedAt: fixedNow.Add(-time.Hour), UpdatedAt: fixedNow.Add(-time.Hour),
	}
}

func validParams() reviewdomain.Params {
	return reviewdomain.Params{UserID: 1, ClubCode: "PPPJO", Rating: 9, Title: "Excellent jugglers"}
}

func TestReviewService_CreateReview(t *testing.T) {
	tests := []struct {
		name      string
		params    func() reviewdomain.Params
		reg       *FakeRegistry
		wantKind  validation.Kind
		wantTrace []string
	}{
		{
			name:      "success",
			params:    validParams,
			wantTrace: []string{"Insert", "GetByID"},
		},
		{
			name:      "rating out of range",
			params:    func() reviewdomain.Params { p := validParams(); p.Rating = 11; return p },
			wantKind:  validation.KindRange,
			wantTrace: []string{},
		},
		{
			name:   "unknown user",
			params: validParams,
			reg: &FakeRegistry{UserExistsFunc: func(context.Context, int64) (bool, error) {
				return false, nil
			}},
			wantKind:  validation.KindReference,
			wantTrace: []string{},
		},
		{
			name:   "second review of the same club",
			params: validParams,
			reg: &FakeRegistry{ReviewExistsFunc: func(context.Context, int64, string) (bool, error) {
				return true, nil
			}},
			wantKind:  validation.KindDuplicate,
			wantTrace: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memoryRepo()
			pub := &FakePublisher{}
			svc := newTestService(repo, tt.reg, pub)

			view, err := svc.CreateReview(context.Background(), tt.params())
			assert.Equal(t, tt.wantTrace, repo.Trace())
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, validation.IsKind(err, tt.wantKind), "got %v", err)
				assert.Empty(t, pub.Topics)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), view.ID)
			assert.Equal(t, "pppjo", view.ClubCode)
			assert.Equal(t, "josh", view.Username)
			assert.Equal(t, "", view.Text)
			assert.Equal(t, fixedNow, view.CreatedAt)
			assert.Equal(t, []string{eventbus.ReviewCreated}, pub.Topics)
		})
	}
}

func TestReviewService_CreateReview_UniqueViolationIsDuplicate(t *testing.T) {
	repo := memoryRepo()
	repo.InsertFunc = func(context.Context, bun.IDB, *reviewdb.Review) error {
		return validation.Fail("club_code", validation.KindDuplicate, "User has already reviewed this club")
	}
	svc := newTestService(repo, nil, nil)

	_, err := svc.CreateReview(context.Background(), validParams())
	require.Error(t, err)
	assert.True(t, validation.IsKind(err, validation.KindDuplicate))
}

func TestReviewService_UpdateReview(t *testing.T) {
	repo := memoryRepo(stored())
	pub := &FakePublisher{}
	svc := newTestService(repo, nil, pub)

	rating, text := 10, "Now with fire juggling"
	view, err := svc.UpdateReview(context.Background(), 7, Update{Rating: &rating, Text: &text})
	require.NoError(t, err)
	assert.Equal(t, 10, view.Rating)
	assert.Equal(t, "Great club", view.Title)
	assert.Equal(t, text, view.Text)
	assert.Equal(t, fixedNow.Add(-time.Hour), view.CreatedAt)
	assert.True(t, view.UpdatedAt.After(view.CreatedAt))
	assert.Equal(t, []string{"GetByID", "Update", "GetByID"}, repo.Trace())
	assert.Equal(t, []string{eventbus.ReviewUpdated}, pub.Topics)
}

func TestReviewService_UpdateReview_InvalidLeavesRowAlone(t *testing.T) {
	repo := memoryRepo(stored())
	svc := newTestService(repo, nil, nil)

	title := "no"
	_, err := svc.UpdateReview(context.Background(), 7, Update{Title: &title})
	assert.True(t, validation.IsKind(err, validation.KindLength))
	assert.Equal(t, []string{"GetByID"}, repo.Trace())
}

func TestReviewService_NotFound(t *testing.T) {
	svc := newTestService(memoryRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.GetReview(ctx, 99)
	assert.ErrorIs(t, err, integrity.ErrNotFound)
	assert.Equal(t, "Review not found", err.Error())

	_, err = svc.DeleteReview(ctx, 99)
	assert.ErrorIs(t, err, reviewdb.ErrNotFound)

	_, err = svc.UserClubReview(ctx, 1, "pppjo")
	assert.ErrorIs(t, err, reviewdb.ErrNotFound)
}

func TestReviewService_DeleteReview(t *testing.T) {
	repo := memoryRepo(stored())
	pub := &FakePublisher{}
	svc := newTestService(repo, nil, pub)

	view, err := svc.DeleteReview(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), view.ID)
	assert.Equal(t, []string{eventbus.ReviewDeleted}, pub.Topics)

	_, err = svc.GetReview(context.Background(), 7)
	assert.ErrorIs(t, err, reviewdb.ErrNotFound)
}

func TestReviewService_ListReviews(t *testing.T) {
	repo := NewFakeReviewRepo()
	var gotLimit, gotOffset int
	repo.PageFunc = func(_ context.Context, _ bun.IDB, limit, offset int) ([]*reviewdb.Review, int, error) {
		gotLimit, gotOffset = limit, offset
		return []*reviewdb.Review{stored()}, 21, nil
	}
	svc := newTestService(repo, nil, nil)

	page, err := svc.ListReviews(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
	assert.Equal(t, 21, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 3, page.CurrentPage)
	assert.Len(t, page.Reviews, 1)
}

func TestReviewService_ListReviews_Paging(t *testing.T) {
	svc := newTestService(NewFakeReviewRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.ListReviews(ctx, 1, 101)
	require.Error(t, err)
	assert.Equal(t, "per_page cannot exceed 100", err.Error())

	_, err = svc.ListReviews(ctx, 0, 10)
	assert.True(t, validation.IsKind(err, validation.KindRange))

	page, err := svc.ListReviews(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Pages)
	assert.NotNil(t, page.Reviews)
}

func TestReviewService_ListReviews_OffsetOverflow(t *testing.T) {
	repo := NewFakeReviewRepo()
	var gotOffset int
	repo.PageFunc = func(_ context.Context, _ bun.IDB, limit, offset int) ([]*reviewdb.Review, int, error) {
		gotOffset = offset
		return nil, 0, nil
	}
	svc := newTestService(repo, nil, nil)
	ctx := context.Background()

	_, err := svc.ListReviews(ctx, math.MaxInt, 10)
	assert.True(t, validation.IsKind(err, validation.KindRange), "got %v", err)
	_, err = svc.ListReviews(ctx, math.MaxInt32/100+2, 100)
	assert.True(t, validation.IsKind(err, validation.KindRange), "got %v", err)

	last := math.MaxInt32/100 + 1
	_, err = svc.ListReviews(ctx, last, 100)
	require.NoError(t, err)
	assert.Equal(t, (last-1)*100, gotOffset)
	assert.LessOrEqual(t, gotOffset, math.MaxInt32)
}

func TestReviewService_ClubReviews(t *testing.T) {
	repo := NewFakeReviewRepo()
	var got reviewdb.ClubFilter
	repo.ListByClubFunc = func(_ context.Context, _ bun.IDB, code string, f reviewdb.ClubFilter) ([]*reviewdb.Review, error) {
		assert.Equal(t, "pppjo", code)
		got = f
		return []*reviewdb.Review{stored()}, nil
	}
	svc := newTestService(repo, nil, nil)

	views, err := svc.ClubReviews(context.Background(), " PPPJO", ClubQuery{SortBy: "rating", Order: "asc", MinRating: 6})
	require.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, reviewdb.ClubFilter{SortBy: reviewdb.SortByRating, Desc: false, MinRating: 6}, got)

	_, err = svc.ClubReviews(context.Background(), "pppjo", ClubQuery{SortBy: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, reviewdb.ClubFilter{SortBy: reviewdb.SortByCreatedAt, Desc: true}, got)
}

func TestReviewService_ClubReviews_UnknownClub(t *testing.T) {
	repo := NewFakeReviewRepo()
	reg := &FakeRegistry{ClubExistsFunc: func(context.Context, string) (bool, error) { return false, nil }}
	svc := newTestService(repo, reg, nil)

	_, err := svc.ClubReviews(context.Background(), "chess", ClubQuery{})
	assert.ErrorIs(t, err, reviewdb.ErrClubNotFound)
	assert.Equal(t, "Club not found", err.Error())
	assert.Empty(t, repo.Trace())
}

func TestReviewService_ClubStats(t *testing.T) {
	repo := NewFakeReviewRepo()
	repo.ClubNameFunc = func(context.Context, bun.IDB, string) (string, error) { return "Juggling", nil }
	repo.RatingCountsFunc = func(context.Context, bun.IDB, string) (map[int]int, error) {
		return map[int]int{8: 1, 6: 1}, nil
	}
	svc := newTestService(repo, nil, nil)

	stats, err := svc.ClubStats(context.Background(), "pppjo")
	require.NoError(t, err)
	assert.Equal(t, "Juggling", stats.ClubName)
	assert.Equal(t, 2, stats.TotalReviews)
	assert.Equal(t, 7.0, stats.AverageRating)
	assert.Len(t, stats.RatingDistribution, 10)

	repo.ClubNameFunc = nil
	_, err = svc.ClubStats(context.Background(), "chess")
	assert.ErrorIs(t, err, reviewdb.ErrClubNotFound)
}

func TestReviewService_UserReviews(t *testing.T) {
	repo := NewFakeReviewRepo()
	repo.ListByUserFunc = func(_ context.Context, _ bun.IDB, userID int64) ([]*reviewdb.Review, error) {
		return []*reviewdb.Review{stored()}, nil
	}
	reg := &FakeRegistry{UserExistsFunc: func(_ context.Context, id int64) (bool, error) { return id == 1, nil }}
	svc := newTestService(repo, reg, nil)

	views, err := svc.UserReviews(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, views, 1)

	_, err = svc.UserReviews(context.Background(), 2)
	assert.ErrorIs(t, err, reviewdb.ErrUserNotFound)
}

func TestReviewService_InfrastructureError(t *testing.T) {
	boom := errors.New("connection reset")
	repo := NewFakeReviewRepo()
	repo.GetByIDFunc = func(context.Context, bun.IDB, int64) (*reviewdb.Review, error) { return nil, boom }
	svc := newTestService(repo, nil, nil)

	_, err := svc.GetReview(context.Background(), 7)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, validation.ErrInvalid)
}
