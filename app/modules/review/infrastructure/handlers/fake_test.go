package reviewhandlers

import (
	"context"

	reviewservice "github.com/Black-And-White-Club/club-review/app/modules/review/application"
	reviewdomain "github.com/Black-And-White-Club/club-review/app/modules/review/domain"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	CreateReviewFunc   func(ctx context.Context, p reviewdomain.Params) (reviewdomain.View, error)
	GetReviewFunc      func(ctx context.Context, id int64) (reviewdomain.View, error)
	ListReviewsFunc    func(ctx context.Context, page, perPage int) (reviewservice.Page, error)
	UpdateReviewFunc   func(ctx context.Context, id int64, u reviewservice.Update) (reviewdomain.View, error)
	DeleteReviewFunc   func(ctx context.Context, id int64) (reviewdomain.View, error)
	ClubReviewsFunc    func(ctx context.Context, code string, q reviewservice.ClubQuery) ([]reviewdomain.View, error)
	ClubStatsFunc      func(ctx context.Context, code string) (reviewdomain.Stats, error)
	UserReviewsFunc    func(ctx context.Context, userID int64) ([]reviewdomain.View, error)
	UserClubReviewFunc func(ctx context.Context, userID int64, code string) (reviewdomain.View, error)
}

func (f *FakeService) CreateReview(ctx context.Context, p reviewdomain.Params) (reviewdomain.View, error) {
	if f.CreateReviewFunc != nil {
		return f.CreateReviewFunc(ctx, p)
	}
	return reviewdomain.View{ID: 1, UserID: p.UserID, ClubCode: p.ClubCode, Rating: p.Rating, Title: p.Title, Text: p.Text}, nil
}

func (f *FakeService) GetReview(ctx context.Context, id int64) (reviewdomain.View, error) {
	if f.GetReviewFunc != nil {
		return f.GetReviewFunc(ctx, id)
	}
	return reviewdomain.View{ID: id}, nil
}

func (f *FakeService) ListReviews(ctx context.Context, page, perPage int) (reviewservice.Page, error) {
	if f.ListReviewsFunc != nil {
		return f.ListReviewsFunc(ctx, page, perPage)
	}
	return reviewservice.Page{Reviews: []reviewdomain.View{}, CurrentPage: page}, nil
}

func (f *FakeService) UpdateReview(ctx context.Context, id int64, u reviewservice.Update) (reviewdomain.View, error) {
	if f.UpdateReviewFunc != nil {
		return f.UpdateReviewFunc(ctx, id, u)
	}
	return reviewdomain.View{ID: id}, nil
}

func (f *FakeService) DeleteReview(ctx context.Context, id int64) (reviewdomain.View, error) {
	if f.DeleteReviewFunc != nil {
		return f.DeleteReviewFunc(ctx, id)
	}
	return reviewdomain.View{ID: id}, nil
}

func (f *FakeService) ClubReviews(ctx context.Context, code string, q reviewservice.ClubQuery) ([]reviewdomain.View, error) {
	if f.ClubReviewsFunc != nil {
		return f.ClubReviewsFunc(ctx, code, q)
	}
	return []reviewdomain.View{}, nil
}

func (f *FakeService) ClubStats(ctx context.Context, code string) (reviewdomain.Stats, error) {
	if f.ClubStatsFunc != nil {
		return f.ClubStatsFunc(ctx, code)
	}
	return reviewdomain.NewStats(code, "", reviewdomain.NewDistribution()), nil
}

func (f *FakeService) UserReviews(ctx context.Context, userID int64) ([]reviewdomain.View, error) {
	if f.UserReviewsFunc != nil {
		return f.UserReviewsFunc(ctx, userID)
	}
	return []reviewdomain.View{}, nil
}

func (f *FakeService) UserClubReview(ctx context.Context, userID int64, code string) (reviewdomain.View, error) {
	if f.UserClubReviewFunc != nil {
		return f.UserClubReviewFunc(ctx, userID, code)
	}
	return reviewdomain.View{UserID: userID, ClubCode: code}, nil
}

var _ reviewservice.Service = (*FakeService)(nil)
