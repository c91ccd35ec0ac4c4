package clubhandlers

import (
	"context"
	"time"

	clubservice "github.com/Black-And-White-Club/club-review/app/modules/club/application"
	clubdomain "github.com/Black-And-White-Club/club-review/app/modules/club/domain"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	CreateClubFunc  func(ctx context.Context, p clubdomain.Params) (clubdomain.View, error)
	ImportClubFunc  func(ctx context.Context, p clubdomain.Params, createdAt time.Time) (clubdomain.View, error)
	GetClubFunc     func(ctx context.Context, code string) (clubdomain.View, error)
	ListClubsFunc   func(ctx context.Context) ([]clubdomain.View, error)
	SearchClubsFunc func(ctx context.Context, query string) ([]clubdomain.View, error)
	UpdateClubFunc  func(ctx context.Context, code string, u clubservice.Update) (clubdomain.View, error)
	DeleteClubFunc  func(ctx context.Context, code string) error
	ClubsByTagFunc  func(ctx context.Context, tag string) (clubservice.TagClubs, error)
	FavoritedByFunc func(ctx context.Context, code string) (clubservice.Favorites, error)
}

func (f *FakeService) CreateClub(ctx context.Context, p clubdomain.Params) (clubdomain.View, error) {
	if f.CreateClubFunc != nil {
		return f.CreateClubFunc(ctx, p)
	}
	return clubdomain.View{Code: p.Code}, nil
}

func (f *FakeService) ImportClub(ctx context.Context, p clubdomain.Params, createdAt time.Time) (clubdomain.View, error) {
	if f.ImportClubFunc != nil {
		return f.ImportClubFunc(ctx, p, createdAt)
	}
	return clubdomain.View{Code: p.Code, DateCreated: createdAt}, nil
}

func (f *FakeService) GetClub(ctx context.Context, code string) (clubdomain.View, error) {
	if f.GetClubFunc != nil {
		return f.GetClubFunc(ctx, code)
	}
	return clubdomain.View{Code: code}, nil
}

func (f *FakeService) ListClubs(ctx context.Context) ([]clubdomain.View, error) {
	if f.ListClubsFunc != nil {
		return f.ListClubsFunc(ctx)
	}
	return []clubdomain.View{}, nil
}

func (f *FakeService) SearchClubs(ctx context.Context, query string) ([]clubdomain.View, error) {
	if f.SearchClubsFunc != nil {
		return f.SearchClubsFunc(ctx, query)
	}
	return []clubdomain.View{}, nil
}

func (f *FakeService) UpdateClub(ctx context.Context, code string, u clubservice.Update) (clubdomain.View, error) {
	if f.UpdateClubFunc != nil {
		return f.UpdateClubFunc(ctx, code, u)
	}
	return clubdomain.View{Code: code}, nil
}

func (f *FakeService) DeleteClub(ctx context.Context, code string) error {
	if f.DeleteClubFunc != nil {
		return f.DeleteClubFunc(ctx, code)
	}
	return nil
}

func (f *FakeService) ClubsByTag(ctx context.Context, tag string) (clubservice.TagClubs, error) {
	if f.ClubsByTagFunc != nil {
		return f.ClubsByTagFunc(ctx, tag)
	}
	return clubservice.TagClubs{Tag: tag, Clubs: []clubdomain.View{}}, nil
}

func (f *FakeService) FavoritedBy(ctx context.Context, code string) (clubservice.Favorites, error) {
	if f.FavoritedByFunc != nil {
		return f.FavoritedByFunc(ctx, code)
	}
	return clubservice.Favorites{Club: code, FavoritedBy: []string{}}, nil
}

var _ clubservice.Service = (*FakeService)(nil)
