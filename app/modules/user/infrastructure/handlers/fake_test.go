package userhandlers

import (
	"context"

	userservice "github.com/Black-And-White-Club/club-review/app/modules/user/application"
	userdomain "github.com/Black-And-White-Club/club-review/app/modules/user/domain"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	CreateUserFunc     func(ctx context.Context, p userdomain.Params) (userdomain.View, error)
	GetUserFunc        func(ctx context.Context, id int64) (userdomain.View, error)
	ListUsersFunc      func(ctx context.Context) ([]userdomain.View, error)
	UpdateUserFunc     func(ctx context.Context, id int64, u userservice.Update) (userdomain.View, error)
	DeleteUserFunc     func(ctx context.Context, id int64) (userdomain.View, error)
	AddFavoriteFunc    func(ctx context.Context, id int64, code string) (userdomain.View, error)
	RemoveFavoriteFunc func(ctx context.Context, id int64, code string) (userdomain.View, error)
}

func (f *FakeService) CreateUser(ctx context.Context, p userdomain.Params) (userdomain.View, error) {
	if f.CreateUserFunc != nil {
		return f.CreateUserFunc(ctx, p)
	}
	return userdomain.View{ID: 1, Username: p.Username, Email: p.Email, Favorites: p.Favorites}, nil
}

func (f *FakeService) GetUser(ctx context.Context, id int64) (userdomain.View, error) {
	if f.GetUserFunc != nil {
		return f.GetUserFunc(ctx, id)
	}
	return userdomain.View{ID: id}, nil
}

func (f *FakeService) ListUsers(ctx context.Context) ([]userdomain.View, error) {
	if f.ListUsersFunc != nil {
		return f.ListUsersFunc(ctx)
	}
	return []userdomain.View{}, nil
}

func (f *FakeService) UpdateUser(ctx context.Context, id int64, u userservice.Update) (userdomain.View, error) {
	if f.UpdateUserFunc != nil {
		return f.UpdateUserFunc(ctx, id, u)
	}
	return userdomain.View{ID: id}, nil
}

func (f *FakeService) DeleteUser(ctx context.Context, id int64) (userdomain.View, error) {
	if f.DeleteUserFunc != nil {
		return f.DeleteUserFunc(ctx, id)
	}
	return userdomain.View{ID: id, Username: "josh"}, nil
}

func (f *FakeService) AddFavorite(ctx context.Context, id int64, code string) (userdomain.View, error) {
	if f.AddFavoriteFunc != nil {
		return f.AddFavoriteFunc(ctx, id, code)
	}
	return userdomain.View{ID: id, Favorites: []string{code}}, nil
}

func (f *FakeService) RemoveFavorite(ctx context.Context, id int64, code string) (userdomain.View, error) {
	if f.RemoveFavoriteFunc != nil {
		return f.RemoveFavoriteFunc(ctx, id, code)
	}
	return userdomain.View{ID: id, Favorites: []string{}}, nil
}

var _ userservice.Service = (*FakeService)(nil)
