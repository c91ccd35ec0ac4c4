package userservice

import (
	"context"

	userdomain "github.com/Black-And-White-Club/club-review/app/modules/user/domain"
)

// Service is the user use-case surface.
type Service interface {
	CreateUser(ctx context.Context, p userdomain.Params) (userdomain.View, error)
	GetUser(ctx context.Context, id int64) (userdomain.View, error)
	ListUsers(ctx context.Context) ([]userdomain.View, error)
	UpdateUser(ctx context.Context, id int64, u Update) (userdomain.View, error)
	// DeleteUser returns the snapshot of the removed user.
	DeleteUser(ctx context.Context, id int64) (userdomain.View, error)
	AddFavorite(ctx context.Context, id int64, code string) (userdomain.View, error)
	RemoveFavorite(ctx context.Context, id int64, code string) (userdomain.View, error)
}

// Update is a partial user update; nil fields are left alone. Favorites,
// when set, replaces the favorite set.
type Update struct {
	Username  *string
	Email     *string
	Favorites *[]string
}
