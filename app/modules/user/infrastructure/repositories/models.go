package userdb

import (
	"time"

	"github.com/uptrace/bun"

	userdomain "github.com/Black-And-White-Club/club-review/app/modules/user/domain"
)

// User is the users row.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Username      string    `bun:"username,notnull,unique"`
	Email         string    `bun:"email,notnull,unique"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`

	Favorites []string `bun:"-"`
}

// Favorite links a user to a club.
type Favorite struct {
	bun.BaseModel `bun:"table:user_favorites,alias:uf"`
	UserID        int64     `bun:"user_id,pk"`
	ClubCode      string    `bun:"club_code,pk"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// FromDomain copies the entity into a row.
func FromDomain(u *userdomain.User) *User {
	return &User{
		ID:        u.ID(),
		Username:  u.Username(),
		Email:     u.Email(),
		CreatedAt: u.CreatedAt(),
		Favorites: u.Favorites(),
	}
}

// ToDomain rebuilds the entity.
func (u *User) ToDomain() *userdomain.User {
	return userdomain.Restore(userdomain.Record{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Favorites: u.Favorites,
	})
}
