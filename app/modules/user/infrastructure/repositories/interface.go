package userdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the persistence contract for users and their favorites.
//
// Error semantics:
//   - ErrNotFound: requested user does not exist (Get* methods, Delete)
//   - ErrNoRowsAffected: UPDATE matched no rows
//   - other errors: infrastructure failures
type Repository interface {
	GetByID(ctx context.Context, db bun.IDB, id int64) (*User, error)
	List(ctx context.Context, db bun.IDB) ([]*User, error)

	// Insert writes the user row and sets its ID.
	Insert(ctx context.Context, db bun.IDB, user *User) error
	Update(ctx context.Context, db bun.IDB, user *User) error
	Delete(ctx context.Context, db bun.IDB, id int64) error

	// AddFavorites links the user to every listed club that still exists and
	// returns the codes actually linked.
	AddFavorites(ctx context.Context, db bun.IDB, userID int64, codes []string) ([]string, error)
	// ReplaceFavorites rewrites the favorite links of a user.
	ReplaceFavorites(ctx context.Context, db bun.IDB, userID int64, codes []string) error
}
