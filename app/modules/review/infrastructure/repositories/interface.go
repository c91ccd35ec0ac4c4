package reviewdb

import (
	"context"

	"github.com/uptrace/bun"
)

// SortField selects the ordering column for club reviews.
type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByRating    SortField = "rating"
)

// ClubFilter narrows and orders the reviews of one club.
type ClubFilter struct {
	SortBy    SortField
	Desc      bool
	MinRating int
}

// Repository defines the persistence contract for reviews. Every read joins
// in the author's username.
//
// Error semantics:
//   - ErrNotFound: requested review does not exist (Get* methods, Delete)
//   - ErrNoRowsAffected: UPDATE matched no rows
//   - other errors: infrastructure failures
type Repository interface {
	GetByID(ctx context.Context, db bun.IDB, id int64) (*Review, error)
	GetByUserAndClub(ctx context.Context, db bun.IDB, userID int64, code string) (*Review, error)

	// Page returns one page ordered by id together with the total count.
	Page(ctx context.Context, db bun.IDB, limit, offset int) ([]*Review, int, error)
	ListByClub(ctx context.Context, db bun.IDB, code string, f ClubFilter) ([]*Review, error)
	// ListByUser returns the user's reviews, newest first.
	ListByUser(ctx context.Context, db bun.IDB, userID int64) ([]*Review, error)

	// RatingCounts returns the number of reviews per rating for a club.
	RatingCounts(ctx context.Context, db bun.IDB, code string) (map[int]int, error)
	ClubName(ctx context.Context, db bun.IDB, code string) (string, error)

	// Insert writes the review row and sets its ID.
	Insert(ctx context.Context, db bun.IDB, review *Review) error
	Update(ctx context.Context, db bun.IDB, review *Review) error
	Delete(ctx context.Context, db bun.IDB, id int64) error
}
