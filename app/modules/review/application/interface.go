package reviewservice

import (
	"context"

	reviewdomain "github.com/Black-And-White-Club/club-review/app/modules/review/domain"
)

// Service is the review use-case surface.
type Service interface {
	CreateReview(ctx context.Context, p reviewdomain.Params) (reviewdomain.View, error)
	GetReview(ctx context.Context, id int64) (reviewdomain.View, error)
	ListReviews(ctx context.Context, page, perPage int) (Page, error)
	UpdateReview(ctx context.Context, id int64, u Update) (reviewdomain.View, error)
	// DeleteReview returns the snapshot of the removed review.
	DeleteReview(ctx context.Context, id int64) (reviewdomain.View, error)

	ClubReviews(ctx context.Context, code string, q ClubQuery) ([]reviewdomain.View, error)
	ClubStats(ctx context.Context, code string) (reviewdomain.Stats, error)
	UserReviews(ctx context.Context, userID int64) ([]reviewdomain.View, error)
	UserClubReview(ctx context.Context, userID int64, code string) (reviewdomain.View, error)
}

// Update is a partial review update; nil fields are left alone.
type Update struct {
	Rating *int
	Title  *string
	Text   *string
}

// ClubQuery selects and orders a club's reviews. SortBy is "rating" or
// anything else for creation time; Order is "asc", anything else meaning
// descending. MinRating 0 disables the filter.
type ClubQuery struct {
	SortBy    string
	Order     string
	MinRating int
}

// Page is one page of the review listing.
type Page struct {
	Reviews     []reviewdomain.View `json:"reviews"`
	Total       int                 `json:"total"`
	Pages       int                 `json:"pages"`
	CurrentPage int                 `json:"current_page"`
}

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)
