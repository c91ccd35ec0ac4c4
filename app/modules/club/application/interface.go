package clubservice

import (
	"context"
	"time"

	clubdomain "github.com/Black-And-White-Club/club-review/app/modules/club/domain"
)

// Service is the club use-case surface consumed by the HTTP handlers and the
// import command.
type Service interface {
	CreateClub(ctx context.Context, p clubdomain.Params) (clubdomain.View, error)
	ImportClub(ctx context.Context, p clubdomain.Params, createdAt time.Time) (clubdomain.View, error)
	GetClub(ctx context.Context, code string) (clubdomain.View, error)
	ListClubs(ctx context.Context) ([]clubdomain.View, error)
	SearchClubs(ctx context.Context, query string) ([]clubdomain.View, error)
	UpdateClub(ctx context.Context, code string, u Update) (clubdomain.View, error)
	DeleteClub(ctx context.Context, code string) error
	ClubsByTag(ctx context.Context, tag string) (TagClubs, error)
	FavoritedBy(ctx context.Context, code string) (Favorites, error)
}

// Update is a partial club update; nil fields are left alone. Tags, when
// set, replaces the chosen tags.
type Update struct {
	Name                  *string
	Description           *string
	MemberCount           *int
	UndergraduatesAllowed *bool
	GraduatesAllowed      *bool
	Tags                  *[]string
}

// TagClubs is the tag lookup response.
type TagClubs struct {
	Tag   string            `json:"tag"`
	Clubs []clubdomain.View `json:"clubs"`
}

// Favorites lists the usernames that favorited a club.
type Favorites struct {
	Club        string   `json:"club"`
	FavoritedBy []string `json:"favorited_by"`
}
