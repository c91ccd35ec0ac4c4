package reviewdb

import (
	"time"

	"github.com/uptrace/bun"

	reviewdomain "github.com/Black-And-White-Club/club-review/app/modules/review/domain"
)

// Review is the reviews row. Username is filled from users on read.
type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`
	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        int64     `bun:"user_id,notnull"`
	ClubCode      string    `bun:"club_code,notnull"`
	Rating        int       `bun:"rating,notnull"`
	Title         string    `bun:"title,notnull"`
	Text          string    `bun:"text,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Username string `bun:"username,scanonly"`
}

// ratingCount is one row of the per-rating aggregate.
type ratingCount struct {
	Rating int `bun:"rating"`
	Count  int `bun:"count"`
}

// FromDomain copies the entity into a row.
func FromDomain(r *reviewdomain.Review) *Review {
	return &Review{
		ID:        r.ID(),
		UserID:    r.UserID(),
		ClubCode:  r.ClubCode(),
		Rating:    r.Rating(),
		Title:     r.Title(),
		Text:      r.Text(),
		CreatedAt: r.CreatedAt(),
		UpdatedAt: r.UpdatedAt(),
		Username:  r.Username(),
	}
}

// ToDomain rebuilds the entity.
func (r *Review) ToDomain() *reviewdomain.Review {
	return reviewdomain.Restore(reviewdomain.Record{
		ID:        r.ID,
		UserID:    r.UserID,
		ClubCode:  r.ClubCode,
		Rating:    r.Rating,
		Title:     r.Title,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Username:  r.Username,
	})
}
