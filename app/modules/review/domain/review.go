package reviewdomain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Black-And-White-Club/club-review/app/validation"
)

const (
	MinRating      = 1
	MaxRating      = 10
	TitleMinLength = 4
	TitleMaxLength = 200
	TextMaxLength  = 5000
)

var (
	ratingRule = validation.IntRule{Min: MinRating, Max: MaxRating}
	titleRule  = validation.StringRule{Min: TitleMinLength, Max: TitleMaxLength}
	textRule   = validation.StringRule{Min: 1, Max: TextMaxLength}
)

// Registry answers the existence questions review creation depends on.
type Registry interface {
	UserExists(ctx context.Context, id int64) (bool, error)
	ClubExists(ctx context.Context, code string) (bool, error)
	ReviewExists(ctx context.Context, userID int64, clubCode string) (bool, error)
}

// Params is the raw input to NewReview.
type Params struct {
	UserID   int64
	ClubCode string
	Rating   int
	Title    string
	Text     string
}

// Review is one user's rating of one club.
type Review struct {
	id        int64
	userID    int64
	clubCode  string
	rating    int
	title     string
	text      string
	createdAt time.Time
	updatedAt time.Time
	username  string
}

// NewReview validates p, checks that both the user and the club exist and
// that the user has not reviewed the club yet.
func NewReview(ctx context.Context, reg Registry, p Params, now time.Time) (*Review, error) {
	if _, err := validation.Integer(p.Rating, "rating", ratingRule); err != nil {
		return nil, err
	}
	if err := validation.String(p.Title, "title", titleRule); err != nil {
		return nil, err
	}
	text, err := cleanText(p.Text)
	if err != nil {
		return nil, err
	}
	if p.UserID <= 0 {
		return nil, validation.Fail("user_id", validation.KindRange, "user_id must be a positive integer")
	}
	if err := validation.ClubCode(p.ClubCode); err != nil {
		return nil, err
	}
	code := strings.ToLower(strings.TrimSpace(p.ClubCode))

	userExists, err := reg.UserExists(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !userExists {
		return nil, validation.Fail("user_id", validation.KindReference, "User %d does not exist", p.UserID)
	}
	clubExists, err := reg.ClubExists(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to check club code: %w", err)
	}
	if !clubExists {
		return nil, validation.Fail("club_code", validation.KindReference, "Club %s does not exist", code)
	}
	reviewed, err := reg.ReviewExists(ctx, p.UserID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if reviewed {
		return nil, validation.Fail("club_code", validation.KindDuplicate, "User %d has already reviewed club %s", p.UserID, code)
	}

	created := storageTime(now)
	return &Review{
		userID:    p.UserID,
		clubCode:  code,
		rating:    p.Rating,
		title:     validation.Clean(p.Title),
		text:      text,
		createdAt: created,
		updatedAt: created,
	}, nil
}

// Record is the persisted shape of a review. Username is the author's
// username, joined in on read.
type Record struct {
	ID        int64
	UserID    int64
	ClubCode  string
	Rating    int
	Title     string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
}

// Restore rebuilds a review from storage.
func Restore(r Record) *Review {
	return &Review{
		id:        r.ID,
		userID:    r.UserID,
		clubCode:  r.ClubCode,
		rating:    r.Rating,
		title:     r.Title,
		text:      r.Text,
		createdAt: r.CreatedAt,
		updatedAt: r.UpdatedAt,
		username:  r.Username,
	}
}

func (r *Review) ID() int64            { return r.id }
func (r *Review) UserID() int64        { return r.userID }
func (r *Review) ClubCode() string     { return r.clubCode }
func (r *Review) Rating() int          { return r.rating }
func (r *Review) Title() string        { return r.title }
func (r *Review) Text() string         { return r.text }
func (r *Review) CreatedAt() time.Time { return r.createdAt }
func (r *Review) UpdatedAt() time.Time { return r.updatedAt }
func (r *Review) Username() string     { return r.username }

func (r *Review) UpdateRating(rating int, now time.Time) error {
	if _, err := validation.Integer(rating, "rating", ratingRule); err != nil {
		return err
	}
	r.rating = rating
	r.touch(now)
	return nil
}

func (r *Review) UpdateTitle(title string, now time.Time) error {
	if err := validation.String(title, "title", titleRule); err != nil {
		return err
	}
	r.title = validation.Clean(title)
	r.touch(now)
	return nil
}

// UpdateText replaces the body; blank text clears it.
func (r *Review) UpdateText(text string, now time.Time) error {
	clean, err := cleanText(text)
	if err != nil {
		return err
	}
	r.text = clean
	r.touch(now)
	return nil
}

// touch moves updatedAt forward, by at least one microsecond (the storage
// resolution) when the clock has not advanced that far.
func (r *Review) touch(now time.Time) {
	now = storageTime(now)
	prev := storageTime(r.updatedAt)
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	r.updatedAt = now
}

// storageTime drops what Postgres cannot keep.
func storageTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// View is the external representation of a review.
type View struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"user_username"`
	ClubCode  string    `json:"club_code"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Review) Snapshot() View {
	return View{
		ID:        r.id,
		UserID:    r.userID,
		Username:  r.username,
		ClubCode:  r.clubCode,
		Rating:    r.rating,
		Title:     r.title,
		Text:      r.text,
		CreatedAt: r.createdAt,
		UpdatedAt: r.updatedAt,
	}
}

func cleanText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if err := validation.String(text, "text", textRule); err != nil {
		return "", err
	}
	return validation.Clean(text), nil
}
