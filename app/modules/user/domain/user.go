package userdomain

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Black-And-White-Club/club-review/app/validation"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 50
)

var usernameRule = validation.StringRule{Min: UsernameMinLength, Max: UsernameMaxLength}

// Registry answers the uniqueness and existence questions user operations
// depend on. excludeID is the user's own id on updates and 0 on creation.
type Registry interface {
	ClubExists(ctx context.Context, code string) (bool, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
}

// Params is the raw input to NewUser.
type Params struct {
	Username  string
	Email     string
	Favorites []string
}

// User is a reviewer. The id is assigned by storage; a user built by NewUser
// has id 0 and carries its requested favorites as pending until persisted.
type User struct {
	id        int64
	username  string
	email     string
	createdAt time.Time
	favorites map[string]struct{}
	pending   []string
}

// NormalizeEmail returns the canonical form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser validates p and returns an unpersisted user created at now.
func NewUser(ctx context.Context, reg Registry, p Params, now time.Time) (*User, error) {
	if err := validation.String(p.Username, "username", usernameRule); err != nil {
		return nil, err
	}
	if err := validation.Email(strings.TrimSpace(p.Email)); err != nil {
		return nil, err
	}

	username := validation.Clean(p.Username)
	email := NormalizeEmail(p.Email)
	if err := checkUsername(ctx, reg, username, 0); err != nil {
		return nil, err
	}
	if err := checkEmail(ctx, reg, email, 0); err != nil {
		return nil, err
	}

	pending := make(map[string]struct{}, len(p.Favorites))
	for _, raw := range p.Favorites {
		code, err := existingClub(ctx, reg, raw)
		if err != nil {
			return nil, err
		}
		pending[code] = struct{}{}
	}

	return &User{
		username:  username,
		email:     email,
		createdAt: now.UTC(),
		favorites: map[string]struct{}{},
		pending:   sortedKeys(pending),
	}, nil
}

// Record is the persisted shape of a user.
type Record struct {
	ID        int64
	Username  string
	Email     string
	CreatedAt time.Time
	Favorites []string
}

// Restore rebuilds a user from storage.
func Restore(r Record) *User {
	u := &User{
		id:        r.ID,
		username:  r.Username,
		email:     r.Email,
		createdAt: r.CreatedAt,
		favorites: make(map[string]struct{}, len(r.Favorites)),
	}
	for _, code := range r.Favorites {
		u.favorites[code] = struct{}{}
	}
	return u
}

func (u *User) ID() int64            { return u.id }
func (u *User) Username() string     { return u.username }
func (u *User) Email() string        { return u.email }
func (u *User) CreatedAt() time.Time { return u.createdAt }

// PendingFavorites returns the club codes requested at creation that have
// not been materialized yet.
func (u *User) PendingFavorites() []string {
	return append([]string(nil), u.pending...)
}

// Favorites returns the favorited club codes, sorted.
func (u *User) Favorites() []string {
	return sortedKeys(u.favorites)
}

// HasFavorite reports whether code is favorited.
func (u *User) HasFavorite(code string) bool {
	_, ok := u.favorites[normalizeCode(code)]
	return ok
}

// UpdateEmail changes the email unless another user already holds it.
func (u *User) UpdateEmail(ctx context.Context, reg Registry, email string) error {
	if err := validation.Email(strings.TrimSpace(email)); err != nil {
		return err
	}
	normalized := NormalizeEmail(email)
	if err := checkEmail(ctx, reg, normalized, u.id); err != nil {
		return err
	}
	u.email = normalized
	return nil
}

// UpdateUsername changes the username unless another user already holds it.
func (u *User) UpdateUsername(ctx context.Context, reg Registry, username string) error {
	if err := validation.String(username, "username", usernameRule); err != nil {
		return err
	}
	clean := validation.Clean(username)
	if err := checkUsername(ctx, reg, clean, u.id); err != nil {
		return err
	}
	u.username = clean
	return nil
}

// AddFavorite favorites an existing club. Favoriting twice is an error.
func (u *User) AddFavorite(ctx context.Context, reg Registry, code string) error {
	normalized, err := existingClub(ctx, reg, code)
	if err != nil {
		return err
	}
	if _, ok := u.favorites[normalized]; ok {
		return validation.Fail("favorites", validation.KindDuplicate, "Club %s is already a favorite", normalized)
	}
	u.favorites[normalized] = struct{}{}
	return nil
}

// RemoveFavorite drops code from the favorites; it reports whether anything
// was removed. Removing an absent favorite is a no-op.
func (u *User) RemoveFavorite(code string) bool {
	normalized := normalizeCode(code)
	if _, ok := u.favorites[normalized]; !ok {
		return false
	}
	delete(u.favorites, normalized)
	return true
}

// ReplaceFavorites swaps the favorite set for codes, all of which must exist.
func (u *User) ReplaceFavorites(ctx context.Context, reg Registry, codes []string) error {
	next := make(map[string]struct{}, len(codes))
	for _, raw := range codes {
		code, err := existingClub(ctx, reg, raw)
		if err != nil {
			return err
		}
		next[code] = struct{}{}
	}
	u.favorites = next
	return nil
}

// View is the external representation of a user.
type View struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Favorites []string  `json:"favorites"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Snapshot() View {
	return View{
		ID:        u.id,
		Username:  u.username,
		Email:     u.email,
		Favorites: u.Favorites(),
		CreatedAt: u.createdAt,
	}
}

func checkUsername(ctx context.Context, reg Registry, username string, excludeID int64) error {
	taken, err := reg.UsernameTaken(ctx, username, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return validation.Fail("username", validation.KindDuplicate, "Username %s already exists", username)
	}
	return nil
}

func checkEmail(ctx context.Context, reg Registry, email string, excludeID int64) error {
	taken, err := reg.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return validation.Fail("email", validation.KindDuplicate, "Email %s already exists", email)
	}
	return nil
}

// existingClub validates the code shape and checks that the club exists.
func existingClub(ctx context.Context, reg Registry, code string) (string, error) {
	if err := validation.ClubCode(code); err != nil {
		return "", err
	}
	normalized := normalizeCode(code)
	exists, err := reg.ClubExists(ctx, normalized)
	if err != nil {
		return "", fmt.Errorf("failed to check club code: %w", err)
	}
	if !exists {
		return "", validation.Fail("favorites", validation.KindReference, "Club %s does not exist", normalized)
	}
	return normalized, nil
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
