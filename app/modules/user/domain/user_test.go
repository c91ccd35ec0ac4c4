package userdomain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Black-And-White-Club/club-review/app/validation"
)

var testNow = time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

// fakeRegistry answers from in-memory sets. Usernames and emails are keyed
// to the id holding them.
type fakeRegistry struct {
	clubs     map[string]bool
	usernames map[string]int64
	emails    map[string]int64
	err       error
}

func newRegistry(clubs ...string) *fakeRegistry {
	r := &fakeRegistry{clubs: map[string]bool{}, usernames: map[string]int64{}, emails: map[string]int64{}}
	for _, c := range clubs {
		r.clubs[c] = true
	}
	return r
}

func (r *fakeRegistry) ClubExists(_ context.Context, code string) (bool, error) {
	return r.clubs[code], r.err
}

func (r *fakeRegistry) UsernameTaken(_ context.Context, username string, excludeID int64) (bool, error) {
	id, ok := r.usernames[username]
	return ok && id != excludeID, r.err
}

func (r *fakeRegistry) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	id, ok := r.emails[strings.ToLower(email)]
	return ok && id != excludeID, r.err
}

func TestNewUser(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		setup    func(r *fakeRegistry)
		wantKind validation.Kind
	}{
		{name: "valid", params: Params{Username: "josh", Email: "Josh@UPenn.edu", Favorites: []string{"pppjo"}}},
		{name: "short username", params: Params{Username: "jo", Email: "josh@upenn.edu"}, wantKind: validation.KindLength},
		{name: "bad email", params: Params{Username: "josh", Email: "user.domain.com"}, wantKind: validation.KindFormat},
		{
			name:     "duplicate username",
			params:   Params{Username: "josh", Email: "other@upenn.edu"},
			setup:    func(r *fakeRegistry) { r.usernames["josh"] = 9 },
			wantKind: validation.KindDuplicate,
		},
		{
			name:     "duplicate email ignores case",
			params:   Params{Username: "joshua", Email: "JOSH@upenn.edu"},
			setup:    func(r *fakeRegistry) { r.emails["josh@upenn.edu"] = 9 },
			wantKind: validation.KindDuplicate,
		},
		{name: "unknown favorite", params: Params{Username: "josh", Email: "josh@upenn.edu", Favorites: []string{"ghost"}}, wantKind: validation.KindReference},
		{name: "malformed favorite", params: Params{Username: "josh", Email: "josh@upenn.edu", Favorites: []string{"bad code"}}, wantKind: validation.KindFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newRegistry("pppjo")
			if tt.setup != nil {
				tt.setup(reg)
			}
			u, err := NewUser(context.Background(), reg, tt.params, testNow)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Nil(t, u)
				assert.True(t, validation.IsKind(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(0), u.ID())
			assert.Equal(t, "josh@upenn.edu", u.Email())
			assert.Equal(t, []string{"pppjo"}, u.PendingFavorites())
			assert.Empty(t, u.Favorites())
		})
	}
}

func TestNewUser_RegistryError(t *testing.T) {
	reg := newRegistry()
	reg.err = errors.New("connection reset")
	_, err := NewUser(context.Background(), reg, Params{Username: "josh", Email: "josh@upenn.edu"}, testNow)
	require.Error(t, err)
	assert.NotErrorIs(t, err, validation.ErrInvalid)
}

func TestUser_Updates(t *testing.T) {
	reg := newRegistry()
	reg.usernames["josh"] = 1
	reg.usernames["alice"] = 2
	reg.emails["josh@upenn.edu"] = 1
	reg.emails["alice@upenn.edu"] = 2
	u := Restore(Record{ID: 1, Username: "josh", Email: "josh@upenn.edu", CreatedAt: testNow})

	require.NoError(t, u.UpdateUsername(context.Background(), reg, "josh"), "keeping your own name is allowed")
	assert.True(t, validation.IsKind(u.UpdateUsername(context.Background(), reg, "alice"), validation.KindDuplicate))
	assert.Equal(t, "josh", u.Username())

	require.NoError(t, u.UpdateEmail(context.Background(), reg, " New@Example.org "))
	assert.Equal(t, "new@example.org", u.Email())
	assert.True(t, validation.IsKind(u.UpdateEmail(context.Background(), reg, "Alice@upenn.edu"), validation.KindDuplicate))
	assert.True(t, validation.IsKind(u.UpdateEmail(context.Background(), reg, "user@"), validation.KindFormat))
	assert.Equal(t, "new@example.org", u.Email())
}

func TestUser_Favorites(t *testing.T) {
	reg := newRegistry("pppjo", "penn-memes")
	u := Restore(Record{ID: 1, Username: "josh", Email: "josh@upenn.edu", Favorites: []string{"pppjo"}})

	assert.True(t, validation.IsKind(u.AddFavorite(context.Background(), reg, "PPPJO"), validation.KindDuplicate))
	assert.True(t, validation.IsKind(u.AddFavorite(context.Background(), reg, "ghost"), validation.KindReference))

	require.NoError(t, u.AddFavorite(context.Background(), reg, "penn-memes"))
	assert.Equal(t, []string{"penn-memes", "pppjo"}, u.Favorites())

	assert.False(t, u.RemoveFavorite("locust-labs"))
	assert.Equal(t, []string{"penn-memes", "pppjo"}, u.Favorites(), "removing an absent favorite leaves the set unchanged")
	assert.True(t, u.RemoveFavorite("pppjo"))
	assert.False(t, u.HasFavorite("pppjo"))

	err := u.ReplaceFavorites(context.Background(), reg, []string{"pppjo", "ghost"})
	assert.True(t, validation.IsKind(err, validation.KindReference))
	assert.Equal(t, []string{"penn-memes"}, u.Favorites(), "failed replace keeps the old set")

	require.NoError(t, u.ReplaceFavorites(context.Background(), reg, []string{"pppjo"}))
	assert.Equal(t, []string{"pppjo"}, u.Favorites())
}

func TestSnapshot(t *testing.T) {
	u := Restore(Record{ID: 4, Username: "josh", Email: "josh@upenn.edu", CreatedAt: testNow})
	v := u.Snapshot()
	assert.Equal(t, int64(4), v.ID)
	assert.Equal(t, []string{}, v.Favorites)
}
