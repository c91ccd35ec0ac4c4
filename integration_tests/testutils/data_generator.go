package testutils

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	clubdomain "github.com/Black-And-White-Club/club-review/app/modules/club/domain"
	reviewdomain "github.com/Black-And-White-Club/club-review/app/modules/review/domain"
	userdomain "github.com/Black-And-White-Club/club-review/app/modules/user/domain"
)

// TestDataGenerator produces valid, unique test inputs.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seq   int
}

// NewTestDataGenerator creates a generator; pass a seed for reproducible
// data.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s))}
}

func (g *TestDataGenerator) next() int {
	g.seq++
	return g.seq
}

// ClubParams returns a valid undergraduate club with a unique code.
func (g *TestDataGenerator) ClubParams(tags ...string) clubdomain.Params {
	n := g.next()
	return clubdomain.Params{
		Code:                  fmt.Sprintf("club-%d-%s", n, strings.ToLower(g.faker.LetterN(4))),
		Name:                  fmt.Sprintf("%s Society", g.faker.Company()),
		Description:           g.faker.Sentence(12),
		Tags:                  tags,
		MemberCount:           g.faker.IntRange(0, 500),
		UndergraduatesAllowed: true,
	}
}

// UserParams returns a user with a unique username and email.
func (g *TestDataGenerator) UserParams(favorites ...string) userdomain.Params {
	n := g.next()
	return userdomain.Params{
		Username:  fmt.Sprintf("user%d%s", n, strings.ToLower(g.faker.LetterN(5))),
		Email:     fmt.Sprintf("user%d.%s@upenn.edu", n, strings.ToLower(g.faker.LetterN(5))),
		Favorites: favorites,
	}
}

// ReviewParams returns a review of code by userID with the given rating.
func (g *TestDataGenerator) ReviewParams(userID int64, code string, rating int) reviewdomain.Params {
	return reviewdomain.Params{
		UserID:   userID,
		ClubCode: code,
		Rating:   rating,
		Title:    fmt.Sprintf("Review %d", g.next()),
		Text:     g.faker.Sentence(20),
	}
}
