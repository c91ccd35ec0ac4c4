package clubdb

import (
	"time"

	"github.com/uptrace/bun"

	clubdomain "github.com/Black-And-White-Club/club-review/app/modules/club/domain"
)

// Club is the clubs row. Tags and FavoriteCount are loaded separately.
type Club struct {
	bun.BaseModel         `bun:"table:clubs,alias:c"`
	Code                  string    `bun:"code,pk"`
	Name                  string    `bun:"name,notnull"`
	Description           string    `bun:"description,notnull"`
	MemberCount           int       `bun:"member_count,notnull"`
	UndergraduatesAllowed bool      `bun:"undergraduates_allowed,notnull"`
	GraduatesAllowed      bool      `bun:"graduates_allowed,notnull"`
	DateCreated           time.Time `bun:"date_created,notnull"`

	FavoriteCount int      `bun:"favorite_count,scanonly"`
	Tags          []string `bun:"-"`
}

// Tag is a shared tag name.
type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`
	Name          string `bun:"name,pk"`
}

// ClubTag links a club to a tag.
type ClubTag struct {
	bun.BaseModel `bun:"table:club_tags,alias:ct"`
	ClubCode      string `bun:"club_code,pk"`
	TagName       string `bun:"tag_name,pk"`
}

// FromDomain copies the entity into a row. The stored tag list includes the
// synthetic tags so that tag lookups find them.
func FromDomain(c *clubdomain.Club) *Club {
	return &Club{
		Code:                  c.Code(),
		Name:                  c.Name(),
		Description:           c.Description(),
		MemberCount:           c.MemberCount(),
		UndergraduatesAllowed: c.UndergraduatesAllowed(),
		GraduatesAllowed:      c.GraduatesAllowed(),
		DateCreated:           c.DateCreated(),
		Tags:                  c.Tags(),
	}
}

// ToDomain rebuilds the entity.
func (c *Club) ToDomain() *clubdomain.Club {
	count := c.FavoriteCount
	return clubdomain.Restore(clubdomain.Record{
		Code:                  c.Code,
		Name:                  c.Name,
		Description:           c.Description,
		MemberCount:           c.MemberCount,
		UndergraduatesAllowed: c.UndergraduatesAllowed,
		GraduatesAllowed:      c.GraduatesAllowed,
		DateCreated:           c.DateCreated,
		Tags:                  c.Tags,
		FavoriteCount:         &count,
	})
}
