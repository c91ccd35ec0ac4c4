package clubdomain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Black-And-White-Club/club-review/app/validation"
)

const (
	NameMinLength        = 3
	NameMaxLength        = 255
	DescriptionMinLength = 10
	DescriptionMaxLength = 2000
	MaxMemberCount       = 100000
)

var (
	nameRule        = validation.StringRule{Min: NameMinLength, Max: NameMaxLength}
	descriptionRule = validation.StringRule{Min: DescriptionMinLength, Max: DescriptionMaxLength}
	memberRule      = validation.IntRule{Min: 0, Max: MaxMemberCount}
	tagRule         = validation.StringRule{Min: validation.TagMinLength, Max: validation.TagMaxLength}
)

// Registry answers the existence questions club creation depends on.
type Registry interface {
	ClubExists(ctx context.Context, code string) (bool, error)
}

// Params is the raw input to NewClub.
type Params struct {
	Code                  string
	Name                  string
	Description           string
	Tags                  []string
	MemberCount           int
	UndergraduatesAllowed bool
	GraduatesAllowed      bool
}

// Club is a student organization. The student-type flags are the source of
// truth for the synthetic tags; chosen holds only the freely chosen tags.
type Club struct {
	code                  string
	name                  string
	description           string
	memberCount           int
	undergraduatesAllowed bool
	graduatesAllowed      bool
	dateCreated           time.Time
	chosen                TagSet
	favoriteCount         *int
}

// NormalizeCode returns the canonical form of a club code.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// NewClub validates p, checks that the normalized code is free and returns
// an unpersisted club created at now.
func NewClub(ctx context.Context, reg Registry, p Params, now time.Time) (*Club, error) {
	if err := validation.ClubCode(p.Code); err != nil {
		return nil, err
	}
	if err := validation.String(p.Name, "name", nameRule); err != nil {
		return nil, err
	}
	if err := validation.String(p.Description, "description", descriptionRule); err != nil {
		return nil, err
	}
	if _, err := validation.Integer(p.MemberCount, "memberCount", memberRule); err != nil {
		return nil, err
	}
	tags, err := validation.Tags(p.Tags)
	if err != nil {
		return nil, err
	}
	if err := checkStudentTypes(p.UndergraduatesAllowed, p.GraduatesAllowed); err != nil {
		return nil, err
	}

	code := NormalizeCode(p.Code)
	exists, err := reg.ClubExists(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to check club code: %w", err)
	}
	if exists {
		return nil, validation.Fail("code", validation.KindDuplicate, "Club with code %s already exists", code)
	}

	c := &Club{
		code:                  code,
		name:                  validation.Clean(p.Name),
		description:           validation.Clean(p.Description),
		memberCount:           p.MemberCount,
		undergraduatesAllowed: p.UndergraduatesAllowed,
		graduatesAllowed:      p.GraduatesAllowed,
		dateCreated:           now.UTC(),
		chosen:                TagSet{},
	}
	c.setChosen(tags)
	return c, nil
}

// Record is the persisted shape of a club, used to rebuild an entity
// without re-running creation checks.
type Record struct {
	Code                  string
	Name                  string
	Description           string
	MemberCount           int
	UndergraduatesAllowed bool
	GraduatesAllowed      bool
	DateCreated           time.Time
	Tags                  []string
	FavoriteCount         *int
}

// Restore rebuilds a club from storage. Stored synthetic tag rows are
// ignored in favour of the flags.
func Restore(r Record) *Club {
	c := &Club{
		code:                  r.Code,
		name:                  r.Name,
		description:           r.Description,
		memberCount:           r.MemberCount,
		undergraduatesAllowed: r.UndergraduatesAllowed,
		graduatesAllowed:      r.GraduatesAllowed,
		dateCreated:           r.DateCreated,
		chosen:                TagSet{},
		favoriteCount:         r.FavoriteCount,
	}
	for _, t := range r.Tags {
		if !IsSynthetic(t) {
			c.chosen.Add(t)
		}
	}
	return c
}

func (c *Club) Code() string                { return c.code }
func (c *Club) Name() string                { return c.name }
func (c *Club) Description() string         { return c.description }
func (c *Club) MemberCount() int            { return c.memberCount }
func (c *Club) UndergraduatesAllowed() bool { return c.undergraduatesAllowed }
func (c *Club) GraduatesAllowed() bool      { return c.graduatesAllowed }
func (c *Club) DateCreated() time.Time      { return c.dateCreated }

// Tags returns the full tag set: chosen tags plus the synthetic tags
// derived from the flags, sorted.
func (c *Club) Tags() []string {
	all := NewTagSet(studentTags(c.undergraduatesAllowed, c.graduatesAllowed)...)
	for t := range c.chosen {
		all.Add(t)
	}
	return all.Sorted()
}

// HasTag reports whether name is in the full tag set.
func (c *Club) HasTag(name string) bool {
	switch name {
	case UndergraduateTag:
		return c.undergraduatesAllowed
	case GraduateTag:
		return c.graduatesAllowed
	}
	return c.chosen.Has(name)
}

func (c *Club) UpdateName(name string) error {
	if err := validation.String(name, "name", nameRule); err != nil {
		return err
	}
	c.name = validation.Clean(name)
	return nil
}

func (c *Club) UpdateDescription(description string) error {
	if err := validation.String(description, "description", descriptionRule); err != nil {
		return err
	}
	c.description = validation.Clean(description)
	return nil
}

func (c *Club) UpdateMemberCount(n int) error {
	if _, err := validation.Integer(n, "memberCount", memberRule); err != nil {
		return err
	}
	c.memberCount = n
	return nil
}

// UpdateUndergraduatesAllowed sets the flag unless that would leave the
// club open to nobody. The Undergraduate tag follows the flag.
func (c *Club) UpdateUndergraduatesAllowed(allowed bool) error {
	if err := checkStudentTypes(allowed, c.graduatesAllowed); err != nil {
		return err
	}
	c.undergraduatesAllowed = allowed
	return nil
}

// UpdateGraduatesAllowed sets the flag unless that would leave the club
// open to nobody. The Graduate tag follows the flag.
func (c *Club) UpdateGraduatesAllowed(allowed bool) error {
	if err := checkStudentTypes(c.undergraduatesAllowed, allowed); err != nil {
		return err
	}
	c.graduatesAllowed = allowed
	return nil
}

// AddTag adds a chosen tag. Tag rows are created on persistence when they
// do not exist yet.
func (c *Club) AddTag(name string) error {
	clean, err := cleanTag(name)
	if err != nil {
		return err
	}
	c.chosen.Add(clean)
	return nil
}

// RemoveTag removes a chosen tag; removing an absent tag is a no-op.
func (c *Club) RemoveTag(name string) error {
	clean, err := cleanTag(name)
	if err != nil {
		return err
	}
	c.chosen.Remove(clean)
	return nil
}

// ReplaceTags swaps the chosen tags for names. Synthetic names in the input
// are dropped; those tags keep following the flags.
func (c *Club) ReplaceTags(names []string) error {
	tags, err := validation.Tags(names)
	if err != nil {
		return err
	}
	c.chosen = TagSet{}
	c.setChosen(tags)
	return nil
}

func (c *Club) setChosen(tags []string) {
	for _, t := range tags {
		clean := validation.Clean(t)
		if !IsSynthetic(clean) {
			c.chosen.Add(clean)
		}
	}
}

// View is the external representation of a club.
type View struct {
	Code                  string    `json:"code"`
	Name                  string    `json:"name"`
	Description           string    `json:"description"`
	Tags                  []string  `json:"tags"`
	MemberCount           int       `json:"memberCount"`
	UndergraduatesAllowed bool      `json:"undergraduatesAllowed"`
	GraduatesAllowed      bool      `json:"graduatesAllowed"`
	DateCreated           time.Time `json:"dateCreated"`
	FavoriteCount         *int      `json:"favoriteCount,omitempty"`
}

// Snapshot returns a field-complete view of the club.
func (c *Club) Snapshot() View {
	return View{
		Code:                  c.code,
		Name:                  c.name,
		Description:           c.description,
		Tags:                  c.Tags(),
		MemberCount:           c.memberCount,
		UndergraduatesAllowed: c.undergraduatesAllowed,
		GraduatesAllowed:      c.graduatesAllowed,
		DateCreated:           c.dateCreated,
		FavoriteCount:         c.favoriteCount,
	}
}

func checkStudentTypes(undergraduates, graduates bool) error {
	if !undergraduates && !graduates {
		return validation.Fail("graduatesAllowed", validation.KindInvariant,
			"At least one of undergraduatesAllowed or graduatesAllowed must be true")
	}
	return nil
}

func cleanTag(name string) (string, error) {
	if err := validation.String(name, "Tag", tagRule); err != nil {
		return "", err
	}
	clean := validation.Clean(name)
	if IsSynthetic(clean) {
		return "", validation.Fail("tags", validation.KindInvariant,
			"Tag %s is derived from the student-type flags", clean)
	}
	return clean, nil
}
