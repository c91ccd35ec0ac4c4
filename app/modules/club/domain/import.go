package clubdomain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// LegacyRecord is the historical club shape, where the student-type flags
// are implied by the literal "Undergraduate" and "Graduate" tags.
type LegacyRecord struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	MemberCount *int     `json:"memberCount,omitempty"`
}

// Params converts the record, deriving the flags from its tags.
func (r LegacyRecord) Params() Params {
	return Params{
		Code:                  r.Code,
		Name:                  r.Name,
		Description:           r.Description,
		Tags:                  r.Tags,
		MemberCount:           derefOr(r.MemberCount, 0),
		UndergraduatesAllowed: slices.Contains(r.Tags, UndergraduateTag),
		GraduatesAllowed:      slices.Contains(r.Tags, GraduateTag),
	}
}

// CurrentRecord is the exported club shape with explicit flags.
type CurrentRecord struct {
	Code                  string   `json:"code"`
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	Tags                  []string `json:"tags"`
	MemberCount           *int     `json:"memberCount,omitempty"`
	UndergraduatesAllowed bool     `json:"undergraduatesAllowed"`
	GraduatesAllowed      bool     `json:"graduatesAllowed"`
	DateCreated           string   `json:"dateCreated,omitempty"`
}

// Params converts the record.
func (r CurrentRecord) Params() Params {
	return Params{
		Code:                  r.Code,
		Name:                  r.Name,
		Description:           r.Description,
		Tags:                  r.Tags,
		MemberCount:           derefOr(r.MemberCount, 0),
		UndergraduatesAllowed: r.UndergraduatesAllowed,
		GraduatesAllowed:      r.GraduatesAllowed,
	}
}

// CreatedAt returns the recorded creation time, or fallback when the record
// carries none.
func (r CurrentRecord) CreatedAt(fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(r.DateCreated) == "" {
		return fallback, nil
	}
	return ParseTimestamp(r.DateCreated)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
}

// ParseTimestamp accepts ISO-8601 timestamps with or without a zone; zoneless
// values are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func derefOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
