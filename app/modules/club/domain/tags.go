package clubdomain

import "sort"

// Synthetic tag names. Their membership in a club's tag set mirrors the
// student-type flags and is never chosen directly.
const (
	UndergraduateTag = "Undergraduate"
	GraduateTag      = "Graduate"
)

// IsSynthetic reports whether name is one of the flag-derived tags.
func IsSynthetic(name string) bool {
	return name == UndergraduateTag || name == GraduateTag
}

// TagSet is an unordered collection of tag names.
type TagSet map[string]struct{}

// NewTagSet builds a set from names, collapsing duplicates.
func NewTagSet(names ...string) TagSet {
	s := make(TagSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s TagSet) Add(name string)      { s[name] = struct{}{} }
func (s TagSet) Remove(name string)   { delete(s, name) }
func (s TagSet) Has(name string) bool { _, ok := s[name]; return ok }

// Sorted returns the names in lexical order.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// studentTags derives the synthetic tags from the flags.
func studentTags(undergraduates, graduates bool) []string {
	var tags []string
	if undergraduates {
		tags = append(tags, UndergraduateTag)
	}
	if graduates {
		tags = append(tags, GraduateTag)
	}
	return tags
}
