// Package validation holds the primitive field validators shared by every
// entity. Validators never modify their input; callers trim and sanitize the
// value once it has been accepted.
package validation

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// MaxTags is the largest tag collection a club may be given at once.
	MaxTags = 10

	TagMinLength      = 2
	TagMaxLength      = 50
	ClubCodeMinLength = 2
	ClubCodeMaxLength = 50
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	clubCodePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// StringRule bounds the trimmed length of a string, in characters.
// A zero Max means unbounded.
type StringRule struct {
	Min      int
	Max      int
	Optional bool
}

// IntRule is an inclusive numeric range.
type IntRule struct {
	Min int
	Max int
}

// String checks that value is a non-blank string within r.
func String(value any, field string, r StringRule) error {
	if r.Optional && (value == nil || value == "") {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return Fail(field, KindType, "%s must be a string", field)
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Fail(field, KindEmpty, "%s cannot be empty", field)
	}
	n := utf8.RuneCountInString(trimmed)
	if n < r.Min {
		return Fail(field, KindLength, "%s must be at least %d characters", field, r.Min)
	}
	if r.Max > 0 && n > r.Max {
		return Fail(field, KindLength, "%s cannot exceed %d characters", field, r.Max)
	}
	return nil
}

// Integer checks that value is an integral number within r and returns it.
// JSON numbers are accepted when they carry no fractional part; booleans and
// numeric strings are rejected.
func Integer(value any, field string, r IntRule) (int, error) {
	n, ok := asInt(value)
	if !ok {
		return 0, Fail(field, KindType, "%s must be an integer", field)
	}
	if n < r.Min {
		return 0, Fail(field, KindRange, "%s must be at least %d", field, r.Min)
	}
	if n > r.Max {
		return 0, Fail(field, KindRange, "%s cannot exceed %d", field, r.Max)
	}
	return n, nil
}

// Boolean checks that value is a bool and returns it.
func Boolean(value any, field string) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, Fail(field, KindType, "%s must be a boolean", field)
	}
	return b, nil
}

// Email checks value against the accepted address shape.
func Email(value any) error {
	s, ok := value.(string)
	if !ok {
		return Fail("email", KindType, "email must be a string")
	}
	if !emailPattern.MatchString(s) {
		return Fail("email", KindFormat, "Invalid email format")
	}
	return nil
}

// ClubCode checks the shape of a club identifier.
func ClubCode(value any) error {
	s, ok := value.(string)
	if !ok {
		return Fail("code", KindType, "Club code must be a string")
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Fail("code", KindEmpty, "Club code cannot be empty")
	}
	if !clubCodePattern.MatchString(trimmed) {
		return Fail("code", KindFormat, "Club code can only contain letters, numbers, hyphens, and underscores")
	}
	if n := len(trimmed); n < ClubCodeMinLength || n > ClubCodeMaxLength {
		return Fail("code", KindLength, "Club code must be between %d-%d characters", ClubCodeMinLength, ClubCodeMaxLength)
	}
	return nil
}

// Tags accepts a list ([]string, []any) or a set (map[string]struct{},
// map[string]bool) of tag names and returns the names in input order (sets
// are returned sorted). Duplicates are kept; callers collapse them.
func Tags(value any) ([]string, error) {
	var raw []any
	switch v := value.(type) {
	case nil:
		return nil, Fail("tags", KindType, "Tags must be a set or list")
	case []string:
		for _, s := range v {
			raw = append(raw, s)
		}
	case []any:
		raw = v
	case map[string]struct{}:
		raw = sortedKeys(v)
	case map[string]bool:
		raw = sortedKeys(v)
	default:
		return nil, Fail("tags", KindType, "Tags must be a set or list")
	}
	if len(raw) > MaxTags {
		return nil, Fail("tags", KindCount, "Cannot have more than %d tags", MaxTags)
	}
	names := make([]string, 0, len(raw))
	for _, item := range raw {
		if err := String(item, "Tag", StringRule{Min: TagMinLength, Max: TagMaxLength}); err != nil {
			return nil, err
		}
		names = append(names, item.(string))
	}
	return names, nil
}

// RequireFields fails when data is empty or lacks any of fields.
func RequireFields(data map[string]any, fields ...string) error {
	if len(data) == 0 {
		return Fail("", KindRequired, "No input data provided")
	}
	var missing []string
	for _, f := range fields {
		if _, ok := data[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return Fail(missing[0], KindRequired, "Missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

func sortedKeys[V any](m map[string]V) []any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}
