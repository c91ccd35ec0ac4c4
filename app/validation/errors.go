package validation

import (
	"errors"
	"fmt"
)

// ErrInvalid matches every client-side validation failure via errors.Is.
var ErrInvalid = errors.New("invalid input")

// Kind identifies which constraint a value violated.
type Kind string

const (
	KindType      Kind = "type"
	KindRequired  Kind = "required"
	KindEmpty     Kind = "empty"
	KindLength    Kind = "length"
	KindRange     Kind = "range"
	KindFormat    Kind = "format"
	KindCount     Kind = "count"
	KindInvariant Kind = "invariant"
	KindDuplicate Kind = "duplicate"
	KindReference Kind = "reference"
)

// Error is a field-identifying validation failure.
type Error struct {
	Field   string
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is ErrInvalid.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Fail builds an *Error with a formatted message.
func Fail(field string, kind Kind, format string, args ...any) *Error {
	return &Error{Field: field, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries a validation failure of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
