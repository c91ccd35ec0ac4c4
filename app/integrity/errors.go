package integrity

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/Black-And-White-Club/club-review/app/validation"
)

// ErrNotFound is wrapped by every repository's not-found sentinel.
var ErrNotFound = errors.New("not found")

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
	sqlStateStringTooLong       = "22001"
)

type constraintInfo struct {
	field   string
	message string
}

// Constraint names come from the module migrations.
var constraints = map[string]constraintInfo{
	"clubs_pkey":                    {"code", "Club with this code already exists"},
	"clubs_student_type_check":      {"graduatesAllowed", "At least one of undergraduatesAllowed or graduatesAllowed must be true"},
	"users_username_key":            {"username", "Username already exists"},
	"users_email_key":               {"email", "Email already exists"},
	"user_favorites_pkey":           {"favorites", "Club is already a favorite"},
	"user_favorites_club_code_fkey": {"favorites", "Club does not exist"},
	"user_favorites_user_id_fkey":   {"user_id", "User does not exist"},
	"reviews_user_club_key":         {"club_code", "User has already reviewed this club"},
	"reviews_user_id_fkey":          {"user_id", "User does not exist"},
	"reviews_club_code_fkey":        {"club_code", "Club does not exist"},
	"reviews_rating_check":          {"rating", "Rating must be between 1 and 10"},
}

// FromConstraint converts a Postgres integrity violation or an over-long
// value raised by either driver into a validation error. Any other error is returned unchanged.
func FromConstraint(err error) error {
	if err == nil {
		return nil
	}
	code, constraint, column, ok := violation(err)
	if !ok {
		return err
	}
	if code == sqlStateStringTooLong {
		if column == "" {
			column = "value"
		}
		return validation.Fail(column, validation.KindLength, "%s is too long", column)
	}

	var kind validation.Kind
	switch code {
	case sqlStateUniqueViolation:
		kind = validation.KindDuplicate
	case sqlStateForeignKeyViolation:
		kind = validation.KindReference
	case sqlStateCheckViolation:
		kind = validation.KindInvariant
	default:
		return err
	}

	info, known := constraints[constraint]
	if !known {
		info = constraintInfo{field: strings.TrimSuffix(constraint, "_key"), message: "Conflicting record"}
	}
	return validation.Fail(info.field, kind, "%s", info.message)
}

func violation(err error) (code, constraint, column string, ok bool) {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C'), pgErr.Field('n'), pgErr.Field('c'), true
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, pgxErr.ColumnName, true
	}
	return "", "", "", false
}
