// Package integrity answers the cross-entity questions the domain packages
// ask before a write: does a referenced row exist, is a unique value taken.
// A Checker is bound to one transaction so that checks and the writes that
// follow them see the same snapshot.
package integrity

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Registry is the union of every check the club, user and review domains
// perform.
type Registry interface {
	ClubExists(ctx context.Context, code string) (bool, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	ReviewExists(ctx context.Context, userID int64, clubCode string) (bool, error)
}

// Binder returns a Registry bound to db.
type Binder func(db bun.IDB) Registry

// Bind is the default Binder.
func Bind(db bun.IDB) Registry {
	return &Checker{db: db}
}

// Checker implements Registry with existence queries.
type Checker struct {
	db bun.IDB
}

func (c *Checker) ClubExists(ctx context.Context, code string) (bool, error) {
	return c.exists(ctx, "clubs", "code = ?", code)
}

// UsernameTaken compares usernames exactly.
func (c *Checker) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	return c.exists(ctx, "users", "username = ? AND id <> ?", username, excludeID)
}

// EmailTaken compares emails case-insensitively.
func (c *Checker) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return c.exists(ctx, "users", "lower(email) = lower(?) AND id <> ?", email, excludeID)
}

func (c *Checker) UserExists(ctx context.Context, id int64) (bool, error) {
	return c.exists(ctx, "users", "id = ?", id)
}

func (c *Checker) ReviewExists(ctx context.Context, userID int64, clubCode string) (bool, error) {
	return c.exists(ctx, "reviews", "user_id = ? AND club_code = ?", userID, clubCode)
}

func (c *Checker) exists(ctx context.Context, table, where string, args ...any) (bool, error) {
	ok, err := c.db.NewSelect().
		Table(table).
		Where(where, args...).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return ok, nil
}
