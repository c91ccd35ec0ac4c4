package clubdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for club persistence.
type Repository interface {
	// GetByCode retrieves a club with its tags and favorite count.
	GetByCode(ctx context.Context, db bun.IDB, code string) (*Club, error)

	// List returns every club ordered by code.
	List(ctx context.Context, db bun.IDB) ([]*Club, error)

	// SearchByName matches name case-insensitively against a literal substring.
	SearchByName(ctx context.Context, db bun.IDB, query string) ([]*Club, error)

	// ListByTag returns the clubs carrying tag.
	ListByTag(ctx context.Context, db bun.IDB, tag string) ([]*Club, error)

	// TagExists reports whether a tag row exists.
	TagExists(ctx context.Context, db bun.IDB, tag string) (bool, error)

	// Insert writes a new club and its tag links, creating missing tags.
	Insert(ctx context.Context, db bun.IDB, club *Club) error

	// Update rewrites the mutable columns and replaces the tag links.
	Update(ctx context.Context, db bun.IDB, club *Club) error

	// Delete removes a club; links cascade.
	Delete(ctx context.Context, db bun.IDB, code string) error

	// FavoritedBy returns the usernames of users who favorited the club.
	FavoritedBy(ctx context.Context, db bun.IDB, code string) ([]string, error)
}
