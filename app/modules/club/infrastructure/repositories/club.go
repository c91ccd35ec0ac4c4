package clubdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/club-review/app/integrity"
)

// ErrNotFound is returned when a club is not found.
var ErrNotFound = fmt.Errorf("Club %w", integrity.ErrNotFound)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new club repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func selectClubs(db bun.IDB, dest *[]*Club) *bun.SelectQuery {
	return db.NewSelect().
		Model(dest).
		ColumnExpr("c.*").
		ColumnExpr("(SELECT count(*) FROM user_favorites AS uf WHERE uf.club_code = c.code) AS favorite_count")
}

// GetByCode retrieves a club by its code.
func (r *Impl) GetByCode(ctx context.Context, db bun.IDB, code string) (*Club, error) {
	db = r.resolveDB(db)
	var clubs []*Club
	err := selectClubs(db, &clubs).
		Where("c.code = ?", code).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club by code: %w", err)
	}
	if len(clubs) == 0 {
		return nil, ErrNotFound
	}
	if err := r.loadTags(ctx, db, clubs); err != nil {
		return nil, err
	}
	return clubs[0], nil
}

// List returns every club ordered by code.
func (r *Impl) List(ctx context.Context, db bun.IDB) ([]*Club, error) {
	db = r.resolveDB(db)
	var clubs []*Club
	if err := selectClubs(db, &clubs).OrderExpr("c.code ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	if err := r.loadTags(ctx, db, clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// SearchByName matches the query as a literal, case-insensitive substring.
func (r *Impl) SearchByName(ctx context.Context, db bun.IDB, query string) ([]*Club, error) {
	db = r.resolveDB(db)
	var clubs []*Club
	err := selectClubs(db, &clubs).
		Where("c.name ILIKE ?", "%"+likeEscaper.Replace(query)+"%").
		OrderExpr("c.code ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search clubs: %w", err)
	}
	if err := r.loadTags(ctx, db, clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// ListByTag returns the clubs linked to tag.
func (r *Impl) ListByTag(ctx context.Context, db bun.IDB, tag string) ([]*Club, error) {
	db = r.resolveDB(db)
	var clubs []*Club
	err := selectClubs(db, &clubs).
		Where("c.code IN (SELECT ct.club_code FROM club_tags AS ct WHERE ct.tag_name = ?)", tag).
		OrderExpr("c.code ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs by tag: %w", err)
	}
	if err := r.loadTags(ctx, db, clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// TagExists reports whether a tag row exists.
func (r *Impl) TagExists(ctx context.Context, db bun.IDB, tag string) (bool, error) {
	db = r.resolveDB(db)
	ok, err := db.NewSelect().Model((*Tag)(nil)).Where("name = ?", tag).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check tag: %w", err)
	}
	return ok, nil
}

// Insert writes a new club row followed by its tag links.
func (r *Impl) Insert(ctx context.Context, db bun.IDB, club *Club) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(club).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert club: %w", err)
	}
	return r.linkTags(ctx, db, club.Code, club.Tags)
}

// Update rewrites the mutable columns and replaces the tag links.
func (r *Impl) Update(ctx context.Context, db bun.IDB, club *Club) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model(club).
		Column("name", "description", "member_count", "undergraduates_allowed", "graduates_allowed").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update club: %w", err)
	}
	if err := requireRow(result); err != nil {
		return err
	}

	if _, err := db.NewDelete().
		Model((*ClubTag)(nil)).
		Where("club_code = ?", club.Code).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear club tags: %w", err)
	}
	return r.linkTags(ctx, db, club.Code, club.Tags)
}

// Delete removes a club.
func (r *Impl) Delete(ctx context.Context, db bun.IDB, code string) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Club)(nil)).
		Where("code = ?", code).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete club: %w", err)
	}
	return requireRow(result)
}

// FavoritedBy returns the usernames that favorited the club, sorted.
func (r *Impl) FavoritedBy(ctx context.Context, db bun.IDB, code string) ([]string, error) {
	db = r.resolveDB(db)
	var usernames []string
	err := db.NewSelect().
		TableExpr("users AS u").
		Column("u.username").
		Join("JOIN user_favorites AS uf ON uf.user_id = u.id").
		Where("uf.club_code = ?", code).
		OrderExpr("u.username ASC").
		Scan(ctx, &usernames)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorited by: %w", err)
	}
	return usernames, nil
}

// linkTags creates any missing tag rows and links them to the club.
func (r *Impl) linkTags(ctx context.Context, db bun.IDB, code string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	tags := make([]Tag, len(names))
	links := make([]ClubTag, len(names))
	for i, n := range names {
		tags[i] = Tag{Name: n}
		links[i] = ClubTag{ClubCode: code, TagName: n}
	}

	if _, err := db.NewInsert().
		Model(&tags).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create tags: %w", err)
	}
	if _, err := db.NewInsert().
		Model(&links).
		On("CONFLICT DO NOTHING").
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to link tags: %w", err)
	}
	return nil
}

// loadTags fills Tags on each club with one query.
func (r *Impl) loadTags(ctx context.Context, db bun.IDB, clubs []*Club) error {
	if len(clubs) == 0 {
		return nil
	}
	byCode := make(map[string]*Club, len(clubs))
	codes := make([]string, len(clubs))
	for i, c := range clubs {
		byCode[c.Code] = c
		codes[i] = c.Code
		c.Tags = []string{}
	}

	var links []ClubTag
	if err := db.NewSelect().
		Model(&links).
		Where("club_code IN (?)", bun.In(codes)).
		Scan(ctx); err != nil {
		return fmt.Errorf("failed to load club tags: %w", err)
	}
	for _, l := range links {
		if c, ok := byCode[l.ClubCode]; ok {
			c.Tags = append(c.Tags, l.TagName)
		}
	}
	for _, c := range clubs {
		sort.Strings(c.Tags)
	}
	return nil
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ErrTagNotFound is returned when a tag lookup misses.
var ErrTagNotFound = fmt.Errorf("Tag %w", integrity.ErrNotFound)
