package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new user repository.
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

// GetByID retrieves a user with its favorites.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id int64) (*User, error) {
	db = r.resolveDB(db)
	user := new(User)
	err := db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if err := r.loadFavorites(ctx, db, []*User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns every user ordered by id.
func (r *Impl) List(ctx context.Context, db bun.IDB) ([]*User, error) {
	db = r.resolveDB(db)
	var users []*User
	if err := db.NewSelect().Model(&users).OrderExpr("u.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if err := r.loadFavorites(ctx, db, users); err != nil {
		return nil, err
	}
	return users, nil
}

// Insert writes the user row; the generated id is scanned back into user.
func (r *Impl) Insert(ctx context.Context, db bun.IDB, user *User) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().
		Model(user).
		Column("username", "email", "created_at").
		Returning("id").
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// Update rewrites username and email.
func (r *Impl) Update(ctx context.Context, db bun.IDB, user *User) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model(user).
		Column("username", "email").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// Delete removes a user; favorites and reviews cascade.
func (r *Impl) Delete(ctx context.Context, db bun.IDB, id int64) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// AddFavorites inserts a link for each code whose club still exists. Codes
// that vanished are skipped; existing links are left alone.
func (r *Impl) AddFavorites(ctx context.Context, db bun.IDB, userID int64, codes []string) ([]string, error) {
	db = r.resolveDB(db)
	if len(codes) == 0 {
		return []string{}, nil
	}

	var linked []string
	err := db.NewRaw(`
		INSERT INTO user_favorites (user_id, club_code)
		SELECT ?, c.code FROM clubs AS c WHERE c.code IN (?)
		ON CONFLICT DO NOTHING
		RETURNING club_code`,
		userID, bun.In(codes),
	).Scan(ctx, &linked)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to add favorites: %w", err)
	}
	sort.Strings(linked)
	return linked, nil
}

// ReplaceFavorites clears the user's links and inserts codes.
func (r *Impl) ReplaceFavorites(ctx context.Context, db bun.IDB, userID int64, codes []string) error {
	db = r.resolveDB(db)
	if _, err := db.NewDelete().
		Model((*Favorite)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	if len(codes) == 0 {
		return nil
	}

	links := make([]Favorite, len(codes))
	for i, code := range codes {
		links[i] = Favorite{UserID: userID, ClubCode: code}
	}
	if _, err := db.NewInsert().
		Model(&links).
		Column("user_id", "club_code").
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert favorites: %w", err)
	}
	return nil
}

// loadFavorites fills Favorites on each user with one query.
func (r *Impl) loadFavorites(ctx context.Context, db bun.IDB, users []*User) error {
	if len(users) == 0 {
		return nil
	}
	byID := make(map[int64]*User, len(users))
	ids := make([]int64, len(users))
	for i, u := range users {
		byID[u.ID] = u
		ids[i] = u.ID
		u.Favorites = []string{}
	}

	var links []Favorite
	if err := db.NewSelect().
		Model(&links).
		Where("user_id IN (?)", bun.In(ids)).
		OrderExpr("club_code ASC").
		Scan(ctx); err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}
	for _, l := range links {
		if u, ok := byID[l.UserID]; ok {
			u.Favorites = append(u.Favorites, l.ClubCode)
		}
	}
	return nil
}
