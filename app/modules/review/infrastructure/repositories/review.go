package reviewdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new review repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// selectReviews starts a query over reviews joined to their authors.
func selectReviews(db bun.IDB, model any) *bun.SelectQuery {
	return db.NewSelect().
		Model(model).
		ColumnExpr("r.*").
		ColumnExpr("u.username AS username").
		Join("JOIN users AS u ON u.id = r.user_id")
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id int64) (*Review, error) {
	db = r.resolveDB(db)
	review := new(Review)
	if err := selectReviews(db, review).Where("r.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get review by id: %w", err)
	}
	return review, nil
}

func (r *Impl) GetByUserAndClub(ctx context.Context, db bun.IDB, userID int64, code string) (*Review, error) {
	db = r.resolveDB(db)
	review := new(Review)
	err := selectReviews(db, review).
		Where("r.user_id = ?", userID).
		Where("r.club_code = ?", code).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get review by user and club: %w", err)
	}
	return review, nil
}

func (r *Impl) Page(ctx context.Context, db bun.IDB, limit, offset int) ([]*Review, int, error) {
	db = r.resolveDB(db)
	reviews := []*Review{}
	total, err := selectReviews(db, &reviews).
		OrderExpr("r.id ASC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

func (r *Impl) ListByClub(ctx context.Context, db bun.IDB, code string, f ClubFilter) ([]*Review, error) {
	db = r.resolveDB(db)
	reviews := []*Review{}
	q := selectReviews(db, &reviews).Where("r.club_code = ?", code)
	if f.MinRating > 0 {
		q = q.Where("r.rating >= ?", f.MinRating)
	}

	column := "r.created_at"
	if f.SortBy == SortByRating {
		column = "r.rating"
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}
	q = q.OrderExpr("? "+dir, bun.Safe(column)).OrderExpr("r.id " + dir)

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list club reviews: %w", err)
	}
	return reviews, nil
}

func (r *Impl) ListByUser(ctx context.Context, db bun.IDB, userID int64) ([]*Review, error) {
	db = r.resolveDB(db)
	reviews := []*Review{}
	if err := selectReviews(db, &reviews).
		Where("r.user_id = ?", userID).
		OrderExpr("r.created_at DESC").
		OrderExpr("r.id DESC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list user reviews: %w", err)
	}
	return reviews, nil
}

func (r *Impl) RatingCounts(ctx context.Context, db bun.IDB, code string) (map[int]int, error) {
	db = r.resolveDB(db)
	var rows []ratingCount
	if err := db.NewSelect().
		Model((*Review)(nil)).
		Column("rating").
		ColumnExpr("COUNT(*) AS count").
		Where("club_code = ?", code).
		Group("rating").
		Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}
	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}
	return counts, nil
}

func (r *Impl) ClubName(ctx context.Context, db bun.IDB, code string) (string, error) {
	db = r.resolveDB(db)
	var name string
	if err := db.NewSelect().
		Table("clubs").
		Column("name").
		Where("code = ?", code).
		Scan(ctx, &name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrClubNotFound
		}
		return "", fmt.Errorf("failed to get club name: %w", err)
	}
	return name, nil
}

func (r *Impl) Insert(ctx context.Context, db bun.IDB, review *Review) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().
		Model(review).
		Column("user_id", "club_code", "rating", "title", "text", "created_at", "updated_at").
		Returning("id").
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns; user and club never change.
func (r *Impl) Update(ctx context.Context, db bun.IDB, review *Review) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model(review).
		Column("rating", "title", "text", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
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

func (r *Impl) Delete(ctx context.Context, db bun.IDB, id int64) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Review)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
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
