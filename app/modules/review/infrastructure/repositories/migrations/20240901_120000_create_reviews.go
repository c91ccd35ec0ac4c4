package reviewmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating reviews table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS reviews (
					id BIGSERIAL PRIMARY KEY,
					user_id BIGINT NOT NULL,
					club_code VARCHAR(50) NOT NULL,
					rating INTEGER NOT NULL,
					title TEXT NOT NULL,
					text TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT reviews_user_club_key UNIQUE (user_id, club_code),
					CONSTRAINT reviews_rating_check CHECK (rating BETWEEN 1 AND 10),
					CONSTRAINT reviews_user_id_fkey FOREIGN KEY (user_id)
						REFERENCES users(id) ON DELETE CASCADE,
					CONSTRAINT reviews_club_code_fkey FOREIGN KEY (club_code)
						REFERENCES clubs(code) ON DELETE CASCADE
				);
				CREATE INDEX IF NOT EXISTS idx_reviews_club_code ON reviews(club_code);
			`); err != nil {
				return fmt.Errorf("failed to create reviews table: %w", err)
			}

			fmt.Println("Reviews table created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping reviews table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS reviews;`); err != nil {
			return fmt.Errorf("failed to drop reviews table: %w", err)
		}
		return nil
	})
}
