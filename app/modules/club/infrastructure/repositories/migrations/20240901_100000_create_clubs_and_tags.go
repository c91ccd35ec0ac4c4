package clubmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating clubs, tags and club_tags tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS clubs (
					code VARCHAR(50) NOT NULL,
					name TEXT NOT NULL,
					description TEXT NOT NULL,
					member_count INTEGER NOT NULL DEFAULT 0,
					undergraduates_allowed BOOLEAN NOT NULL DEFAULT TRUE,
					graduates_allowed BOOLEAN NOT NULL DEFAULT FALSE,
					date_created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT clubs_pkey PRIMARY KEY (code),
					CONSTRAINT clubs_member_count_check CHECK (member_count BETWEEN 0 AND 100000),
					CONSTRAINT clubs_student_type_check CHECK (undergraduates_allowed OR graduates_allowed)
				);
			`); err != nil {
				return fmt.Errorf("failed to create clubs table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS tags (
					name TEXT PRIMARY KEY
				);
			`); err != nil {
				return fmt.Errorf("failed to create tags table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS club_tags (
					club_code VARCHAR(50) NOT NULL REFERENCES clubs(code) ON DELETE CASCADE,
					tag_name TEXT NOT NULL REFERENCES tags(name) ON DELETE CASCADE,
					PRIMARY KEY (club_code, tag_name)
				);
				CREATE INDEX IF NOT EXISTS idx_club_tags_tag_name ON club_tags(tag_name);
				CREATE INDEX IF NOT EXISTS idx_clubs_name_lower ON clubs(lower(name));
			`); err != nil {
				return fmt.Errorf("failed to create club_tags table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping club_tags, tags and clubs tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS club_tags;
				DROP TABLE IF EXISTS tags;
				DROP TABLE IF EXISTS clubs;
			`); err != nil {
				return fmt.Errorf("failed to drop club tables: %w", err)
			}
			return nil
		})
	})
}
