package usermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating users and user_favorites tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS users (
					id BIGSERIAL PRIMARY KEY,
					username TEXT NOT NULL,
					email VARCHAR(255) NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT users_username_key UNIQUE (username),
					CONSTRAINT users_email_key UNIQUE (email)
				);
			`); err != nil {
				return fmt.Errorf("failed to create users table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS user_favorites (
					user_id BIGINT NOT NULL,
					club_code VARCHAR(50) NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT user_favorites_pkey PRIMARY KEY (user_id, club_code),
					CONSTRAINT user_favorites_user_id_fkey FOREIGN KEY (user_id)
						REFERENCES users(id) ON DELETE CASCADE,
					CONSTRAINT user_favorites_club_code_fkey FOREIGN KEY (club_code)
						REFERENCES clubs(code) ON DELETE CASCADE
				);
				CREATE INDEX IF NOT EXISTS idx_user_favorites_club_code ON user_favorites(club_code);
			`); err != nil {
				return fmt.Errorf("failed to create user_favorites table: %w", err)
			}

			fmt.Println("Users tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping user_favorites and users tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS user_favorites;
			DROP TABLE IF EXISTS users;
		`)
		if err != nil {
			return fmt.Errorf("failed to drop users tables: %w", err)
		}
		return nil
	})
}
