// Package bundb opens the Postgres connection pool shared by every module.
package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/Black-And-White-Club/club-review/app/shared/attr"
	"github.com/Black-And-White-Club/club-review/config"
)

// Open connects with the configured driver, pings the server and wraps the
// pool in a bun.DB.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*bun.DB, error) {
	sqldb, err := pgConn(ctx, cfg)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to PostgreSQL",
			attr.String("driver", cfg.Driver),
			attr.Error(err),
		)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.InfoContext(ctx, "Database connection established", attr.String("driver", cfg.Driver))
	return BunDB(sqldb), nil
}

// BunDB returns a new bun.DB for given sql.DB connection pool.
func BunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

func pgConn(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	var sqldb *sql.DB
	switch cfg.Driver {
	case config.DriverPGX:
		var err error
		if sqldb, err = sql.Open("pgx", cfg.DSN); err != nil {
			return nil, err
		}
	default:
		sqldb = sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	}

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return sqldb, nil
}
