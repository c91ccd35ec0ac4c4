package modules

import (
	"context"
	"fmt"
	"slices"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	clubmigrations "github.com/Black-And-White-Club/club-review/app/modules/club/infrastructure/repositories/migrations"
	reviewmigrations "github.com/Black-And-White-Club/club-review/app/modules/review/infrastructure/repositories/migrations"
	usermigrations "github.com/Black-And-White-Club/club-review/app/modules/user/infrastructure/repositories/migrations"
)

// ModuleMigrator runs the migrations of one module.
type ModuleMigrator struct {
	Name string
	*migrate.Migrator
}

// Migrators returns one migrator per module in foreign-key order: clubs,
// then users (favorites reference clubs), then reviews. All of them share
// the bun_migrations table.
func Migrators(db *bun.DB) []ModuleMigrator {
	return []ModuleMigrator{
		{Name: "club", Migrator: migrate.NewMigrator(db, clubmigrations.Migrations)},
		{Name: "user", Migrator: migrate.NewMigrator(db, usermigrations.Migrations)},
		{Name: "review", Migrator: migrate.NewMigrator(db, reviewmigrations.Migrations)},
	}
}

// Init creates the migration tables. It is idempotent.
func Init(ctx context.Context, migrators []ModuleMigrator) error {
	if len(migrators) == 0 {
		return nil
	}
	if err := migrators[0].Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}
	return nil
}

// MigrateAll initializes the migration tables and applies every pending
// migration in order. report is called once per module.
func MigrateAll(ctx context.Context, db *bun.DB, report func(module string, group *migrate.MigrationGroup)) error {
	migrators := Migrators(db)
	if err := Init(ctx, migrators); err != nil {
		return err
	}
	for _, m := range migrators {
		group, err := m.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", m.Name, err)
		}
		if report != nil {
			report(m.Name, group)
		}
	}
	return nil
}

// RollbackAll rolls back the last group of every module, dependents first.
func RollbackAll(ctx context.Context, db *bun.DB, report func(module string, group *migrate.MigrationGroup)) error {
	migrators := Migrators(db)
	slices.Reverse(migrators)
	for _, m := range migrators {
		group, err := m.Rollback(ctx)
		if err != nil {
			return fmt.Errorf("failed to roll back %s migrations: %w", m.Name, err)
		}
		if report != nil {
			report(m.Name, group)
		}
	}
	return nil
}
