package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	"github.com/Black-And-White-Club/club-review/app"
	"github.com/Black-And-White-Club/club-review/app/eventbus"
	"github.com/Black-And-White-Club/club-review/app/shared/observability"
	"github.com/Black-And-White-Club/club-review/config"
	"github.com/Black-And-White-Club/club-review/internal/db/bundb"
	"github.com/Black-And-White-Club/club-review/internal/importer"
	"github.com/Black-And-White-Club/club-review/internal/modules"
)

func main() {
	cliApp := &cli.App{
		Name:  "clubreview",
		Usage: "Penn Club Review catalog service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newMigrateCommand(),
			newImportCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads the configuration named by the global flag and builds the
// process logger from it.
func setup(c *cli.Context) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).
		With("service", "clubreview", "environment", cfg.Observability.Environment)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.NewApp(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Start(ctx)
		},
	}
}

// withDB opens the configured database for the duration of fn.
func withDB(c *cli.Context, fn func(ctx context.Context, db *bun.DB, logger *slog.Logger) error) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	db, err := bundb.Open(c.Context, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(c.Context, db, logger)
}

func printGroup(action string) func(module string, group *migrate.MigrationGroup) {
	return func(module string, group *migrate.MigrationGroup) {
		if group.IsZero() {
			fmt.Printf("No migrations to %s for module: %s\n", action, module)
			return
		}
		fmt.Printf("Module %s: %s %s\n", module, action, group)
	}
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withDB(c, func(ctx context.Context, db *bun.DB, _ *slog.Logger) error {
						return modules.Init(ctx, modules.Migrators(db))
					})
				},
			},
			{
				Name:  "up",
				Usage: "apply pending migrations for every module",
				Action: func(c *cli.Context) error {
					return withDB(c, func(ctx context.Context, db *bun.DB, _ *slog.Logger) error {
						return modules.MigrateAll(ctx, db, printGroup("migrate"))
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group of every module",
				Action: func(c *cli.Context) error {
					return withDB(c, func(ctx context.Context, db *bun.DB, _ *slog.Logger) error {
						return modules.RollbackAll(ctx, db, printGroup("roll back"))
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withDB(c, func(ctx context.Context, db *bun.DB, _ *slog.Logger) error {
						for _, m := range modules.Migrators(db) {
							ms, err := m.MigrationsWithStatus(ctx)
							if err != nil {
								return err
							}
							fmt.Printf("Migrations for module: %s\n", m.Name)
							fmt.Printf("  Applied: %s\n", ms.Applied())
							fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
						}
						return nil
					})
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					return withDB(c, func(ctx context.Context, db *bun.DB, _ *slog.Logger) error {
						moduleName := c.Args().First()
						for _, m := range modules.Migrators(db) {
							if m.Name != moduleName {
								continue
							}
							mf, err := m.CreateGoMigration(ctx, strings.Join(c.Args().Tail(), "_"))
							if err != nil {
								return err
							}
							fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
							return nil
						}
						return fmt.Errorf("invalid module name: %s", moduleName)
					})
				},
			},
		},
	}
}

func newImportCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "load clubs from a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Value: "clubs.json", Usage: "JSON array of club records"},
			&cli.StringFlag{Name: "format", Value: string(importer.FormatLegacy), Usage: "record shape: legacy or current"},
			&cli.StringFlag{Name: "seed-user", Usage: "create a user after the import, as name:email:code1,code2"},
		},
		Action: func(c *cli.Context) error {
			format, err := importer.ParseFormat(c.String("format"))
			if err != nil {
				return err
			}
			f, err := os.Open(c.String("file"))
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer f.Close()

			return withDB(c, func(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
				registry, err := modules.NewModuleRegistry(ctx, observability.New(logger, nil, nil), eventbus.Discard{}, nil, nil, db)
				if err != nil {
					return err
				}
				im := importer.New(registry.ClubModule.ClubService, registry.UserModule.UserService, logger)

				report, err := im.Run(ctx, f, format)
				if err != nil {
					return err
				}
				fmt.Printf("Imported %d clubs\n", len(report.Created))
				for _, failure := range report.Failures {
					fmt.Printf("  record %d (%s): %s\n", failure.Index, failure.Code, failure.Reason)
				}

				if seed := c.String("seed-user"); seed != "" {
					user, err := im.SeedUser(ctx, seed)
					if err != nil {
						return err
					}
					fmt.Printf("Created user %s (id %d)\n", user.Username, user.ID)
				}

				if report.Failed() {
					return cli.Exit(fmt.Sprintf("%d records failed to import", len(report.Failures)), 1)
				}
				return nil
			})
		},
	}
}
