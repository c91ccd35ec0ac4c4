// Package testutils provides the shared Postgres/NATS environment and data
// helpers used by the integration test packages.
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Black-And-White-Club/club-review/app/eventbus"
	"github.com/Black-And-White-Club/club-review/app/shared/observability"
	"github.com/Black-And-White-Club/club-review/config"
	"github.com/Black-And-White-Club/club-review/integration_tests/containers"
	"github.com/Black-And-White-Club/club-review/internal/db/bundb"
	"github.com/Black-And-White-Club/club-review/internal/modules"
)

// Tables lists every application table in truncation order.
var Tables = []string{"reviews", "user_favorites", "users", "club_tags", "tags", "clubs"}

// TestEnvironment holds the containers and connections shared by the tests
// of one package.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	DB            *bun.DB
	Config        *config.Config
	Logger        *slog.Logger
}

// Options selects the optional containers of an environment.
type Options struct {
	WithNATS bool
}

// NewTestEnvironment starts Postgres, and NATS when asked, then applies
// every module migration.
func NewTestEnvironment(opts Options) (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())

	env := &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer

	defaults := config.Defaults()
	env.Config = &defaults
	env.Config.Database = config.DatabaseConfig{DSN: pgConnStr, Driver: config.DriverPGX}
	env.Config.Observability.MetricsEnabled = false

	if opts.WithNATS {
		natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
		if err != nil {
			env.Cleanup()
			return nil, fmt.Errorf("failed to setup nats container: %w", err)
		}
		env.NatsContainer = natsContainer
		env.Config.NATS.URL = natsURL
	}

	sqlDB, err := sql.Open("pgx", pgConnStr)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	env.DB = bundb.BunDB(sqlDB)

	if err := modules.MigrateAll(ctx, env.DB, nil); err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("All migrations ran successfully")
	return env, nil
}

// Reset empties every application table and restarts the id sequences.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	for _, table := range Tables {
		if _, err := env.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// Modules builds the service layer over the environment's database. Events
// go to pub, or are discarded when pub is nil.
func (env *TestEnvironment) Modules(pub eventbus.Publisher) (*modules.ModuleRegistry, error) {
	if pub == nil {
		pub = eventbus.Discard{}
	}
	return modules.NewModuleRegistry(env.Ctx, observability.New(env.Logger, nil, nil), pub, nil, nil, env.DB)
}

// Cleanup tears down all resources created for testing.
func (env *TestEnvironment) Cleanup() {
	if env.CancelContext != nil {
		env.CancelContext()
	}
	if env.DB != nil {
		env.DB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating NATS container: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating Postgres container: %v", err)
		}
	}
}

// RecordingPublisher keeps every published topic in order.
type RecordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *RecordingPublisher) Publish(_ context.Context, topic string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

// Topics returns a copy of the recorded topics.
func (p *RecordingPublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}
