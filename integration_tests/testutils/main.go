package testutils

import (
	"flag"
	"log"
	"testing"
)

// RunMain starts the shared environment for a test package, runs its tests
// and tears the environment down. In -short mode no containers are started
// and env receives nil.
func RunMain(m *testing.M, opts Options, env func(*TestEnvironment)) int {
	flag.Parse()
	if testing.Short() {
		log.Println("Short mode: integration environment not started")
		env(nil)
		return m.Run()
	}

	testEnv, err := NewTestEnvironment(opts)
	if err != nil {
		log.Printf("Failed to setup test environment: %v", err)
		return 1
	}
	defer testEnv.Cleanup()

	env(testEnv)
	return m.Run()
}

// Require skips t when no environment is running and otherwise resets the
// tables so each test starts from an empty catalog.
func Require(t *testing.T, env *TestEnvironment) {
	t.Helper()
	if env == nil {
		t.Skip("integration environment not running")
	}
	if err := env.Reset(env.Ctx); err != nil {
		t.Fatalf("failed to reset tables: %v", err)
	}
}
