// Package iotesting provides shared helpers for tests that touch the
// file system or PostgreSQL.
package iotesting

import (
	"os"
	"strconv"
	"testing"

	"github.com/seafront/seafront/internal/iofs"
	"github.com/seafront/seafront/pkg/config"
)

const (
	// TestDatabaseName is the only database integration tests write to.
	TestDatabaseName = "seafront_test"

	// EnableDBEnv must be set to run PostgreSQL integration tests.
	EnableDBEnv = "SEAFRONT_TEST_DB"
)

// DatabaseConfig returns connection settings for integration tests.
// The test is skipped in short mode or when EnableDBEnv is unset.
// SEAFRONT_DATABASE_* variables override defaults, the database name
// is always TestDatabaseName.
func DatabaseConfig(t *testing.T) *config.DatabaseConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL test in short mode")
	}
	if os.Getenv(EnableDBEnv) == "" {
		t.Skipf("skipping PostgreSQL test, set %s=1 to run", EnableDBEnv)
	}

	cfg := config.New()
	var opts []config.Option
	if v := os.Getenv("SEAFRONT_DATABASE_HOST"); v != "" {
		opts = append(opts, config.OptDatabaseHost(v))
	}
	if v := os.Getenv("SEAFRONT_DATABASE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			opts = append(opts, config.OptDatabasePort(port))
		}
	}
	if v := os.Getenv("SEAFRONT_DATABASE_USER"); v != "" {
		opts = append(opts, config.OptDatabaseUser(v))
	}
	if v := os.Getenv("SEAFRONT_DATABASE_PASSWORD"); v != "" {
		opts = append(opts, config.OptDatabasePassword(v))
	}
	cfg.Update(opts)
	cfg.Database.Database = TestDatabaseName
	return &cfg.Database
}

// HomeDir creates a temporary home directory with seafront config
// directories and default files.
func HomeDir(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	if err := iofs.EnsureDirs(home); err != nil {
		t.Fatal(err)
	}
	if err := iofs.EnsureConfigFile(home); err != nil {
		t.Fatal(err)
	}
	if err := iofs.EnsureDatasetsFile(home); err != nil {
		t.Fatal(err)
	}
	return home
}
