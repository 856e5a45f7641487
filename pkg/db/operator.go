// Package db declares the contract of the PostgreSQL connection used to
// export dataset summaries.
package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seafront/seafront/pkg/config"
)

// Operator manages a PostgreSQL connection pool. Exporters use Pool for
// transactions and CopyFrom bulk inserts, schema creation goes through
// GORM AutoMigrate.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pool, nil before Connect.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the public schema.
	TableExists(ctx context.Context, tableName string) (bool, error)
}
