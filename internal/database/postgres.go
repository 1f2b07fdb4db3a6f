package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationName = "nested-seeder"

// NewPostgresPool creates a new PostgreSQL connection pool.
// The seeder writes once per run, so pools stay small.
func NewPostgresPool(ctx context.Context, dsn string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}

	config.ConnConfig.RuntimeParams["application_name"] = applicationName

	if maxConns > 0 {
		config.MaxConns = maxConns
	}
	if minConns >= 0 && minConns <= config.MaxConns {
		config.MinConns = minConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
