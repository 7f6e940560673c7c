package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	Pool *pgxpool.Pool
}

func Connect(databaseURL string) (*Database, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 2 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connected successfully")
	return &Database{Pool: pool}, nil
}

func (d *Database) Close() {
	if d.Pool != nil {
		d.Pool.Close()
		slog.Info("Database connection closed")
	}
}

func (d *Database) HealthCheck(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// EnsureSchema creates the reference and history tables when absent. The
// blacklist and exchange tables are populated out-of-band by batch jobs.
func (d *Database) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS blacklist_entries (
			domain TEXT PRIMARY KEY,
			severity TEXT NOT NULL DEFAULT 'high',
			source TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			listed_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS verified_exchanges (
			domain TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			country TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS domain_reports (
			id UUID PRIMARY KEY,
			domain TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT 'phishing',
			description TEXT NOT NULL DEFAULT '',
			reporter_ip TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_domain_reports_domain ON domain_reports (domain)`,
		`CREATE TABLE IF NOT EXISTS evaluations (
			id BIGSERIAL PRIMARY KEY,
			domain TEXT NOT NULL,
			mode TEXT NOT NULL,
			final_score INT NOT NULL,
			status TEXT NOT NULL,
			full_result JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_domain ON evaluations (domain, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := d.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
