package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnString builds the Postgres connection string from env vars
func ConnString() string {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	name := os.Getenv("DB_NAME")
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		user, pass, host, port, name,
	)
}

// NewPgxPool opens the main pgx connection pool
func NewPgxPool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, ConnString())
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// NewSQLDB opens the secondary database/sql connection used by the
// reporting queries
func NewSQLDB() (*sql.DB, error) {
	return sql.Open("postgres", ConnString())
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS items (
		sku VARCHAR(50) PRIMARY KEY,
		name TEXT NOT NULL,
		group_name TEXT,
		dept_code TEXT,
		qty_total DOUBLE PRECISION NOT NULL DEFAULT 0,
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		months_inactive INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_items_dept ON items (dept_code)`,
	`CREATE INDEX IF NOT EXISTS idx_items_active ON items (is_active)`,
	`CREATE TABLE IF NOT EXISTS import_mappings (
		original_header TEXT PRIMARY KEY,
		target_field TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS collection_sessions (
		session_id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		department_lock TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_status ON collection_sessions (user_id, status)`,
	`CREATE TABLE IF NOT EXISTS claims (
		claim_id BIGSERIAL PRIMARY KEY,
		session_id UUID NOT NULL REFERENCES collection_sessions(session_id),
		sku VARCHAR(50) NOT NULL REFERENCES items(sku),
		quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
		surplus_quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT uniq_session_sku UNIQUE (session_id, sku)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_claims_sku ON claims (sku)`,
}

// Bootstrap creates the schema when it does not exist yet. Statements are
// idempotent so repeated startups are safe.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	return nil
}
