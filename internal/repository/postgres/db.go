package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"cargoexchange/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)

	_ repository.CargoRepository = (*CargoRepository)(nil)
	_ repository.MatchRepository = (*MatchRepository)(nil)
	_ repository.UserRepository  = (*UserRepository)(nil)
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		email      VARCHAR(255) UNIQUE NOT NULL,
		phone      VARCHAR(20),
		company    VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS cargo (
		id                   TEXT PRIMARY KEY,
		user_id              TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		cargo_type           VARCHAR(50) NOT NULL CHECK (cargo_type IN ('electronics', 'furniture', 'clothing', 'food', 'machinery', 'chemicals', 'textiles', 'automotive', 'medical', 'other')),
		origin               VARCHAR(255) NOT NULL,
		destination          VARCHAR(255) NOT NULL,
		origin_lat           DOUBLE PRECISION,
		origin_lng           DOUBLE PRECISION,
		destination_lat      DOUBLE PRECISION,
		destination_lng      DOUBLE PRECISION,
		weight               DOUBLE PRECISION NOT NULL CHECK (weight > 0),
		volume               DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (volume >= 0),
		special_requirements TEXT,
		budget               DOUBLE PRECISION NOT NULL CHECK (budget > 0),
		pickup_date          DATE NOT NULL,
		delivery_date        DATE NOT NULL,
		status               VARCHAR(20) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'matched', 'in_transit', 'delivered', 'cancelled')),
		priority             VARCHAR(10) NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high', 'urgent')),
		created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id                  TEXT PRIMARY KEY,
		cargo1_id           TEXT NOT NULL REFERENCES cargo(id) ON DELETE CASCADE,
		cargo2_id           TEXT NOT NULL REFERENCES cargo(id) ON DELETE CASCADE,
		exchange_point      VARCHAR(255),
		cost_savings        DOUBLE PRECISION,
		compatibility_score INTEGER NOT NULL DEFAULT 85,
		status              VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'rejected', 'completed')),
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (cargo1_id, cargo2_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cargo_origin_destination ON cargo(origin, destination)`,
	`CREATE INDEX IF NOT EXISTS idx_cargo_status_created ON cargo(status, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_cargo_user_id ON cargo(user_id)`,
}

// EnsureSchema creates the tables and indexes used by the repositories.
// Every statement is idempotent, so it is safe to run on each start.
func EnsureSchema(ctx context.Context, q Querier) error {
	for i, stmt := range schema {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
