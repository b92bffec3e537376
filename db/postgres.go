package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fairhouse/config"
)

var (
	// PostgresPool is the global PostgreSQL connection pool
	PostgresPool *pgxpool.Pool
)

// InitPostgres initializes the PostgreSQL connection pool
func InitPostgres() error {
	log.Println("🔌 Connecting to PostgreSQL...")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = config.PostgresMaxConns
	poolConfig.MinConns = config.PostgresMinConns
	poolConfig.MaxConnLifetime = config.PostgresConnMaxLifetime

	PostgresPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := PostgresPool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ PostgreSQL connected successfully")

	if err := InitSchema(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// ClosePostgres closes the PostgreSQL connection pool
func ClosePostgres() {
	if PostgresPool != nil {
		log.Println("🔌 Closing PostgreSQL connection...")
		PostgresPool.Close()
	}
}

// InitSchema creates the database tables if they don't exist
func InitSchema(ctx context.Context) error {
	log.Println("📋 Initializing database schema...")

	// Server seeds: the commitment history. Rows are never deleted, and the
	// partial unique index keeps at most one seed active.
	serverSeedsSchema := `
	CREATE TABLE IF NOT EXISTS server_seeds (
		id UUID PRIMARY KEY,
		seed TEXT NOT NULL,
		seed_hash TEXT NOT NULL UNIQUE,
		state TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		revealed_at TIMESTAMPTZ
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_server_seeds_single_active
		ON server_seeds(state) WHERE state = 'active';

	CREATE INDEX IF NOT EXISTS idx_server_seeds_revealed_at
		ON server_seeds(revealed_at DESC) WHERE state = 'revealed';
	`

	if _, err := PostgresPool.Exec(ctx, serverSeedsSchema); err != nil {
		return fmt.Errorf("failed to create server_seeds table: %w", err)
	}

	clientSeedsSchema := `
	CREATE TABLE IF NOT EXISTS client_seeds (
		user_id TEXT PRIMARY KEY,
		seed TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	if _, err := PostgresPool.Exec(ctx, clientSeedsSchema); err != nil {
		return fmt.Errorf("failed to create client_seeds table: %w", err)
	}

	// Nonce counters, one row per (user, server seed) pair
	nonceStatesSchema := `
	CREATE TABLE IF NOT EXISTS nonce_states (
		user_id TEXT NOT NULL,
		server_seed_id UUID NOT NULL REFERENCES server_seeds(id),
		next_nonce BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, server_seed_id)
	);
	`

	if _, err := PostgresPool.Exec(ctx, nonceStatesSchema); err != nil {
		return fmt.Errorf("failed to create nonce_states table: %w", err)
	}

	// Immutable round audit records
	gameRoundsSchema := `
	CREATE TABLE IF NOT EXISTS game_rounds (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		server_seed_id UUID NOT NULL REFERENCES server_seeds(id),
		client_seed TEXT NOT NULL,
		nonce BIGINT NOT NULL,
		game_type TEXT NOT NULL,
		derived_value DOUBLE PRECISION NOT NULL,
		result JSONB NOT NULL,
		status TEXT NOT NULL DEFAULT 'settled',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, server_seed_id, nonce)
	);

	CREATE INDEX IF NOT EXISTS idx_game_rounds_user ON game_rounds(user_id);
	CREATE INDEX IF NOT EXISTS idx_game_rounds_created_at ON game_rounds(created_at DESC);
	`

	if _, err := PostgresPool.Exec(ctx, gameRoundsSchema); err != nil {
		return fmt.Errorf("failed to create game_rounds table: %w", err)
	}

	// Crate distributions are owned by the catalog collaborator; the engine
	// only reads them
	crateDistributionsSchema := `
	CREATE TABLE IF NOT EXISTS crate_distributions (
		crate_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		weight DOUBLE PRECISION NOT NULL,
		position INT NOT NULL DEFAULT 0,
		PRIMARY KEY (crate_id, item_id)
	);
	`

	if _, err := PostgresPool.Exec(ctx, crateDistributionsSchema); err != nil {
		return fmt.Errorf("failed to create crate_distributions table: %w", err)
	}

	// Verification mismatches land here for manual review
	fairnessAuditsSchema := `
	CREATE TABLE IF NOT EXISTS fairness_audits (
		id SERIAL PRIMARY KEY,
		round_id TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL,
		detail TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	if _, err := PostgresPool.Exec(ctx, fairnessAuditsSchema); err != nil {
		return fmt.Errorf("failed to create fairness_audits table: %w", err)
	}

	log.Println("✅ Database schema initialized")
	return nil
}

/* =========================
   HEALTH CHECK
========================= */

// HealthCheckPostgres performs a PostgreSQL health check
func HealthCheckPostgres(ctx context.Context) error {
	if PostgresPool == nil {
		return fmt.Errorf("PostgreSQL connection pool not initialized")
	}
	return PostgresPool.Ping(ctx)
}
