package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairhouse/engine"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// SeedStore is the PostgreSQL implementation of engine.SeedStore. The
// single-active invariant is enforced by a partial unique index, and rotation
// runs inside one transaction with the active row locked.
type SeedStore struct {
	pool *pgxpool.Pool
}

func NewSeedStore(pool *pgxpool.Pool) *SeedStore {
	return &SeedStore{pool: pool}
}

func (s *SeedStore) InsertActive(ctx context.Context, seed *engine.ServerSeed) error {
	const op = "db.SeedStore.InsertActive"

	query := `
		INSERT INTO server_seeds (id, seed, seed_hash, state, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query, seed.ID, seed.Seed, seed.SeedHash, string(seed.State), seed.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%s: %w", op, engine.ErrActiveSeedExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *SeedStore) Active(ctx context.Context) (*engine.ServerSeed, error) {
	const op = "db.SeedStore.Active"

	query := `
		SELECT id, seed, seed_hash, state, created_at, revealed_at
		FROM server_seeds
		WHERE state = 'active'
	`

	seed, err := scanSeed(s.pool.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return seed, nil
}

func (s *SeedStore) ByID(ctx context.Context, id string) (*engine.ServerSeed, error) {
	const op = "db.SeedStore.ByID"

	query := `
		SELECT id, seed, seed_hash, state, created_at, revealed_at
		FROM server_seeds
		WHERE id = $1
	`

	seed, err := scanSeed(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return seed, nil
}

// RotateAndReveal retires the active seed and activates next atomically. The
// FOR UPDATE lock serializes rotation against in-flight nonce reservations,
// which take FOR SHARE on the same row.
func (s *SeedStore) RotateAndReveal(ctx context.Context, next *engine.ServerSeed) (*engine.ServerSeed, error) {
	const op = "db.SeedStore.RotateAndReveal"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	lockQuery := `
		SELECT id, seed, seed_hash, state, created_at, revealed_at
		FROM server_seeds
		WHERE state = 'active'
		FOR UPDATE
	`

	retired, err := scanSeed(tx.QueryRow(ctx, lockQuery))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	revealedAt := time.Now().UTC()
	tag, err := tx.Exec(ctx,
		`UPDATE server_seeds SET state = 'revealed', revealed_at = $2 WHERE id = $1 AND state = 'active'`,
		retired.ID, revealedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%s: %w", op, engine.ErrSeedAlreadyRevealed)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO server_seeds (id, seed, seed_hash, state, created_at) VALUES ($1, $2, $3, $4, $5)`,
		next.ID, next.Seed, next.SeedHash, string(next.State), next.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	retired.State = engine.SeedStateRevealed
	retired.RevealedAt = &revealedAt
	return retired, nil
}

func (s *SeedStore) Revealed(ctx context.Context, limit int) ([]*engine.ServerSeed, error) {
	const op = "db.SeedStore.Revealed"

	query := `
		SELECT id, seed, seed_hash, state, created_at, revealed_at
		FROM server_seeds
		WHERE state = 'revealed'
		ORDER BY revealed_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var seeds []*engine.ServerSeed
	for rows.Next() {
		seed, err := scanSeed(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		seeds = append(seeds, seed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return seeds, nil
}

func scanSeed(row pgx.Row) (*engine.ServerSeed, error) {
	var seed engine.ServerSeed
	var state string
	err := row.Scan(&seed.ID, &seed.Seed, &seed.SeedHash, &state, &seed.CreatedAt, &seed.RevealedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, engine.ErrSeedNotFound
	}
	if err != nil {
		return nil, err
	}
	seed.State = engine.SeedState(state)
	return &seed, nil
}
