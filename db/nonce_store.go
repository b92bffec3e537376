package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairhouse/engine"
)

// NonceStore is the PostgreSQL implementation of engine.NonceStore. The
// reserve is a single upsert whose row lock makes concurrent reservations
// for the same (user, seed) pair queue up, so each caller sees a distinct,
// strictly increasing nonce.
type NonceStore struct {
	pool *pgxpool.Pool
}

func NewNonceStore(pool *pgxpool.Pool) *NonceStore {
	return &NonceStore{pool: pool}
}

func (s *NonceStore) Reserve(ctx context.Context, userID, serverSeedID string) (uint64, error) {
	const op = "db.NonceStore.Reserve"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	// FOR SHARE holds the seed row against rotation (which takes FOR UPDATE)
	// for the duration of the reservation
	var state string
	err = tx.QueryRow(ctx,
		`SELECT state FROM server_seeds WHERE id = $1 FOR SHARE`,
		serverSeedID).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, engine.ErrSeedNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if engine.SeedState(state) != engine.SeedStateActive {
		return 0, fmt.Errorf("%s: %w", op, engine.ErrStaleSeed)
	}

	// Atomic read-and-increment; RETURNING hands back the value just consumed
	var reserved int64
	err = tx.QueryRow(ctx, `
		INSERT INTO nonce_states (user_id, server_seed_id, next_nonce)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, server_seed_id)
		DO UPDATE SET next_nonce = nonce_states.next_nonce + 1
		RETURNING next_nonce - 1
	`, userID, serverSeedID).Scan(&reserved)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return uint64(reserved), nil
}
