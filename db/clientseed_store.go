package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientSeedStore is the PostgreSQL implementation of engine.ClientSeedStore.
type ClientSeedStore struct {
	pool *pgxpool.Pool
}

func NewClientSeedStore(pool *pgxpool.Pool) *ClientSeedStore {
	return &ClientSeedStore{pool: pool}
}

func (s *ClientSeedStore) Get(ctx context.Context, userID string) (string, error) {
	const op = "db.ClientSeedStore.Get"

	var seed string
	err := s.pool.QueryRow(ctx,
		`SELECT seed FROM client_seeds WHERE user_id = $1`,
		userID).Scan(&seed)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return seed, nil
}

func (s *ClientSeedStore) Set(ctx context.Context, userID, seed string) error {
	const op = "db.ClientSeedStore.Set"

	query := `
		INSERT INTO client_seeds (user_id, seed)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET seed = $2
	`

	if _, err := s.pool.Exec(ctx, query, userID, seed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
