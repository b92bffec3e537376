package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairhouse/engine"
	"fairhouse/game"
)

// RoundStore is the PostgreSQL implementation of engine.RoundStore. Rounds
// are written once and never updated.
type RoundStore struct {
	pool *pgxpool.Pool
}

func NewRoundStore(pool *pgxpool.Pool) *RoundStore {
	return &RoundStore{pool: pool}
}

func (s *RoundStore) Insert(ctx context.Context, round *engine.Round) error {
	const op = "db.RoundStore.Insert"

	resultJSON, err := json.Marshal(round.Result)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal result: %w", op, err)
	}

	query := `
		INSERT INTO game_rounds
		(id, user_id, server_seed_id, client_seed, nonce, game_type, derived_value, result, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = s.pool.Exec(ctx, query,
		round.ID,
		round.UserID,
		round.ServerSeedID,
		round.ClientSeed,
		int64(round.Nonce),
		string(round.GameType),
		round.DerivedValue,
		resultJSON,
		string(round.Status),
		round.CreatedAt,
	)
	if err != nil {
		// The (user, seed, nonce) unique key is the last line of defense
		// against a nonce being consumed twice
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%s: %w", op, engine.ErrNonceConflict)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *RoundStore) ByID(ctx context.Context, id string) (*engine.Round, error) {
	const op = "db.RoundStore.ByID"

	query := `
		SELECT id, user_id, server_seed_id, client_seed, nonce, game_type, derived_value, result, status, created_at
		FROM game_rounds
		WHERE id = $1
	`

	var round engine.Round
	var nonce int64
	var gameType, status string
	var resultJSON []byte

	err := s.pool.QueryRow(ctx, query, id).Scan(
		&round.ID,
		&round.UserID,
		&round.ServerSeedID,
		&round.ClientSeed,
		&nonce,
		&gameType,
		&round.DerivedValue,
		&resultJSON,
		&status,
		&round.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, engine.ErrRoundNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := json.Unmarshal(resultJSON, &round.Result); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal result: %w", op, err)
	}
	round.Nonce = uint64(nonce)
	round.GameType = game.Type(gameType)
	round.Status = engine.RoundStatus(status)
	return &round, nil
}
