package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditStore is the PostgreSQL implementation of engine.AuditStore.
// Verification mismatches land here and wait for manual review.
type AuditStore struct {
	pool *pgxpool.Pool
}

func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	return &AuditStore{pool: pool}
}

func (s *AuditStore) Record(ctx context.Context, roundID, reason, detail string) error {
	const op = "db.AuditStore.Record"

	query := `
		INSERT INTO fairness_audits (round_id, reason, detail)
		VALUES ($1, $2, $3)
	`

	if _, err := s.pool.Exec(ctx, query, roundID, reason, detail); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Printf("🚨 Fairness audit entry recorded - Round: %q, Reason: %s", roundID, reason)
	return nil
}

// AuditEntry is one recorded mismatch.
type AuditEntry struct {
	ID        int       `json:"id"`
	RoundID   string    `json:"roundId"`
	Reason    string    `json:"reason"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
}

// Recent lists the newest audit entries for the review queue.
func (s *AuditStore) Recent(ctx context.Context, limit int) ([]*AuditEntry, error) {
	const op = "db.AuditStore.Recent"

	query := `
		SELECT id, round_id, reason, detail, created_at
		FROM fairness_audits
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var entries []*AuditEntry
	for rows.Next() {
		var entry AuditEntry
		if err := rows.Scan(&entry.ID, &entry.RoundID, &entry.Reason, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}
