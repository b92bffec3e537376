package engine

import (
	"context"

	"fairhouse/game"
)

// SeedStore persists server seeds. Implementations must guarantee at most one
// active seed at any time and make RotateAndReveal atomic: no window with
// zero or two active seeds.
type SeedStore interface {
	// InsertActive commits a fresh active seed. Fails with
	// ErrActiveSeedExists when another seed is still active.
	InsertActive(ctx context.Context, seed *ServerSeed) error

	// Active returns the current active seed, plaintext included.
	// ErrSeedNotFound when no seed has been committed yet.
	Active(ctx context.Context) (*ServerSeed, error)

	// ByID returns any seed by id, plaintext included. Callers expose the
	// plaintext only for revealed seeds.
	ByID(ctx context.Context, id string) (*ServerSeed, error)

	// RotateAndReveal marks the active seed revealed and activates next in
	// one transaction, returning the retired seed.
	RotateAndReveal(ctx context.Context, next *ServerSeed) (*ServerSeed, error)

	// Revealed lists retired seeds, newest first.
	Revealed(ctx context.Context, limit int) ([]*ServerSeed, error)
}

// ClientSeedStore persists per-user client seeds.
type ClientSeedStore interface {
	// Get returns the user's seed, or "" when none was ever stored.
	Get(ctx context.Context, userID string) (string, error)
	Set(ctx context.Context, userID, seed string) error
}

// NonceStore issues strictly increasing nonces per (user, server seed) pair.
// Reserve must be linearizable: two concurrent calls for the same pair never
// return the same nonce. Reserving against a non-active seed fails with
// ErrStaleSeed; reservation and seed rotation must not overlap.
type NonceStore interface {
	Reserve(ctx context.Context, userID, serverSeedID string) (uint64, error)
}

// RoundStore persists immutable round records.
type RoundStore interface {
	Insert(ctx context.Context, round *Round) error
	ByID(ctx context.Context, id string) (*Round, error)
}

// AuditStore records verification mismatches for manual review. Entries never
// alter settled rounds.
type AuditStore interface {
	Record(ctx context.Context, roundID, reason, detail string) error
}

// CrateCatalog supplies crate distributions. The catalog is owned by an
// external collaborator; the engine only reads and validates.
type CrateCatalog interface {
	Distribution(ctx context.Context, crateID string) (*game.CrateDistribution, error)
}

// Broadcaster receives fairness events for live feeds. Implementations must
// not block.
type Broadcaster interface {
	RoundSettled(round *Round)
	SeedRotated(retired *RevealedSeed, next SeedInfo)
}
