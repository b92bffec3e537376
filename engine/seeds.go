package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fairhouse/crypto"
)

// SeedManager owns the server-seed lifecycle: commit, publish, rotate,
// reveal. It is the only component that creates or transitions seeds.
type SeedManager struct {
	seeds SeedStore
}

func NewSeedManager(seeds SeedStore) *SeedManager {
	return &SeedManager{seeds: seeds}
}

func newServerSeed() (*ServerSeed, error) {
	seed, hash, err := crypto.GenerateServerSeed()
	if err != nil {
		return nil, err
	}
	return &ServerSeed{
		ID:        uuid.NewString(),
		Seed:      seed,
		SeedHash:  hash,
		State:     SeedStateActive,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Bootstrap commits an initial active seed when none exists yet. Rotation is
// only valid from a revealed-or-absent predecessor, so a concurrent
// double-activation surfaces as ErrActiveSeedExists from the store.
func (m *SeedManager) Bootstrap(ctx context.Context) (SeedInfo, error) {
	const op = "SeedManager.Bootstrap"

	if active, err := m.seeds.Active(ctx); err == nil {
		return active.Info(), nil
	}

	seed, err := newServerSeed()
	if err != nil {
		return SeedInfo{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := m.seeds.InsertActive(ctx, seed); err != nil {
		return SeedInfo{}, fmt.Errorf("%s: %w", op, err)
	}
	return seed.Info(), nil
}

// ActiveInfo returns the public commitment of the current active seed. The
// plaintext of an active seed never leaves the store through this path.
func (m *SeedManager) ActiveInfo(ctx context.Context) (SeedInfo, error) {
	const op = "SeedManager.ActiveInfo"

	active, err := m.seeds.Active(ctx)
	if err != nil {
		return SeedInfo{}, fmt.Errorf("%s: %w", op, err)
	}
	return active.Info(), nil
}

// RotateAndReveal atomically retires the active seed, publishing its
// plaintext, and activates a freshly generated successor. There is never a
// window with zero or two active seeds.
func (m *SeedManager) RotateAndReveal(ctx context.Context) (*RevealedSeed, SeedInfo, error) {
	const op = "SeedManager.RotateAndReveal"

	next, err := newServerSeed()
	if err != nil {
		return nil, SeedInfo{}, fmt.Errorf("%s: %w", op, err)
	}

	retired, err := m.seeds.RotateAndReveal(ctx, next)
	if err != nil {
		return nil, SeedInfo{}, fmt.Errorf("%s: %w", op, err)
	}

	revealedAt := time.Now().UTC()
	if retired.RevealedAt != nil {
		revealedAt = *retired.RevealedAt
	}

	return &RevealedSeed{
		ID:         retired.ID,
		Seed:       retired.Seed,
		SeedHash:   retired.SeedHash,
		CreatedAt:  retired.CreatedAt,
		RevealedAt: revealedAt,
	}, next.Info(), nil
}

// History lists revealed seeds, newest first, for third-party audit.
func (m *SeedManager) History(ctx context.Context, limit int) ([]*RevealedSeed, error) {
	const op = "SeedManager.History"

	seeds, err := m.seeds.Revealed(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]*RevealedSeed, 0, len(seeds))
	for _, s := range seeds {
		revealed := RevealedSeed{
			ID:        s.ID,
			Seed:      s.Seed,
			SeedHash:  s.SeedHash,
			CreatedAt: s.CreatedAt,
		}
		if s.RevealedAt != nil {
			revealed.RevealedAt = *s.RevealedAt
		}
		out = append(out, &revealed)
	}
	return out, nil
}
