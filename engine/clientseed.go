package engine

import (
	"context"
	"fmt"

	"fairhouse/config"
	"fairhouse/crypto"
)

// ClientSeedRegistry stores per-user client seeds and hands out secure random
// defaults for users that never set one.
type ClientSeedRegistry struct {
	store ClientSeedStore
}

func NewClientSeedRegistry(store ClientSeedStore) *ClientSeedRegistry {
	return &ClientSeedRegistry{store: store}
}

// SetClientSeed validates and stores a user-chosen seed. Seeds are bounded
// printable ASCII; anything else is rejected with ErrInvalidClientSeed.
func (r *ClientSeedRegistry) SetClientSeed(ctx context.Context, userID, seed string) error {
	const op = "ClientSeedRegistry.SetClientSeed"

	if err := ValidateClientSeed(seed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := r.store.Set(ctx, userID, seed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ClientSeed returns the user's seed, lazily generating and persisting a
// random default on first use.
func (r *ClientSeedRegistry) ClientSeed(ctx context.Context, userID string) (string, error) {
	const op = "ClientSeedRegistry.ClientSeed"

	seed, err := r.store.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if seed != "" {
		return seed, nil
	}

	seed, err = crypto.GenerateClientSeed()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := r.store.Set(ctx, userID, seed); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return seed, nil
}

// ValidateClientSeed enforces the client-seed bounds: 1..64 printable ASCII
// characters.
func ValidateClientSeed(seed string) error {
	if len(seed) < config.ClientSeedMinLen || len(seed) > config.ClientSeedMaxLen {
		return fmt.Errorf("%w: length %d outside [%d, %d]",
			ErrInvalidClientSeed, len(seed), config.ClientSeedMinLen, config.ClientSeedMaxLen)
	}
	for _, c := range seed {
		if c < 0x20 || c > 0x7e {
			return fmt.Errorf("%w: non-printable character %q", ErrInvalidClientSeed, c)
		}
	}
	return nil
}
