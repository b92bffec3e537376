package engine

import (
	"context"
	"fmt"
)

// NonceCounter issues strictly increasing, non-reusable nonces per
// (user, server seed) pair. The heavy lifting lives in the NonceStore, whose
// reserve operation is linearizable; a consumed nonce stays consumed even
// when the round it was reserved for later fails.
type NonceCounter struct {
	store NonceStore
}

func NewNonceCounter(store NonceStore) *NonceCounter {
	return &NonceCounter{store: store}
}

// Reserve atomically takes the next nonce for the pair. ErrStaleSeed signals
// the seed rotated out from under the caller: retry against the current
// active seed.
func (c *NonceCounter) Reserve(ctx context.Context, userID, serverSeedID string) (uint64, error) {
	const op = "NonceCounter.Reserve"

	nonce, err := c.store.Reserve(ctx, userID, serverSeedID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return nonce, nil
}
