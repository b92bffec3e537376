package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonceCounterSequential(t *testing.T) {
	ctx := context.Background()
	rig := newTestRig()

	info, err := rig.engine.Seeds.Bootstrap(ctx)
	require.NoError(t, err)

	for want := uint64(0); want < 5; want++ {
		nonce, err := rig.engine.Nonces.Reserve(ctx, "user-1", info.ID)
		require.NoError(t, err)
		assert.Equal(t, want, nonce)
	}

	// Counters are independent per user
	nonce, err := rig.engine.Nonces.Reserve(ctx, "user-2", info.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), nonce)
}

func TestNonceCounterConcurrent(t *testing.T) {
	ctx := context.Background()
	rig := newTestRig()

	info, err := rig.engine.Seeds.Bootstrap(ctx)
	require.NoError(t, err)

	const n = 200
	results := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nonce, err := rig.engine.Nonces.Reserve(ctx, "user-1", info.ID)
			if err != nil {
				t.Error(err)
				return
			}
			results <- nonce
		}()
	}
	wg.Wait()
	close(results)

	// Exactly {0..n-1}, no duplicates, no gaps
	seen := make(map[uint64]bool, n)
	for nonce := range results {
		assert.False(t, seen[nonce], "nonce %d issued twice", nonce)
		assert.Less(t, nonce, uint64(n))
		seen[nonce] = true
	}
	assert.Len(t, seen, n)
}

func TestNonceCounterStaleSeed(t *testing.T) {
	ctx := context.Background()
	rig := newTestRig()

	initial, err := rig.engine.Seeds.Bootstrap(ctx)
	require.NoError(t, err)

	_, err = rig.engine.Nonces.Reserve(ctx, "user-1", initial.ID)
	require.NoError(t, err)

	_, next, err := rig.engine.Rotate(ctx)
	require.NoError(t, err)

	// The retired seed no longer accepts reservations
	_, err = rig.engine.Nonces.Reserve(ctx, "user-1", initial.ID)
	assert.ErrorIs(t, err, ErrStaleSeed)

	// Unknown seeds fail loudly
	_, err = rig.engine.Nonces.Reserve(ctx, "user-1", "no-such-seed")
	assert.ErrorIs(t, err, ErrSeedNotFound)

	// Counters reset under the successor seed: scoped to one seed's lifetime
	nonce, err := rig.engine.Nonces.Reserve(ctx, "user-1", next.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), nonce)
}
