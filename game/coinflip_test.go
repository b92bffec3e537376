package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinflipMap(t *testing.T) {
	m := CoinflipMapper{}

	cases := []struct {
		outcome float64
		want    Side
	}{
		{0.0, SideHeads},
		{0.25, SideHeads},
		{0.49999999, SideHeads},
		{0.5, SideTails}, // threshold itself is tails
		{0.75, SideTails},
		{0.9999999999, SideTails},
	}

	for _, tc := range cases {
		res, err := m.Map(tc.outcome)
		require.NoError(t, err)
		assert.Equal(t, TypeCoinflip, res.Game)
		assert.Equal(t, tc.want, res.Side, "outcome %v", tc.outcome)
	}
}

func TestCoinflipPinnedFixture(t *testing.T) {
	// abc123 / xyz / nonce 1 -> outcome ~0.10759 -> heads
	outcome := Derive("abc123", "xyz", 1)
	res, err := CoinflipMapper{}.Map(outcome)
	require.NoError(t, err)
	assert.Equal(t, SideHeads, res.Side)
}

func TestCoinflipRoughlyFair(t *testing.T) {
	heads := 0
	n := 100000
	for nonce := 0; nonce < n; nonce++ {
		res, _ := CoinflipMapper{}.Map(Derive("fairness-check", "client", uint64(nonce)))
		if res.Side == SideHeads {
			heads++
		}
	}

	freq := float64(heads) / float64(n)
	assert.InDelta(t, 0.5, freq, 0.01, "heads frequency %v", freq)
}
