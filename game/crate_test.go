package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDistribution() CrateDistribution {
	return CrateDistribution{
		CrateID: "starter",
		Items: []CrateItem{
			{ItemID: "common", Weight: 0.5},
			{ItemID: "rare", Weight: 0.3},
			{ItemID: "legendary", Weight: 0.2},
		},
	}
}

func TestNewCrateTableRejectsMalformed(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := NewCrateTable(CrateDistribution{CrateID: "empty"})
		assert.ErrorIs(t, err, ErrWeightSum)
	})

	t.Run("sum below one", func(t *testing.T) {
		_, err := NewCrateTable(CrateDistribution{
			CrateID: "short",
			Items:   []CrateItem{{ItemID: "a", Weight: 0.5}, {ItemID: "b", Weight: 0.3}},
		})
		assert.ErrorIs(t, err, ErrWeightSum)
	})

	t.Run("sum above one", func(t *testing.T) {
		_, err := NewCrateTable(CrateDistribution{
			CrateID: "long",
			Items:   []CrateItem{{ItemID: "a", Weight: 0.8}, {ItemID: "b", Weight: 0.4}},
		})
		assert.ErrorIs(t, err, ErrWeightSum)
	})

	t.Run("non-positive weight", func(t *testing.T) {
		_, err := NewCrateTable(CrateDistribution{
			CrateID: "zero",
			Items:   []CrateItem{{ItemID: "a", Weight: 1.0}, {ItemID: "b", Weight: 0}},
		})
		assert.ErrorIs(t, err, ErrWeightSum)
	})
}

func TestNewCrateTableAcceptsWithinTolerance(t *testing.T) {
	// Sum is 1.0 up to ordinary float addition error
	_, err := NewCrateTable(CrateDistribution{
		CrateID: "thirds",
		Items: []CrateItem{
			{ItemID: "a", Weight: 1.0 / 3},
			{ItemID: "b", Weight: 1.0 / 3},
			{ItemID: "c", Weight: 1.0 / 3},
		},
	})
	assert.NoError(t, err)
}

func TestCratePickBoundaries(t *testing.T) {
	table, err := NewCrateTable(testDistribution())
	require.NoError(t, err)

	// outcome 0 is always the first item
	assert.Equal(t, "common", table.Pick(0.0).ItemID)

	// outcomes just below each cumulative bound stay in their bucket
	assert.Equal(t, "common", table.Pick(0.49999999).ItemID)
	assert.Equal(t, "rare", table.Pick(0.5).ItemID)
	assert.Equal(t, "rare", table.Pick(0.79999999).ItemID)
	assert.Equal(t, "legendary", table.Pick(0.8).ItemID)

	// outcome arbitrarily close to 1 resolves to the last item, no overflow
	assert.Equal(t, "legendary", table.Pick(math.Nextafter(1, 0)).ItemID)
}

func TestCratePickDistribution(t *testing.T) {
	table, err := NewCrateTable(testDistribution())
	require.NoError(t, err)

	counts := map[string]int{}
	n := 100000
	for nonce := 0; nonce < n; nonce++ {
		item := table.Pick(Derive("crate-stats", "client", uint64(nonce)))
		counts[item.ItemID]++
	}

	assert.InDelta(t, 0.5, float64(counts["common"])/float64(n), 0.01)
	assert.InDelta(t, 0.3, float64(counts["rare"])/float64(n), 0.01)
	assert.InDelta(t, 0.2, float64(counts["legendary"])/float64(n), 0.01)
}

func TestCrateTableMap(t *testing.T) {
	table, err := NewCrateTable(testDistribution())
	require.NoError(t, err)

	res, err := table.Map(0.95)
	require.NoError(t, err)
	assert.Equal(t, TypeCrate, res.Game)
	assert.Equal(t, "starter", res.CrateID)
	assert.Equal(t, "legendary", res.ItemID)
}
