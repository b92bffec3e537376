package game

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// WeightSumTolerance is the maximum distance from 1.0 a distribution's weight
// sum may have before it is rejected.
const WeightSumTolerance = 1e-9

// ErrWeightSum marks a crate distribution whose weights do not sum to 1.0.
// Malformed distributions are rejected outright, never renormalized.
var ErrWeightSum = errors.New("crate weights do not sum to 1.0")

// CrateItem is one entry of a crate distribution with its drop weight.
type CrateItem struct {
	ItemID string  `json:"itemId"`
	Weight float64 `json:"weight"`
}

// CrateDistribution is the raw item/weight list supplied by the crate
// catalog. The engine only reads distributions; the catalog owns them.
type CrateDistribution struct {
	CrateID string      `json:"crateId"`
	Items   []CrateItem `json:"items"`
}

// CrateTable is a validated distribution compiled into a cumulative-weight
// prefix array for binary-searched draws. It implements ResultMapper for its
// crate.
type CrateTable struct {
	crateID string
	items   []CrateItem
	cum     []float64
}

// NewCrateTable validates a distribution and compiles its prefix array.
// Validation failures are permanent for that distribution: empty item lists,
// non-positive weights, and weight sums outside WeightSumTolerance of 1.0
// all reject it.
func NewCrateTable(dist CrateDistribution) (*CrateTable, error) {
	if len(dist.Items) == 0 {
		return nil, fmt.Errorf("crate %s: %w: no items", dist.CrateID, ErrWeightSum)
	}

	items := make([]CrateItem, len(dist.Items))
	copy(items, dist.Items)

	cum := make([]float64, len(items))
	total := 0.0
	for i, item := range items {
		if item.Weight <= 0 {
			return nil, fmt.Errorf("crate %s: item %s: %w: weight %v not positive",
				dist.CrateID, item.ItemID, ErrWeightSum, item.Weight)
		}
		total += item.Weight
		cum[i] = total
	}

	if math.Abs(total-1.0) > WeightSumTolerance {
		return nil, fmt.Errorf("crate %s: %w: sum %v", dist.CrateID, ErrWeightSum, total)
	}

	return &CrateTable{crateID: dist.CrateID, items: items, cum: cum}, nil
}

// CrateID returns the crate this table draws for.
func (t *CrateTable) CrateID() string { return t.crateID }

// Pick selects the item for a uniform outcome. The search finds the first
// cumulative bound strictly above the outcome; an outcome of 0 lands on the
// first item, and an outcome arbitrarily close to 1 resolves to the last item
// via the inclusive clamp (float error can leave the final bound a hair under
// 1.0, so an index past the end folds into the last bucket).
func (t *CrateTable) Pick(outcome float64) CrateItem {
	i := sort.Search(len(t.cum), func(i int) bool {
		return t.cum[i] > outcome
	})
	if i >= len(t.items) {
		i = len(t.items) - 1
	}
	return t.items[i]
}

func (t *CrateTable) GameType() Type { return TypeCrate }

func (t *CrateTable) Map(outcome float64) (Result, error) {
	item := t.Pick(outcome)
	return Result{Game: TypeCrate, CrateID: t.crateID, ItemID: item.ItemID}, nil
}
