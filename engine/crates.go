package engine

import (
	"context"
	"fmt"

	gocache "github.com/patrickmn/go-cache"

	"fairhouse/config"
	"fairhouse/game"
)

// CrateRegistry resolves crate ids to validated, compiled draw tables.
// Distributions come from the external catalog and are validated at
// registration time, not trusted at draw time; compiled tables are cached
// in-process because catalogs change rarely and draws are hot.
type CrateRegistry struct {
	catalog CrateCatalog
	cache   *gocache.Cache
}

func NewCrateRegistry(catalog CrateCatalog) *CrateRegistry {
	return &CrateRegistry{
		catalog: catalog,
		cache:   gocache.New(config.CrateTableCacheTTL, config.CrateTableCacheCleanup),
	}
}

// Table returns the compiled table for a crate, fetching and validating the
// distribution on cache miss. A malformed distribution is rejected with
// game.ErrWeightSum rather than renormalized.
func (r *CrateRegistry) Table(ctx context.Context, crateID string) (*game.CrateTable, error) {
	const op = "CrateRegistry.Table"

	if cached, ok := r.cache.Get(crateID); ok {
		return cached.(*game.CrateTable), nil
	}

	dist, err := r.catalog.Distribution(ctx, crateID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if dist == nil {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrUnknownCrate, crateID)
	}

	table, err := game.NewCrateTable(*dist)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.cache.SetDefault(crateID, table)
	return table, nil
}

// Invalidate drops a cached table after the catalog updates a crate.
func (r *CrateRegistry) Invalidate(crateID string) {
	r.cache.Delete(crateID)
}
