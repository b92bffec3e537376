package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"fairhouse/game"
)

// CrateCatalog reads crate distributions maintained by the crate-catalog
// collaborator. The engine validates weight sums before use; this layer only
// fetches rows in their configured order.
type CrateCatalog struct {
	pool *pgxpool.Pool
}

func NewCrateCatalog(pool *pgxpool.Pool) *CrateCatalog {
	return &CrateCatalog{pool: pool}
}

func (c *CrateCatalog) Distribution(ctx context.Context, crateID string) (*game.CrateDistribution, error) {
	const op = "db.CrateCatalog.Distribution"

	query := `
		SELECT item_id, weight
		FROM crate_distributions
		WHERE crate_id = $1
		ORDER BY position, item_id
	`

	rows, err := c.pool.Query(ctx, query, crateID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	dist := &game.CrateDistribution{CrateID: crateID}
	for rows.Next() {
		var item game.CrateItem
		if err := rows.Scan(&item.ItemID, &item.Weight); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		dist.Items = append(dist.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(dist.Items) == 0 {
		return nil, nil // unknown crate
	}
	return dist, nil
}
