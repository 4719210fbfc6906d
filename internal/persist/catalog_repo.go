package persist

import (
	"context"
	"fmt"

	"github.com/exoterra/server/internal/data"
)

// CatalogRepo mirrors the YAML item catalog into base_items rows so the
// bestiary foreign keys and external tooling can see the same templates the
// server runs on.
type CatalogRepo struct {
	db *DB
}

func NewCatalogRepo(db *DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// Sync upserts every template. Rows are never deleted automatically: a
// removed template may still be referenced by bestiary rows.
func (r *CatalogRepo) Sync(ctx context.Context, catalog *data.Catalog) error {
	for _, it := range catalog.All() {
		if _, err := r.db.Pool.Exec(ctx,
			`INSERT INTO base_items (name, icon, w, h, kind, tier, damage, food)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			 ON CONFLICT (name) DO UPDATE SET
				icon = $2, w = $3, h = $4, kind = $5, tier = $6, damage = $7, food = $8`,
			it.Name, it.Icon, it.W, it.H, it.Kind, it.Tier, it.Damage, it.Food,
		); err != nil {
			return fmt.Errorf("sync item %q: %w", it.Name, err)
		}
	}
	return nil
}
