package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/exoterra/server/internal/data"
	"github.com/exoterra/server/internal/world"
)

type StorageRepo struct {
	db *DB
}

func NewStorageRepo(db *DB) *StorageRepo {
	return &StorageRepo{db: db}
}

// List returns every external storage with its shared inventory.
func (r *StorageRepo) List(ctx context.Context) ([]*world.Storage, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, label, cols, rows, inventory FROM external_storages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*world.Storage
	for rows.Next() {
		s := &world.Storage{}
		var inv []byte
		if err := rows.Scan(&s.ID, &s.Label, &s.Cols, &s.Rows, &inv); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(inv, &s.Inventory); err != nil {
			return nil, fmt.Errorf("decode storage %q: %w", s.Label, err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// SaveItems writes the whole shared inventory of one storage.
func (r *StorageRepo) SaveItems(ctx context.Context, id int64, items []world.Item) error {
	if items == nil {
		items = []world.Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE external_storages SET inventory = $1 WHERE id = $2`, raw, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Sync provisions the storages declared in YAML, preserving the inventory of
// rows that already exist. Size changes are applied; shrinking below placed
// items is the operator's problem.
func (r *StorageRepo) Sync(ctx context.Context, specs []data.StorageSpec) error {
	for _, s := range specs {
		if _, err := r.db.Pool.Exec(ctx,
			`INSERT INTO external_storages (label, cols, rows)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (label) DO UPDATE SET cols = $2, rows = $3`,
			s.Label, s.Cols, s.Rows,
		); err != nil {
			return fmt.Errorf("sync storage %q: %w", s.Label, err)
		}
	}
	return nil
}
