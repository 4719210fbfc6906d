package persist

import (
	"context"
	"fmt"

	"github.com/exoterra/server/internal/data"
)

// BestiaryRepo stores the fauna/flora catalog. Each row carries up to six
// optional references into base_items (resource1..resource6).
type BestiaryRepo struct {
	db *DB
}

func NewBestiaryRepo(db *DB) *BestiaryRepo {
	return &BestiaryRepo{db: db}
}

// resourceCols spreads a resource slice over the six nullable columns.
func resourceCols(resources []string) [data.MaxResources]*string {
	var out [data.MaxResources]*string
	for i := range resources {
		if i >= data.MaxResources {
			break
		}
		r := resources[i]
		out[i] = &r
	}
	return out
}

// Sync upserts every bestiary entry.
func (r *BestiaryRepo) Sync(ctx context.Context, b *data.Bestiary) error {
	for _, d := range b.Dinosaurs {
		res := resourceCols(d.Resources)
		if _, err := r.db.Pool.Exec(ctx,
			`INSERT INTO dinosaurs (name, diet, aggression, habitat, description,
				resource1, resource2, resource3, resource4, resource5, resource6)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			 ON CONFLICT (name) DO UPDATE SET
				diet = $2, aggression = $3, habitat = $4, description = $5,
				resource1 = $6, resource2 = $7, resource3 = $8,
				resource4 = $9, resource5 = $10, resource6 = $11`,
			d.Name, d.Diet, d.Aggression, d.Habitat, d.Description,
			res[0], res[1], res[2], res[3], res[4], res[5],
		); err != nil {
			return fmt.Errorf("sync dinosaur %q: %w", d.Name, err)
		}
	}
	for _, p := range b.Plants {
		res := resourceCols(p.Resources)
		if _, err := r.db.Pool.Exec(ctx,
			`INSERT INTO plants (name, edible, toxic, habitat, description,
				resource1, resource2, resource3, resource4, resource5, resource6)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			 ON CONFLICT (name) DO UPDATE SET
				edible = $2, toxic = $3, habitat = $4, description = $5,
				resource1 = $6, resource2 = $7, resource3 = $8,
				resource4 = $9, resource5 = $10, resource6 = $11`,
			p.Name, p.Edible, p.Toxic, p.Habitat, p.Description,
			res[0], res[1], res[2], res[3], res[4], res[5],
		); err != nil {
			return fmt.Errorf("sync plant %q: %w", p.Name, err)
		}
	}
	return nil
}

// ListDinosaurs returns every fauna row with its resource references packed
// back into a slice.
func (r *BestiaryRepo) ListDinosaurs(ctx context.Context) ([]data.Dinosaur, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT name, diet, aggression, habitat, description,
			resource1, resource2, resource3, resource4, resource5, resource6
		 FROM dinosaurs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []data.Dinosaur
	for rows.Next() {
		var d data.Dinosaur
		var res [data.MaxResources]*string
		if err := rows.Scan(&d.Name, &d.Diet, &d.Aggression, &d.Habitat, &d.Description,
			&res[0], &res[1], &res[2], &res[3], &res[4], &res[5]); err != nil {
			return nil, err
		}
		d.Resources = packResources(res)
		result = append(result, d)
	}
	return result, rows.Err()
}

// ListPlants returns every flora row.
func (r *BestiaryRepo) ListPlants(ctx context.Context) ([]data.Plant, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT name, edible, toxic, habitat, description,
			resource1, resource2, resource3, resource4, resource5, resource6
		 FROM plants ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []data.Plant
	for rows.Next() {
		var p data.Plant
		var res [data.MaxResources]*string
		if err := rows.Scan(&p.Name, &p.Edible, &p.Toxic, &p.Habitat, &p.Description,
			&res[0], &res[1], &res[2], &res[3], &res[4], &res[5]); err != nil {
			return nil, err
		}
		p.Resources = packResources(res)
		result = append(result, p)
	}
	return result, rows.Err()
}

func packResources(res [data.MaxResources]*string) []string {
	out := []string{}
	for _, r := range res {
		if r != nil && *r != "" {
			out = append(out, *r)
		}
	}
	return out
}
