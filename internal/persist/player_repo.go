package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/exoterra/server/internal/world"
)

// ErrNotFound is returned by partial updates that matched no row.
var ErrNotFound = errors.New("player not found")

type PlayerRepo struct {
	db *DB
}

func NewPlayerRepo(db *DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

const playerColumns = `name, password_hash, is_gm, is_robot, is_sick,
	hunger, thirst, sleep, oxygen, energy, biofeedback, temperature,
	inventory, equipment`

func scanPlayer(row pgx.Row) (*world.Player, error) {
	p := &world.Player{}
	var inv, eq []byte
	err := row.Scan(
		&p.Name, &p.PasswordHash, &p.IsGM, &p.IsRobot, &p.IsSick,
		&p.Hunger, &p.Thirst, &p.Sleep, &p.Oxygen, &p.Energy, &p.Biofeedback, &p.Temperature,
		&inv, &eq,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(inv, &p.Inventory); err != nil {
		return nil, fmt.Errorf("decode inventory of %s: %w", p.Name, err)
	}
	if err := json.Unmarshal(eq, &p.Equipment); err != nil {
		return nil, fmt.Errorf("decode equipment of %s: %w", p.Name, err)
	}
	return p, nil
}

// Load returns the player record, or (nil, nil) when no such player exists.
func (r *PlayerRepo) Load(ctx context.Context, name string) (*world.Player, error) {
	p, err := scanPlayer(r.db.Pool.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE name = $1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns every player record, ordered by name for stable output.
func (r *PlayerRepo) List(ctx context.Context) ([]*world.Player, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+playerColumns+` FROM players ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*world.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Create inserts a new player row. The gauges come from the record as-is.
func (r *PlayerRepo) Create(ctx context.Context, p *world.Player) error {
	inv, eq, err := encodeGrids(p)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO players (`+playerColumns+`, last_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW())`,
		p.Name, p.PasswordHash, p.IsGM, p.IsRobot, p.IsSick,
		p.Hunger, p.Thirst, p.Sleep, p.Oxygen, p.Energy, p.Biofeedback, p.Temperature,
		inv, eq,
	)
	return err
}

// SaveGauges writes the gauge and flag columns only. Inventory and equipment
// are saved through their own methods so a stat tweak never rewrites the
// JSONB blobs.
func (r *PlayerRepo) SaveGauges(ctx context.Context, p *world.Player) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE players SET
			is_sick = $1, hunger = $2, thirst = $3, sleep = $4,
			oxygen = $5, energy = $6, biofeedback = $7, temperature = $8
		 WHERE name = $9`,
		p.IsSick, p.Hunger, p.Thirst, p.Sleep,
		p.Oxygen, p.Energy, p.Biofeedback, p.Temperature,
		p.Name,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveInventory serializes and writes the whole inventory column.
func (r *PlayerRepo) SaveInventory(ctx context.Context, name string, items []world.Item) error {
	return r.saveGrid(ctx, "inventory", name, items)
}

// SaveEquipment serializes and writes the whole equipment column.
func (r *PlayerRepo) SaveEquipment(ctx context.Context, name string, items []world.Item) error {
	return r.saveGrid(ctx, "equipment", name, items)
}

func (r *PlayerRepo) saveGrid(ctx context.Context, column, name string, items []world.Item) error {
	if items == nil {
		items = []world.Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE players SET `+column+` = $1 WHERE name = $2`, data, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastActive records a successful login.
func (r *PlayerRepo) TouchLastActive(ctx context.Context, name string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE players SET last_active = NOW() WHERE name = $1`, name)
	return err
}

func encodeGrids(p *world.Player) ([]byte, []byte, error) {
	invItems := p.Inventory
	if invItems == nil {
		invItems = []world.Item{}
	}
	eqItems := p.Equipment
	if eqItems == nil {
		eqItems = []world.Item{}
	}
	inv, err := json.Marshal(invItems)
	if err != nil {
		return nil, nil, err
	}
	eq, err := json.Marshal(eqItems)
	if err != nil {
		return nil, nil, err
	}
	return inv, eq, nil
}
