package game

import (
	"context"
	"fmt"

	"github.com/exoterra/server/internal/world"
	"github.com/exoterra/server/internal/ws"
)

// Consume eats or drinks an item (burns a battery, for robots). The item leaves
// the grid and its food value raises the matching gauge.
func (e *Engine) Consume(ctx context.Context, playerName, itemID string) (string, error) {
	name := world.NormalizeName(playerName)
	var msg string
	err := e.withPlayer(ctx, name, func(p *world.Player) error {
		idx := world.FindItem(p.Inventory, itemID)
		if idx < 0 {
			return NotFound("oggetto non trovato nell'inventario")
		}
		item := p.Inventory[idx]

		if p.IsRobot {
			if item.Kind != world.KindBattery {
				return BadRequest("un robot può consumare solo batterie")
			}
			p.Energy = world.Clamp100(p.Energy + item.Food)
		} else {
			switch item.Kind {
			case world.KindFood:
				p.Hunger = world.Clamp100(p.Hunger + item.Food)
			case world.KindDrink:
				p.Thirst = world.Clamp100(p.Thirst + item.Food)
			default:
				return BadRequest("non commestibile: %s", item.Name)
			}
		}

		p.Inventory = world.RemoveItem(p.Inventory, idx)
		if err := e.store.SaveGauges(ctx, p); err != nil {
			return err
		}
		if err := e.store.SaveInventory(ctx, name, p.Inventory); err != nil {
			return err
		}
		msg = fmt.Sprintf("consumato %s", item.Name)
		return nil
	})
	if err != nil {
		return "", err
	}
	e.registry.Broadcast(ws.Invalidate)
	return msg, nil
}

// Equip moves an item from the grid to the equipment list. One item per
// kind: a second weapon has to wait for the first to come off.
func (e *Engine) Equip(ctx context.Context, playerName, itemID string) (string, error) {
	name := world.NormalizeName(playerName)
	var msg string
	err := e.withPlayer(ctx, name, func(p *world.Player) error {
		idx := world.FindItem(p.Inventory, itemID)
		if idx < 0 {
			return NotFound("oggetto non trovato nell'inventario")
		}
		item := p.Inventory[idx]

		for i := range p.Equipment {
			if p.Equipment[i].Kind == item.Kind {
				return Conflict("slot già occupato: %s", item.Kind)
			}
		}

		p.Inventory = world.RemoveItem(p.Inventory, idx)
		item.X, item.Y = 0, 0
		p.Equipment = append(p.Equipment, item)

		if err := e.store.SaveInventory(ctx, name, p.Inventory); err != nil {
			return err
		}
		if err := e.store.SaveEquipment(ctx, name, p.Equipment); err != nil {
			return err
		}
		msg = fmt.Sprintf("equipaggiato %s", item.Name)
		return nil
	})
	if err != nil {
		return "", err
	}
	e.registry.Broadcast(ws.Invalidate)
	return msg, nil
}

// Unequip returns an equipped item to the grid, first-fit. With no room the
// equipment list stays unchanged and the caller gets a 409.
func (e *Engine) Unequip(ctx context.Context, playerName, itemID string) (string, error) {
	name := world.NormalizeName(playerName)
	var msg string
	err := e.withPlayer(ctx, name, func(p *world.Player) error {
		idx := world.FindItem(p.Equipment, itemID)
		if idx < 0 {
			return NotFound("oggetto non equipaggiato")
		}
		item := p.Equipment[idx]

		x, y, ok := world.FindPlacement(p.Inventory, item.W, item.H, world.GridCols, world.GridRows)
		if !ok {
			return Conflict("inventario pieno: impossibile togliere %s", item.Name)
		}

		p.Equipment = world.RemoveItem(p.Equipment, idx)
		item.X, item.Y = x, y
		p.Inventory = append(p.Inventory, item)

		if err := e.store.SaveEquipment(ctx, name, p.Equipment); err != nil {
			return err
		}
		if err := e.store.SaveInventory(ctx, name, p.Inventory); err != nil {
			return err
		}
		msg = fmt.Sprintf("rimosso %s", item.Name)
		return nil
	})
	if err != nil {
		return "", err
	}
	e.registry.Broadcast(ws.Invalidate)
	return msg, nil
}
