package game

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/exoterra/server/internal/data"
	"github.com/exoterra/server/internal/persist"
	"github.com/exoterra/server/internal/world"
	"github.com/exoterra/server/internal/ws"
)

// stampItem mints a concrete item instance from a catalog template. The
// descriptive fields are copied, not referenced.
func stampItem(base *data.BaseItem) world.Item {
	return world.Item{
		ID:     world.NewItemID(base.Name),
		Name:   base.Name,
		Icon:   base.Icon,
		W:      base.W,
		H:      base.H,
		Kind:   base.Kind,
		Tier:   base.Tier,
		Damage: base.Damage,
		Food:   base.Food,
	}
}

// give grants N copies of a catalog item to each target, first-fit placed.
// When a grid runs out of room the grant is partial and the report carries
// the true count.
func (e *Engine) give(ctx context.Context, gm *world.Player, target string, args []string) (string, error) {
	if len(args) < 1 {
		return "", BadRequest("nome oggetto mancante")
	}
	// Item names may contain spaces ("Carne di Raptor"); a trailing integer
	// is the amount.
	amount := 1
	nameParts := args
	if len(args) >= 2 {
		if n, err := strconv.Atoi(args[len(args)-1]); err == nil {
			if n < 1 {
				return "", BadRequest("quantità non valida: %s", args[len(args)-1])
			}
			amount = n
			nameParts = args[:len(args)-1]
		}
	}
	itemName := strings.Join(nameParts, " ")
	base := e.catalog.Get(itemName)
	if base == nil {
		return "", NotFound("oggetto non trovato: %s", itemName)
	}

	names, err := e.resolveTargets(ctx, target)
	if err != nil {
		return "", err
	}

	var reports []string
	var entries []persist.AuditEntry
	var firstErr error
	for _, name := range names {
		placed := 0
		err := e.withPlayer(ctx, name, func(p *world.Player) error {
			for i := 0; i < amount; i++ {
				x, y, ok := world.FindPlacement(p.Inventory, base.W, base.H, world.GridCols, world.GridRows)
				if !ok {
					break
				}
				item := stampItem(base)
				item.X, item.Y = x, y
				p.Inventory = append(p.Inventory, item)
				placed++
			}
			return e.store.SaveInventory(ctx, name, p.Inventory)
		})
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			reports = append(reports, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		reports = append(reports, fmt.Sprintf("%s: %d/%d", name, placed, amount))
		entries = append(entries, persist.AuditEntry{
			Action: "give", Actor: gm.Name, Target: name,
			ItemName: itemName, Count: placed,
		})
	}

	if len(names) == 1 && firstErr != nil {
		return "", firstErr
	}
	e.recordAudit(ctx, entries)
	return fmt.Sprintf("consegnato %s: %s", itemName, strings.Join(reports, ", ")), nil
}

// sack empties the target's inventory.
func (e *Engine) sack(ctx context.Context, gm *world.Player, target string) (string, error) {
	names, err := e.resolveTargets(ctx, target)
	if err != nil {
		return "", err
	}

	var done []string
	var entries []persist.AuditEntry
	var firstErr error
	for _, name := range names {
		err := e.withPlayer(ctx, name, func(p *world.Player) error {
			return e.store.SaveInventory(ctx, name, []world.Item{})
		})
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		done = append(done, name)
		entries = append(entries, persist.AuditEntry{
			Action: "sack", Actor: gm.Name, Target: name,
		})
	}

	if len(names) == 1 && firstErr != nil {
		return "", firstErr
	}
	e.recordAudit(ctx, entries)
	return "inventario svuotato: " + strings.Join(done, ", "), nil
}

// Transfer moves exactly one item from a player's grid into the issuing
// GM's own grid. All-or-nothing: with no room on the GM side the source is
// untouched and the caller gets a 409.
func (e *Engine) Transfer(ctx context.Context, gmName, fromName, itemID string) (string, error) {
	gm, err := e.authorize(ctx, gmName)
	if err != nil {
		return "", err
	}
	from := world.NormalizeName(fromName)
	if from == gm.Name {
		return "", BadRequest("impossibile trasferire da te stesso")
	}

	// Both rows mutate; take the locks in name order to avoid deadlocking
	// against a transfer running the other way.
	locks := []string{gm.Name, from}
	sort.Strings(locks)
	for _, n := range locks {
		mu := e.locks.get(n)
		mu.Lock()
		defer mu.Unlock()
	}

	source, err := e.store.Load(ctx, from)
	if err != nil {
		return "", err
	}
	if source == nil {
		return "", NotFound("giocatore non trovato: %s", fromName)
	}
	self, err := e.store.Load(ctx, gm.Name)
	if err != nil {
		return "", err
	}
	if self == nil {
		return "", NotFound("giocatore non trovato: %s", gm.Name)
	}

	idx := world.FindItem(source.Inventory, itemID)
	if idx < 0 {
		return "", NotFound("oggetto non trovato nell'inventario di %s", fromName)
	}
	item := source.Inventory[idx]

	x, y, ok := world.FindPlacement(self.Inventory, item.W, item.H, world.GridCols, world.GridRows)
	if !ok {
		return "", Conflict("inventario pieno: impossibile ricevere %s", item.Name)
	}

	source.Inventory = world.RemoveItem(source.Inventory, idx)
	item.X, item.Y = x, y
	self.Inventory = append(self.Inventory, item)

	if err := e.store.SaveInventory(ctx, from, source.Inventory); err != nil {
		return "", err
	}
	if err := e.store.SaveInventory(ctx, self.Name, self.Inventory); err != nil {
		return "", err
	}

	e.recordAudit(ctx, []persist.AuditEntry{{
		Action: "transfer", Actor: gm.Name, Target: from,
		ItemName: item.Name, Count: 1,
	}})
	e.registry.Broadcast(ws.Invalidate)
	return fmt.Sprintf("trasferito %s da %s", item.Name, from), nil
}
