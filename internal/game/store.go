package game

import (
	"context"

	"github.com/exoterra/server/internal/persist"
	"github.com/exoterra/server/internal/world"
)

// Store is the persistence surface the engine and handlers need.
// *persist.PlayerRepo satisfies it; tests use MockStore.
type Store interface {
	// Load returns (nil, nil) when no such player exists.
	Load(ctx context.Context, name string) (*world.Player, error)
	Create(ctx context.Context, p *world.Player) error
	List(ctx context.Context) ([]*world.Player, error)
	SaveGauges(ctx context.Context, p *world.Player) error
	SaveInventory(ctx context.Context, name string, items []world.Item) error
	SaveEquipment(ctx context.Context, name string, items []world.Item) error
	TouchLastActive(ctx context.Context, name string) error
}

// Broadcaster pushes invalidation signals to connected clients.
// *ws.Registry satisfies it.
type Broadcaster interface {
	Broadcast(payload []byte)
}

// Auditor records the GM mutation log. *persist.AuditRepo satisfies it.
// Audit failures are logged, never fatal to the command.
type Auditor interface {
	Record(ctx context.Context, entries []persist.AuditEntry) error
}

// Macros expands a scripted GM verb into built-in commands.
// *scripting.Engine satisfies it.
type Macros interface {
	Expand(verb string) ([]string, bool)
}
