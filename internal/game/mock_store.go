package game

import (
	"context"
	"sort"
	"sync"

	"github.com/exoterra/server/internal/persist"
	"github.com/exoterra/server/internal/world"
)

// MockStore is an in-memory Store for tests. Load hands out copies, so a
// caller mutating the result without saving changes nothing, same as with
// the real repository.
type MockStore struct {
	mu      sync.Mutex
	players map[string]*world.Player

	// FailSaveFor makes SaveGauges and SaveInventory fail for the named
	// players, to exercise partial-failure paths.
	FailSaveFor map[string]error
}

func NewMockStore() *MockStore {
	return &MockStore{players: make(map[string]*world.Player)}
}

// Put seeds a player directly, bypassing Create.
func (m *MockStore) Put(p *world.Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.Name] = copyPlayer(p)
}

// Get returns the stored record (a copy) for assertions.
func (m *MockStore) Get(name string) *world.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.players[name]; ok {
		return copyPlayer(p)
	}
	return nil
}

func (m *MockStore) Load(ctx context.Context, name string) (*world.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[name]
	if !ok {
		return nil, nil
	}
	return copyPlayer(p), nil
}

func (m *MockStore) Create(ctx context.Context, p *world.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.Name] = copyPlayer(p)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]*world.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.players))
	for n := range m.players {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*world.Player, 0, len(names))
	for _, n := range names {
		out = append(out, copyPlayer(m.players[n]))
	}
	return out, nil
}

func (m *MockStore) SaveGauges(ctx context.Context, p *world.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailSaveFor[p.Name]; err != nil {
		return err
	}
	cur, ok := m.players[p.Name]
	if !ok {
		return persist.ErrNotFound
	}
	cur.Biofeedback = p.Biofeedback
	cur.Hunger = p.Hunger
	cur.Thirst = p.Thirst
	cur.Sleep = p.Sleep
	cur.Energy = p.Energy
	cur.Oxygen = p.Oxygen
	cur.Temperature = p.Temperature
	cur.IsSick = p.IsSick
	return nil
}

func (m *MockStore) SaveInventory(ctx context.Context, name string, items []world.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailSaveFor[name]; err != nil {
		return err
	}
	cur, ok := m.players[name]
	if !ok {
		return persist.ErrNotFound
	}
	cur.Inventory = append([]world.Item(nil), items...)
	return nil
}

func (m *MockStore) SaveEquipment(ctx context.Context, name string, items []world.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.players[name]
	if !ok {
		return persist.ErrNotFound
	}
	cur.Equipment = append([]world.Item(nil), items...)
	return nil
}

func (m *MockStore) TouchLastActive(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[name]; !ok {
		return persist.ErrNotFound
	}
	return nil
}

func copyPlayer(p *world.Player) *world.Player {
	c := *p
	c.Inventory = append([]world.Item(nil), p.Inventory...)
	c.Equipment = append([]world.Item(nil), p.Equipment...)
	return &c
}

// MockBroadcaster records invalidation pushes.
type MockBroadcaster struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (b *MockBroadcaster) Broadcast(payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payloads = append(b.payloads, payload)
}

// Sent returns how many broadcasts went out.
func (b *MockBroadcaster) Sent() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.payloads)
}

// Last returns the most recent payload, or nil.
func (b *MockBroadcaster) Last() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.payloads) == 0 {
		return nil
	}
	return b.payloads[len(b.payloads)-1]
}
