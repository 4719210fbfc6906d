package game

import "sync"

// playerLocks serializes mutations per player name. Every read-modify-write
// of a player row runs under its lock, which closes the lost-update window
// between concurrent GM commands and the tick. Entries are never evicted;
// the map is bounded by the player population.
type playerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *playerLocks) get(name string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[name]
	if !ok {
		m = &sync.Mutex{}
		l.locks[name] = m
	}
	return m
}
