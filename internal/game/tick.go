package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/exoterra/server/internal/ws"
)

// Ticker drives the periodic world mutation: at every day boundary all
// players decay and one invalidation broadcast goes out. The signal is the
// same one GM commands emit; clients cannot tell the cause and only re-read.
type Ticker struct {
	engine   *Engine
	registry Broadcaster
	interval time.Duration
	log      *zap.Logger
	stop     chan struct{}
	done     chan struct{}
}

func NewTicker(engine *Engine, registry Broadcaster, interval time.Duration, log *zap.Logger) *Ticker {
	return &Ticker{
		engine:   engine,
		registry: registry,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the tick loop until Stop is called.
func (t *Ticker) Start() {
	go t.run()
}

func (t *Ticker) run() {
	defer close(t.done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.Tick(context.Background())
		case <-t.stop:
			return
		}
	}
}

// Tick applies one daybreak to the whole world. Exposed for tests and for
// an operator-forced day change.
func (t *Ticker) Tick(ctx context.Context) {
	n, err := t.engine.NewDayAll(ctx)
	if err != nil {
		t.log.Error("daybreak tick failed", zap.Error(err))
		return
	}
	t.log.Info("daybreak", zap.Int("players", n))
	t.registry.Broadcast(ws.Invalidate)
}

// Stop halts the loop and waits for it to exit.
func (t *Ticker) Stop() {
	close(t.stop)
	<-t.done
}
