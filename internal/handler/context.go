package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/exoterra/server/internal/config"
	"github.com/exoterra/server/internal/data"
	"github.com/exoterra/server/internal/game"
	"github.com/exoterra/server/internal/world"
	"github.com/exoterra/server/internal/ws"
)

// StorageLister reads the shared world chests. *persist.StorageRepo
// satisfies it.
type StorageLister interface {
	List(ctx context.Context) ([]*world.Storage, error)
}

// Deps holds shared dependencies injected into all HTTP handlers.
type Deps struct {
	Players  game.Store
	Engine   *game.Engine
	Registry *ws.Registry
	Storages StorageLister
	Catalog  *data.Catalog
	Bestiary *data.Bestiary
	Config   *config.Config
	Log      *zap.Logger
}

// RegisterAll registers every route on the mux.
func RegisterAll(mux *http.ServeMux, deps *Deps) {
	mux.HandleFunc("/login", deps.handleLogin)
	mux.HandleFunc("/state", deps.handleState)
	mux.HandleFunc("/inventories", deps.handleInventories)
	mux.HandleFunc("/bestiary", deps.handleBestiary)

	mux.HandleFunc("/gm/state", deps.handleGMState)
	mux.HandleFunc("/gm/command", deps.handleGMCommand)
	mux.HandleFunc("/gm/transfer", deps.handleGMTransfer)

	mux.HandleFunc("/action/consume", deps.handleConsume)
	mux.HandleFunc("/action/equip", deps.handleEquip)
	mux.HandleFunc("/action/unequip", deps.handleUnequip)

	mux.HandleFunc("/ws", deps.handleWS)
}

// writeJSON writes a 200 JSON body.
func (d *Deps) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		d.Log.Error("write response failed", zap.Error(err))
	}
}

// writeError maps a domain error onto the wire: game errors carry their own
// status, anything else is a 500 with a generic message.
func (d *Deps) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "errore interno"

	var ge *game.Error
	if errors.As(err, &ge) {
		status = ge.Status
		msg = ge.Message
	} else {
		d.Log.Error("request failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		d.Log.Error("write error response failed", zap.Error(err))
	}
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return game.BadRequest("corpo della richiesta non valido")
	}
	return nil
}

// requireMethod rejects wrong verbs up front.
func (d *Deps) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		d.writeError(w, game.BadRequest("metodo non consentito"))
		return false
	}
	return true
}

// loadPlayer resolves a name to a player, 400 when missing and 404 when
// unknown.
func (d *Deps) loadPlayer(ctx context.Context, name string) (*world.Player, error) {
	if name == "" {
		return nil, game.BadRequest("nome mancante")
	}
	p, err := d.Players.Load(ctx, world.NormalizeName(name))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, game.NotFound("giocatore non trovato: %s", name)
	}
	return p, nil
}
