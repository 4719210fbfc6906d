package handler

import (
	"context"
	"net/http"

	"github.com/exoterra/server/internal/game"
)

type actionRequest struct {
	Name   string `json:"name"`
	ItemID string `json:"itemId"`
}

// runAction is the shared shape of the player item actions: parse, validate,
// delegate to the engine, report.
func (d *Deps) runAction(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, name, itemID string) (string, error)) {
	if !d.requireMethod(w, r, http.MethodPost) {
		return
	}
	var req actionRequest
	if err := decodeBody(r, &req); err != nil {
		d.writeError(w, err)
		return
	}
	if req.Name == "" || req.ItemID == "" {
		d.writeError(w, game.BadRequest("nome o oggetto mancante"))
		return
	}

	msg, err := fn(r.Context(), req.Name, req.ItemID)
	if err != nil {
		d.writeError(w, err)
		return
	}
	d.writeJSON(w, map[string]any{"ok": true, "message": msg})
}

func (d *Deps) handleConsume(w http.ResponseWriter, r *http.Request) {
	d.runAction(w, r, d.Engine.Consume)
}

func (d *Deps) handleEquip(w http.ResponseWriter, r *http.Request) {
	d.runAction(w, r, d.Engine.Equip)
}

func (d *Deps) handleUnequip(w http.ResponseWriter, r *http.Request) {
	d.runAction(w, r, d.Engine.Unequip)
}
