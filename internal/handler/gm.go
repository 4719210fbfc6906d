package handler

import (
	"net/http"

	"github.com/exoterra/server/internal/game"
	"github.com/exoterra/server/internal/world"
)

// handleGMState returns the sanitized projection of every player for the GM
// console. Plain players get a 403.
func (d *Deps) handleGMState(w http.ResponseWriter, r *http.Request) {
	if !d.requireMethod(w, r, http.MethodGet) {
		return
	}
	gm, err := d.loadPlayer(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		d.writeError(w, err)
		return
	}
	if !gm.IsGM {
		d.writeError(w, game.Forbidden("non sei un game master"))
		return
	}

	players, err := d.Players.List(r.Context())
	if err != nil {
		d.writeError(w, err)
		return
	}
	views := make([]world.View, 0, len(players))
	for _, p := range players {
		views = append(views, p.View())
	}
	d.writeJSON(w, map[string]any{"players": views})
}

type commandRequest struct {
	Name    string `json:"name"`
	Command string `json:"command"`
}

func (d *Deps) handleGMCommand(w http.ResponseWriter, r *http.Request) {
	if !d.requireMethod(w, r, http.MethodPost) {
		return
	}
	var req commandRequest
	if err := decodeBody(r, &req); err != nil {
		d.writeError(w, err)
		return
	}

	msg, err := d.Engine.Execute(r.Context(), req.Name, req.Command)
	if err != nil {
		d.writeError(w, err)
		return
	}
	d.writeJSON(w, map[string]any{"ok": true, "message": msg})
}

type transferRequest struct {
	Name   string `json:"name"`
	From   string `json:"from"`
	ItemID string `json:"itemId"`
}

func (d *Deps) handleGMTransfer(w http.ResponseWriter, r *http.Request) {
	if !d.requireMethod(w, r, http.MethodPost) {
		return
	}
	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		d.writeError(w, err)
		return
	}

	msg, err := d.Engine.Transfer(r.Context(), req.Name, req.From, req.ItemID)
	if err != nil {
		d.writeError(w, err)
		return
	}
	d.writeJSON(w, map[string]any{"ok": true, "message": msg})
}
