package handler

import (
	"net/http"

	"github.com/exoterra/server/internal/world"
)

// handleInventories returns the caller's own grid plus every shared storage.
// Storages are world-scoped: all players see the same chests.
func (d *Deps) handleInventories(w http.ResponseWriter, r *http.Request) {
	if !d.requireMethod(w, r, http.MethodGet) {
		return
	}
	p, err := d.loadPlayer(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		d.writeError(w, err)
		return
	}

	var others []*world.Storage
	if d.Storages != nil {
		others, err = d.Storages.List(r.Context())
		if err != nil {
			d.writeError(w, err)
			return
		}
	}
	if others == nil {
		others = []*world.Storage{}
	}
	for _, s := range others {
		if s.Inventory == nil {
			s.Inventory = []world.Item{}
		}
	}

	user := p.Inventory
	if user == nil {
		user = []world.Item{}
	}
	d.writeJSON(w, map[string]any{"user": user, "others": others})
}

// handleBestiary serves the fauna and flora catalog. The data is loaded at
// boot and never mutates, so no store round-trip.
func (d *Deps) handleBestiary(w http.ResponseWriter, r *http.Request) {
	if !d.requireMethod(w, r, http.MethodGet) {
		return
	}
	d.writeJSON(w, map[string]any{
		"dinosaurs": d.Bestiary.Dinosaurs,
		"plants":    d.Bestiary.Plants,
	})
}
