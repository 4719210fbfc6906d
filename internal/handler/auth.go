package handler

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/exoterra/server/internal/game"
	"github.com/exoterra/server/internal/world"
)

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// handleLogin authenticates a player, creating the record on first access.
// Credentials are an opaque name/password pair; the password is stored as a
// bcrypt hash.
func (d *Deps) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !d.requireMethod(w, r, http.MethodPost) {
		return
	}

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		d.writeError(w, err)
		return
	}
	name := world.NormalizeName(req.Name)
	if name == "" || req.Password == "" {
		d.writeError(w, game.BadRequest("nome o password mancante"))
		return
	}

	p, err := d.Players.Load(r.Context(), name)
	if err != nil {
		d.writeError(w, err)
		return
	}

	if p == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			d.writeError(w, err)
			return
		}
		p = world.NewPlayer(name, string(hash))
		if err := d.Players.Create(r.Context(), p); err != nil {
			d.writeError(w, err)
			return
		}
		d.Log.Info("player created", zap.String("name", name))
	} else if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)) != nil {
		d.writeError(w, game.Forbidden("credenziali non valide"))
		return
	}

	if err := d.Players.TouchLastActive(r.Context(), name); err != nil {
		d.Log.Warn("touch last_active failed", zap.String("name", name), zap.Error(err))
	}
	d.writeJSON(w, p.View())
}

// handleState returns the caller's own sanitized record. Clients call this
// after every invalidation signal.
func (d *Deps) handleState(w http.ResponseWriter, r *http.Request) {
	if !d.requireMethod(w, r, http.MethodGet) {
		return
	}
	p, err := d.loadPlayer(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		d.writeError(w, err)
		return
	}
	d.writeJSON(w, p.View())
}
