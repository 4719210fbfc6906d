package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/exoterra/server/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Clients come from the game's own origin; the record behind the socket
	// is only an invalidation feed, so cross-origin is acceptable.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS upgrades the connection and registers it under the player's name.
// A reconnect replaces (and closes) any stale socket for the same name.
func (d *Deps) handleWS(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	p, err := d.loadPlayer(r.Context(), name)
	if err != nil {
		d.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		d.Log.Warn("websocket upgrade failed", zap.String("player", p.Name), zap.Error(err))
		return
	}

	d.Registry.Add(p.Name, conn)
	d.Log.Info("websocket connected", zap.String("player", p.Name))

	// Prime the client so it fetches fresh state right after connecting.
	d.Registry.Unicast(p.Name, ws.Invalidate)

	go d.readLoop(p.Name, conn)
}

// readLoop drains the socket until it dies. Clients never send anything
// meaningful; the read is only how we notice the peer went away.
func (d *Deps) readLoop(name string, conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	d.Registry.RemoveConn(name, conn)
	d.Log.Info("websocket disconnected", zap.String("player", name))
}
