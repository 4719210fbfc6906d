package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/exoterra/server/internal/data"
	"github.com/exoterra/server/internal/game"
	"github.com/exoterra/server/internal/world"
	"github.com/exoterra/server/internal/ws"
)

type fakeStorages struct {
	storages []*world.Storage
}

func (f *fakeStorages) List(ctx context.Context) ([]*world.Storage, error) {
	return f.storages, nil
}

func newTestDeps(t *testing.T) (*Deps, *game.MockStore) {
	t.Helper()
	store := game.NewMockStore()
	gm := world.NewPlayer("admin", "")
	gm.IsGM = true
	store.Put(gm)
	store.Put(world.NewPlayer("bob", ""))

	catalog := data.NewCatalog(
		data.BaseItem{Name: "Roccia", Kind: world.KindTool},
		data.BaseItem{Name: "Carne", W: 2, H: 1, Kind: world.KindFood, Food: 30},
	)
	registry := ws.NewRegistry(time.Second, zap.NewNop())
	engine := game.NewEngine(store, catalog, registry, nil, nil, zap.NewNop())

	deps := &Deps{
		Players:  store,
		Engine:   engine,
		Registry: registry,
		Storages: &fakeStorages{storages: []*world.Storage{
			{ID: 1, Label: "Baule della base", Cols: 8, Rows: 4},
		}},
		Catalog:  catalog,
		Bestiary: &data.Bestiary{
			Dinosaurs: []data.Dinosaur{{Name: "Raptor", Diet: "carnivoro"}},
			Plants:    []data.Plant{{Name: "Felce Rossa", Edible: true}},
		},
		Log: zap.NewNop(),
	}
	return deps, store
}

func newTestServer(t *testing.T) (*httptest.Server, *game.MockStore) {
	t.Helper()
	deps, store := newTestDeps(t)
	mux := http.NewServeMux()
	RegisterAll(mux, deps)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestLoginCreatesAndAuthenticates(t *testing.T) {
	srv, store := newTestServer(t)

	resp := postJSON(t, srv.URL+"/login", map[string]string{"name": "carla", "password": "segreta"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view world.View
	decode(t, resp, &view)
	assert.Equal(t, "carla", view.Name)
	assert.Equal(t, 100, view.Hunger)
	assert.NotEmpty(t, store.Get("carla").PasswordHash, "password is stored hashed")

	resp = postJSON(t, srv.URL+"/login", map[string]string{"name": "carla", "password": "sbagliata"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/login", map[string]string{"name": "carla", "password": "segreta"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := postJSON(t, srv.URL+"/login", map[string]string{"name": "", "password": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestStateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/state?name=bob")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view world.View
	decode(t, resp, &view)
	assert.Equal(t, "bob", view.Name)

	resp, err = http.Get(srv.URL + "/state?name=ghost")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/state")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestGMStateAuthorization(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/gm/state?name=bob")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/gm/state?name=admin")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Players []map[string]any `json:"players"`
	}
	decode(t, resp, &body)
	require.Len(t, body.Players, 2)
	for _, p := range body.Players {
		_, leaked := p["passwordHash"]
		assert.False(t, leaked, "projection must not carry credentials")
		_, leaked = p["PasswordHash"]
		assert.False(t, leaked)
	}
}

func TestGMCommandRoundTrip(t *testing.T) {
	srv, store := newTestServer(t)

	resp := postJSON(t, srv.URL+"/gm/command", map[string]string{"name": "admin", "command": "_dmg bob 40"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	decode(t, resp, &body)
	assert.True(t, body.OK)
	assert.NotEmpty(t, body.Message)
	assert.Equal(t, 60, store.Get("bob").Biofeedback)
}

func TestGMCommandErrorMapping(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name    string
		issuer  string
		command string
		status  int
	}{
		{"non-gm", "bob", "_dmg admin 5", http.StatusForbidden},
		{"unknown verb", "admin", "frobnicate bob", http.StatusBadRequest},
		{"unknown target", "admin", "_dmg ghost 5", http.StatusNotFound},
		{"unknown item", "admin", "give bob Kryptonite", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/gm/command", map[string]string{"name": tc.issuer, "command": tc.command})
			assert.Equal(t, tc.status, resp.StatusCode)
			var body struct {
				Error string `json:"error"`
			}
			decode(t, resp, &body)
			assert.NotEmpty(t, body.Error, "errors carry a console message")
		})
	}
}

func TestGMTransferEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	resp := postJSON(t, srv.URL+"/gm/command", map[string]string{"name": "admin", "command": "give bob Roccia"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	itemID := store.Get("bob").Inventory[0].ID

	resp = postJSON(t, srv.URL+"/gm/transfer", map[string]string{"name": "admin", "from": "bob", "itemId": itemID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Empty(t, store.Get("bob").Inventory)
	assert.Len(t, store.Get("admin").Inventory, 1)

	resp = postJSON(t, srv.URL+"/gm/transfer", map[string]string{"name": "admin", "from": "bob", "itemId": "manca"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestInventoriesEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/inventories?name=bob")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		User   []world.Item     `json:"user"`
		Others []*world.Storage `json:"others"`
	}
	decode(t, resp, &body)
	assert.NotNil(t, body.User)
	require.Len(t, body.Others, 1)
	assert.Equal(t, "Baule della base", body.Others[0].Label)
	assert.NotNil(t, body.Others[0].Inventory)

	resp, err = http.Get(srv.URL + "/inventories?name=ghost")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestBestiaryEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/bestiary")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Dinosaurs []data.Dinosaur `json:"dinosaurs"`
		Plants    []data.Plant    `json:"plants"`
	}
	decode(t, resp, &body)
	require.Len(t, body.Dinosaurs, 1)
	assert.Equal(t, "Raptor", body.Dinosaurs[0].Name)
	require.Len(t, body.Plants, 1)
	assert.True(t, body.Plants[0].Edible)
}

func TestConsumeEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	resp := postJSON(t, srv.URL+"/gm/command", map[string]string{"name": "admin", "command": "_f bob -50"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = postJSON(t, srv.URL+"/gm/command", map[string]string{"name": "admin", "command": "give bob Carne"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	itemID := store.Get("bob").Inventory[0].ID

	resp = postJSON(t, srv.URL+"/action/consume", map[string]string{"name": "bob", "itemId": itemID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 80, store.Get("bob").Hunger)
	assert.Empty(t, store.Get("bob").Inventory)

	resp = postJSON(t, srv.URL+"/action/consume", map[string]string{"name": "bob", "itemId": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestMethodGuard(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/gm/command")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
