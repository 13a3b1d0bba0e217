package gameserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamba-se/torch-discord-sync/internal/app/service"
	"github.com/mamba-se/torch-discord-sync/internal/infra/deathmsg"
	"github.com/mamba-se/torch-discord-sync/internal/infra/storage"
)

const testSecret = "shhh"

type noopDirectory struct{}

func (noopDirectory) CreateRole(context.Context, string) (uint64, error)    { return 1, nil }
func (noopDirectory) CreateChannel(context.Context, string) (uint64, error) { return 2, nil }
func (noopDirectory) DeleteRole(context.Context, uint64) error              { return nil }
func (noopDirectory) DeleteChannel(context.Context, uint64) error           { return nil }
func (noopDirectory) SendMessage(context.Context, uint64, string) error     { return nil }
func (noopDirectory) ResolveUserByName(context.Context, string) (uint64, error) {
	return 0, errors.New("not found")
}
func (noopDirectory) SendDirectMessage(context.Context, uint64, string) error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)

	dir := noopDirectory{}
	events := service.NewEventLogService(db, dir, service.EventChannels{}, false)
	factionSync := service.NewFactionSyncService(db, dir, events)
	orch := service.NewSyncOrchestrator(factionSync, events)
	msgs, err := deathmsg.Load("")
	require.NoError(t, err)
	deaths := service.NewDeathLogService(db, events, msgs, time.Hour, 24*time.Hour)
	chat := service.NewChatSyncService(db, dir, false)
	verify := service.NewVerificationService(db, 15*time.Minute, 8)
	cmds := service.NewVerificationCommands(verify, dir, events, 15*time.Minute)

	return New(testSecret, orch, deaths, chat, cmds, events, 0.8)
}

func do(t *testing.T, srv *Server, method, path, secret, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if secret != "" {
		req.Header.Set("X-TORCH-SYNC", secret)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/torch/factions", "/torch/death", "/torch/chat", "/torch/verify", "/torch/presence", "/torch/status"} {
		rec := do(t, srv, http.MethodPost, path, "", "{}")
		assert.Equal(t, http.StatusForbidden, rec.Code, path)

		rec = do(t, srv, http.MethodPost, path, "wrong", "{}")
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestFactionsAccepted(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/torch/factions", testSecret,
		`{"factions":[{"faction_id":1,"tag":"ABC","name":"Alpha","players":[]}]}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, srv, http.MethodPost, "/torch/factions", testSecret, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeathReturnsCategory(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/torch/death", testSecret,
		`{"killer_name":"Bob","victim_name":"Alice","killer_steam_id":76561198000000001,"victim_steam_id":76561198000000002}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "FirstKill", resp["category"])

	// Mismo par enseguida → Retaliate.
	rec = do(t, srv, http.MethodPost, "/torch/death", testSecret,
		`{"killer_name":"Bob","victim_name":"Alice","killer_steam_id":76561198000000001,"victim_steam_id":76561198000000002}`)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Retaliate", resp["category"])
}

func TestChatDrain(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/torch/chat", testSecret, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp["messages"])

	// POST de chat de un jugador sin facción: 200 y silencio.
	rec = do(t, srv, http.MethodPost, "/torch/chat", testSecret,
		`{"steam_id":76561198000000001,"player_name":"Bob","message":"hola"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVerifyRejectsInvalidSteamID(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/torch/verify", testSecret,
		`{"steam_id":123,"player_name":"Bob","discord_username":"bob"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "Invalid SteamID")
}

func TestPresenceEvents(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/torch/presence", testSecret,
		`{"event":"join","player_name":"Bob","steam_id":76561198000000001}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodPost, "/torch/presence", testSecret,
		`{"event":"reboot","player_name":"Bob","steam_id":76561198000000001}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/torch/status", testSecret,
		`{"status":"online","sim_speed":0.5}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/torch/death", testSecret, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
