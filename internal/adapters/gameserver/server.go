package gameserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/mamba-se/torch-discord-sync/internal/app/service"
	"github.com/mamba-se/torch-discord-sync/internal/domain"
)

// Server: API HTTP que consume el plugin de Torch. Todo entra por acá:
// snapshots de facciones, muertes, chat, presencia y pedidos de
// verificación in-game.
type Server struct {
	secret string
	mux    *http.ServeMux

	orchestrator *service.SyncOrchestrator
	deaths       *service.DeathLogService
	chat         *service.ChatSyncService
	verify       *service.VerificationCommands
	events       *service.EventLogService

	simThreshold float64
}

func New(
	secret string,
	orchestrator *service.SyncOrchestrator,
	deaths *service.DeathLogService,
	chat *service.ChatSyncService,
	verify *service.VerificationCommands,
	events *service.EventLogService,
	simThreshold float64,
) *Server {
	s := &Server{
		secret:       secret,
		mux:          http.NewServeMux(),
		orchestrator: orchestrator,
		deaths:       deaths,
		chat:         chat,
		verify:       verify,
		events:       events,
		simThreshold: simThreshold,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/torch/factions", s.handleFactions)
	s.mux.HandleFunc("/torch/death", s.handleDeath)
	s.mux.HandleFunc("/torch/chat", s.handleChat)
	s.mux.HandleFunc("/torch/verify", s.handleVerify)
	s.mux.HandleFunc("/torch/presence", s.handlePresence)
	s.mux.HandleFunc("/torch/status", s.handleStatus)
}

// auth compartida de todos los endpoints: header con secreto estático.
func (s *Server) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("X-TORCH-SYNC") != s.secret {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	_ = r.Body.Close()
	if err != nil {
		http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

// POST /torch/factions — snapshot completo; la reconciliación corre
// async, el plugin no espera.
func (s *Server) handleFactions(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	var payload struct {
		Factions []domain.FactionSnapshot `json:"factions"`
	}
	if !s.readJSON(w, r, &payload) {
		return
	}

	go s.orchestrator.ExecuteFullSync(context.Background(), payload.Factions)
	log.Printf("webhook: factions snapshot n=%d", len(payload.Factions))
	w.WriteHeader(http.StatusAccepted)
}

// POST /torch/death
func (s *Server) handleDeath(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	var ev domain.DeathEvent
	if !s.readJSON(w, r, &ev) {
		return
	}

	category, err := s.deaths.LogDeath(r.Context(), ev)
	if err != nil {
		log.Printf("webhook: death log: %v", err)
	}
	writeJSON(w, map[string]string{"category": category})
}

// POST /torch/chat — chat in-game → Discord.
// GET  /torch/chat — el plugin drena la cola Discord → juego.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	if r.Method == http.MethodGet {
		writeJSON(w, map[string][]string{"messages": s.chat.DrainOutbound()})
		return
	}

	var msg domain.ChatMessage
	if !s.readJSON(w, r, &msg) {
		return
	}
	_ = s.chat.GameToDiscord(r.Context(), msg.SteamID, msg.PlayerName, msg.Message)
	w.WriteHeader(http.StatusOK)
}

// POST /torch/verify — `/tds verify @usuario` in-game. El body de la
// respuesta es el mensaje que el plugin le muestra al jugador tal cual.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	var req struct {
		SteamID         int64  `json:"steam_id"`
		PlayerName      string `json:"player_name"`
		DiscordUsername string `json:"discord_username"`
	}
	if !s.readJSON(w, r, &req) {
		return
	}
	if !domain.IsValidSteamID(req.SteamID) {
		writeJSON(w, map[string]string{"message": "❌ Error: Invalid SteamID."})
		return
	}
	msg := s.verify.RequestFromGame(r.Context(), req.SteamID, req.PlayerName, req.DiscordUsername)
	writeJSON(w, map[string]string{"message": msg})
}

// POST /torch/presence — join/leave de jugadores.
func (s *Server) handlePresence(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	var req struct {
		Event      string `json:"event"` // join | leave
		PlayerName string `json:"player_name"`
		SteamID    int64  `json:"steam_id"`
	}
	if !s.readJSON(w, r, &req) {
		return
	}

	switch req.Event {
	case "join":
		s.events.LogPlayerJoin(r.Context(), req.PlayerName, req.SteamID)
	case "leave":
		s.events.LogPlayerLeave(r.Context(), req.PlayerName, req.SteamID)
	default:
		http.Error(w, "unknown event", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// POST /torch/status — heartbeat con simspeed.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	var req struct {
		Status   string  `json:"status"`
		SimSpeed float64 `json:"sim_speed"`
	}
	if !s.readJSON(w, r, &req) {
		return
	}

	if req.SimSpeed < s.simThreshold {
		s.events.LogSimSpeedWarning(r.Context(), req.SimSpeed, s.simThreshold)
	}
	s.events.LogServerStatus(r.Context(), req.Status, req.SimSpeed)
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) Start(addr string) {
	log.Printf("🌐 HTTP listening on %s", addr)
	if err := http.ListenAndServe(addr, s.mux); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
