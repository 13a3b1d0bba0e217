package service

import (
	"context"
	"log"
	"strings"
	"sync"
)

// ChatSyncService: puente de chat juego ↔ canal de facción en Discord.
// El lado Discord→juego se encola y el plugin de Torch lo drena por HTTP.
type ChatSyncService struct {
	db        ChatRepo
	directory Directory
	debug     bool

	mu       sync.Mutex
	outbound []string // mensajes pendientes de entregar al juego
}

func NewChatSyncService(db ChatRepo, directory Directory, debug bool) *ChatSyncService {
	return &ChatSyncService{db: db, directory: directory, debug: debug}
}

// GameToDiscord reenvía el chat in-game al canal de la facción del emisor.
// Jugador sin facción (o facción sin canal) → se descarta en silencio.
func (s *ChatSyncService) GameToDiscord(ctx context.Context, steamID int64, playerName, message string) error {
	faction, err := s.db.FindFactionBySteamID(steamID)
	if err != nil {
		return nil
	}
	if faction.DiscordChannelID == 0 {
		return nil
	}

	formatted := playerName + ": " + Sanitize(message)
	if err := s.directory.SendMessage(ctx, faction.DiscordChannelID, formatted); err != nil {
		log.Printf("[CHAT_SYNC] send to %s: %v", faction.Tag, err)
		return err
	}
	if s.debug {
		log.Printf("[CHAT_SYNC] Game -> Discord (%s): %s", faction.Tag, formatted)
	}
	return nil
}

// DiscordToGame: mensaje escrito en un canal de facción; lo formateamos
// y lo dejamos en la cola que drena el plugin.
func (s *ChatSyncService) DiscordToGame(discordUsername, message string, channelID uint64) {
	faction, err := s.db.FindFactionByChannelID(channelID)
	if err != nil {
		return
	}

	formatted := "[" + faction.Tag + " - Discord] " + discordUsername + ": " + Sanitize(message)
	s.mu.Lock()
	s.outbound = append(s.outbound, formatted)
	s.mu.Unlock()

	if s.debug {
		log.Printf("[CHAT_SYNC] Discord -> Game (%s): %s", faction.Tag, formatted)
	}
}

// DrainOutbound entrega y vacía la cola Discord→juego.
func (s *ChatSyncService) DrainOutbound() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.outbound
	s.outbound = nil
	return out
}

// Sanitize neutraliza menciones/markdown peligroso antes de reenviar
// texto de jugadores a Discord, y capa el largo al límite de mensaje.
func Sanitize(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	out := strings.NewReplacer(
		"@", "ᴀ",
		"<", "[",
		">", "]",
		"```", "''",
	).Replace(input)

	const maxLen = 2000
	if len(out) > maxLen {
		out = out[:maxLen-3] + "..."
	}
	return out
}
