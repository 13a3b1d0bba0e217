package service

import (
	"context"
	"fmt"
	"log"
)

// Canales destino para los distintos tipos de evento (0 = deshabilitado).
type EventChannels struct {
	StaffLog uint64 // auditoría / errores de sync
	Status   uint64 // estado del server / simspeed
	Events   uint64 // muertes, join/leave
}

// EventLogService: append al event log persistente + reenvío best-effort
// al canal de Discord que corresponda. Nunca devuelve error hacia arriba
// por un fallo de Discord, sólo por el store.
type EventLogService struct {
	db        EventRepo
	directory Directory
	channels  EventChannels
	debug     bool
}

func NewEventLogService(db EventRepo, directory Directory, channels EventChannels, debug bool) *EventLogService {
	return &EventLogService{db: db, directory: directory, channels: channels, debug: debug}
}

func (s *EventLogService) Log(ctx context.Context, eventType, details string) error {
	if err := s.db.LogEvent(eventType, details); err != nil {
		log.Printf("[EVENTS] persistir %s: %v", eventType, err)
	}
	s.forward(ctx, s.channels.StaffLog, "["+eventType+"] "+details)
	if s.debug {
		log.Printf("[EVENTS] %s - %s", eventType, details)
	}
	return nil
}

func (s *EventLogService) LogSyncComplete(ctx context.Context, factions, players int) {
	details := fmt.Sprintf("%d factions, %d players", factions, players)
	if err := s.db.LogEvent("SyncComplete", details); err != nil {
		log.Printf("[EVENTS] persistir SyncComplete: %v", err)
	}
	s.forward(ctx, s.channels.StaffLog, fmt.Sprintf("Sync Complete - Factions: %d, Players: %d", factions, players))
}

func (s *EventLogService) LogDeathMessage(ctx context.Context, message string) {
	if err := s.db.LogEvent("Death", message); err != nil {
		log.Printf("[EVENTS] persistir Death: %v", err)
	}
	s.forward(ctx, s.channels.Events, message)
}

func (s *EventLogService) LogPlayerJoin(ctx context.Context, playerName string, steamID int64) {
	details := fmt.Sprintf("%s (%d)", playerName, steamID)
	if err := s.db.LogEvent("PlayerJoin", details); err != nil {
		log.Printf("[EVENTS] persistir PlayerJoin: %v", err)
	}
	s.forward(ctx, s.channels.Events, fmt.Sprintf("%s (%d) joined the server", playerName, steamID))
}

func (s *EventLogService) LogPlayerLeave(ctx context.Context, playerName string, steamID int64) {
	details := fmt.Sprintf("%s (%d)", playerName, steamID)
	if err := s.db.LogEvent("PlayerLeave", details); err != nil {
		log.Printf("[EVENTS] persistir PlayerLeave: %v", err)
	}
	s.forward(ctx, s.channels.Events, fmt.Sprintf("%s (%d) left the server", playerName, steamID))
}

func (s *EventLogService) LogServerStatus(ctx context.Context, status string, simSpeed float64) {
	msg := fmt.Sprintf("Server %s | SimSpeed: %.2f", status, simSpeed)
	if s.channels.Status != 0 {
		s.forward(ctx, s.channels.Status, msg)
		return
	}
	_ = s.Log(ctx, "ServerStatus", msg)
}

func (s *EventLogService) LogSimSpeedWarning(ctx context.Context, simSpeed, threshold float64) {
	msg := fmt.Sprintf("SIMSPEED ALERT - Current: %.2f (Threshold: %.2f)", simSpeed, threshold)
	if s.channels.Status != 0 {
		s.forward(ctx, s.channels.Status, msg)
		return
	}
	_ = s.Log(ctx, "SimSpeedWarning", msg)
}

// forward: envío best-effort; un canal en 0 o un error de Discord no frenan nada.
func (s *EventLogService) forward(ctx context.Context, channelID uint64, msg string) {
	if channelID == 0 || s.directory == nil {
		return
	}
	if err := s.directory.SendMessage(ctx, channelID, msg); err != nil {
		log.Printf("[EVENTS] discord send: %v", err)
	}
}
