package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mamba-se/torch-discord-sync/internal/domain"
	"github.com/mamba-se/torch-discord-sync/internal/infra/storage"
)

// FactionSyncService mapea el snapshot de facciones del juego sobre el
// estado ya sincronizado y sólo crea lo que falta en Discord. Correrlo
// dos veces con el mismo snapshot no crea objetos duplicados.
type FactionSyncService struct {
	db        FactionRepo
	directory Directory
	events    *EventLogService
}

func NewFactionSyncService(db FactionRepo, directory Directory, events *EventLogService) *FactionSyncService {
	return &FactionSyncService{db: db, directory: directory, events: events}
}

// Sync procesa cada facción como unidad de trabajo propia: si una falla
// se loguea y seguimos con las demás, sin rollback de lo ya aplicado.
// Devuelve cuántas facciones de jugadores procesó.
func (s *FactionSyncService) Sync(ctx context.Context, factions []domain.FactionSnapshot) int {
	log.Printf("[FACTION_SYNC] Starting faction synchronization")

	processed := 0
	for _, f := range factions {
		// Sólo facciones de jugadores (tag de 3)
		if len(f.Tag) != 3 {
			continue
		}
		if err := s.syncOne(ctx, f); err != nil {
			log.Printf("[FACTION_SYNC] faction %d (%s): %v", f.FactionID, f.Tag, err)
			_ = s.events.Log(ctx, "SyncError", fmt.Sprintf("faction %d (%s): %v", f.FactionID, f.Tag, err))
			continue
		}
		processed++
	}

	log.Printf("[FACTION_SYNC] Synchronization complete")
	return processed
}

func (s *FactionSyncService) syncOne(ctx context.Context, snap domain.FactionSnapshot) error {
	var roleID, channelID uint64
	isNew := false

	existing, err := s.db.GetFaction(snap.FactionID)
	switch err {
	case nil:
		// Bindings pegajosos: un id distinto de 0 no se rebindea nunca.
		roleID = existing.DiscordRoleID
		channelID = existing.DiscordChannelID
	case storage.ErrNotFound:
		isNew = true
	default:
		return err
	}

	// Los que quedaron en 0 (facción nueva o fallo anterior de Discord)
	// se reintentan acá. Las llamadas a Discord van ANTES de tomar el
	// lock del store, no al revés.
	if roleID == 0 {
		id, err := s.directory.CreateRole(ctx, snap.Tag)
		if err != nil {
			log.Printf("[FACTION_SYNC] create role %s: %v", snap.Tag, err)
		} else {
			roleID = id
		}
	}
	if channelID == 0 {
		id, err := s.directory.CreateChannel(ctx, strings.ToLower(snap.Name))
		if err != nil {
			log.Printf("[FACTION_SYNC] create channel %s: %v", snap.Name, err)
		} else {
			channelID = id
		}
	}

	members := make([]storage.FactionPlayer, 0, len(snap.Players))
	for _, p := range snap.Players {
		members = append(members, storage.FactionPlayer{
			PlayerID:      p.PlayerID,
			SteamID:       p.SteamID,
			OriginalNick:  p.OriginalNick,
			SyncedNick:    syncedNick(snap.Tag, p.OriginalNick),
			DiscordUserID: p.DiscordUserID,
		})
	}

	if err := s.db.SaveFaction(storage.Faction{
		FactionID:        snap.FactionID,
		Tag:              snap.Tag,
		Name:             snap.Name,
		DiscordRoleID:    roleID,
		DiscordChannelID: channelID,
		Players:          members,
	}); err != nil {
		return err
	}

	if isNew {
		log.Printf("[FACTION_SYNC] New faction created: %s - %s", snap.Tag, snap.Name)
	}

	for _, m := range members {
		if err := s.db.SavePlayer(storage.Player{
			PlayerID:      m.PlayerID,
			SteamID:       m.SteamID,
			OriginalNick:  m.OriginalNick,
			SyncedNick:    m.SyncedNick,
			FactionID:     snap.FactionID,
			DiscordUserID: m.DiscordUserID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ResetDiscord borra todos los roles/canales creados por el bot y
// después limpia el documento entero. Destructivo e irreversible.
func (s *FactionSyncService) ResetDiscord(ctx context.Context) error {
	log.Printf("[FACTION_SYNC] Starting Discord reset (DESTRUCTIVE)")

	for _, f := range s.db.GetAllFactions() {
		if f.DiscordRoleID != 0 {
			if err := s.directory.DeleteRole(ctx, f.DiscordRoleID); err != nil {
				log.Printf("[FACTION_SYNC] delete role %s: %v", f.Tag, err)
			} else {
				log.Printf("[FACTION_SYNC] Deleted role: %s", f.Tag)
			}
		}
		if f.DiscordChannelID != 0 {
			if err := s.directory.DeleteChannel(ctx, f.DiscordChannelID); err != nil {
				log.Printf("[FACTION_SYNC] delete channel %s: %v", f.Name, err)
			} else {
				log.Printf("[FACTION_SYNC] Deleted channel: %s", f.Name)
			}
		}
	}

	if err := s.db.ClearAllData(); err != nil {
		return err
	}
	log.Printf("[FACTION_SYNC] Discord reset complete")
	return nil
}

func syncedNick(tag, nick string) string {
	return "[" + tag + "] " + nick
}
