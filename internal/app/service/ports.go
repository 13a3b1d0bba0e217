package service

import (
	"context"
	"time"

	"github.com/mamba-se/torch-discord-sync/internal/infra/storage"
)

// Lo implementa internal/adapters/discord.Directory
type Directory interface {
	CreateRole(ctx context.Context, name string) (uint64, error)
	CreateChannel(ctx context.Context, name string) (uint64, error)
	DeleteRole(ctx context.Context, id uint64) error
	DeleteChannel(ctx context.Context, id uint64) error
	SendMessage(ctx context.Context, channelID uint64, text string) error
	ResolveUserByName(ctx context.Context, name string) (uint64, error)
	SendDirectMessage(ctx context.Context, userID uint64, text string) error
}

// Los implementa internal/infra/storage.Store; cada servicio depende
// sólo del recorte que usa.

type FactionRepo interface {
	SaveFaction(f storage.Faction) error
	GetFaction(factionID int) (storage.Faction, error)
	GetAllFactions() []storage.Faction
	SavePlayer(p storage.Player) error
	ClearAllData() error
}

type VerificationRepo interface {
	SaveVerification(v storage.Verification) error
	GetVerification(steamID int64) (storage.Verification, error)
	GetVerificationByCode(code string) (storage.Verification, error)
	GetAllVerifications() []storage.Verification
	DeleteVerification(steamID int64) error
	SaveVerificationHistory(e storage.VerificationHistoryEntry) error
}

type DeathRepo interface {
	LogDeath(killerSteamID, victimSteamID int64, deathType string, at time.Time) error
	GetLastKill(killerSteamID, victimSteamID int64) (storage.DeathRecord, error)
}

type EventRepo interface {
	LogEvent(eventType, details string) error
}

type ChatRepo interface {
	FindFactionBySteamID(steamID int64) (storage.Faction, error)
	FindFactionByChannelID(channelID uint64) (storage.Faction, error)
}
