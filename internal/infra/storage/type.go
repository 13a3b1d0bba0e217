package storage

import "time"

// Documento raíz: todo el estado del plugin vive en un solo árbol
// que se reescribe completo en cada mutación.
type rootDocument struct {
	Factions            []Faction                  `json:"factions"`
	Players             []Player                   `json:"players"`
	EventLogs           []EventLogEntry            `json:"event_logs"`
	DeathHistory        []DeathRecord              `json:"death_history"`
	Verifications       []Verification             `json:"verifications"`
	VerificationHistory []VerificationHistoryEntry `json:"verification_history"`
}

type Faction struct {
	FactionID        int             `json:"faction_id"`
	Tag              string          `json:"tag"`
	Name             string          `json:"name"`
	DiscordRoleID    uint64          `json:"discord_role_id"`    // 0 = sin binding
	DiscordChannelID uint64          `json:"discord_channel_id"` // 0 = sin binding
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Players          []FactionPlayer `json:"players"`
}

type FactionPlayer struct {
	PlayerID      int    `json:"player_id"`
	SteamID       int64  `json:"steam_id"`
	OriginalNick  string `json:"original_nick"`
	SyncedNick    string `json:"synced_nick"`
	DiscordUserID uint64 `json:"discord_user_id"`
}

type Player struct {
	PlayerID      int       `json:"player_id"`
	SteamID       int64     `json:"steam_id"`
	OriginalNick  string    `json:"original_nick"`
	SyncedNick    string    `json:"synced_nick"`
	FactionID     int       `json:"faction_id"` // 0 = sin facción
	DiscordUserID uint64    `json:"discord_user_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DeathRecord es append-only; sólo ClearAllData lo borra.
type DeathRecord struct {
	KillerSteamID int64     `json:"killer_steam_id"`
	VictimSteamID int64     `json:"victim_steam_id"`
	DeathTime     time.Time `json:"death_time"`
	DeathType     string    `json:"death_type"`
}

type Verification struct {
	SteamID         int64     `json:"steam_id"`
	Code            string    `json:"code"`
	CodeGeneratedAt time.Time `json:"code_generated_at"`
	DiscordUsername string    `json:"discord_username"`
	IsVerified      bool      `json:"is_verified"`
	VerifiedAt      time.Time `json:"verified_at"`
	DiscordUserID   uint64    `json:"discord_user_id"`
}

type VerificationHistoryEntry struct {
	SteamID         int64     `json:"steam_id"`
	DiscordUsername string    `json:"discord_username"`
	DiscordUserID   uint64    `json:"discord_user_id"`
	Timestamp       time.Time `json:"timestamp"`
	Status          string    `json:"status"` // Success | Failed | Expired | Removed
}

type EventLogEntry struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"` // Death | PlayerJoin | PlayerLeave | SyncComplete | ...
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}
