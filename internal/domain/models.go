package domain

// FactionSnapshot es el DTO que manda el plugin de Torch en cada tick de sync.
// Tag de 3 letras = facción de jugadores; el resto (NPC/admin) se ignora.
type FactionSnapshot struct {
	FactionID int             `json:"faction_id"`
	Tag       string          `json:"tag"`
	Name      string          `json:"name"`
	Players   []FactionMember `json:"players"`
}

type FactionMember struct {
	PlayerID      int    `json:"player_id"`
	SteamID       int64  `json:"steam_id"`
	OriginalNick  string `json:"original_nick"`
	DiscordUserID uint64 `json:"discord_user_id,omitempty"`
}

// DeathEvent llega por el webhook /torch/death.
// KillerSteamID == 0 → muerte ambiental (asteroide, radiación, etc).
type DeathEvent struct {
	KillerName    string `json:"killer_name"`
	VictimName    string `json:"victim_name"`
	Weapon        string `json:"weapon"`
	Location      string `json:"location"`
	KillerSteamID int64  `json:"killer_steam_id"`
	VictimSteamID int64  `json:"victim_steam_id"`
}

// ChatMessage: chat in-game que se reenvía al canal de la facción del emisor.
type ChatMessage struct {
	SteamID    int64  `json:"steam_id"`
	PlayerName string `json:"player_name"`
	Message    string `json:"message"`
}

// IsValidSteamID: los SteamID64 de cuentas reales caen en este rango.
func IsValidSteamID(steamID int64) bool {
	return steamID >= 76561198000000000 && steamID <= 76561202255233023
}
