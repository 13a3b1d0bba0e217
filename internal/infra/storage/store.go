package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

// Store: documento único en disco, un solo lock para mutar + persistir.
// Si el archivo no existe (o está corrupto) arrancamos con documento vacío:
// nunca tiramos abajo el bot por un problema de lectura.
type Store struct {
	path string
	mu   sync.Mutex
	data rootDocument
	now  func() time.Time
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	s := &Store{path: path, now: time.Now}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[STORE] no pude leer %s, arranco vacío: %v", path, err)
		}
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		log.Printf("[STORE] %s corrupto, arranco vacío: %v", path, err)
		s.data = rootDocument{}
	}
	return s, nil
}

// persistLocked reescribe el documento entero (tmp + rename, atómico).
// Llamar siempre con s.mu tomado. Si falla, el estado en memoria queda
// mutado igual: el próximo persist exitoso lo incluye.
func (s *Store) persistLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// ---------- factions ----------

// SaveFaction: upsert por FactionID. En update refresca UpdatedAt,
// en insert setea ambos timestamps.
func (s *Store) SaveFaction(f Faction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Factions {
		if s.data.Factions[i].FactionID == f.FactionID {
			ex := &s.data.Factions[i]
			ex.Tag = f.Tag
			ex.Name = f.Name
			ex.DiscordRoleID = f.DiscordRoleID
			ex.DiscordChannelID = f.DiscordChannelID
			ex.Players = copyFactionPlayers(f.Players)
			ex.UpdatedAt = s.now().UTC()
			return s.persistLocked()
		}
	}

	f.CreatedAt = s.now().UTC()
	f.UpdatedAt = f.CreatedAt
	f.Players = copyFactionPlayers(f.Players)
	s.data.Factions = append(s.data.Factions, f)
	return s.persistLocked()
}

func (s *Store) GetFaction(factionID int) (Faction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Factions {
		if s.data.Factions[i].FactionID == factionID {
			return copyFaction(s.data.Factions[i]), nil
		}
	}
	return Faction{}, ErrNotFound
}

// GetAllFactions devuelve copias: mutar el resultado no toca el store.
func (s *Store) GetAllFactions() []Faction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Faction, 0, len(s.data.Factions))
	for i := range s.data.Factions {
		out = append(out, copyFaction(s.data.Factions[i]))
	}
	return out
}

func (s *Store) FindFactionBySteamID(steamID int64) (Faction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Factions {
		for _, p := range s.data.Factions[i].Players {
			if p.SteamID == steamID {
				return copyFaction(s.data.Factions[i]), nil
			}
		}
	}
	return Faction{}, ErrNotFound
}

func (s *Store) FindFactionByChannelID(channelID uint64) (Faction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Factions {
		if s.data.Factions[i].DiscordChannelID == channelID && channelID != 0 {
			return copyFaction(s.data.Factions[i]), nil
		}
	}
	return Faction{}, ErrNotFound
}

// ---------- players ----------

func (s *Store) SavePlayer(p Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Players {
		if s.data.Players[i].PlayerID == p.PlayerID {
			ex := &s.data.Players[i]
			ex.SteamID = p.SteamID
			ex.OriginalNick = p.OriginalNick
			ex.SyncedNick = p.SyncedNick
			ex.FactionID = p.FactionID
			ex.DiscordUserID = p.DiscordUserID
			ex.UpdatedAt = s.now().UTC()
			return s.persistLocked()
		}
	}

	p.CreatedAt = s.now().UTC()
	p.UpdatedAt = p.CreatedAt
	s.data.Players = append(s.data.Players, p)
	return s.persistLocked()
}

func (s *Store) GetPlayer(playerID int) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.data.Players {
		if p.PlayerID == playerID {
			return p, nil
		}
	}
	return Player{}, ErrNotFound
}

func (s *Store) GetAllPlayers() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Player, len(s.data.Players))
	copy(out, s.data.Players)
	return out
}

// ---------- event log ----------

func (s *Store) LogEvent(eventType, details string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.EventLogs = append(s.data.EventLogs, EventLogEntry{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Details:   details,
		Timestamp: s.now().UTC(),
	})
	return s.persistLocked()
}

// PruneEventLogs borra entradas más viejas que olderThan (janitor).
func (s *Store) PruneEventLogs(olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.data.EventLogs[:0]
	removed := 0
	for _, e := range s.data.EventLogs {
		if e.Timestamp.Before(olderThan) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return 0, nil
	}
	s.data.EventLogs = kept
	return removed, s.persistLocked()
}

// ---------- death history ----------

func (s *Store) LogDeath(killerSteamID, victimSteamID int64, deathType string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.DeathHistory = append(s.data.DeathHistory, DeathRecord{
		KillerSteamID: killerSteamID,
		VictimSteamID: victimSteamID,
		DeathTime:     at.UTC(),
		DeathType:     deathType,
	})
	return s.persistLocked()
}

// GetLastKill: el kill más reciente del par ordenado (killer, victim).
// La dirección importa: es venganza DE killer CONTRA victim.
func (s *Store) GetLastKill(killerSteamID, victimSteamID int64) (DeathRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var last DeathRecord
	found := false
	for _, d := range s.data.DeathHistory {
		if d.KillerSteamID != killerSteamID || d.VictimSteamID != victimSteamID {
			continue
		}
		if !found || d.DeathTime.After(last.DeathTime) {
			last = d
			found = true
		}
	}
	if !found {
		return DeathRecord{}, ErrNotFound
	}
	return last, nil
}

// ---------- verifications ----------

// SaveVerification: upsert por SteamID. Acá no tocamos timestamps,
// el servicio de verificación es dueño de CodeGeneratedAt/VerifiedAt.
func (s *Store) SaveVerification(v Verification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Verifications {
		if s.data.Verifications[i].SteamID == v.SteamID {
			s.data.Verifications[i] = v
			return s.persistLocked()
		}
	}
	s.data.Verifications = append(s.data.Verifications, v)
	return s.persistLocked()
}

func (s *Store) GetVerification(steamID int64) (Verification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.data.Verifications {
		if v.SteamID == steamID {
			return v, nil
		}
	}
	return Verification{}, ErrNotFound
}

func (s *Store) GetVerificationByCode(code string) (Verification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.data.Verifications {
		if v.Code == code {
			return v, nil
		}
	}
	return Verification{}, ErrNotFound
}

func (s *Store) GetAllVerifications() []Verification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Verification, len(s.data.Verifications))
	copy(out, s.data.Verifications)
	return out
}

func (s *Store) DeleteVerification(steamID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.data.Verifications[:0]
	for _, v := range s.data.Verifications {
		if v.SteamID != steamID {
			kept = append(kept, v)
		}
	}
	s.data.Verifications = kept
	return s.persistLocked()
}

func (s *Store) SaveVerificationHistory(e VerificationHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.VerificationHistory = append(s.data.VerificationHistory, e)
	return s.persistLocked()
}

// GetVerificationHistory: entradas del steamID, más recientes primero.
func (s *Store) GetVerificationHistory(steamID int64) []VerificationHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []VerificationHistoryEntry
	for _, e := range s.data.VerificationHistory {
		if e.SteamID == steamID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// ---------- reset ----------

// ClearAllData: borra el documento completo. Irreversible.
func (s *Store) ClearAllData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = rootDocument{}
	return s.persistLocked()
}

// ---------- helpers ----------

func copyFaction(f Faction) Faction {
	f.Players = copyFactionPlayers(f.Players)
	return f
}

func copyFactionPlayers(ps []FactionPlayer) []FactionPlayer {
	if ps == nil {
		return nil
	}
	out := make([]FactionPlayer, len(ps))
	copy(out, ps)
	return out
}
