package service

import (
	"context"
	"log"
	"time"

	"github.com/mamba-se/torch-discord-sync/internal/domain"
	"github.com/mamba-se/torch-discord-sync/internal/infra/deathmsg"
	"github.com/mamba-se/torch-discord-sync/internal/infra/storage"
)

// Categorías de muerte.
const (
	DeathSuicide      = "Suicide"
	DeathFirstKill    = "FirstKill"
	DeathRetaliate    = "Retaliate"
	DeathRetaliateOld = "RetaliateOld"
	DeathAccident     = "Accident"
)

// DeathLogService clasifica cada muerte mirando el historial del par
// (killer, victim) y reenvía el mensaje renderizado al canal de eventos.
type DeathLogService struct {
	db           DeathRepo
	events       *EventLogService
	messages     *deathmsg.Messages
	retaliate    time.Duration
	retaliateOld time.Duration
	now          func() time.Time
}

func NewDeathLogService(db DeathRepo, events *EventLogService, messages *deathmsg.Messages, retaliate, retaliateOld time.Duration) *DeathLogService {
	if retaliate <= 0 {
		retaliate = time.Hour
	}
	if retaliateOld <= 0 {
		retaliateOld = 24 * time.Hour
	}
	return &DeathLogService{
		db:           db,
		events:       events,
		messages:     messages,
		retaliate:    retaliate,
		retaliateOld: retaliateOld,
		now:          time.Now,
	}
}

// LogDeath clasifica, guarda SIEMPRE la fila en el historial (así el
// próximo lookup ve el evento más reciente) y notifica. Devuelve la
// categoría asignada.
func (s *DeathLogService) LogDeath(ctx context.Context, ev domain.DeathEvent) (string, error) {
	now := s.now()
	category := s.Classify(ev.KillerSteamID, ev.VictimSteamID, now)

	if err := s.db.LogDeath(ev.KillerSteamID, ev.VictimSteamID, category, now); err != nil {
		return category, err
	}

	msg := s.messages.Render(category, deathmsg.Vars{
		Killer:   ev.KillerName,
		Victim:   ev.VictimName,
		Weapon:   ev.Weapon,
		Location: ev.Location,
	})
	s.events.LogDeathMessage(ctx, msg)
	log.Printf("[DEATH] %s", msg)
	return category, nil
}

// Classify aplica las reglas en orden:
//  1. killer == victim → Suicide
//  2. killer válido: último kill killer→victim (la dirección importa);
//     sin historial → FirstKill; < ventana corta → Retaliate;
//     < ventana larga → RetaliateOld; más viejo → FirstKill (la
//     historia vieja resetea a "primer encuentro", no queda en revenge).
//  3. sin killer válido → Accident
func (s *DeathLogService) Classify(killerSteamID, victimSteamID int64, now time.Time) string {
	if killerSteamID == victimSteamID {
		return DeathSuicide
	}
	if killerSteamID <= 0 {
		return DeathAccident
	}

	last, err := s.db.GetLastKill(killerSteamID, victimSteamID)
	if err == storage.ErrNotFound {
		return DeathFirstKill
	}
	if err != nil {
		log.Printf("[DEATH] last kill lookup: %v", err)
		return DeathFirstKill
	}

	elapsed := now.Sub(last.DeathTime)
	switch {
	case elapsed < s.retaliate:
		return DeathRetaliate
	case elapsed < s.retaliateOld:
		return DeathRetaliateOld
	default:
		return DeathFirstKill
	}
}
