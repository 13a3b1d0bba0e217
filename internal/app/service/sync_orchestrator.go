package service

import (
	"context"
	"log"
	"sync"

	"github.com/mamba-se/torch-discord-sync/internal/domain"
)

// SyncOrchestrator coordina la sincronización completa: recibe el
// snapshot del juego, lo pasa al reconciliador y reporta el resultado.
// Guarda el último snapshot para poder relanzar un sync manual desde
// Discord sin esperar al próximo push del plugin.
type SyncOrchestrator struct {
	factionSync *FactionSyncService
	events      *EventLogService

	mu   sync.Mutex
	last []domain.FactionSnapshot
}

func NewSyncOrchestrator(factionSync *FactionSyncService, events *EventLogService) *SyncOrchestrator {
	return &SyncOrchestrator{factionSync: factionSync, events: events}
}

// ExecuteFullSync: corridas concurrentes no se saltean ni se mezclan,
// simplemente serializan en el lock del store.
func (o *SyncOrchestrator) ExecuteFullSync(ctx context.Context, factions []domain.FactionSnapshot) {
	log.Printf("[ORCHESTRATOR] Starting full synchronization")

	o.mu.Lock()
	o.last = factions
	o.mu.Unlock()

	playerFactions := make([]domain.FactionSnapshot, 0, len(factions))
	players := 0
	for _, f := range factions {
		if len(f.Tag) != 3 {
			continue
		}
		playerFactions = append(playerFactions, f)
		players += len(f.Players)
	}

	o.factionSync.Sync(ctx, playerFactions)
	o.events.LogSyncComplete(ctx, len(playerFactions), players)
	log.Printf("[ORCHESTRATOR] Synchronization complete")
}

// Resync repite la reconciliación con el último snapshot conocido.
// Devuelve false si todavía no llegó ninguno.
func (o *SyncOrchestrator) Resync(ctx context.Context) bool {
	o.mu.Lock()
	last := o.last
	o.mu.Unlock()

	if last == nil {
		return false
	}
	o.ExecuteFullSync(ctx, last)
	return true
}
