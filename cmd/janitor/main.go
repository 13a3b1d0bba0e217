package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mamba-se/torch-discord-sync/internal/app/service"
	"github.com/mamba-se/torch-discord-sync/internal/infra/storage"
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Housekeeping para correr por cron con el bot apagado (el store asume
// un solo proceso dueño del archivo): borra códigos de verificación
// vencidos y entradas del event log con más de 30 días.
func main() {
	_ = godotenv.Load()

	dataPath := getenv("DATA_PATH", "data/torchsync.json")
	ttlMinutes, _ := strconv.Atoi(getenv("VERIFY_CODE_TTL_MINUTES", "15"))

	db, err := storage.Open(dataPath)
	if err != nil {
		log.Fatal(err)
	}

	verifySvc := service.NewVerificationService(db, time.Duration(ttlMinutes)*time.Minute, 8)
	expired := verifySvc.CleanupExpired()

	pruned, err := db.PruneEventLogs(time.Now().AddDate(0, 0, -30))
	if err != nil {
		log.Fatal("prune event logs:", err)
	}

	log.Printf("janitor: %d códigos vencidos, %d eventos viejos", expired, pruned)
}
