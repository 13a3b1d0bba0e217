package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordadapter "github.com/mamba-se/torch-discord-sync/internal/adapters/discord"
	"github.com/mamba-se/torch-discord-sync/internal/adapters/gameserver"
	"github.com/mamba-se/torch-discord-sync/internal/app/service"
	"github.com/mamba-se/torch-discord-sync/internal/infra/config"
	"github.com/mamba-se/torch-discord-sync/internal/infra/deathmsg"
	"github.com/mamba-se/torch-discord-sync/internal/infra/storage"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Store (documento único en disco)
	db, err := storage.Open(cfg.DataPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("✅ store listo en %s", cfg.DataPath)

	// Plantillas de muerte
	messages, err := deathmsg.Load(cfg.DeathMessagesPath)
	if err != nil {
		log.Fatal("death messages:", err)
	}

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Printf("✅ Conectado como %s (%s)", s.State.User.Username, s.State.User.ID)

	directory := discordadapter.NewDirectory(s, cfg.DiscordGuild, cfg.FactionCategoryID)

	// Services
	eventsSvc := service.NewEventLogService(db, directory, service.EventChannels{
		StaffLog: cfg.StaffLogChannelID,
		Status:   cfg.StatusChannelID,
		Events:   cfg.EventChannelID,
	}, cfg.Debug)
	factionSync := service.NewFactionSyncService(db, directory, eventsSvc)
	orchestrator := service.NewSyncOrchestrator(factionSync, eventsSvc)
	codeTTL := time.Duration(cfg.VerifyCodeTTLMinutes) * time.Minute
	verifySvc := service.NewVerificationService(db, codeTTL, cfg.VerifyCodeLength)
	verifyCmds := service.NewVerificationCommands(verifySvc, directory, eventsSvc, codeTTL)
	deathSvc := service.NewDeathLogService(db, eventsSvc, messages,
		time.Duration(cfg.RetaliateWindowSeconds)*time.Second,
		time.Duration(cfg.RetaliateOldWindowSeconds)*time.Second,
	)
	chatSync := service.NewChatSyncService(db, directory, cfg.Debug)

	// API HTTP para el plugin de Torch
	web := gameserver.New(cfg.TorchSecret, orchestrator, deathSvc, chatSync, verifyCmds, eventsSvc, cfg.SimSpeedThreshold)
	go web.Start(cfg.HTTPAddr)

	// Router de comandos Discord
	r := discordadapter.NewRouter(s, cfg.DiscordGuild, verifyCmds, orchestrator, factionSync, chatSync, cfg.AdminRoleIDs)
	if err := r.Register(); err != nil {
		log.Fatalf("registrando comandos: %v", err)
	}
	r.Handlers()
	log.Printf("✅ comandos registrados en guild %s", cfg.DiscordGuild)

	// Resync periódico con el último snapshot: reintenta los bindings
	// que quedaron en 0 sin esperar al próximo push del plugin.
	go func() {
		t := time.NewTicker(time.Duration(cfg.SyncIntervalSeconds) * time.Second)
		defer t.Stop()
		for range t.C {
			orchestrator.Resync(context.Background())
		}
	}()

	// Barrido de códigos de verificación vencidos
	go func() {
		t := time.NewTicker(5 * time.Minute)
		defer t.Stop()
		for range t.C {
			verifySvc.CleanupExpired()
		}
	}()

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
}
