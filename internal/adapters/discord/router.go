package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mamba-se/torch-discord-sync/internal/app/service"
)

type Router struct {
	s       *discordgo.Session
	guildID string

	verify       *service.VerificationCommands
	orchestrator *service.SyncOrchestrator
	factionSync  *service.FactionSyncService
	chatSync     *service.ChatSyncService
	adminRoleIDs []string

	verifyLimiter *userLimiter
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	verify *service.VerificationCommands,
	orchestrator *service.SyncOrchestrator,
	factionSync *service.FactionSyncService,
	chatSync *service.ChatSyncService,
	adminRoleIDs []string,
) *Router {
	return &Router{
		s:             s,
		guildID:       guildID,
		verify:        verify,
		orchestrator:  orchestrator,
		factionSync:   factionSync,
		chatSync:      chatSync,
		adminRoleIDs:  adminRoleIDs,
		verifyLimiter: newUserLimiter(3 * time.Second),
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	// Slash commands
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		r.handleSlashCommand(s, ic)
	})

	// Chat Discord → juego: mensajes humanos en canales de facción
	r.s.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot || m.GuildID != r.guildID {
			return
		}
		channelID, err := parseSnowflake(m.ChannelID)
		if err != nil {
			return
		}
		r.chatSync.DiscordToGame(m.Author.Username, m.Content, channelID)
	})
}
