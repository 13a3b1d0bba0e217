package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DiscordToken string `env:"DISCORD_BOT_TOKEN,required"`
	DiscordGuild string `env:"DISCORD_GUILD_ID,required"`

	// Canales destino (0 = deshabilitado)
	FactionCategoryID uint64 `env:"FACTION_CATEGORY_ID"`
	StaffLogChannelID uint64 `env:"STAFF_LOG_CHANNEL_ID"`
	StatusChannelID   uint64 `env:"STATUS_CHANNEL_ID"`
	EventChannelID    uint64 `env:"EVENT_CHANNEL_ID"` // deaths / join / leave

	// API HTTP que consume el plugin de Torch
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	TorchSecret string `env:"TORCH_WEBHOOK_SECRET,required"`

	DataPath          string `env:"DATA_PATH" envDefault:"data/torchsync.json"`
	DeathMessagesPath string `env:"DEATH_MESSAGES_PATH" envDefault:"config/deathmessages.yml"`

	SyncIntervalSeconds int `env:"SYNC_INTERVAL_SECONDS" envDefault:"60"`

	VerifyCodeTTLMinutes int `env:"VERIFY_CODE_TTL_MINUTES" envDefault:"15"`
	VerifyCodeLength     int `env:"VERIFY_CODE_LENGTH" envDefault:"8"`

	RetaliateWindowSeconds    int `env:"RETALIATE_WINDOW_SECONDS" envDefault:"3600"`
	RetaliateOldWindowSeconds int `env:"RETALIATE_OLD_WINDOW_SECONDS" envDefault:"86400"`

	SimSpeedThreshold float64 `env:"SIMSPEED_THRESHOLD" envDefault:"0.8"`

	AdminRoleIDs []string `env:"ADMIN_ROLE_IDS" envSeparator:","`

	Debug bool `env:"DEBUG"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
