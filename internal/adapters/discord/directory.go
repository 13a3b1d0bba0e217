package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Directory implementa service.Directory sobre discordgo: roles y
// canales de facción, mensajes a canal y DMs. Los IDs viajan como
// uint64 (0 = sin binding) y acá los convertimos a snowflakes.
type Directory struct {
	s          *discordgo.Session
	guildID    string
	categoryID string // parent de los canales de facción ("" = raíz)
}

func NewDirectory(s *discordgo.Session, guildID string, categoryID uint64) *Directory {
	d := &Directory{s: s, guildID: guildID}
	if categoryID != 0 {
		d.categoryID = formatSnowflake(categoryID)
	}
	return d
}

func (d *Directory) CreateRole(ctx context.Context, name string) (uint64, error) {
	role, err := d.s.GuildRoleCreate(d.guildID, &discordgo.RoleParams{Name: name})
	if err != nil {
		return 0, fmt.Errorf("create role %s: %w", name, err)
	}
	return parseSnowflake(role.ID)
}

func (d *Directory) CreateChannel(ctx context.Context, name string) (uint64, error) {
	ch, err := d.s.GuildChannelCreateComplex(d.guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: d.categoryID,
	})
	if err != nil {
		return 0, fmt.Errorf("create channel %s: %w", name, err)
	}
	return parseSnowflake(ch.ID)
}

func (d *Directory) DeleteRole(ctx context.Context, id uint64) error {
	return d.s.GuildRoleDelete(d.guildID, formatSnowflake(id))
}

func (d *Directory) DeleteChannel(ctx context.Context, id uint64) error {
	_, err := d.s.ChannelDelete(formatSnowflake(id))
	return err
}

func (d *Directory) SendMessage(ctx context.Context, channelID uint64, text string) error {
	_, err := d.s.ChannelMessageSend(formatSnowflake(channelID), text)
	return err
}

// ResolveUserByName busca un miembro del guild por username exacto
// (case-insensitive); también matchea el display name por si el jugador
// escribió ese.
func (d *Directory) ResolveUserByName(ctx context.Context, name string) (uint64, error) {
	members, err := d.s.GuildMembersSearch(d.guildID, name, 10)
	if err != nil {
		return 0, fmt.Errorf("member search %s: %w", name, err)
	}
	for _, m := range members {
		if m.User == nil {
			continue
		}
		if strings.EqualFold(m.User.Username, name) || strings.EqualFold(m.User.GlobalName, name) {
			return parseSnowflake(m.User.ID)
		}
	}
	return 0, fmt.Errorf("user %s not found in guild", name)
}

func (d *Directory) SendDirectMessage(ctx context.Context, userID uint64, text string) error {
	ch, err := d.s.UserChannelCreate(formatSnowflake(userID))
	if err != nil {
		return fmt.Errorf("dm channel: %w", err)
	}
	_, err = d.s.ChannelMessageSend(ch.ID, text)
	return err
}

func parseSnowflake(id string) (uint64, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("snowflake %q: %w", id, err)
	}
	return n, nil
}

func formatSnowflake(id uint64) string {
	return strconv.FormatUint(id, 10)
}
