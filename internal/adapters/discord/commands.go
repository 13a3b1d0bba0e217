package discord

import "github.com/bwmarrin/discordgo"

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "verify",
		Description: "Canjea el código de verificación que te llegó por DM",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "code",
			Description: "Código de 8 caracteres",
			Required:    true,
		}},
	},
	{
		Name:        "whois",
		Description: "Staff: muestra el link de verificación de un SteamID",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "steamid",
			Description: "SteamID64 del jugador",
			Required:    true,
		}},
	},
	{
		Name:        "verifyremove",
		Description: "Staff: elimina la verificación de un SteamID",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "steamid",
			Description: "SteamID64 del jugador",
			Required:    true,
		}},
	},
	{
		Name:        "tdsync",
		Description: "Staff: relanza la sincronización con el último snapshot",
	},
	{
		Name:        "tdreset",
		Description: "Staff: borra TODOS los roles/canales de facción y el estado local (destructivo)",
	},
}
