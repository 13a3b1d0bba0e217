// logica de InteractionApplicationCommand: acá sólo interacción del
// usuario y despacho a los servicios correspondientes.
package discord

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {

	cmd := ic.ApplicationCommandData()
	log.Printf("cmd: %s by=%s guild=%s", cmd.Name, ic.Member.User.ID, ic.GuildID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in cmd /%s: %v", cmd.Name, rec)
			ReplyEphemeral(s, ic, "❌ Ocurrió un error inesperado procesando el comando. Contacta con un administrador.")
		}
	}()

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	switch cmd.Name {

	//--> canjear código de verificación
	case "verify":
		if !r.verifyLimiter.Allow(ic.Member.User.ID) {
			ReplyEphemeral(s, ic, "⏳ Esperá un segundo…")
			return
		}
		code, _ := optStr(ic, "code")
		userID, err := parseSnowflake(ic.Member.User.ID)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude leer tu usuario.")
			return
		}
		msg := r.verify.RedeemFromDiscord(ctx, code, userID, ic.Member.User.Username)
		ReplyEphemeral(s, ic, msg)

	//--> lookup de staff: steamid → discord
	case "whois":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		steamID, ok := optSteamID(ic, "steamid")
		if !ok {
			ReplyEphemeral(s, ic, "❌ SteamID inválido.")
			return
		}
		ReplyEphemeral(s, ic, r.verify.Whois(steamID))

	//--> staff: desvincular un steamid
	case "verifyremove":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		steamID, ok := optSteamID(ic, "steamid")
		if !ok {
			ReplyEphemeral(s, ic, "❌ SteamID inválido.")
			return
		}
		msg := r.verify.RemoveByAdmin(ctx, steamID, ic.Member.User.Username)
		ReplyEphemeral(s, ic, msg)

	//--> staff: re-sync manual con el último snapshot del juego
	case "tdsync":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		if !r.orchestrator.Resync(ctx) {
			ReplyEphemeral(s, ic, "ℹ️ Todavía no llegó ningún snapshot del servidor.")
			return
		}
		ReplyEphemeral(s, ic, "✅ Synchronization complete!")

	//--> staff: reset destructivo de roles/canales + estado local
	case "tdreset":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		if err := r.factionSync.ResetDiscord(ctx); err != nil {
			ReplyEphemeral(s, ic, "⚠️ Reset con errores: "+err.Error())
			return
		}
		ReplyEphemeral(s, ic, "✅ Reset completo. Roles, canales y estado local eliminados.")
	}
}

func optSteamID(ic *discordgo.InteractionCreate, name string) (int64, bool) {
	raw, ok := optStr(ic, name)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
