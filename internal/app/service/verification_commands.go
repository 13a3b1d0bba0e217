package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// VerificationCommands: flujo completo de los comandos de verificación,
// de los dos lados (in-game vía webhook y Discord vía slash command).
// Devuelve siempre un mensaje listo para mostrarle al usuario; los
// errores crudos no cruzan esta frontera.
type VerificationCommands struct {
	verification *VerificationService
	directory    Directory
	events       *EventLogService
	codeTTL      time.Duration
}

func NewVerificationCommands(verification *VerificationService, directory Directory, events *EventLogService, codeTTL time.Duration) *VerificationCommands {
	return &VerificationCommands{verification: verification, directory: directory, events: events, codeTTL: codeTTL}
}

// RequestFromGame: el jugador corre `/tds verify @usuario` en el juego.
// Emitimos el código y se lo mandamos por DM al usuario de Discord que
// el jugador dice ser.
func (c *VerificationCommands) RequestFromGame(ctx context.Context, steamID int64, playerName, discordUsername string) string {
	discordUsername = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(discordUsername), "@"))
	if discordUsername == "" {
		return "❌ Error: Discord username is required. Usage: /tds verify @DiscordUsername"
	}
	if len(discordUsername) < 2 || len(discordUsername) > 32 {
		return "❌ Error: Invalid Discord username length (2-32 characters)"
	}

	code, err := c.verification.GenerateCode(steamID, playerName, discordUsername)
	if err == ErrPendingCode {
		return fmt.Sprintf("❌ Error: You already have a pending verification code. It expires in %d minutes.", int(c.codeTTL.Minutes()))
	}
	if err != nil {
		log.Printf("[VERIFY] generate code: %v", err)
		return "❌ Error: Could not generate a verification code. Try again later."
	}

	userID, err := c.directory.ResolveUserByName(ctx, discordUsername)
	if err != nil {
		return fmt.Sprintf("❌ Error: Could not find Discord user '%s' or send DM.\n"+
			"Make sure:\n"+
			"  • Username is correct\n"+
			"  • User is in the Discord server\n"+
			"  • Bot has DM permissions", discordUsername)
	}

	dm := fmt.Sprintf("🔐 **Verification request from the game server**\n"+
		"Player **%s** wants to link this Discord account.\n"+
		"If that's you, reply in the server with `/verify code:%s`\n"+
		"⏱️ The code expires in %d minutes. If it wasn't you, ignore this message.",
		playerName, code, int(c.codeTTL.Minutes()))
	if err := c.directory.SendDirectMessage(ctx, userID, dm); err != nil {
		log.Printf("[VERIFY] DM a %s: %v", discordUsername, err)
		return fmt.Sprintf("❌ Error: Could not find Discord user '%s' or send DM.", discordUsername)
	}

	_ = c.events.Log(ctx, "VerificationRequest",
		fmt.Sprintf("%s (%d) requested verification as %s. DM sent.", playerName, steamID, discordUsername))
	log.Printf("[VERIFY] %s: %s → Code: %s → DM sent", playerName, discordUsername, code)

	return fmt.Sprintf("✅ Verification code sent to %s via DM!\n"+
		"📧 Check your Discord private messages\n"+
		"⏱️ Code expires in %d minutes", discordUsername, int(c.codeTTL.Minutes()))
}

// RedeemFromDiscord: el usuario corre `/verify code:XXXX` en Discord.
func (c *VerificationCommands) RedeemFromDiscord(ctx context.Context, code string, discordUserID uint64, discordUsername string) string {
	code = strings.ToUpper(strings.TrimSpace(code))

	switch err := c.verification.VerifyCode(code, discordUserID, discordUsername); err {
	case nil:
		_ = c.events.Log(ctx, "VerificationComplete",
			fmt.Sprintf("%s (%d) verified with code %s", discordUsername, discordUserID, code))
		return "✅ Verification complete! Your Discord account is now linked to your in-game identity."
	case ErrCodeExpired:
		return "⏱️ That code expired. Ask for a new one in-game with `/tds verify`."
	case ErrCodeUsed:
		return "❌ That code was already used."
	case ErrCodeNotFound:
		return "❌ Invalid verification code. Check the DM the bot sent you."
	default:
		log.Printf("[VERIFY] redeem: %v", err)
		return "⚠️ Something went wrong verifying the code. Try again later."
	}
}

// RemoveByAdmin: `/verifyremove steamid:` desde Discord (admins).
func (c *VerificationCommands) RemoveByAdmin(ctx context.Context, steamID int64, adminName string) string {
	if err := c.verification.RemoveVerification(steamID, "Removed by "+adminName); err != nil {
		return fmt.Sprintf("ℹ️ No verification record for SteamID %d.", steamID)
	}
	_ = c.events.Log(ctx, "VerificationRemoved",
		fmt.Sprintf("SteamID %d unlinked by %s", steamID, adminName))
	return fmt.Sprintf("✅ Verification removed for SteamID %d.", steamID)
}

// Whois: lookup de verificación para staff.
func (c *VerificationCommands) Whois(steamID int64) string {
	if !c.verification.IsVerified(steamID) {
		return fmt.Sprintf("ℹ️ SteamID %d is not verified.", steamID)
	}
	return fmt.Sprintf("**SteamID:** %d\n**Discord:** <@%d> (%s)",
		steamID, c.verification.DiscordUserID(steamID), c.verification.DiscordUsername(steamID))
}
