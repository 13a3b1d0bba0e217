package service

import (
	"errors"
	"log"
	"math/rand/v2"
	"time"

	"github.com/mamba-se/torch-discord-sync/internal/infra/storage"
)

var (
	// Ya hay un código pendiente vigente para ese SteamID.
	ErrPendingCode  = errors.New("pending verification code")
	ErrCodeNotFound = errors.New("verification code not found")
	ErrCodeExpired  = errors.New("verification code expired")
	ErrCodeUsed     = errors.New("verification code already used")
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// VerificationService: ciclo de vida del link SteamID ↔ Discord.
// NONE → (código) → PENDING → (redeem en ventana) → VERIFIED,
// o expira / lo borra un admin y vuelve a NONE.
type VerificationService struct {
	db      VerificationRepo
	codeTTL time.Duration
	codeLen int
	now     func() time.Time
}

func NewVerificationService(db VerificationRepo, codeTTL time.Duration, codeLen int) *VerificationService {
	if codeLen <= 0 {
		codeLen = 8
	}
	if codeTTL <= 0 {
		codeTTL = 15 * time.Minute
	}
	return &VerificationService{db: db, codeTTL: codeTTL, codeLen: codeLen, now: time.Now}
}

// GenerateCode emite un código nuevo para el jugador. Si ya tiene uno
// pendiente sin expirar devuelve ErrPendingCode: no pisamos códigos vivos.
func (s *VerificationService) GenerateCode(steamID int64, playerName, discordUsername string) (string, error) {
	existing, err := s.db.GetVerification(steamID)
	if err == nil && !existing.IsVerified && !s.expired(existing) {
		log.Printf("[VERIFY] %s: Already has pending code", playerName)
		return "", ErrPendingCode
	}
	if err != nil && err != storage.ErrNotFound {
		return "", err
	}

	code := s.randomCode()
	if err := s.db.SaveVerification(storage.Verification{
		SteamID:         steamID,
		Code:            code,
		CodeGeneratedAt: s.now().UTC(),
		DiscordUsername: discordUsername,
		IsVerified:      false,
	}); err != nil {
		return "", err
	}

	log.Printf("[VERIFY] Generated code for %s: %s", playerName, code)
	return code, nil
}

// VerifyCode canjea un código desde Discord. Un código es de un solo uso:
// expirado → se borra el registro y ErrCodeExpired; ya verificado →
// ErrCodeUsed. Cada desenlace deja rastro en el historial.
func (s *VerificationService) VerifyCode(code string, discordUserID uint64, discordUsername string) error {
	if code == "" {
		return ErrCodeNotFound
	}

	v, err := s.db.GetVerificationByCode(code)
	if err == storage.ErrNotFound {
		log.Printf("[VERIFY] Code not found: %s", code)
		return ErrCodeNotFound
	}
	if err != nil {
		return err
	}

	if v.IsVerified {
		log.Printf("[VERIFY] Code already used: %s", code)
		s.history(v.SteamID, discordUsername, discordUserID, "Failed")
		return ErrCodeUsed
	}

	if s.expired(v) {
		log.Printf("[VERIFY] Code expired: %s", code)
		_ = s.db.DeleteVerification(v.SteamID)
		s.history(v.SteamID, discordUsername, discordUserID, "Expired")
		return ErrCodeExpired
	}

	v.IsVerified = true
	v.VerifiedAt = s.now().UTC()
	v.DiscordUserID = discordUserID
	v.DiscordUsername = discordUsername
	if err := s.db.SaveVerification(v); err != nil {
		return err
	}

	s.history(v.SteamID, discordUsername, discordUserID, "Success")
	log.Printf("[VERIFY] Verified: SteamID %d → Discord %s (%d)", v.SteamID, discordUsername, discordUserID)
	return nil
}

// RemoveVerification (admin): deja entrada Removed con la última
// identidad conocida y borra el registro vivo.
func (s *VerificationService) RemoveVerification(steamID int64, reason string) error {
	v, err := s.db.GetVerification(steamID)
	if err != nil {
		return err
	}

	s.history(steamID, v.DiscordUsername, v.DiscordUserID, "Removed")
	if err := s.db.DeleteVerification(steamID); err != nil {
		return err
	}
	log.Printf("[VERIFY] Removed verification for SteamID %d: %s", steamID, reason)
	return nil
}

// DiscordUserID: 0 salvo registro existente Y verificado. Un código
// pendiente nunca cuenta como link.
func (s *VerificationService) DiscordUserID(steamID int64) uint64 {
	v, err := s.db.GetVerification(steamID)
	if err == nil && v.IsVerified {
		return v.DiscordUserID
	}
	return 0
}

func (s *VerificationService) DiscordUsername(steamID int64) string {
	v, err := s.db.GetVerification(steamID)
	if err == nil && v.IsVerified {
		return v.DiscordUsername
	}
	return ""
}

func (s *VerificationService) IsVerified(steamID int64) bool {
	v, err := s.db.GetVerification(steamID)
	return err == nil && v.IsVerified
}

// CleanupExpired: barrido de códigos vencidos sin verificar. Es limpieza,
// no correctitud: la expiración se evalúa siempre lazy en el canje.
func (s *VerificationService) CleanupExpired() int {
	removed := 0
	for _, v := range s.db.GetAllVerifications() {
		if !v.IsVerified && s.expired(v) {
			if err := s.db.DeleteVerification(v.SteamID); err != nil {
				log.Printf("[VERIFY] cleanup %d: %v", v.SteamID, err)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[VERIFY] Cleaned up %d expired verification codes", removed)
	}
	return removed
}

func (s *VerificationService) expired(v storage.Verification) bool {
	return s.now().Sub(v.CodeGeneratedAt) > s.codeTTL
}

func (s *VerificationService) history(steamID int64, username string, userID uint64, status string) {
	if err := s.db.SaveVerificationHistory(storage.VerificationHistoryEntry{
		SteamID:         steamID,
		DiscordUsername: username,
		DiscordUserID:   userID,
		Timestamp:       s.now().UTC(),
		Status:          status,
	}); err != nil {
		log.Printf("[VERIFY] history %s: %v", status, err)
	}
}

// No chequeamos colisión contra otros códigos vivos: con 36^8 y TTL de
// 15 minutos el riesgo es teórico.
func (s *VerificationService) randomCode() string {
	b := make([]byte, s.codeLen)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}
