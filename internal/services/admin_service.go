package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/mhersel/vitae/internal/auth"
	"github.com/mhersel/vitae/internal/models"
	pkgauth "github.com/mhersel/vitae/pkg/auth"
)

// AdminTokenMinter abstracts the admin token manager for testing
type AdminTokenMinter interface {
	GenerateAdminToken(email string) (string, error)
}

// AdminService authenticates the single configured site owner for the
// moderation API. Credentials live in configuration, not storage: there are
// no user accounts anywhere in this system.
type AdminService struct {
	ownerEmail        string
	ownerPasswordHash string
	ownerTOTPSecret   string
	tokens            AdminTokenMinter
	timingDelay       *auth.TimingDelay
	logger            *slog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(ownerEmail, ownerPasswordHash, ownerTOTPSecret string, tokens AdminTokenMinter, timingDelay *auth.TimingDelay, logger *slog.Logger) *AdminService {
	return &AdminService{
		ownerEmail:        auth.NormalizeEmail(ownerEmail),
		ownerPasswordHash: ownerPasswordHash,
		ownerTOTPSecret:   ownerTOTPSecret,
		tokens:            tokens,
		timingDelay:       timingDelay,
		logger:            logger,
	}
}

// Enabled reports whether owner credentials are configured at all
func (s *AdminService) Enabled() bool {
	return s.ownerEmail != "" && s.ownerPasswordHash != ""
}

// Login verifies the owner's email, password and (when configured) TOTP code,
// then mints an admin token. All failures collapse into ErrUnauthorized and
// take roughly the same time.
func (s *AdminService) Login(ctx context.Context, email, password, totpCode string) (string, error) {
	start := time.Now()

	if !s.Enabled() {
		s.timingDelay.WaitFrom(start, false)
		return "", models.ErrUnauthorized
	}

	if auth.NormalizeEmail(email) != s.ownerEmail {
		// Burn a bcrypt comparison anyway so a wrong email costs the same as
		// a wrong password.
		_ = pkgauth.ComparePassword(s.ownerPasswordHash, password)
		s.timingDelay.WaitFrom(start, false)
		return "", models.ErrUnauthorized
	}

	if err := pkgauth.ComparePassword(s.ownerPasswordHash, password); err != nil {
		s.logger.Warn("owner login failed: bad password")
		s.timingDelay.WaitFrom(start, false)
		return "", models.ErrUnauthorized
	}

	if s.ownerTOTPSecret != "" {
		if !totp.Validate(totpCode, s.ownerTOTPSecret) {
			s.logger.Warn("owner login failed: bad totp code")
			s.timingDelay.WaitFrom(start, false)
			return "", models.ErrUnauthorized
		}
	}

	token, err := s.tokens.GenerateAdminToken(s.ownerEmail)
	if err != nil {
		s.logger.Error("failed to mint admin token", slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	s.logger.Info("owner logged in")
	return token, nil
}
