package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mhersel/vitae/internal/auth"
	"github.com/mhersel/vitae/internal/models"
	pkglogger "github.com/mhersel/vitae/pkg/logger"
)

// ChallengeRepository defines the interface for OTP challenge storage
type ChallengeRepository interface {
	Create(ctx context.Context, endorsementID, email, codeHash string, expiresAt time.Time) (*models.OtpChallenge, error)
	GetLatestLive(ctx context.Context, endorsementID, email string) (*models.OtpChallenge, error)
	SupersedeLive(ctx context.Context, endorsementID, email string) error
	MarkUsed(ctx context.Context, id string) error
	RecordFailedAttempt(ctx context.Context, id string, attemptCount int, lockedUntil *time.Time) error
	CleanupExpired(ctx context.Context) (int64, error)
}

// ChallengeConfig holds the lifecycle tunables for access-code challenges
type ChallengeConfig struct {
	CodeTTL         time.Duration
	MaxAttempts     int
	LockoutDuration time.Duration
}

// ChallengeService owns the access-code challenge lifecycle: issuance with
// supersession, verification with attempt counting and lockout, single-shot
// consumption.
type ChallengeService struct {
	repo   ChallengeRepository
	pepper []byte
	config ChallengeConfig
	logger *slog.Logger
}

// NewChallengeService creates a new ChallengeService
func NewChallengeService(repo ChallengeRepository, pepper []byte, config ChallengeConfig, logger *slog.Logger) *ChallengeService {
	return &ChallengeService{
		repo:   repo,
		pepper: pepper,
		config: config,
		logger: logger,
	}
}

// Issue invalidates any live challenge for the pair, then creates a fresh one.
// The raw code is returned only to the caller for emailing; storage only ever
// sees its digest. Superseding first guarantees a stale emailed code cannot
// outlive a newer request.
func (s *ChallengeService) Issue(ctx context.Context, endorsementID, email string) (string, error) {
	if err := s.repo.SupersedeLive(ctx, endorsementID, email); err != nil {
		return "", fmt.Errorf("failed to supersede live challenges: %w", err)
	}

	code, err := auth.GenerateCode()
	if err != nil {
		return "", err
	}

	codeHash := auth.HashCode(endorsementID, email, code, s.pepper)
	expiresAt := time.Now().Add(s.config.CodeTTL)

	challenge, err := s.repo.Create(ctx, endorsementID, email, codeHash, expiresAt)
	if err != nil {
		return "", fmt.Errorf("failed to create challenge: %w", err)
	}

	s.logger.Info("access code issued",
		slog.String("endorsement_id", endorsementID),
		slog.String("email", pkglogger.SanitizedEmail(email)),
		slog.String("challenge_id", challenge.ID))

	return code, nil
}

// Verify checks a candidate code against the newest live challenge for the
// pair. Every failure except lockout maps to ErrCodeInvalid so a caller can
// not tell a wrong code from a missing or expired challenge.
func (s *ChallengeService) Verify(ctx context.Context, endorsementID, email, code string) error {
	challenge, err := s.repo.GetLatestLive(ctx, endorsementID, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrCodeInvalid
		}
		s.logger.Error("failed to load challenge", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if challenge.IsLocked() {
		s.logger.Warn("verification attempt against locked challenge",
			slog.String("challenge_id", challenge.ID))
		return models.ErrCodeLocked
	}

	candidateHash := auth.HashCode(endorsementID, email, code, s.pepper)
	if !auth.ConstantTimeEquals(candidateHash, challenge.CodeHash) {
		return s.recordFailure(ctx, challenge)
	}

	if err := s.repo.MarkUsed(ctx, challenge.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Lost a race with a concurrent verification; the challenge is
			// already terminal.
			return models.ErrCodeInvalid
		}
		s.logger.Error("failed to consume challenge",
			slog.String("challenge_id", challenge.ID),
			slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("access code verified",
		slog.String("endorsement_id", endorsementID),
		slog.String("challenge_id", challenge.ID))

	return nil
}

// recordFailure bumps the attempt count and refreshes the lockout deadline
// whenever the count is at or past the threshold. Lockout is re-armed on
// every further failure, not just the crossing one.
func (s *ChallengeService) recordFailure(ctx context.Context, challenge *models.OtpChallenge) error {
	attemptCount := challenge.AttemptCount + 1

	var lockedUntil *time.Time
	if attemptCount >= s.config.MaxAttempts {
		t := time.Now().Add(s.config.LockoutDuration)
		lockedUntil = &t
		s.logger.Warn("challenge locked after repeated failures",
			slog.String("challenge_id", challenge.ID),
			slog.Int("attempt_count", attemptCount))
	}

	if err := s.repo.RecordFailedAttempt(ctx, challenge.ID, attemptCount, lockedUntil); err != nil {
		s.logger.Error("failed to record attempt",
			slog.String("challenge_id", challenge.ID),
			slog.Any("error", err))
	}

	return models.ErrCodeInvalid
}

// CleanupExpired removes long-expired challenge rows for storage hygiene
func (s *ChallengeService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.repo.CleanupExpired(ctx)
}
