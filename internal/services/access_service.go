package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mhersel/vitae/internal/auth"
	"github.com/mhersel/vitae/internal/models"
	pkglogger "github.com/mhersel/vitae/pkg/logger"
)

// EndorsementReader is the subset of endorsement storage the access flow needs
type EndorsementReader interface {
	GetByID(ctx context.Context, id string) (*models.Endorsement, error)
}

// ChallengeIssuerVerifier abstracts the challenge lifecycle for the access flow
type ChallengeIssuerVerifier interface {
	Issue(ctx context.Context, endorsementID, email string) (string, error)
	Verify(ctx context.Context, endorsementID, email, code string) error
}

// EmailSender defines the interface for sending the access-code email
type EmailSender interface {
	SendAccessCode(ctx context.Context, email, endorsementID, code string, expiresAt time.Time) error
}

// AccessService orchestrates the accountless manage flow: request a code,
// verify it, then authorize mutations with the resulting session.
type AccessService struct {
	endorsements EndorsementReader
	challenges   ChallengeIssuerVerifier
	mailer       EmailSender
	codec        *auth.SessionCodec
	codeTTL      time.Duration
	sessionTTL   time.Duration
	logger       *slog.Logger
}

// NewAccessService creates a new AccessService
func NewAccessService(
	endorsements EndorsementReader,
	challenges ChallengeIssuerVerifier,
	mailer EmailSender,
	codec *auth.SessionCodec,
	codeTTL time.Duration,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *AccessService {
	return &AccessService{
		endorsements: endorsements,
		challenges:   challenges,
		mailer:       mailer,
		codec:        codec,
		codeTTL:      codeTTL,
		sessionTTL:   sessionTTL,
		logger:       logger,
	}
}

// RequestCode issues and emails an access code when, and only when, the
// endorsement exists and its stored email matches the submitted one. Every
// other outcome is silent: the caller must not be able to learn whether a
// record exists or which email it holds. Returned errors are infrastructure
// failures for the handler to log; the response stays a generic success.
func (s *AccessService) RequestCode(ctx context.Context, endorsementID, submittedEmail string) error {
	email := auth.NormalizeEmail(submittedEmail)

	endorsement, err := s.endorsements.GetByID(ctx, endorsementID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}

	if !endorsement.HasEmail() || auth.NormalizeEmail(endorsement.Email) != email {
		return nil
	}

	code, err := s.challenges.Issue(ctx, endorsementID, email)
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.codeTTL)
	if err := s.mailer.SendAccessCode(ctx, email, endorsementID, code, expiresAt); err != nil {
		// The challenge stands; the submitter can request again.
		s.logger.Error("failed to send access code email",
			slog.String("endorsement_id", endorsementID),
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
	}

	return nil
}

// VerifyCode validates the candidate code and, on success, mints a
// manage-session token scoped to the endorsement and verified email.
func (s *AccessService) VerifyCode(ctx context.Context, endorsementID, submittedEmail, code string) (string, error) {
	email := auth.NormalizeEmail(submittedEmail)

	if err := s.challenges.Verify(ctx, endorsementID, email, code); err != nil {
		return "", err
	}

	token, err := s.codec.Mint(auth.SessionPayload{
		EndorsementID: endorsementID,
		Email:         email,
		ExpiresAtMs:   time.Now().Add(s.sessionTTL).UnixMilli(),
	})
	if err != nil {
		s.logger.Error("failed to mint manage session", slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	return token, nil
}

// Authorize checks that a verified session still has authority over the
// endorsement it was minted for. The token proved the email at issuance; the
// record's current email is what counts now, so an email change on the record
// acts as revocation.
func (s *AccessService) Authorize(ctx context.Context, session *auth.SessionPayload, endorsementID string) (*models.Endorsement, error) {
	if session == nil || session.EndorsementID != endorsementID {
		return nil, models.ErrSessionInvalid
	}

	endorsement, err := s.endorsements.GetByID(ctx, endorsementID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrSessionStale
		}
		return nil, err
	}

	if !endorsement.HasEmail() || auth.NormalizeEmail(endorsement.Email) != session.Email {
		return nil, models.ErrSessionStale
	}

	return endorsement, nil
}
