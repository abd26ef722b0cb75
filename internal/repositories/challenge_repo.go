package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mhersel/vitae/internal/database"
	"github.com/mhersel/vitae/internal/models"
)

// rowScanner abstracts pgx.Row and pgx.Rows for shared scan helpers
type rowScanner interface {
	Scan(dest ...any) error
}

// ChallengeRepository handles OTP challenge data access
type ChallengeRepository struct {
	pool *pgxpool.Pool
}

// NewChallengeRepository creates a new ChallengeRepository
func NewChallengeRepository(db *database.DB) *ChallengeRepository {
	return &ChallengeRepository{pool: db.Pool}
}

const challengeColumns = `id, endorsement_id, email, code_hash, expires_at, used_at, attempt_count, locked_until, created_at, last_sent_at`

// scanChallengeRow handles nullable fields and populates an OtpChallenge model
func scanChallengeRow(row rowScanner) (*models.OtpChallenge, error) {
	var c models.OtpChallenge
	var usedAt, lockedUntil *time.Time

	err := row.Scan(
		&c.ID, &c.EndorsementID, &c.Email, &c.CodeHash,
		&c.ExpiresAt, &usedAt, &c.AttemptCount, &lockedUntil,
		&c.CreatedAt, &c.LastSentAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	c.UsedAt = usedAt
	c.LockedUntil = lockedUntil
	return &c, nil
}

// Create persists a new challenge
func (r *ChallengeRepository) Create(ctx context.Context, endorsementID, email, codeHash string, expiresAt time.Time) (*models.OtpChallenge, error) {
	query := `
		INSERT INTO otp_challenges (endorsement_id, email, code_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + challengeColumns

	challenge, err := scanChallengeRow(r.pool.QueryRow(ctx, query, endorsementID, email, codeHash, expiresAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create otp challenge: %w", err)
	}

	return challenge, nil
}

// GetLatestLive retrieves the most recently created challenge for a pair that
// is neither used nor expired
func (r *ChallengeRepository) GetLatestLive(ctx context.Context, endorsementID, email string) (*models.OtpChallenge, error) {
	query := `
		SELECT ` + challengeColumns + `
		FROM otp_challenges
		WHERE endorsement_id = $1 AND email = $2 AND used_at IS NULL AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	challenge, err := scanChallengeRow(r.pool.QueryRow(ctx, query, endorsementID, email))
	if err != nil {
		return nil, err
	}

	return challenge, nil
}

// SupersedeLive marks every live challenge for the pair as used. Supersession
// rather than deletion keeps the attempt/lockout history as an audit trail.
func (r *ChallengeRepository) SupersedeLive(ctx context.Context, endorsementID, email string) error {
	query := `
		UPDATE otp_challenges
		SET used_at = NOW()
		WHERE endorsement_id = $1 AND email = $2 AND used_at IS NULL AND expires_at > NOW()
	`

	_, err := r.pool.Exec(ctx, query, endorsementID, email)
	if err != nil {
		return fmt.Errorf("failed to supersede live challenges: %w", err)
	}

	return nil
}

// MarkUsed consumes a challenge. The used_at IS NULL guard makes consumption
// single-shot even under concurrent verification attempts.
func (r *ChallengeRepository) MarkUsed(ctx context.Context, id string) error {
	query := `
		UPDATE otp_challenges
		SET used_at = NOW()
		WHERE id = $1 AND used_at IS NULL
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark challenge as used: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// RecordFailedAttempt stores a failed verification attempt and, when the
// service decided so, a lockout deadline
func (r *ChallengeRepository) RecordFailedAttempt(ctx context.Context, id string, attemptCount int, lockedUntil *time.Time) error {
	query := `
		UPDATE otp_challenges
		SET attempt_count = $2, locked_until = $3
		WHERE id = $1 AND used_at IS NULL
	`

	result, err := r.pool.Exec(ctx, query, id, attemptCount, lockedUntil)
	if err != nil {
		return fmt.Errorf("failed to record failed attempt: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// CleanupExpired deletes challenges whose audit value has lapsed. Correctness
// never depends on this; expiry is evaluated at read time.
func (r *ChallengeRepository) CleanupExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM otp_challenges
		WHERE expires_at < NOW() - INTERVAL '30 days'
	`

	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired challenges: %w", err)
	}

	return result.RowsAffected(), nil
}
