package services

import (
	"context"
	"time"

	"github.com/mhersel/vitae/internal/models"
)

// MockChallengeRepository implements ChallengeRepository for testing
type MockChallengeRepository struct {
	CreateFunc              func(ctx context.Context, endorsementID, email, codeHash string, expiresAt time.Time) (*models.OtpChallenge, error)
	GetLatestLiveFunc       func(ctx context.Context, endorsementID, email string) (*models.OtpChallenge, error)
	SupersedeLiveFunc       func(ctx context.Context, endorsementID, email string) error
	MarkUsedFunc            func(ctx context.Context, id string) error
	RecordFailedAttemptFunc func(ctx context.Context, id string, attemptCount int, lockedUntil *time.Time) error
	CleanupExpiredFunc      func(ctx context.Context) (int64, error)
}

func (m *MockChallengeRepository) Create(ctx context.Context, endorsementID, email, codeHash string, expiresAt time.Time) (*models.OtpChallenge, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, endorsementID, email, codeHash, expiresAt)
	}
	return &models.OtpChallenge{
		ID:            "challenge-1",
		EndorsementID: endorsementID,
		Email:         email,
		CodeHash:      codeHash,
		ExpiresAt:     expiresAt,
		CreatedAt:     time.Now(),
	}, nil
}

func (m *MockChallengeRepository) GetLatestLive(ctx context.Context, endorsementID, email string) (*models.OtpChallenge, error) {
	if m.GetLatestLiveFunc != nil {
		return m.GetLatestLiveFunc(ctx, endorsementID, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockChallengeRepository) SupersedeLive(ctx context.Context, endorsementID, email string) error {
	if m.SupersedeLiveFunc != nil {
		return m.SupersedeLiveFunc(ctx, endorsementID, email)
	}
	return nil
}

func (m *MockChallengeRepository) MarkUsed(ctx context.Context, id string) error {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, id)
	}
	return nil
}

func (m *MockChallengeRepository) RecordFailedAttempt(ctx context.Context, id string, attemptCount int, lockedUntil *time.Time) error {
	if m.RecordFailedAttemptFunc != nil {
		return m.RecordFailedAttemptFunc(ctx, id, attemptCount, lockedUntil)
	}
	return nil
}

func (m *MockChallengeRepository) CleanupExpired(ctx context.Context) (int64, error) {
	if m.CleanupExpiredFunc != nil {
		return m.CleanupExpiredFunc(ctx)
	}
	return 0, nil
}

// MockEndorsementRepository implements EndorsementRepository for testing
type MockEndorsementRepository struct {
	CreateFunc        func(ctx context.Context, e *models.Endorsement) (*models.Endorsement, error)
	GetByIDFunc       func(ctx context.Context, id string) (*models.Endorsement, error)
	ListByStatusFunc  func(ctx context.Context, status string) ([]*models.Endorsement, error)
	UpdateContentFunc func(ctx context.Context, id string, update *models.EndorsementUpdate) (*models.Endorsement, error)
	SetStatusFunc     func(ctx context.Context, id, status string) error
	DeleteFunc        func(ctx context.Context, id string) error
}

func (m *MockEndorsementRepository) Create(ctx context.Context, e *models.Endorsement) (*models.Endorsement, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	return nil, models.ErrInternalServer
}

func (m *MockEndorsementRepository) GetByID(ctx context.Context, id string) (*models.Endorsement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockEndorsementRepository) ListByStatus(ctx context.Context, status string) ([]*models.Endorsement, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status)
	}
	return []*models.Endorsement{}, nil
}

func (m *MockEndorsementRepository) UpdateContent(ctx context.Context, id string, update *models.EndorsementUpdate) (*models.Endorsement, error) {
	if m.UpdateContentFunc != nil {
		return m.UpdateContentFunc(ctx, id, update)
	}
	return nil, models.ErrInternalServer
}

func (m *MockEndorsementRepository) SetStatus(ctx context.Context, id, status string) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockEndorsementRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockChallengeIssuerVerifier implements ChallengeIssuerVerifier for testing
type MockChallengeIssuerVerifier struct {
	IssueFunc  func(ctx context.Context, endorsementID, email string) (string, error)
	VerifyFunc func(ctx context.Context, endorsementID, email, code string) error
}

func (m *MockChallengeIssuerVerifier) Issue(ctx context.Context, endorsementID, email string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, endorsementID, email)
	}
	return "123456", nil
}

func (m *MockChallengeIssuerVerifier) Verify(ctx context.Context, endorsementID, email, code string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, endorsementID, email, code)
	}
	return models.ErrCodeInvalid
}

// MockEmailSender implements EmailSender for testing
type MockEmailSender struct {
	SendAccessCodeFunc func(ctx context.Context, email, endorsementID, code string, expiresAt time.Time) error
}

func (m *MockEmailSender) SendAccessCode(ctx context.Context, email, endorsementID, code string, expiresAt time.Time) error {
	if m.SendAccessCodeFunc != nil {
		return m.SendAccessCodeFunc(ctx, email, endorsementID, code, expiresAt)
	}
	return nil
}

// MockAdminTokenMinter implements AdminTokenMinter for testing
type MockAdminTokenMinter struct {
	GenerateAdminTokenFunc func(email string) (string, error)
}

func (m *MockAdminTokenMinter) GenerateAdminToken(email string) (string, error) {
	if m.GenerateAdminTokenFunc != nil {
		return m.GenerateAdminTokenFunc(email)
	}
	return "admin-token", nil
}
