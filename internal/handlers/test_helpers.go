package handlers

import (
	"context"
	"time"

	"github.com/mhersel/vitae/internal/auth"
	"github.com/mhersel/vitae/internal/models"
)

// MockAccessService implements AccessServiceInterface for testing
type MockAccessService struct {
	RequestCodeFunc func(ctx context.Context, endorsementID, submittedEmail string) error
	VerifyCodeFunc  func(ctx context.Context, endorsementID, submittedEmail, code string) (string, error)
}

func (m *MockAccessService) RequestCode(ctx context.Context, endorsementID, submittedEmail string) error {
	if m.RequestCodeFunc != nil {
		return m.RequestCodeFunc(ctx, endorsementID, submittedEmail)
	}
	return nil
}

func (m *MockAccessService) VerifyCode(ctx context.Context, endorsementID, submittedEmail, code string) (string, error) {
	if m.VerifyCodeFunc != nil {
		return m.VerifyCodeFunc(ctx, endorsementID, submittedEmail, code)
	}
	return "", models.ErrCodeInvalid
}

// MockAccessAuthorizer implements AccessAuthorizer for testing
type MockAccessAuthorizer struct {
	AuthorizeFunc func(ctx context.Context, session *auth.SessionPayload, endorsementID string) (*models.Endorsement, error)
}

func (m *MockAccessAuthorizer) Authorize(ctx context.Context, session *auth.SessionPayload, endorsementID string) (*models.Endorsement, error) {
	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(ctx, session, endorsementID)
	}
	return nil, models.ErrSessionInvalid
}

// MockEndorsementService implements EndorsementServiceInterface for testing
type MockEndorsementService struct {
	SubmitFunc       func(ctx context.Context, e *models.Endorsement) (*models.Endorsement, error)
	ListApprovedFunc func(ctx context.Context) ([]*models.Endorsement, error)
	UpdateFunc       func(ctx context.Context, id string, update *models.EndorsementUpdate) (*models.Endorsement, error)
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *MockEndorsementService) Submit(ctx context.Context, e *models.Endorsement) (*models.Endorsement, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, e)
	}
	return nil, models.ErrInternalServer
}

func (m *MockEndorsementService) ListApproved(ctx context.Context) ([]*models.Endorsement, error) {
	if m.ListApprovedFunc != nil {
		return m.ListApprovedFunc(ctx)
	}
	return []*models.Endorsement{}, nil
}

func (m *MockEndorsementService) Update(ctx context.Context, id string, update *models.EndorsementUpdate) (*models.Endorsement, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, update)
	}
	return nil, models.ErrInternalServer
}

func (m *MockEndorsementService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockAdminService implements AdminServiceInterface for testing
type MockAdminService struct {
	LoginFunc func(ctx context.Context, email, password, totpCode string) (string, error)
}

func (m *MockAdminService) Login(ctx context.Context, email, password, totpCode string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, totpCode)
	}
	return "", models.ErrUnauthorized
}

// MockAdminEndorsementService implements AdminEndorsementService for testing
type MockAdminEndorsementService struct {
	ListByStatusFunc func(ctx context.Context, status string) ([]*models.Endorsement, error)
	SetStatusFunc    func(ctx context.Context, id, status string) error
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *MockAdminEndorsementService) ListByStatus(ctx context.Context, status string) ([]*models.Endorsement, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status)
	}
	return []*models.Endorsement{}, nil
}

func (m *MockAdminEndorsementService) SetStatus(ctx context.Context, id, status string) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockAdminEndorsementService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockRateLimiter implements RateLimiter for testing. The zero value allows
// everything.
type MockRateLimiter struct {
	AllowFunc func(identifier string, window time.Duration, maxRequests int) (bool, time.Duration)
}

func (m *MockRateLimiter) Allow(identifier string, window time.Duration, maxRequests int) (bool, time.Duration) {
	if m.AllowFunc != nil {
		return m.AllowFunc(identifier, window, maxRequests)
	}
	return true, 0
}
