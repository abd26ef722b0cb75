package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mhersel/vitae/internal/models"
)

func TestEndorsementService_Submit_NormalizesEmail(t *testing.T) {
	var created *models.Endorsement
	mockRepo := &MockEndorsementRepository{
		CreateFunc: func(ctx context.Context, e *models.Endorsement) (*models.Endorsement, error) {
			created = e
			e.ID = "end-1"
			return e, nil
		},
	}

	svc := NewEndorsementService(mockRepo, slog.Default())

	result, err := svc.Submit(context.Background(), &models.Endorsement{
		AuthorName: "Dana",
		Message:    "Great to work with.",
		Email:      " Dana@Example.COM ",
	})

	assert.NoError(t, err)
	assert.Equal(t, "end-1", result.ID)
	assert.Equal(t, "dana@example.com", created.Email)
}

func TestEndorsementService_Submit_RepoFailure(t *testing.T) {
	mockRepo := &MockEndorsementRepository{
		CreateFunc: func(ctx context.Context, e *models.Endorsement) (*models.Endorsement, error) {
			return nil, models.ErrInternalServer
		},
	}

	svc := NewEndorsementService(mockRepo, slog.Default())

	_, err := svc.Submit(context.Background(), &models.Endorsement{AuthorName: "Dana", Message: "x"})

	assert.ErrorIs(t, err, models.ErrInternalServer)
}

func TestEndorsementService_ListApproved(t *testing.T) {
	mockRepo := &MockEndorsementRepository{
		ListByStatusFunc: func(ctx context.Context, status string) ([]*models.Endorsement, error) {
			assert.Equal(t, models.StatusApproved, status)
			return []*models.Endorsement{{ID: "end-1", Status: status}}, nil
		},
	}

	svc := NewEndorsementService(mockRepo, slog.Default())

	result, err := svc.ListApproved(context.Background())

	assert.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestEndorsementService_Update_DelegatesToRepo(t *testing.T) {
	mockRepo := &MockEndorsementRepository{
		UpdateContentFunc: func(ctx context.Context, id string, update *models.EndorsementUpdate) (*models.Endorsement, error) {
			return &models.Endorsement{ID: id, Message: update.Message, Status: models.StatusPending}, nil
		},
	}

	svc := NewEndorsementService(mockRepo, slog.Default())

	result, err := svc.Update(context.Background(), "end-1", &models.EndorsementUpdate{Message: "Edited."})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, result.Status)
}

func TestEndorsementService_SetStatus_RejectsUnknownStatus(t *testing.T) {
	svc := NewEndorsementService(&MockEndorsementRepository{}, slog.Default())

	err := svc.SetStatus(context.Background(), "end-1", "published")

	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestEndorsementService_SetStatus_Approve(t *testing.T) {
	var gotStatus string
	mockRepo := &MockEndorsementRepository{
		SetStatusFunc: func(ctx context.Context, id, status string) error {
			gotStatus = status
			return nil
		},
	}

	svc := NewEndorsementService(mockRepo, slog.Default())

	err := svc.SetStatus(context.Background(), "end-1", models.StatusApproved)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, gotStatus)
}

func TestEndorsementService_Delete_NotFound(t *testing.T) {
	mockRepo := &MockEndorsementRepository{
		DeleteFunc: func(ctx context.Context, id string) error {
			return models.ErrNotFound
		},
	}

	svc := NewEndorsementService(mockRepo, slog.Default())

	err := svc.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
}
