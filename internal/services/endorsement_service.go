package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mhersel/vitae/internal/auth"
	"github.com/mhersel/vitae/internal/models"
)

// EndorsementRepository defines the interface for endorsement storage
type EndorsementRepository interface {
	Create(ctx context.Context, e *models.Endorsement) (*models.Endorsement, error)
	GetByID(ctx context.Context, id string) (*models.Endorsement, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Endorsement, error)
	UpdateContent(ctx context.Context, id string, update *models.EndorsementUpdate) (*models.Endorsement, error)
	SetStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// EndorsementService handles endorsement CRUD and moderation transitions
type EndorsementService struct {
	repo   EndorsementRepository
	logger *slog.Logger
}

// NewEndorsementService creates a new EndorsementService
func NewEndorsementService(repo EndorsementRepository, logger *slog.Logger) *EndorsementService {
	return &EndorsementService{
		repo:   repo,
		logger: logger,
	}
}

// Submit stores a new endorsement awaiting moderation
func (s *EndorsementService) Submit(ctx context.Context, e *models.Endorsement) (*models.Endorsement, error) {
	e.Email = auth.NormalizeEmail(e.Email)

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		s.logger.Error("failed to create endorsement", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("endorsement submitted", slog.String("id", created.ID))
	return created, nil
}

// ListApproved returns the published endorsements, newest first
func (s *EndorsementService) ListApproved(ctx context.Context) ([]*models.Endorsement, error) {
	return s.repo.ListByStatus(ctx, models.StatusApproved)
}

// ListByStatus returns endorsements in a moderation state (owner only)
func (s *EndorsementService) ListByStatus(ctx context.Context, status string) ([]*models.Endorsement, error) {
	return s.repo.ListByStatus(ctx, status)
}

// Update replaces the submitter-editable fields. The repository resets the
// moderation status to pending in the same statement: an edited endorsement
// must be re-reviewed before it shows up publicly again.
func (s *EndorsementService) Update(ctx context.Context, id string, update *models.EndorsementUpdate) (*models.Endorsement, error) {
	updated, err := s.repo.UpdateContent(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info("endorsement updated", slog.String("id", id))
	return updated, nil
}

// SetStatus transitions an endorsement's moderation state (owner only)
func (s *EndorsementService) SetStatus(ctx context.Context, id, status string) error {
	if status != models.StatusApproved && status != models.StatusRejected {
		return fmt.Errorf("%w: invalid status %q", models.ErrBadRequest, status)
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.Info("endorsement status changed",
		slog.String("id", id),
		slog.String("status", status))
	return nil
}

// Delete removes an endorsement
func (s *EndorsementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("endorsement deleted", slog.String("id", id))
	return nil
}
