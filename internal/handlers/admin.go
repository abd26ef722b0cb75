package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mhersel/vitae/internal/models"
	pkghttp "github.com/mhersel/vitae/pkg/http"
)

// AdminServiceInterface defines the interface for owner authentication
type AdminServiceInterface interface {
	Login(ctx context.Context, email, password, totpCode string) (string, error)
}

// AdminEndorsementService is the moderation surface over endorsements
type AdminEndorsementService interface {
	ListByStatus(ctx context.Context, status string) ([]*models.Endorsement, error)
	SetStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// AdminHandler handles the owner login and moderation endpoints
type AdminHandler struct {
	service      AdminServiceInterface
	endorsements AdminEndorsementService
	logger       *slog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service AdminServiceInterface, endorsements AdminEndorsementService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		service:      service,
		endorsements: endorsements,
		logger:       logger,
	}
}

// AdminLoginRequest represents the request body for owner login
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	TOTPCode string `json:"totp_code" validate:"omitempty,len=6,numeric"`
}

// SetStatusRequest represents the request body for a moderation decision
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if messages := ValidateRequest(req); messages != nil {
		pkghttp.WriteValidationErrors(w, messages)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password, req.TOTPCode)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteUnauthorized(w, "Authentication failed")
			return
		}
		pkghttp.WriteInternalError(w, "Something went wrong")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, map[string]any{"token": token})
}

// ListEndorsements handles GET /admin/endorsements?status=pending
func (h *AdminHandler) ListEndorsements(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.StatusPending
	}

	if status != models.StatusPending && status != models.StatusApproved && status != models.StatusRejected {
		pkghttp.WriteBadRequest(w, "Invalid status filter")
		return
	}

	endorsements, err := h.endorsements.ListByStatus(r.Context(), status)
	if err != nil {
		h.logger.Error("failed to list endorsements",
			slog.String("status", status),
			slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Something went wrong")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, endorsements)
}

// SetStatus handles PATCH /admin/endorsements/{id}/status
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	endorsementID := chi.URLParam(r, "id")
	if uuid.Validate(endorsementID) != nil {
		pkghttp.WriteNotFound(w, "Endorsement not found")
		return
	}

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if messages := ValidateRequest(req); messages != nil {
		pkghttp.WriteValidationErrors(w, messages)
		return
	}

	if err := h.endorsements.SetStatus(r.Context(), endorsementID, req.Status); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Endorsement not found")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Invalid status")
		default:
			h.logger.Error("failed to set endorsement status",
				slog.String("endorsement_id", endorsementID),
				slog.Any("error", err))
			pkghttp.WriteInternalError(w, "Something went wrong")
		}
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, nil)
}

// DeleteEndorsement handles DELETE /admin/endorsements/{id}
func (h *AdminHandler) DeleteEndorsement(w http.ResponseWriter, r *http.Request) {
	endorsementID := chi.URLParam(r, "id")
	if uuid.Validate(endorsementID) != nil {
		pkghttp.WriteNotFound(w, "Endorsement not found")
		return
	}

	if err := h.endorsements.Delete(r.Context(), endorsementID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Endorsement not found")
			return
		}
		h.logger.Error("failed to delete endorsement",
			slog.String("endorsement_id", endorsementID),
			slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Something went wrong")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, nil)
}
