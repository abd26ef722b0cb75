package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mhersel/vitae/internal/auth"
	"github.com/mhersel/vitae/internal/models"
	pkghttp "github.com/mhersel/vitae/pkg/http"
)

// EndorsementServiceInterface defines the interface for endorsement business logic
type EndorsementServiceInterface interface {
	Submit(ctx context.Context, e *models.Endorsement) (*models.Endorsement, error)
	ListApproved(ctx context.Context) ([]*models.Endorsement, error)
	Update(ctx context.Context, id string, update *models.EndorsementUpdate) (*models.Endorsement, error)
	Delete(ctx context.Context, id string) error
}

// AccessAuthorizer re-checks a manage session against the live endorsement
type AccessAuthorizer interface {
	Authorize(ctx context.Context, session *auth.SessionPayload, endorsementID string) (*models.Endorsement, error)
}

const (
	submitIPWindow = time.Hour
	submitIPMax    = 5

	updateIPWindow = 10 * time.Minute
	updateIPMax    = 30

	deleteIPWindow = 10 * time.Minute
	deleteIPMax    = 10
)

// EndorsementHandler handles public submission, listing and the
// session-guarded self-service mutations
type EndorsementHandler struct {
	service    EndorsementServiceInterface
	authorizer AccessAuthorizer
	limiter    RateLimiter
	cookies    auth.CookieConfig
	ipConfig   *pkghttp.IPConfig
	logger     *slog.Logger
}

// NewEndorsementHandler creates a new EndorsementHandler
func NewEndorsementHandler(
	service EndorsementServiceInterface,
	authorizer AccessAuthorizer,
	limiter RateLimiter,
	cookies auth.CookieConfig,
	ipConfig *pkghttp.IPConfig,
	logger *slog.Logger,
) *EndorsementHandler {
	return &EndorsementHandler{
		service:    service,
		authorizer: authorizer,
		limiter:    limiter,
		cookies:    cookies,
		ipConfig:   ipConfig,
		logger:     logger,
	}
}

// SubmitEndorsementRequest represents the request body for a new endorsement
type SubmitEndorsementRequest struct {
	AuthorName string `json:"author_name" validate:"required,min=1,max=100"`
	AuthorRole string `json:"author_role" validate:"max=100"`
	Company    string `json:"company" validate:"max=100"`
	Message    string `json:"message" validate:"required,min=1,max=2000"`
	Email      string `json:"email" validate:"omitempty,email,max=254"`
}

// UpdateEndorsementRequest represents the request body for editing an endorsement
type UpdateEndorsementRequest struct {
	AuthorName string `json:"author_name" validate:"required,min=1,max=100"`
	AuthorRole string `json:"author_role" validate:"max=100"`
	Company    string `json:"company" validate:"max=100"`
	Message    string `json:"message" validate:"required,min=1,max=2000"`
}

// Submit handles POST /endorsements
func (h *EndorsementHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)
	if allowed, retryAfter := h.limiter.Allow("submit:ip:"+ipAddress, submitIPWindow, submitIPMax); !allowed {
		pkghttp.WriteTooManyRequestsWithRetry(w, "Too many submissions, try again later", retryAfter)
		return
	}

	var req SubmitEndorsementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if messages := ValidateRequest(req); messages != nil {
		pkghttp.WriteValidationErrors(w, messages)
		return
	}

	endorsement, err := h.service.Submit(r.Context(), &models.Endorsement{
		AuthorName: req.AuthorName,
		AuthorRole: req.AuthorRole,
		Company:    req.Company,
		Message:    req.Message,
		Email:      req.Email,
	})
	if err != nil {
		pkghttp.WriteInternalError(w, "Something went wrong")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, endorsement)
}

// ListApproved handles GET /endorsements
func (h *EndorsementHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	endorsements, err := h.service.ListApproved(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Something went wrong")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, endorsements)
}

// Update handles PATCH /endorsements/{id}. Runs behind the manage-session
// middleware; authority is still re-checked against the live record here.
func (h *EndorsementHandler) Update(w http.ResponseWriter, r *http.Request) {
	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)
	if allowed, retryAfter := h.limiter.Allow("manage-update:ip:"+ipAddress, updateIPWindow, updateIPMax); !allowed {
		pkghttp.WriteTooManyRequestsWithRetry(w, "Too many requests", retryAfter)
		return
	}

	endorsementID := chi.URLParam(r, "id")
	if _, ok := h.authorize(w, r, endorsementID); !ok {
		return
	}

	var req UpdateEndorsementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if messages := ValidateRequest(req); messages != nil {
		pkghttp.WriteValidationErrors(w, messages)
		return
	}

	updated, err := h.service.Update(r.Context(), endorsementID, &models.EndorsementUpdate{
		AuthorName: req.AuthorName,
		AuthorRole: req.AuthorRole,
		Company:    req.Company,
		Message:    req.Message,
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Endorsement not found")
			return
		}
		h.logger.Error("endorsement update failed",
			slog.String("endorsement_id", endorsementID),
			slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Something went wrong")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /endorsements/{id}. The session cookie is cleared on
// success since the record it was scoped to no longer exists.
func (h *EndorsementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)
	if allowed, retryAfter := h.limiter.Allow("manage-delete:ip:"+ipAddress, deleteIPWindow, deleteIPMax); !allowed {
		pkghttp.WriteTooManyRequestsWithRetry(w, "Too many requests", retryAfter)
		return
	}

	endorsementID := chi.URLParam(r, "id")
	if _, ok := h.authorize(w, r, endorsementID); !ok {
		return
	}

	if err := h.service.Delete(r.Context(), endorsementID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Endorsement not found")
			return
		}
		h.logger.Error("endorsement delete failed",
			slog.String("endorsement_id", endorsementID),
			slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Something went wrong")
		return
	}

	auth.ClearManageSessionCookie(w, h.cookies)
	pkghttp.WriteSuccess(w, http.StatusOK, nil)
}

// authorize resolves the manage session against the target endorsement and
// writes the failure response itself. A stale session (record deleted or its
// email changed since verification) clears the cookie.
func (h *EndorsementHandler) authorize(w http.ResponseWriter, r *http.Request, endorsementID string) (*models.Endorsement, bool) {
	if uuid.Validate(endorsementID) != nil {
		pkghttp.WriteNotFound(w, "Endorsement not found")
		return nil, false
	}

	session := auth.GetSessionFromContext(r)
	endorsement, err := h.authorizer.Authorize(r.Context(), session, endorsementID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSessionInvalid):
			pkghttp.WriteUnauthorized(w, "Verification required")
		case errors.Is(err, models.ErrSessionStale):
			auth.ClearManageSessionCookie(w, h.cookies)
			pkghttp.WriteUnauthorized(w, "Verification required")
		default:
			h.logger.Error("session authorization failed",
				slog.String("endorsement_id", endorsementID),
				slog.Any("error", err))
			pkghttp.WriteInternalError(w, "Something went wrong")
		}
		return nil, false
	}

	return endorsement, true
}
