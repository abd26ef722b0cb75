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

// AccessServiceInterface defines the interface for the accountless manage flow
type AccessServiceInterface interface {
	RequestCode(ctx context.Context, endorsementID, submittedEmail string) error
	VerifyCode(ctx context.Context, endorsementID, submittedEmail, code string) (string, error)
}

// RateLimiter counts requests per identifier inside a fixed window
type RateLimiter interface {
	Allow(identifier string, window time.Duration, maxRequests int) (bool, time.Duration)
}

// Rate limit windows for the access endpoints. Request-code is the spammy
// surface (it sends email), so the per-pair window is the tightest one.
const (
	requestCodeIPWindow  = time.Hour
	requestCodeIPMax     = 10
	requestCodePairWindow = 15 * time.Minute
	requestCodePairMax    = 3

	verifyIPWindow   = 15 * time.Minute
	verifyIPMax      = 30
	verifyPairWindow = 10 * time.Minute
	verifyPairMax    = 12
)

// AccessHandler handles the access-code request and verification endpoints
type AccessHandler struct {
	service    AccessServiceInterface
	limiter    RateLimiter
	timing     *auth.TimingDelay
	cookies    auth.CookieConfig
	sessionTTL time.Duration
	ipConfig   *pkghttp.IPConfig
	logger     *slog.Logger
}

// NewAccessHandler creates a new AccessHandler
func NewAccessHandler(
	service AccessServiceInterface,
	limiter RateLimiter,
	timing *auth.TimingDelay,
	cookies auth.CookieConfig,
	sessionTTL time.Duration,
	ipConfig *pkghttp.IPConfig,
	logger *slog.Logger,
) *AccessHandler {
	return &AccessHandler{
		service:    service,
		limiter:    limiter,
		timing:     timing,
		cookies:    cookies,
		sessionTTL: sessionTTL,
		ipConfig:   ipConfig,
		logger:     logger,
	}
}

// RequestCodeRequest represents the request body for requesting an access code
type RequestCodeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// VerifyCodeRequest represents the request body for verifying an access code
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// RequestCode handles POST /endorsements/{id}/access-code. The response is the
// same generic success no matter what happened internally; only a malformed
// request body earns a distinguishable error.
func (h *AccessHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RequestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if messages := ValidateRequest(req); messages != nil {
		pkghttp.WriteValidationErrors(w, messages)
		return
	}

	endorsementID := chi.URLParam(r, "id")
	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)
	email := auth.NormalizeEmail(req.Email)

	// Rate limit hits are deliberately indistinguishable from success.
	ipAllowed, _ := h.limiter.Allow("access-request:ip:"+ipAddress, requestCodeIPWindow, requestCodeIPMax)
	pairAllowed, _ := h.limiter.Allow("access-request:pair:"+endorsementID+":"+email, requestCodePairWindow, requestCodePairMax)

	if ipAllowed && pairAllowed && uuid.Validate(endorsementID) == nil {
		if err := h.service.RequestCode(r.Context(), endorsementID, email); err != nil {
			h.logger.Error("access code request failed",
				slog.String("endorsement_id", endorsementID),
				slog.Any("error", err))
		}
	}

	h.timing.WaitFrom(start, false)
	pkghttp.WriteSuccess(w, http.StatusOK, nil)
}

// VerifyCode handles POST /endorsements/{id}/verify-code. A correct code sets
// the manage-session cookie; every kind of wrong code gets the same message.
func (h *AccessHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if messages := ValidateRequest(req); messages != nil {
		pkghttp.WriteValidationErrors(w, messages)
		return
	}

	endorsementID := chi.URLParam(r, "id")
	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)
	email := auth.NormalizeEmail(req.Email)

	if allowed, retryAfter := h.limiter.Allow("access-verify:ip:"+ipAddress, verifyIPWindow, verifyIPMax); !allowed {
		pkghttp.WriteTooManyRequestsWithRetry(w, "Too many requests", retryAfter)
		return
	}
	if allowed, retryAfter := h.limiter.Allow("access-verify:pair:"+endorsementID+":"+email, verifyPairWindow, verifyPairMax); !allowed {
		pkghttp.WriteTooManyRequestsWithRetry(w, "Too many requests", retryAfter)
		return
	}

	if uuid.Validate(endorsementID) != nil {
		h.timing.WaitFrom(start, false)
		pkghttp.WriteBadRequest(w, models.ErrCodeInvalid.Error())
		return
	}

	token, err := h.service.VerifyCode(r.Context(), endorsementID, email, req.Code)
	if err != nil {
		h.timing.WaitFrom(start, false)
		switch {
		case errors.Is(err, models.ErrCodeInvalid):
			pkghttp.WriteBadRequest(w, models.ErrCodeInvalid.Error())
		case errors.Is(err, models.ErrCodeLocked):
			pkghttp.WriteTooManyRequests(w, "Too many attempts, try again later")
		default:
			h.logger.Error("access code verification failed",
				slog.String("endorsement_id", endorsementID),
				slog.Any("error", err))
			pkghttp.WriteInternalError(w, "Something went wrong")
		}
		return
	}

	auth.SetManageSessionCookie(w, token, int(h.sessionTTL.Seconds()), h.cookies)
	h.timing.WaitFrom(start, true)
	pkghttp.WriteSuccess(w, http.StatusOK, map[string]any{
		"expires_at": time.Now().Add(h.sessionTTL).UnixMilli(),
	})
}
