package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mhersel/vitae/internal/auth"
	"github.com/mhersel/vitae/internal/handlers"
	"github.com/mhersel/vitae/internal/middleware"
	pkghttp "github.com/mhersel/vitae/pkg/http"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	endorsementHandler *handlers.EndorsementHandler,
	accessHandler *handlers.AccessHandler,
	adminHandler *handlers.AdminHandler,
	sessionCodec *auth.SessionCodec,
	cookies auth.CookieConfig,
	tokenManager *auth.TokenManager,
) {
	// Public routes
	router.Get("/endorsements", endorsementHandler.ListApproved)
	router.Post("/endorsements", endorsementHandler.Submit)

	// Self-service access flow; these carry their own limits internally
	router.Post("/endorsements/{id}/access-code", accessHandler.RequestCode)
	router.Post("/endorsements/{id}/verify-code", accessHandler.VerifyCode)

	// Session-guarded self-service mutations
	router.Group(func(r chi.Router) {
		r.Use(auth.ManageSessionMiddleware(sessionCodec, cookies, func(w http.ResponseWriter) {
			pkghttp.WriteUnauthorized(w, "Verification required")
		}))
		r.Patch("/endorsements/{id}", endorsementHandler.Update)
		r.Delete("/endorsements/{id}", endorsementHandler.Delete)
	})

	// Owner login and moderation
	router.With(middleware.RateLimitByIP(middleware.AdminLoginRateLimit())).
		Post("/admin/login", adminHandler.Login)

	router.Group(func(r chi.Router) {
		r.Use(auth.AdminMiddleware(tokenManager))
		r.Get("/admin/endorsements", adminHandler.ListEndorsements)
		r.Patch("/admin/endorsements/{id}/status", adminHandler.SetStatus)
		r.Delete("/admin/endorsements/{id}", adminHandler.DeleteEndorsement)
	})
}
