package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/wirasatya/business-management/internal"
	"github.com/wirasatya/business-management/internal/project"
	"github.com/wirasatya/business-management/internal/session"
	"github.com/wirasatya/business-management/internal/transaction"
	"github.com/wirasatya/business-management/internal/transport/middleware"
	"github.com/wirasatya/business-management/internal/transport/swagger"
	"github.com/wirasatya/business-management/internal/user"
)

// Handlers bundles the per-domain HTTP handlers the router mounts.
type Handlers struct {
	Session     *session.Handler
	User        *user.Handler
	Project     *project.Handler
	Transaction *transaction.Handler
}

// RegisterAllRoutes wires middleware and routes onto the router. Everything
// under the protected group requires a live tracked session; invitation
// validate/accept stay public because the invitee has no session yet.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, sessionService *session.Service, handlers Handlers, security internal.SecurityConfig, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	sessionMW := middleware.NewSessionMiddleware(sessionService, security.SessionCookieName, logger)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.SecurityHeaders(security.ContentSecurityPolicy, security.CSRFCookieName))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Pre-registration surface: token in hand, no session yet.
		r.Get("/invitations/validate", handlers.User.ValidateInvitation)
		r.Post("/invitations/accept", handlers.User.AcceptInvitation)

		if security.AllowDevBootstrap {
			r.Post("/dev/bootstrap-admin", handlers.User.BootstrapAdmin)
		}

		// Sign-in records the session before it can be validated, so track
		// only needs the provider token attached, not a tracked session.
		r.Group(func(tr chi.Router) {
			tr.Use(sessionMW.AttachToken)
			tr.Post("/sessions", handlers.Session.TrackSession)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(sessionMW.Handler)

			pr.Get("/users/me", handlers.User.Me)
			pr.Patch("/users/{id}/role", handlers.User.UpdateRole)

			pr.Route("/invitations", func(ir chi.Router) {
				ir.Post("/", handlers.User.CreateInvitation)
				ir.Post("/{id}/regenerate", handlers.User.RegenerateInvitation)
				ir.Delete("/{id}", handlers.User.CancelInvitation)
			})

			pr.Route("/sessions", func(sr chi.Router) {
				sr.Get("/", handlers.Session.ListSessions)
				sr.Delete("/others", handlers.Session.RevokeOtherSessions)
				sr.Delete("/all", handlers.Session.RevokeAllSessions)
				sr.Delete("/{token}", handlers.Session.RevokeSession)
			})

			pr.Route("/projects", func(prj chi.Router) {
				prj.Post("/", handlers.Project.Create)
				prj.Get("/", handlers.Project.List)
				prj.Get("/{id}", handlers.Project.Get)
				prj.Patch("/{id}", handlers.Project.Update)
				prj.Delete("/{id}", handlers.Project.Delete)
			})

			pr.Route("/transactions", func(tr chi.Router) {
				tr.Post("/", handlers.Transaction.Create)
				tr.Get("/", handlers.Transaction.List)
				tr.Get("/{id}", handlers.Transaction.Get)
				tr.Patch("/{id}", handlers.Transaction.Update)
				tr.Delete("/{id}", handlers.Transaction.Delete)
			})
		})
	})
}
