package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/rumahkita/property-management/internal/approval"
	"github.com/rumahkita/property-management/internal/audit"
	"github.com/rumahkita/property-management/internal/auth"
	"github.com/rumahkita/property-management/internal/notification"
	"github.com/rumahkita/property-management/internal/transport/middleware"
	"github.com/rumahkita/property-management/internal/transport/swagger"
)

// RegisterAllRoutes wires the HTTP surface. Governance permissions gate
// the routes: approvals.submit / approvals.review for the workflow,
// audit.view for the trail, notifications.manage for scheduling.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	rbac *auth.RBACAuthorization,
	approvalHandler *approval.Handler,
	auditHandler *audit.Handler,
	auditor audit.Logger,
	notificationHandler *notification.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// OpenAPI document served at root, outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})

			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)
				pr.Use(middleware.UserContext)

				pr.Get("/users/me", authHandler.GetCurrentUser)

				if approvalHandler != nil {
					pr.Route("/approvals", func(ar chi.Router) {
						ar.Group(func(sr chi.Router) {
							sr.Use(rbac.RequireAny("approvals.submit", "approvals.review"))
							sr.Get("/", approvalHandler.GetApprovals)
							sr.Get("/{id}", approvalHandler.GetApproval)
						})

						ar.Group(func(sr chi.Router) {
							sr.Use(rbac.Middleware("approvals.submit"))
							sr.Post("/", approvalHandler.SubmitApproval)
						})

						ar.Group(func(rr chi.Router) {
							rr.Use(rbac.Middleware("approvals.review"))
							rr.Patch("/{id}/approve", approvalHandler.ApproveAction)
							rr.Patch("/{id}/reject", approvalHandler.RejectAction)
						})
					})
				}

				if auditHandler != nil {
					pr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequirePermissions("audit.view"))
						ar.Get("/audit-logs", auditHandler.GetAuditLogs)
						ar.Get("/audit-logs/{id}", auditHandler.GetAuditLog)
					})
				}

				if notificationHandler != nil {
					pr.Route("/scheduled-notifications", func(nr chi.Router) {
						nr.Get("/mine", notificationHandler.GetMyScheduled)

						nr.Group(func(mr chi.Router) {
							mr.Use(middleware.RequirePermissions("notifications.manage"))
							mr.Use(middleware.AuditTrail(auditor))
							mr.Post("/rent-reminders", notificationHandler.ScheduleRentReminder)
							mr.Post("/lease-expiries", notificationHandler.ScheduleLeaseExpiry)
							mr.Post("/sweep", notificationHandler.RunSweep)
							mr.Get("/{id}", notificationHandler.GetScheduled)
							mr.Delete("/{id}", notificationHandler.CancelScheduled)
						})
					})

					pr.Route("/notifications", func(nr chi.Router) {
						nr.Use(middleware.AuditTrail(auditor))
						nr.Get("/", notificationHandler.GetMyNotifications)
						nr.Patch("/{id}/read", notificationHandler.MarkRead)
					})
				}
			})
		}
	})
}
