package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/airotrack/fieldops/internal/auth"
	"github.com/airotrack/fieldops/internal/notification"
	"github.com/airotrack/fieldops/internal/reimbursement"
	"github.com/airotrack/fieldops/internal/reporting"
	"github.com/airotrack/fieldops/internal/service"
	"github.com/airotrack/fieldops/internal/session"
	"github.com/airotrack/fieldops/internal/tracker"
	"github.com/airotrack/fieldops/internal/transport/middleware"
	"github.com/airotrack/fieldops/internal/transport/swagger"
	"github.com/airotrack/fieldops/internal/user"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Auth          *auth.Handler
	Service       *service.Handler
	Tracker       *tracker.Handler
	Reimbursement *reimbursement.Handler
	Notification  *notification.Handler
	User          *user.Handler
	Reporting     *reporting.Handler
	SeenFlags     *session.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Post("/auth/logout", h.Auth.Logout)

			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.Put("/users/me", h.User.UpdateProfile)
			pr.Get("/technicians", h.User.ListTechnicians)
			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/", h.User.ListUsers)
				ur.Post("/", h.User.CreateUser)
				ur.Put("/{id}", h.User.UpdateUser)
				ur.Delete("/{id}", h.User.DeleteUser)
			})

			pr.Route("/services", func(sr chi.Router) {
				sr.Get("/", h.Service.ListServices)
				sr.Post("/", h.Service.CreateService)
				sr.Put("/{id}", h.Service.UpdateService)
				sr.Delete("/{id}", h.Service.DeleteService)
			})

			pr.Route("/trackers", func(tr chi.Router) {
				tr.Get("/", h.Tracker.ListTrackers)
				tr.Get("/models", h.Tracker.ListModels)
				tr.Post("/", h.Tracker.CreateTracker)
				tr.Put("/{id}", h.Tracker.UpdateTracker)
				tr.Delete("/{id}", h.Tracker.DeleteTracker)
			})

			pr.Route("/reimbursements", func(rr chi.Router) {
				rr.Get("/", h.Reimbursement.ListReimbursements)
				rr.Get("/total", h.Reimbursement.GetTotal)
				rr.Post("/", h.Reimbursement.CreateReimbursement)
				rr.Put("/{id}", h.Reimbursement.UpdateReimbursement)
				rr.Delete("/{id}", h.Reimbursement.DeleteReimbursement)
			})

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", h.Notification.ListNotifications)
				nr.Post("/{id}/read", h.Notification.MarkRead)
				nr.Post("/read-all", h.Notification.MarkAllRead)
			})

			pr.Get("/dashboard", h.Reporting.GetDashboard)

			pr.Route("/seen-flags/{feature}/{period}", func(fr chi.Router) {
				fr.Get("/", h.SeenFlags.GetSeenFlag)
				fr.Post("/", h.SeenFlags.MarkSeen)
			})
		})
	})
}
