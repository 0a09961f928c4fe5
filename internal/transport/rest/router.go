package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/rakhadyo/company-portal/internal/applicant"
	"github.com/rakhadyo/company-portal/internal/auth"
	"github.com/rakhadyo/company-portal/internal/job"
	"github.com/rakhadyo/company-portal/internal/project"
	"github.com/rakhadyo/company-portal/internal/transport/middleware"
	"github.com/rakhadyo/company-portal/internal/transport/swagger"
	"github.com/rakhadyo/company-portal/internal/updates"
	"github.com/rakhadyo/company-portal/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, projectHandler *project.Handler, updatesHandler *updates.Handler, applicantHandler *applicant.Handler, jobHandler *job.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	if authHandler != nil {
		router.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)
		})
	}

	// Public careers listing, enabled jobs only.
	if jobHandler != nil {
		router.Get("/jobs", jobHandler.PublicJobs)
	}

	if authHandler == nil {
		return
	}

	router.Group(func(pr chi.Router) {
		pr.Use(authHandler.AuthMiddleware)

		if userHandler != nil {
			pr.Get("/me", userHandler.GetCurrentUser)
			pr.Get("/directory", userHandler.GetDirectory)
		}

		if projectHandler != nil {
			pr.Get("/projects", projectHandler.GetProjects)
			pr.Get("/weekly/{projectId}", projectHandler.GetWeeklyReports)
			pr.Post("/weekly", projectHandler.AddWeeklyReport)
		}

		if updatesHandler != nil {
			pr.Route("/updates", func(ur chi.Router) {
				ur.Get("/", updatesHandler.GetUpdates)
				ur.Get("/weeks", updatesHandler.GetWeeks)
				ur.Post("/submit", updatesHandler.SubmitUpdate)
			})
		}

		// Admin surface, gated on role.
		pr.Route("/admin", func(ar chi.Router) {
			ar.Use(authHandler.RequireRole(auth.RoleAdmin))

			if userHandler != nil {
				ar.Get("/users", userHandler.GetAllUsers)
				ar.Post("/createUser", userHandler.CreateUser)
				ar.Post("/updateUser", userHandler.UpdateUser)
			}

			if projectHandler != nil {
				ar.Post("/projects", projectHandler.UpsertProject)
				ar.Post("/projects/{id}/deactivate", projectHandler.DeactivateProject)
			}

			if applicantHandler != nil {
				ar.Route("/applicants", func(apr chi.Router) {
					apr.Get("/", applicantHandler.ListApplicants)
					apr.Get("/{id}", applicantHandler.GetApplicant)
					apr.Post("/{id}/send-rich-email", applicantHandler.SendRichEmail)
					apr.Post("/{id}/send-doc-email", applicantHandler.SendDocEmail)
					apr.Post("/{id}/send-welcome-email", applicantHandler.SendWelcomeEmail)
				})
				ar.Post("/employees/{username}/send-doc-email", applicantHandler.SendEmployeeDocEmail)
			}

			if jobHandler != nil {
				ar.Route("/jobs", func(jr chi.Router) {
					jr.Get("/", jobHandler.ListJobs)
					jr.Post("/upsert", jobHandler.UpsertJob)
					jr.Get("/question-bank", jobHandler.GetQuestionBank)
					jr.Post("/question-bank", jobHandler.SaveQuestionBank)
					jr.Post("/{id}/status", jobHandler.SetJobStatus)
					jr.Post("/{id}/delete", jobHandler.DeleteJob)
				})
			}
		})
	})
}
