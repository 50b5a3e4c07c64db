package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/auth"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/employee"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/payroll"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/transport/middleware"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, employeeHandler *employee.Handler, payrollHandler *payroll.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
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
		}

		if authHandler != nil {
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				pr.Post("/auth/password", authHandler.ChangePassword)

				if employeeHandler != nil {
					pr.Route("/employees", func(er chi.Router) {
						er.Post("/", employeeHandler.CreateEmployee)
						er.Get("/", employeeHandler.ListEmployees)
						er.Get("/{id}", employeeHandler.GetEmployee)
						er.Patch("/{id}", employeeHandler.UpdateEmployee)
						er.Patch("/{id}/status", employeeHandler.SetStatus)
						er.Patch("/{id}/leaving-date", employeeHandler.SetDateOfLeaving)
						er.Delete("/{id}", employeeHandler.SoftDelete)
						er.Post("/{id}/restore", employeeHandler.Restore)
						er.Patch("/{id}/compensation", employeeHandler.UpdateCompensation)
						er.Put("/{id}/shifts", employeeHandler.ReplaceShifts)
						er.Get("/{id}/audit", employeeHandler.ListAudit)
						er.Get("/{id}/salary-history", employeeHandler.ListSalaryHistory)

						if payrollHandler != nil {
							er.Post("/{id}/payments", payrollHandler.OpenPeriod)
							er.Get("/{id}/payments", payrollHandler.ListPayments)
						}
					})
				}

				if payrollHandler != nil {
					pr.Route("/payments/{attemptID}", func(pmr chi.Router) {
						pmr.Post("/paid", payrollHandler.MarkPaid)
						pmr.Post("/failed", payrollHandler.MarkFailed)
						pmr.Post("/retry", payrollHandler.Retry)
					})
				}
			})
		}
	})
}
