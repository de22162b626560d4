package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"go_lms_certificate/internal/config"
	"go_lms_certificate/internal/middleware"
	"go_lms_certificate/internal/model"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// Handlers bundles every HTTP handler mounted by NewRouter.
type Handlers struct {
	Certificate *CertificateHandler
	Enrollment  *EnrollmentHandler
	Progress    *ProgressHandler
	Quiz        *QuizHandler
}

// NewRouter wires middleware and routes. With auth disabled the protected
// group trusts the X-Student-* headers instead of a bearer token.
func NewRouter(cfg *config.Config, logger *slog.Logger, db *gorm.DB, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/certificates/verify", h.Certificate.VerifyCertificate)

		// --- Protected routes ---
		r.Group(func(r chi.Router) {
			if cfg.Auth.Enabled {
				logger.Info("Applying JWT authentication middleware")
				r.Use(middleware.JWTAuthMiddleware(cfg))
			} else {
				logger.Warn("Authentication disabled, trusting X-Student-ID header")
				r.Use(middleware.DevStudentContextMiddleware)
			}
			r.Use(middleware.RequireRole(model.RoleStudent))

			r.Post("/certificates/issue", h.Certificate.IssueCertificate)
			r.Get("/certificates/my-certificates", h.Certificate.GetMyCertificates)
			r.Get("/certificates/check/{courseId}", h.Certificate.CheckEligibility)

			r.Route("/enrollments", func(r chi.Router) {
				r.Post("/", h.Enrollment.Enroll)
				r.Get("/my", h.Enrollment.ListMyEnrollments)
				r.Delete("/{courseId}", h.Enrollment.Unenroll)
			})

			r.Route("/progress", func(r chi.Router) {
				r.Put("/lessons/{lessonId}", h.Progress.UpdateLessonProgress)
				r.Get("/courses/{courseId}", h.Progress.GetCourseProgress)
			})

			r.Route("/quizzes/{quizId}/attempts", func(r chi.Router) {
				r.Post("/", h.Quiz.SubmitAttempt)
				r.Get("/", h.Quiz.ListAttempts)
			})
		})

		// --- Public lookups ---
		r.Get("/certificates/{certificateId}", h.Certificate.GetCertificate)
		r.Get("/certificates/{certificateId}/image", h.Certificate.GetCertificateImage)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sqlDB, err := db.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
