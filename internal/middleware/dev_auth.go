package middleware

import (
	"net/http"

	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/webutil"

	"github.com/google/uuid"
)

// DevStudentContextMiddleware is for local development and tests only.
// It trusts the X-Student-ID header (plus optional X-Student-Role,
// X-Student-Name and X-Student-Email) without any verification.
func DevStudentContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		studentIDStr := r.Header.Get("X-Student-ID")
		if studentIDStr == "" {
			logger.Warn("[DEV AUTH] Failed: X-Student-ID header missing")
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-Student-ID header is required.", "", model.ErrUnauthorized))
			return
		}

		studentID, err := uuid.Parse(studentIDStr)
		if err != nil {
			logger.Warn("[DEV AUTH] Failed: Invalid X-Student-ID format", "value", studentIDStr)
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-Student-ID is not a UUID.", "", model.ErrUnauthorized))
			return
		}

		logger.Debug("[DEV AUTH] Student ID set to context (no validation)", "student_id", studentID)
		ctx := model.WithIdentity(r.Context(), model.Identity{
			StudentID: studentID,
			Role:      r.Header.Get("X-Student-Role"),
			Email:     r.Header.Get("X-Student-Email"),
			Name:      r.Header.Get("X-Student-Name"),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
