package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go_lms_certificate/internal/config"
	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTAuthMiddleware verifies the Bearer token and puts the caller's identity
// (subject, role, email, name) into the request context.
func JWTAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorization header is required.", "", model.ErrUnauthorized))
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorization header must be 'Bearer <token>'.", "", model.ErrUnauthorized))
				return
			}

			claims := &model.JWTCustomClaims{}
			token, err := jwt.ParseWithClaims(headerParts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				if cfg.JWT.SecretKey == "" {
					return nil, errors.New("jwt secret key is not configured")
				}
				return []byte(cfg.JWT.SecretKey), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if err != nil || !token.Valid {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "Token is invalid or expired.", "", model.ErrUnauthorized))
				return
			}

			subject, err := claims.GetSubject()
			if err != nil || subject == "" {
				logger.Warn("JWT auth failed: Subject (sub) claim missing", "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "Token has no subject.", "", model.ErrUnauthorized))
				return
			}
			studentID, err := uuid.Parse(subject)
			if err != nil {
				logger.Warn("JWT auth failed: Invalid subject (sub) format", "subject", subject, "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "Token subject is malformed.", "", model.ErrUnauthorized))
				return
			}

			ctx := model.WithIdentity(r.Context(), model.Identity{
				StudentID: studentID,
				Role:      claims.Role,
				Email:     claims.Email,
				Name:      claims.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose role is not in roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())
			identity, ok := model.IdentityFromContext(r.Context())
			if !ok {
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authentication is required.", "", model.ErrUnauthorized))
				return
			}
			if !allowed[identity.Role] {
				logger.Warn("Role not permitted", "role", identity.Role, "student_id", identity.StudentID)
				webutil.HandleError(w, logger, model.NewAppError("FORBIDDEN", "Your role may not access this resource.", "", model.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetStudentIDFromContext returns the authenticated student's ID.
func GetStudentIDFromContext(ctx context.Context) (uuid.UUID, error) {
	identity, ok := model.IdentityFromContext(ctx)
	if !ok || identity.StudentID == uuid.Nil {
		return uuid.Nil, model.NewAppError("UNAUTHORIZED", "Authentication is required.", "", model.ErrUnauthorized)
	}
	return identity.StudentID, nil
}
