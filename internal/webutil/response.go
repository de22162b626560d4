// internal/webutil/response.go
package webutil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go_lms_certificate/internal/model"
)

// HandleError maps err to a status code and writes the JSON error body.
// Errors that are not AppErrors are logged and answered with an opaque body.
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	statusCode := MapErrorToStatusCode(err)

	var appErr *model.AppError
	if !errors.As(err, &appErr) {
		logger.Error("Unhandled error", slog.Any("error", err))
		RespondWithJSON(w, http.StatusInternalServerError, model.APIErrorResponse{
			Error: model.ErrorDetail{
				Code:    "INTERNAL_SERVER_ERROR",
				Message: "An unexpected error occurred.",
			},
		}, logger)
		return
	}

	if statusCode >= http.StatusInternalServerError {
		logger.Error("Request failed", slog.Any("error", err))
		RespondWithJSON(w, statusCode, model.APIErrorResponse{
			Error: model.ErrorDetail{
				Code:    "INTERNAL_SERVER_ERROR",
				Message: "An unexpected error occurred.",
			},
		}, logger)
		return
	}

	if len(appErr.Extra) == 0 {
		RespondWithJSON(w, statusCode, model.APIErrorResponse{Error: appErr.Detail()}, logger)
		return
	}

	body := make(map[string]interface{}, len(appErr.Extra)+1)
	for k, v := range appErr.Extra {
		body[k] = v
	}
	body["error"] = appErr.Detail()
	RespondWithJSON(w, statusCode, body, logger)
}

// MapErrorToStatusCode maps application errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrAlreadyIssued),
		errors.Is(err, model.ErrNotEligible):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotEnrolled), errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithJSON writes payload as JSON with the given status code.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("Error marshaling JSON response", slog.Any("error", err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_SERVER_ERROR","message":"Failed to build response."}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
