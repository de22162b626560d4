package handlers

import (
	"log/slog"
	"net/http"

	"go_lms_certificate/internal/middleware"
	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/service"
	"go_lms_certificate/internal/webutil"

	"github.com/google/uuid"
)

type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  *slog.Logger
}

func NewEnrollmentHandler(s service.EnrollmentService, logger *slog.Logger) *EnrollmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrollmentHandler{
		service: s,
		logger:  logger,
	}
}

// Enroll handles POST /enrollments.
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Enroll"))

	studentID, err := middleware.GetStudentIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.EnrollRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		webutil.HandleError(w, logger, invalidUUIDError("courseId"))
		return
	}

	enrollment, err := h.service.Enroll(r.Context(), studentID, courseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, enrollment, logger)
}

// ListMyEnrollments handles GET /enrollments/my.
func (h *EnrollmentHandler) ListMyEnrollments(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListMyEnrollments"))

	studentID, err := middleware.GetStudentIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	enrollments, err := h.service.ListMyEnrollments(r.Context(), studentID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, enrollments, logger)
}

// Unenroll handles DELETE /enrollments/{courseId}.
func (h *EnrollmentHandler) Unenroll(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Unenroll"))

	studentID, err := middleware.GetStudentIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	courseID, err := uuidParam(r, "courseId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.Unenroll(r.Context(), studentID, courseID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
