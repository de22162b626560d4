package handlers

import (
	"log/slog"
	"net/http"

	"go_lms_certificate/internal/middleware"
	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/service"
	"go_lms_certificate/internal/webutil"
)

type ProgressHandler struct {
	service service.ProgressService
	logger  *slog.Logger
}

func NewProgressHandler(s service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		service: s,
		logger:  logger,
	}
}

// UpdateLessonProgress handles PUT /progress/lessons/{lessonId}.
func (h *ProgressHandler) UpdateLessonProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateLessonProgress"))

	studentID, err := middleware.GetStudentIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	lessonID, err := uuidParam(r, "lessonId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.UpdateLessonProgressRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	progress, err := h.service.SetLessonProgress(r.Context(), studentID, lessonID, *req.Completed)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, progress, logger)
}

// GetCourseProgress handles GET /progress/courses/{courseId}.
func (h *ProgressHandler) GetCourseProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCourseProgress"))

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

	summary, err := h.service.GetCourseProgress(r.Context(), studentID, courseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, summary, logger)
}
