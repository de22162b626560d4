package handlers

import (
	"log/slog"
	"net/http"

	"go_lms_certificate/internal/middleware"
	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/service"
	"go_lms_certificate/internal/webutil"
)

type QuizHandler struct {
	service service.QuizService
	logger  *slog.Logger
}

func NewQuizHandler(s service.QuizService, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizHandler{
		service: s,
		logger:  logger,
	}
}

// SubmitAttempt handles POST /quizzes/{quizId}/attempts.
func (h *QuizHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SubmitAttempt"))

	studentID, err := middleware.GetStudentIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	quizID, err := uuidParam(r, "quizId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.SubmitQuizRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	answers := make([]model.QuizAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, model.QuizAnswer{
			QuestionIndex:  *a.QuestionIndex,
			SelectedAnswer: *a.SelectedAnswer,
		})
	}

	attempt, err := h.service.SubmitAttempt(r.Context(), studentID, quizID, answers)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, attempt, logger)
}

// ListAttempts handles GET /quizzes/{quizId}/attempts.
func (h *QuizHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListAttempts"))

	studentID, err := middleware.GetStudentIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	quizID, err := uuidParam(r, "quizId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	attempts, err := h.service.ListAttempts(r.Context(), studentID, quizID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, attempts, logger)
}
