package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go_lms_certificate/internal/middleware"
	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizService interface {
	SubmitAttempt(ctx context.Context, studentID, quizID uuid.UUID, answers []model.QuizAnswer) (*model.QuizAttempt, error)
	ListAttempts(ctx context.Context, studentID, quizID uuid.UUID) ([]model.QuizAttempt, error)
}

type quizService struct {
	db          *gorm.DB
	courseRepo  repository.CourseRepository
	enrollRepo  repository.EnrollmentRepository
	attemptRepo repository.QuizAttemptRepository
	now         func() time.Time
}

func NewQuizService(
	db *gorm.DB,
	courseRepo repository.CourseRepository,
	enrollRepo repository.EnrollmentRepository,
	attemptRepo repository.QuizAttemptRepository,
) QuizService {
	return &quizService{
		db:          db,
		courseRepo:  courseRepo,
		enrollRepo:  enrollRepo,
		attemptRepo: attemptRepo,
		now:         time.Now,
	}
}

func (s *quizService) SubmitAttempt(ctx context.Context, studentID, quizID uuid.UUID, answers []model.QuizAnswer) (*model.QuizAttempt, error) {
	logger := middleware.GetLogger(ctx)

	quiz, lesson, err := s.courseRepo.FindQuizWithQuestions(ctx, s.db, quizID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("QUIZ_NOT_FOUND", "Quiz not found.", "quizId", model.ErrNotFound)
		}
		return nil, err
	}
	if err := requireActiveEnrollment(ctx, s.db, s.enrollRepo, studentID, lesson.CourseID); err != nil {
		return nil, err
	}

	score, err := GradeQuiz(quiz.Questions, answers)
	if err != nil {
		return nil, err
	}

	attempt := &model.QuizAttempt{
		AttemptID:   uuid.New(),
		StudentID:   studentID,
		QuizID:      quiz.QuizID,
		LessonID:    lesson.LessonID,
		Answers:     answers,
		Score:       score,
		Passed:      score >= quiz.PassingScore,
		AttemptedAt: s.now(),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.attemptRepo.Create(ctx, tx, attempt)
	})
	if err != nil {
		logger.Error("Transaction failed for SubmitAttempt", "error", err, "quiz_id", quizID.String())
		return nil, fmt.Errorf("quizService.SubmitAttempt: %w", err)
	}

	logger.Info("Quiz attempt recorded",
		"student_id", studentID.String(),
		"quiz_id", quizID.String(),
		"score", score,
		"passed", attempt.Passed,
	)
	return attempt, nil
}

func (s *quizService) ListAttempts(ctx context.Context, studentID, quizID uuid.UUID) ([]model.QuizAttempt, error) {
	return s.attemptRepo.FindByStudentAndQuiz(ctx, s.db, studentID, quizID)
}

// GradeQuiz returns round(100 * correct / questions). Unanswered questions
// count as wrong; an out-of-range or repeated question index is rejected.
func GradeQuiz(questions []model.QuizQuestion, answers []model.QuizAnswer) (int, error) {
	if len(questions) == 0 {
		return 0, model.NewAppError("QUIZ_HAS_NO_QUESTIONS", "Quiz has no questions.", "quizId", model.ErrInvalidInput)
	}

	byIndex := make(map[int]model.QuizQuestion, len(questions))
	for _, q := range questions {
		byIndex[q.Index] = q
	}

	seen := make(map[int]bool, len(answers))
	correct := 0
	for _, a := range answers {
		q, ok := byIndex[a.QuestionIndex]
		if !ok {
			return 0, model.NewAppError("VALIDATION_ERROR",
				fmt.Sprintf("questionIndex %d does not exist.", a.QuestionIndex), "answers", model.ErrInvalidInput)
		}
		if seen[a.QuestionIndex] {
			return 0, model.NewAppError("VALIDATION_ERROR",
				fmt.Sprintf("questionIndex %d is answered more than once.", a.QuestionIndex), "answers", model.ErrInvalidInput)
		}
		seen[a.QuestionIndex] = true
		if a.SelectedAnswer == q.CorrectAnswer {
			correct++
		}
	}
	return int(math.Round(100 * float64(correct) / float64(len(questions)))), nil
}
