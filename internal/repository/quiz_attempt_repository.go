package repository

import (
	"context"
	"fmt"

	"go_lms_certificate/internal/middleware"
	"go_lms_certificate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizAttemptRepository is append-only: there is no Update or Delete.
type QuizAttemptRepository interface {
	Create(ctx context.Context, tx *gorm.DB, attempt *model.QuizAttempt) error
	FindByStudentAndLessons(ctx context.Context, db *gorm.DB, studentID uuid.UUID, lessonIDs []uuid.UUID) ([]model.QuizAttempt, error)
	FindByStudentAndQuiz(ctx context.Context, db *gorm.DB, studentID, quizID uuid.UUID) ([]model.QuizAttempt, error)
}

type gormQuizAttemptRepository struct{}

func NewGormQuizAttemptRepository() QuizAttemptRepository {
	return &gormQuizAttemptRepository{}
}

func (r *gormQuizAttemptRepository) Create(ctx context.Context, tx *gorm.DB, attempt *model.QuizAttempt) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(attempt)
	if result.Error != nil {
		logger.Error("Error creating quiz attempt in DB",
			"error", result.Error,
			"student_id", attempt.StudentID.String(),
			"quiz_id", attempt.QuizID.String(),
		)
		return fmt.Errorf("gormQuizAttemptRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormQuizAttemptRepository) FindByStudentAndLessons(ctx context.Context, db *gorm.DB, studentID uuid.UUID, lessonIDs []uuid.UUID) ([]model.QuizAttempt, error) {
	logger := middleware.GetLogger(ctx)
	attempts := make([]model.QuizAttempt, 0)
	if len(lessonIDs) == 0 {
		return attempts, nil
	}
	result := db.WithContext(ctx).
		Where("student_id = ? AND lesson_id IN ?", studentID, lessonIDs).
		Find(&attempts)
	if result.Error != nil {
		logger.Error("Error finding quiz attempts by lessons", "error", result.Error, "student_id", studentID.String())
		return nil, fmt.Errorf("gormQuizAttemptRepository.FindByStudentAndLessons: %w", result.Error)
	}
	return attempts, nil
}

func (r *gormQuizAttemptRepository) FindByStudentAndQuiz(ctx context.Context, db *gorm.DB, studentID, quizID uuid.UUID) ([]model.QuizAttempt, error) {
	logger := middleware.GetLogger(ctx)
	attempts := make([]model.QuizAttempt, 0)
	result := db.WithContext(ctx).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Order("attempted_at DESC").
		Find(&attempts)
	if result.Error != nil {
		logger.Error("Error finding quiz attempts by quiz",
			"error", result.Error,
			"student_id", studentID.String(),
			"quiz_id", quizID.String(),
		)
		return nil, fmt.Errorf("gormQuizAttemptRepository.FindByStudentAndQuiz: %w", result.Error)
	}
	return attempts, nil
}
