// internal/repository/progress_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_lms_certificate/internal/middleware"
	"go_lms_certificate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressRepository stores one LessonProgress row per (student, lesson).
// Rows are created once and updated in place afterwards.
type ProgressRepository interface {
	Create(ctx context.Context, tx *gorm.DB, progress *model.LessonProgress) error
	FindByStudentAndLesson(ctx context.Context, db *gorm.DB, studentID, lessonID uuid.UUID) (*model.LessonProgress, error)
	Update(ctx context.Context, tx *gorm.DB, progress *model.LessonProgress) error
	FindCompletedByStudentAndLessons(ctx context.Context, db *gorm.DB, studentID uuid.UUID, lessonIDs []uuid.UUID) ([]model.LessonProgress, error)
	FindByStudentAndCourse(ctx context.Context, db *gorm.DB, studentID, courseID uuid.UUID) ([]model.LessonProgress, error)
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) Create(ctx context.Context, tx *gorm.DB, progress *model.LessonProgress) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(progress)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return model.ErrStorageConflict
		}
		logger.Error("Error creating lesson progress in DB",
			"error", result.Error,
			"student_id", progress.StudentID.String(),
			"lesson_id", progress.LessonID.String(),
		)
		return fmt.Errorf("gormProgressRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormProgressRepository) FindByStudentAndLesson(ctx context.Context, db *gorm.DB, studentID, lessonID uuid.UUID) (*model.LessonProgress, error) {
	logger := middleware.GetLogger(ctx)
	var progress model.LessonProgress
	result := db.WithContext(ctx).Where("student_id = ? AND lesson_id = ?", studentID, lessonID).First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding lesson progress in DB",
			"error", result.Error,
			"student_id", studentID.String(),
			"lesson_id", lessonID.String(),
		)
		return nil, fmt.Errorf("gormProgressRepository.FindByStudentAndLesson: %w", result.Error)
	}
	return &progress, nil
}

func (r *gormProgressRepository) Update(ctx context.Context, tx *gorm.DB, progress *model.LessonProgress) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.LessonProgress{}).
		Where("progress_id = ?", progress.ProgressID).
		Select("completed", "completed_at", "updated_at").
		Updates(progress)
	if result.Error != nil {
		logger.Error("Error updating lesson progress in DB",
			"error", result.Error,
			"progress_id", progress.ProgressID.String(),
		)
		return fmt.Errorf("gormProgressRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormProgressRepository) FindCompletedByStudentAndLessons(ctx context.Context, db *gorm.DB, studentID uuid.UUID, lessonIDs []uuid.UUID) ([]model.LessonProgress, error) {
	logger := middleware.GetLogger(ctx)
	progresses := make([]model.LessonProgress, 0)
	if len(lessonIDs) == 0 {
		return progresses, nil
	}
	result := db.WithContext(ctx).
		Where("student_id = ? AND lesson_id IN ? AND completed = ?", studentID, lessonIDs, true).
		Find(&progresses)
	if result.Error != nil {
		logger.Error("Error finding completed lessons in DB", "error", result.Error, "student_id", studentID.String())
		return nil, fmt.Errorf("gormProgressRepository.FindCompletedByStudentAndLessons: %w", result.Error)
	}
	return progresses, nil
}

func (r *gormProgressRepository) FindByStudentAndCourse(ctx context.Context, db *gorm.DB, studentID, courseID uuid.UUID) ([]model.LessonProgress, error) {
	logger := middleware.GetLogger(ctx)
	progresses := make([]model.LessonProgress, 0)
	result := db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Order("created_at ASC").
		Find(&progresses)
	if result.Error != nil {
		logger.Error("Error finding course progress in DB",
			"error", result.Error,
			"student_id", studentID.String(),
			"course_id", courseID.String(),
		)
		return nil, fmt.Errorf("gormProgressRepository.FindByStudentAndCourse: %w", result.Error)
	}
	return progresses, nil
}
