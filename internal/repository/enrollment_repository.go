package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_lms_certificate/internal/middleware"
	"go_lms_certificate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) error
	FindByStudentAndCourse(ctx context.Context, db *gorm.DB, studentID, courseID uuid.UUID) (*model.Enrollment, error)
	FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.Enrollment, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, studentID, courseID uuid.UUID, status model.EnrollmentStatus) error
	Delete(ctx context.Context, tx *gorm.DB, studentID, courseID uuid.UUID) error
}

type gormEnrollmentRepository struct{}

func NewGormEnrollmentRepository() EnrollmentRepository {
	return &gormEnrollmentRepository{}
}

func (r *gormEnrollmentRepository) Create(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(enrollment)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			logger.Warn("Duplicate enrollment",
				"student_id", enrollment.StudentID.String(),
				"course_id", enrollment.CourseID.String(),
			)
			return model.ErrStorageConflict
		}
		logger.Error("Error creating enrollment in DB",
			"error", result.Error,
			"student_id", enrollment.StudentID.String(),
			"course_id", enrollment.CourseID.String(),
		)
		return fmt.Errorf("gormEnrollmentRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormEnrollmentRepository) FindByStudentAndCourse(ctx context.Context, db *gorm.DB, studentID, courseID uuid.UUID) (*model.Enrollment, error) {
	logger := middleware.GetLogger(ctx)
	var enrollment model.Enrollment
	result := db.WithContext(ctx).Where("student_id = ? AND course_id = ?", studentID, courseID).First(&enrollment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding enrollment in DB",
			"error", result.Error,
			"student_id", studentID.String(),
			"course_id", courseID.String(),
		)
		return nil, fmt.Errorf("gormEnrollmentRepository.FindByStudentAndCourse: %w", result.Error)
	}
	return &enrollment, nil
}

func (r *gormEnrollmentRepository) FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.Enrollment, error) {
	logger := middleware.GetLogger(ctx)
	var enrollments []*model.Enrollment
	result := db.WithContext(ctx).Where("student_id = ?", studentID).Order("enrolled_at DESC").Find(&enrollments)
	if result.Error != nil {
		logger.Error("Error listing enrollments in DB", "error", result.Error, "student_id", studentID.String())
		return nil, fmt.Errorf("gormEnrollmentRepository.FindByStudent: %w", result.Error)
	}
	return enrollments, nil
}

func (r *gormEnrollmentRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, studentID, courseID uuid.UUID, status model.EnrollmentStatus) error {
	logger := middleware.GetLogger(ctx)
	if _, err := model.ParseEnrollmentStatus(string(status)); err != nil {
		return err
	}
	result := tx.WithContext(ctx).Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		logger.Error("Error updating enrollment status in DB",
			"error", result.Error,
			"student_id", studentID.String(),
			"course_id", courseID.String(),
			"status", string(status),
		)
		return fmt.Errorf("gormEnrollmentRepository.UpdateStatus: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormEnrollmentRepository) Delete(ctx context.Context, tx *gorm.DB, studentID, courseID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("student_id = ? AND course_id = ?", studentID, courseID).Delete(&model.Enrollment{})
	if result.Error != nil {
		logger.Error("Error deleting enrollment in DB",
			"error", result.Error,
			"student_id", studentID.String(),
			"course_id", courseID.String(),
		)
		return fmt.Errorf("gormEnrollmentRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
