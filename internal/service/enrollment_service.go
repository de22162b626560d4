package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_lms_certificate/internal/middleware"
	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID uuid.UUID) (*model.Enrollment, error)
	ListMyEnrollments(ctx context.Context, studentID uuid.UUID) ([]*model.Enrollment, error)
	Unenroll(ctx context.Context, studentID, courseID uuid.UUID) error
}

type enrollmentService struct {
	db         *gorm.DB
	courseRepo repository.CourseRepository
	enrollRepo repository.EnrollmentRepository
}

func NewEnrollmentService(db *gorm.DB, courseRepo repository.CourseRepository, enrollRepo repository.EnrollmentRepository) EnrollmentService {
	return &enrollmentService{
		db:         db,
		courseRepo: courseRepo,
		enrollRepo: enrollRepo,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, studentID, courseID uuid.UUID) (*model.Enrollment, error) {
	logger := middleware.GetLogger(ctx)

	if _, err := s.courseRepo.FindCourseTree(ctx, s.db, courseID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("COURSE_NOT_FOUND", "Course not found.", "courseId", model.ErrNotFound)
		}
		return nil, err
	}

	now := time.Now()
	enrollment := &model.Enrollment{
		EnrollmentID: uuid.New(),
		StudentID:    studentID,
		CourseID:     courseID,
		Status:       model.EnrollmentActive,
		EnrolledAt:   now,
		UpdatedAt:    now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.enrollRepo.Create(ctx, tx, enrollment)
	})
	if err != nil {
		if errors.Is(err, model.ErrStorageConflict) {
			return nil, model.NewAppError("ALREADY_ENROLLED", "Already enrolled in this course.", "courseId", model.ErrConflict)
		}
		logger.Error("Transaction failed for Enroll", "error", err)
		return nil, fmt.Errorf("enrollmentService.Enroll: %w", err)
	}

	logger.Info("Student enrolled", "student_id", studentID.String(), "course_id", courseID.String())
	return enrollment, nil
}

func (s *enrollmentService) ListMyEnrollments(ctx context.Context, studentID uuid.UUID) ([]*model.Enrollment, error) {
	enrollments, err := s.enrollRepo.FindByStudent(ctx, s.db, studentID)
	if err != nil {
		return nil, err
	}
	if enrollments == nil {
		enrollments = make([]*model.Enrollment, 0)
	}
	return enrollments, nil
}

// Unenroll removes the enrollment row. Progress, attempts and any issued
// certificate are independent records and stay.
func (s *enrollmentService) Unenroll(ctx context.Context, studentID, courseID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.enrollRepo.Delete(ctx, tx, studentID, courseID)
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("ENROLLMENT_NOT_FOUND", "Enrollment not found.", "courseId", model.ErrNotFound)
		}
		return err
	}
	return nil
}

// requireActiveEnrollment is shared by the progress and quiz services.
func requireActiveEnrollment(ctx context.Context, db *gorm.DB, repo repository.EnrollmentRepository, studentID, courseID uuid.UUID) error {
	enrollment, err := repo.FindByStudentAndCourse(ctx, db, studentID, courseID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}
	if err != nil || !enrollment.IsEnrolled() {
		return model.NewAppError("NOT_ENROLLED", "Not enrolled in this course.", "courseId", model.ErrNotEnrolled)
	}
	return nil
}
