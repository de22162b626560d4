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

// CertificateRepository persists issued certificates. Certificates are
// permanent: there is no Update or Delete. Uniqueness of (student, course),
// certificate ID and verification code is enforced by unique indexes and
// surfaces as model.ErrStorageConflict.
type CertificateRepository interface {
	Create(ctx context.Context, tx *gorm.DB, cert *model.Certificate) error
	FindByStudentAndCourse(ctx context.Context, db *gorm.DB, studentID, courseID uuid.UUID) (*model.Certificate, error)
	FindByCertificateID(ctx context.Context, db *gorm.DB, certificateID string) (*model.Certificate, error)
	FindByVerificationCode(ctx context.Context, db *gorm.DB, code string) (*model.Certificate, error)
	FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.Certificate, error)
}

type gormCertificateRepository struct{}

func NewGormCertificateRepository() CertificateRepository {
	return &gormCertificateRepository{}
}

func (r *gormCertificateRepository) Create(ctx context.Context, tx *gorm.DB, cert *model.Certificate) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(cert)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			logger.Warn("Unique constraint violation on certificate insert",
				"error", result.Error,
				"student_id", cert.StudentID.String(),
				"course_id", cert.CourseID.String(),
			)
			return model.ErrStorageConflict
		}
		logger.Error("Error creating certificate in DB",
			"error", result.Error,
			"student_id", cert.StudentID.String(),
			"course_id", cert.CourseID.String(),
		)
		return fmt.Errorf("gormCertificateRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormCertificateRepository) FindByStudentAndCourse(ctx context.Context, db *gorm.DB, studentID, courseID uuid.UUID) (*model.Certificate, error) {
	return r.findOne(ctx, db, "FindByStudentAndCourse", "student_id = ? AND course_id = ?", studentID, courseID)
}

func (r *gormCertificateRepository) FindByCertificateID(ctx context.Context, db *gorm.DB, certificateID string) (*model.Certificate, error) {
	return r.findOne(ctx, db, "FindByCertificateID", "certificate_id = ?", certificateID)
}

func (r *gormCertificateRepository) FindByVerificationCode(ctx context.Context, db *gorm.DB, code string) (*model.Certificate, error) {
	return r.findOne(ctx, db, "FindByVerificationCode", "verification_code = ?", code)
}

func (r *gormCertificateRepository) FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.Certificate, error) {
	logger := middleware.GetLogger(ctx)
	certs := make([]*model.Certificate, 0)
	result := db.WithContext(ctx).Where("student_id = ?", studentID).Order("issued_at DESC").Find(&certs)
	if result.Error != nil {
		logger.Error("Error listing certificates in DB", "error", result.Error, "student_id", studentID.String())
		return nil, fmt.Errorf("gormCertificateRepository.FindByStudent: %w", result.Error)
	}
	return certs, nil
}

func (r *gormCertificateRepository) findOne(ctx context.Context, db *gorm.DB, op string, query string, args ...interface{}) (*model.Certificate, error) {
	logger := middleware.GetLogger(ctx)
	var cert model.Certificate
	result := db.WithContext(ctx).Where(query, args...).First(&cert)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding certificate in DB", "error", result.Error, "op", op)
		return nil, fmt.Errorf("gormCertificateRepository.%s: %w", op, result.Error)
	}
	return &cert, nil
}
