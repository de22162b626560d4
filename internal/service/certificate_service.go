// internal/service/certificate_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_lms_certificate/internal/config"
	"go_lms_certificate/internal/middleware"
	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxIssueAttempts bounds retries after a certificate ID or verification
// code collided with an existing certificate.
const maxIssueAttempts = 3

const enrollmentSavePoint = "certificate_enrollment_completed"

type CertificateService interface {
	IssueCertificate(ctx context.Context, studentID, courseID uuid.UUID) (*model.Certificate, error)
	GetMyCertificates(ctx context.Context, studentID uuid.UUID) ([]*model.Certificate, error)
	GetByCertificateID(ctx context.Context, certificateID string) (*model.Certificate, error)
	VerifyByCode(ctx context.Context, code string) (*model.Certificate, error)
	CheckEligibility(ctx context.Context, studentID, courseID uuid.UUID) (*model.EligibilityResult, error)
	RenderCertificate(ctx context.Context, certificateID string) (*model.Certificate, []byte, error)
}

type certificateService struct {
	db         *gorm.DB
	enrollRepo repository.EnrollmentRepository
	certRepo   repository.CertificateRepository
	evaluator  CompletionEvaluator
	ids        IdentifierGenerator
	mailer     Mailer
	renderer   CertificateRenderer
	cfg        config.CertificateConfig
	now        func() time.Time
}

func NewCertificateService(
	db *gorm.DB,
	enrollRepo repository.EnrollmentRepository,
	certRepo repository.CertificateRepository,
	evaluator CompletionEvaluator,
	ids IdentifierGenerator,
	mailer Mailer,
	renderer CertificateRenderer,
	cfg *config.Config,
) CertificateService {
	if mailer == nil {
		mailer = &LogMailer{}
	}
	if renderer == nil {
		renderer = NewCertificateRenderer(cfg.Certificate.IssuerName)
	}
	return &certificateService{
		db:         db,
		enrollRepo: enrollRepo,
		certRepo:   certRepo,
		evaluator:  evaluator,
		ids:        ids,
		mailer:     mailer,
		renderer:   renderer,
		cfg:        cfg.Certificate,
		now:        time.Now,
	}
}

func (s *certificateService) IssueCertificate(ctx context.Context, studentID, courseID uuid.UUID) (*model.Certificate, error) {
	logger := middleware.GetLogger(ctx).With("student_id", studentID.String(), "course_id", courseID.String())

	// 1. enrollment
	if err := s.requireEnrollment(ctx, studentID, courseID); err != nil {
		return nil, err
	}

	// 2. one certificate per (student, course)
	existing, err := s.certRepo.FindByStudentAndCourse(ctx, s.db, studentID, courseID)
	if err == nil {
		return nil, alreadyIssuedError(existing)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	// 3. completion
	result, course, err := s.evaluator.Evaluate(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !result.Completed {
		return nil, notEligibleError(result)
	}

	identity, _ := model.IdentityFromContext(ctx)
	studentName := ""
	if identity.StudentID == studentID {
		studentName = identity.Name
	}

	var issued *model.Certificate
	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		cert, err := s.newCertificate(studentID, course, studentName, result)
		if err != nil {
			return nil, err
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.certRepo.Create(ctx, tx, cert); err != nil {
				return err
			}
			// the enrollment flag is a projection; losing it must not lose the certificate
			if err := tx.SavePoint(enrollmentSavePoint).Error; err != nil {
				logger.Warn("Could not create savepoint, skipping enrollment update", "error", err)
				return nil
			}
			if err := s.enrollRepo.UpdateStatus(ctx, tx, studentID, courseID, model.EnrollmentCompleted); err != nil {
				logger.Warn("Failed to mark enrollment completed after issuing certificate", "error", err)
				return tx.RollbackTo(enrollmentSavePoint).Error
			}
			return nil
		})
		if err == nil {
			issued = cert
			break
		}
		if !errors.Is(err, model.ErrStorageConflict) {
			logger.Error("Transaction failed for IssueCertificate", "error", err)
			return nil, fmt.Errorf("certificateService.IssueCertificate: %w", err)
		}

		// lost a race for this pair, or the generated identifiers collided
		winner, findErr := s.certRepo.FindByStudentAndCourse(ctx, s.db, studentID, courseID)
		if findErr == nil {
			logger.Info("Concurrent issuance detected, returning existing certificate", "certificate_id", winner.CertificateID)
			return nil, alreadyIssuedError(winner)
		}
		if !errors.Is(findErr, model.ErrNotFound) {
			return nil, findErr
		}
		logger.Warn("Certificate identifier collision, regenerating", "attempt", attempt)
	}
	if issued == nil {
		return nil, fmt.Errorf("certificateService.IssueCertificate: identifiers collided %d times", maxIssueAttempts)
	}

	logger.Info("Certificate issued",
		"certificate_id", issued.CertificateID,
		"grade", issued.Grade,
	)
	s.notifyIssued(ctx, identity, issued)
	return issued, nil
}

func (s *certificateService) newCertificate(studentID uuid.UUID, course *model.Course, studentName string, result *model.CompletionResult) (*model.Certificate, error) {
	certificateID, err := s.ids.NewCertificateID()
	if err != nil {
		return nil, err
	}
	code, err := s.ids.NewVerificationCode()
	if err != nil {
		return nil, err
	}
	return &model.Certificate{
		ID:               uuid.New(),
		CertificateID:    certificateID,
		StudentID:        studentID,
		CourseID:         course.CourseID,
		StudentName:      studentName,
		CourseTitle:      course.Title,
		IssuedAt:         s.now().UTC().Truncate(time.Microsecond),
		CompletionDate:   *result.CompletionDate,
		Grade:            result.Grade,
		VerificationCode: code,
	}, nil
}

// notifyIssued is best effort: a failed mail never fails the issuance.
func (s *certificateService) notifyIssued(ctx context.Context, identity model.Identity, cert *model.Certificate) {
	if !s.cfg.NotifyOnIssue || identity.Email == "" || identity.StudentID != cert.StudentID {
		return
	}
	subject, body := certificateIssuedMail(s.cfg.IssuerName, cert)
	if err := s.mailer.Send(ctx, identity.Email, subject, body); err != nil {
		middleware.GetLogger(ctx).Warn("Failed to send certificate notification",
			"error", err,
			"certificate_id", cert.CertificateID,
		)
	}
}

func (s *certificateService) GetMyCertificates(ctx context.Context, studentID uuid.UUID) ([]*model.Certificate, error) {
	return s.certRepo.FindByStudent(ctx, s.db, studentID)
}

func (s *certificateService) GetByCertificateID(ctx context.Context, certificateID string) (*model.Certificate, error) {
	id := normalizeIdentifier(certificateID)
	if id == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "certificateId is required.", "certificateId", model.ErrInvalidInput)
	}
	cert, err := s.certRepo.FindByCertificateID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("CERTIFICATE_NOT_FOUND", "Certificate not found.", "certificateId", model.ErrNotFound)
		}
		return nil, err
	}
	return cert, nil
}

func (s *certificateService) VerifyByCode(ctx context.Context, code string) (*model.Certificate, error) {
	normalized := normalizeIdentifier(code)
	if normalized == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "verificationCode is required.", "verificationCode", model.ErrInvalidInput)
	}
	cert, err := s.certRepo.FindByVerificationCode(ctx, s.db, normalized)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("INVALID_VERIFICATION_CODE", "Invalid verification code.", "verificationCode", model.ErrNotFound)
		}
		return nil, err
	}
	return cert, nil
}

// CheckEligibility runs the issuance preconditions without writing. Business
// outcomes are reported in the result, only lookup failures are errors.
func (s *certificateService) CheckEligibility(ctx context.Context, studentID, courseID uuid.UUID) (*model.EligibilityResult, error) {
	if err := s.requireEnrollment(ctx, studentID, courseID); err != nil {
		if errors.Is(err, model.ErrNotEnrolled) {
			return &model.EligibilityResult{Eligible: false, Error: model.ErrNotEnrolled.Error()}, nil
		}
		return nil, err
	}

	existing, err := s.certRepo.FindByStudentAndCourse(ctx, s.db, studentID, courseID)
	if err == nil {
		grade := existing.Grade
		return &model.EligibilityResult{
			Eligible:    false,
			Completed:   true,
			Grade:       &grade,
			Certificate: existing,
			Error:       model.ErrAlreadyIssued.Error(),
		}, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	result, _, err := s.evaluator.Evaluate(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !result.Completed {
		return &model.EligibilityResult{
			Eligible:  false,
			Completed: false,
			Progress:  result.Shortfall(),
			Error:     result.Reason,
		}, nil
	}
	grade := result.Grade
	return &model.EligibilityResult{
		Eligible:  true,
		Completed: true,
		Grade:     &grade,
	}, nil
}

// RenderCertificate returns the stored certificate together with its PNG.
func (s *certificateService) RenderCertificate(ctx context.Context, certificateID string) (*model.Certificate, []byte, error) {
	cert, err := s.GetByCertificateID(ctx, certificateID)
	if err != nil {
		return nil, nil, err
	}
	img, err := s.renderer.Render(ctx, cert)
	if err != nil {
		return nil, nil, err
	}
	return cert, img, nil
}

func (s *certificateService) requireEnrollment(ctx context.Context, studentID, courseID uuid.UUID) error {
	return requireActiveEnrollment(ctx, s.db, s.enrollRepo, studentID, courseID)
}

func alreadyIssuedError(cert *model.Certificate) error {
	return model.NewAppError("CERTIFICATE_ALREADY_ISSUED", "Certificate already issued for this course.", "courseId", model.ErrAlreadyIssued).
		WithExtra("certificate", cert)
}

func notEligibleError(result *model.CompletionResult) error {
	msg := "Course not completed. Complete all lessons first."
	if result.Reason == reasonNoLessons {
		msg = "Course has no lessons."
	}
	return model.NewAppError("NOT_ELIGIBLE", msg, "courseId", model.ErrNotEligible).
		WithExtra("progress", result.Shortfall())
}
