// internal/model/certificate.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Certificate is the issued credential. It is never updated or deleted.
// StudentName and CourseTitle are display snapshots taken at issue time.
type Certificate struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CertificateID    string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_certificate_public_id" json:"certificateId"`
	StudentID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_certificate_student_course" json:"studentId"`
	CourseID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_certificate_student_course" json:"courseId"`
	StudentName      string    `json:"studentName"`
	CourseTitle      string    `json:"courseTitle"`
	IssuedAt         time.Time `gorm:"not null" json:"issuedAt"`
	CompletionDate   time.Time `gorm:"not null" json:"completionDate"`
	Grade            int       `gorm:"not null" json:"grade"`
	VerificationCode string    `gorm:"type:varchar(32);not null;uniqueIndex:uq_certificate_verification_code" json:"verificationCode"`
}

func (Certificate) TableName() string {
	return "certificates"
}

type IssueCertificateRequest struct {
	CourseID string `json:"courseId" validate:"required,uuid"`
}

type VerifyCertificateRequest struct {
	VerificationCode string `json:"verificationCode" validate:"required"`
}

type IssueCertificateResponse struct {
	Message     string       `json:"message"`
	Certificate *Certificate `json:"certificate"`
}

type VerifyCertificateResponse struct {
	Verified    bool         `json:"verified"`
	Certificate *Certificate `json:"certificate,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// ProgressShortfall is reported when a course is not yet completed.
type ProgressShortfall struct {
	CompletedLessons int `json:"completedLessons"`
	TotalLessons     int `json:"totalLessons"`
}

// CompletionResult is the output of the completion evaluation.
type CompletionResult struct {
	Completed          bool       `json:"completed"`
	Reason             string     `json:"reason,omitempty"`
	CompletedLessons   int        `json:"completedLessons"`
	TotalLessons       int        `json:"totalLessons"`
	Grade              int        `json:"grade"`
	CompletionDate     *time.Time `json:"completionDate,omitempty"`
	CompletionLessonID *uuid.UUID `json:"completionLessonId,omitempty"`
}

func (r CompletionResult) Shortfall() *ProgressShortfall {
	return &ProgressShortfall{
		CompletedLessons: r.CompletedLessons,
		TotalLessons:     r.TotalLessons,
	}
}

// EligibilityResult answers "may this student be issued a certificate now".
type EligibilityResult struct {
	Eligible    bool               `json:"eligible"`
	Completed   bool               `json:"completed"`
	Grade       *int               `json:"grade"`
	Progress    *ProgressShortfall `json:"progress,omitempty"`
	Certificate *Certificate       `json:"certificate,omitempty"`
	Error       string             `json:"error,omitempty"`
}
