// internal/model/enrollment.go
package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnrollmentStatus is a closed set; anything else is rejected both when
// written and when read back from the database.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
	EnrollmentPaused    EnrollmentStatus = "paused"
)

func ParseEnrollmentStatus(s string) (EnrollmentStatus, error) {
	switch st := EnrollmentStatus(s); st {
	case EnrollmentActive, EnrollmentCompleted, EnrollmentDropped, EnrollmentPaused:
		return st, nil
	default:
		return "", fmt.Errorf("unknown enrollment status %q: %w", s, ErrInvalidInput)
	}
}

func (s EnrollmentStatus) Value() (driver.Value, error) {
	if _, err := ParseEnrollmentStatus(string(s)); err != nil {
		return nil, err
	}
	return string(s), nil
}

func (s *EnrollmentStatus) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into EnrollmentStatus", src)
	}
	st, err := ParseEnrollmentStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Enrollment registers a student in a course. One row per (student, course).
type Enrollment struct {
	EnrollmentID uuid.UUID        `gorm:"type:uuid;primaryKey" json:"enrollmentId"`
	StudentID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_enrollment_student_course" json:"studentId"`
	CourseID     uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_enrollment_student_course;index" json:"courseId"`
	Status       EnrollmentStatus `gorm:"type:varchar(20);not null" json:"status"`
	EnrolledAt   time.Time        `gorm:"not null" json:"enrolledAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// IsEnrolled reports whether the enrollment still grants course access.
func (e *Enrollment) IsEnrolled() bool {
	return e != nil && e.Status != EnrollmentDropped
}

type EnrollRequest struct {
	CourseID string `json:"courseId" validate:"required,uuid"`
}
