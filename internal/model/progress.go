// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// LessonProgress is the completion flag of one lesson for one student.
// CourseID is always copied from the lesson's parent course on write.
type LessonProgress struct {
	ProgressID  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"progressId"`
	StudentID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_progress_student_lesson;index:idx_progress_student_course" json:"studentId"`
	LessonID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_progress_student_lesson" json:"lessonId"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_progress_student_course" json:"courseId"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

type UpdateLessonProgressRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// CourseProgress summarises a student's lesson completion in one course.
type CourseProgress struct {
	CourseID         uuid.UUID        `json:"courseId"`
	CompletedLessons int              `json:"completedLessons"`
	TotalLessons     int              `json:"totalLessons"`
	Percent          int              `json:"percent"`
	Lessons          []LessonProgress `json:"lessons"`
}
