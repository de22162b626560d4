// internal/model/quiz.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizAnswer struct {
	QuestionIndex  int `json:"questionIndex"`
	SelectedAnswer int `json:"selectedAnswer"`
}

// QuizAttempt is one graded submission. Attempts are append-only.
type QuizAttempt struct {
	AttemptID   uuid.UUID                       `gorm:"type:uuid;primaryKey" json:"attemptId"`
	StudentID   uuid.UUID                       `gorm:"type:uuid;not null;index:idx_attempt_student_lesson;index:idx_attempt_student_quiz" json:"studentId"`
	QuizID      uuid.UUID                       `gorm:"type:uuid;not null;index:idx_attempt_student_quiz" json:"quizId"`
	LessonID    uuid.UUID                       `gorm:"type:uuid;not null;index:idx_attempt_student_lesson" json:"lessonId"`
	Answers     datatypes.JSONSlice[QuizAnswer] `json:"answers"`
	Score       int                             `gorm:"not null" json:"score"`
	Passed      bool                            `gorm:"not null" json:"passed"`
	AttemptedAt time.Time                       `gorm:"not null" json:"attemptedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

type SubmitQuizAnswer struct {
	QuestionIndex  *int `json:"questionIndex" validate:"required,min=0"`
	SelectedAnswer *int `json:"selectedAnswer" validate:"required,min=0"`
}

type SubmitQuizRequest struct {
	Answers []SubmitQuizAnswer `json:"answers" validate:"required,min=1,dive"`
}
