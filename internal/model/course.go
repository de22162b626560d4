// internal/model/course.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Course is the root of the module -> lesson tree. Authoring lives outside
// this service; the tables are only read here.
type Course struct {
	CourseID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"courseId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Modules []Module `gorm:"foreignKey:CourseID;references:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// LessonIDs flattens the module -> lesson tree in display order.
func (c *Course) LessonIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0)
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			ids = append(ids, l.LessonID)
		}
	}
	return ids
}

type Module struct {
	ModuleID uuid.UUID `gorm:"type:uuid;primaryKey" json:"moduleId"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"courseId"`
	Title    string    `gorm:"not null" json:"title"`
	Position int       `gorm:"not null;default:0" json:"position"`

	Lessons []Lesson `gorm:"foreignKey:ModuleID;references:ModuleID" json:"lessons,omitempty"`
}

func (Module) TableName() string {
	return "course_modules"
}

// Lesson belongs to a module. CourseID is denormalised from the module so
// progress writes can derive the parent course without a join.
type Lesson struct {
	LessonID uuid.UUID `gorm:"type:uuid;primaryKey" json:"lessonId"`
	ModuleID uuid.UUID `gorm:"type:uuid;not null;index" json:"moduleId"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"courseId"`
	Title    string    `gorm:"not null" json:"title"`
	Position int       `gorm:"not null;default:0" json:"position"`

	Quiz *Quiz `gorm:"foreignKey:LessonID;references:LessonID" json:"quiz,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type Quiz struct {
	QuizID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"quizId"`
	LessonID     uuid.UUID `gorm:"type:uuid;not null;index" json:"lessonId"`
	Title        string    `json:"title"`
	PassingScore int       `gorm:"not null;default:70" json:"passingScore"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID;references:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type QuizQuestion struct {
	QuestionID    uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"questionId"`
	QuizID        uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:uq_quiz_question_index" json:"quizId"`
	Index         int                         `gorm:"column:question_index;not null;uniqueIndex:uq_quiz_question_index" json:"questionIndex"`
	Prompt        string                      `gorm:"not null" json:"prompt"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer int                         `gorm:"not null" json:"-"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
