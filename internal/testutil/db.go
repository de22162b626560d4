// Package testutil holds SQLite-backed fixtures shared by the store,
// service and handler tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with the full schema.
// A single connection serialises concurrent transactions the way a real
// database's row locks would for the same key.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repository.AutoMigrate(db), "failed to migrate")
	return db
}

// CourseFixture describes a seeded course. Lessons are in display order.
type CourseFixture struct {
	Course  model.Course
	Lessons []model.Lesson
	Quizzes map[uuid.UUID]model.Quiz // keyed by lesson ID
}

// LessonSpec configures one seeded lesson. A lesson gets a quiz when
// Questions > 0; every question's correct answer is option 0.
type LessonSpec struct {
	Title        string
	Questions    int
	PassingScore int
}

// SeedCourse inserts a course with a single module holding the given lessons.
func SeedCourse(t *testing.T, db *gorm.DB, title string, lessons ...LessonSpec) *CourseFixture {
	t.Helper()
	fx := &CourseFixture{
		Course: model.Course{
			CourseID: uuid.New(),
			Title:    title,
		},
		Quizzes: make(map[uuid.UUID]model.Quiz),
	}
	require.NoError(t, db.Create(&fx.Course).Error)

	module := model.Module{
		ModuleID: uuid.New(),
		CourseID: fx.Course.CourseID,
		Title:    "Module 1",
		Position: 1,
	}
	require.NoError(t, db.Create(&module).Error)

	for i, spec := range lessons {
		lesson := model.Lesson{
			LessonID: uuid.New(),
			ModuleID: module.ModuleID,
			CourseID: fx.Course.CourseID,
			Title:    spec.Title,
			Position: i + 1,
		}
		require.NoError(t, db.Create(&lesson).Error)

		if spec.Questions > 0 {
			passing := spec.PassingScore
			if passing == 0 {
				passing = 70
			}
			quiz := model.Quiz{
				QuizID:       uuid.New(),
				LessonID:     lesson.LessonID,
				Title:        spec.Title + " quiz",
				PassingScore: passing,
			}
			require.NoError(t, db.Create(&quiz).Error)
			for q := 0; q < spec.Questions; q++ {
				question := model.QuizQuestion{
					QuestionID:    uuid.New(),
					QuizID:        quiz.QuizID,
					Index:         q,
					Prompt:        fmt.Sprintf("Question %d", q+1),
					Options:       []string{"right", "wrong"},
					CorrectAnswer: 0,
				}
				require.NoError(t, db.Create(&question).Error)
				quiz.Questions = append(quiz.Questions, question)
			}
			fx.Quizzes[lesson.LessonID] = quiz
		}
		fx.Lessons = append(fx.Lessons, lesson)
	}
	return fx
}

// Enroll inserts an enrollment row directly.
func Enroll(t *testing.T, db *gorm.DB, studentID, courseID uuid.UUID, status model.EnrollmentStatus) *model.Enrollment {
	t.Helper()
	now := time.Now()
	e := &model.Enrollment{
		EnrollmentID: uuid.New(),
		StudentID:    studentID,
		CourseID:     courseID,
		Status:       status,
		EnrolledAt:   now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

// CompleteLesson inserts a completed progress record at the given time.
func CompleteLesson(t *testing.T, db *gorm.DB, studentID uuid.UUID, lesson model.Lesson, at time.Time) *model.LessonProgress {
	t.Helper()
	p := &model.LessonProgress{
		ProgressID:  uuid.New(),
		StudentID:   studentID,
		LessonID:    lesson.LessonID,
		CourseID:    lesson.CourseID,
		Completed:   true,
		CompletedAt: &at,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// RecordAttempt inserts a quiz attempt with a fixed score.
func RecordAttempt(t *testing.T, db *gorm.DB, studentID uuid.UUID, quiz model.Quiz, score int, at time.Time) *model.QuizAttempt {
	t.Helper()
	a := &model.QuizAttempt{
		AttemptID:   uuid.New(),
		StudentID:   studentID,
		QuizID:      quiz.QuizID,
		LessonID:    quiz.LessonID,
		Answers:     []model.QuizAnswer{},
		Score:       score,
		Passed:      score >= quiz.PassingScore,
		AttemptedAt: at,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}
