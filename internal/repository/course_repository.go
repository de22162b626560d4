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

// CourseRepository reads the course -> module -> lesson -> quiz tree.
type CourseRepository interface {
	FindCourseTree(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error)
	FindLessonByID(ctx context.Context, db *gorm.DB, lessonID uuid.UUID) (*model.Lesson, error)
	FindQuizWithQuestions(ctx context.Context, db *gorm.DB, quizID uuid.UUID) (*model.Quiz, *model.Lesson, error)
}

type gormCourseRepository struct{}

func NewGormCourseRepository() CourseRepository {
	return &gormCourseRepository{}
}

func (r *gormCourseRepository) FindCourseTree(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error) {
	logger := middleware.GetLogger(ctx)
	var course model.Course
	result := db.WithContext(ctx).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_modules.position ASC, course_modules.module_id ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.position ASC, lessons.lesson_id ASC")
		}).
		Preload("Modules.Lessons.Quiz").
		Where("course_id = ?", courseID).
		First(&course)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error loading course tree", "error", result.Error, "course_id", courseID.String())
		return nil, fmt.Errorf("gormCourseRepository.FindCourseTree: %w", result.Error)
	}
	return &course, nil
}

func (r *gormCourseRepository) FindLessonByID(ctx context.Context, db *gorm.DB, lessonID uuid.UUID) (*model.Lesson, error) {
	logger := middleware.GetLogger(ctx)
	var lesson model.Lesson
	result := db.WithContext(ctx).Where("lesson_id = ?", lessonID).First(&lesson)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding lesson by ID", "error", result.Error, "lesson_id", lessonID.String())
		return nil, fmt.Errorf("gormCourseRepository.FindLessonByID: %w", result.Error)
	}
	return &lesson, nil
}

// FindQuizWithQuestions returns the quiz, its questions ordered by index,
// and the lesson it belongs to.
func (r *gormCourseRepository) FindQuizWithQuestions(ctx context.Context, db *gorm.DB, quizID uuid.UUID) (*model.Quiz, *model.Lesson, error) {
	logger := middleware.GetLogger(ctx)
	var quiz model.Quiz
	result := db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.question_index ASC")
		}).
		Where("quiz_id = ?", quizID).
		First(&quiz)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil, model.ErrNotFound
		}
		logger.Error("Error finding quiz by ID", "error", result.Error, "quiz_id", quizID.String())
		return nil, nil, fmt.Errorf("gormCourseRepository.FindQuizWithQuestions: %w", result.Error)
	}

	lesson, err := r.FindLessonByID(ctx, db, quiz.LessonID)
	if err != nil {
		// a quiz whose lesson is gone is unusable
		return nil, nil, err
	}
	return &quiz, lesson, nil
}
