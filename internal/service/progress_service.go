package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go_lms_certificate/internal/middleware"
	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgressService interface {
	SetLessonProgress(ctx context.Context, studentID, lessonID uuid.UUID, completed bool) (*model.LessonProgress, error)
	GetCourseProgress(ctx context.Context, studentID, courseID uuid.UUID) (*model.CourseProgress, error)
}

type progressService struct {
	db         *gorm.DB
	courseRepo repository.CourseRepository
	enrollRepo repository.EnrollmentRepository
	progRepo   repository.ProgressRepository
	now        func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	courseRepo repository.CourseRepository,
	enrollRepo repository.EnrollmentRepository,
	progRepo repository.ProgressRepository,
) ProgressService {
	return &progressService{
		db:         db,
		courseRepo: courseRepo,
		enrollRepo: enrollRepo,
		progRepo:   progRepo,
		now:        time.Now,
	}
}

// SetLessonProgress creates the record on first write and updates it in
// place afterwards. The course is always taken from the lesson.
func (s *progressService) SetLessonProgress(ctx context.Context, studentID, lessonID uuid.UUID, completed bool) (*model.LessonProgress, error) {
	logger := middleware.GetLogger(ctx)

	lesson, err := s.courseRepo.FindLessonByID(ctx, s.db, lessonID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("LESSON_NOT_FOUND", "Lesson not found.", "lessonId", model.ErrNotFound)
		}
		return nil, err
	}
	if err := requireActiveEnrollment(ctx, s.db, s.enrollRepo, studentID, lesson.CourseID); err != nil {
		return nil, err
	}

	var saved *model.LessonProgress
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.upsert(ctx, tx, studentID, lesson, completed)
		saved = p
		return err
	})
	if errors.Is(err, model.ErrStorageConflict) {
		// a concurrent first write created the row; apply ours on top
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			p, err := s.upsert(ctx, tx, studentID, lesson, completed)
			saved = p
			return err
		})
	}
	if err != nil {
		logger.Error("Transaction failed for SetLessonProgress", "error", err, "lesson_id", lessonID.String())
		return nil, fmt.Errorf("progressService.SetLessonProgress: %w", err)
	}
	return saved, nil
}

func (s *progressService) upsert(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, lesson *model.Lesson, completed bool) (*model.LessonProgress, error) {
	now := s.now()
	progress, err := s.progRepo.FindByStudentAndLesson(ctx, tx, studentID, lesson.LessonID)
	if errors.Is(err, model.ErrNotFound) {
		progress = &model.LessonProgress{
			ProgressID: uuid.New(),
			StudentID:  studentID,
			LessonID:   lesson.LessonID,
			CourseID:   lesson.CourseID,
			Completed:  completed,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if completed {
			progress.CompletedAt = &now
		}
		if err := s.progRepo.Create(ctx, tx, progress); err != nil {
			return nil, err
		}
		return progress, nil
	}
	if err != nil {
		return nil, err
	}

	progress.CourseID = lesson.CourseID
	switch {
	case completed && !progress.Completed:
		progress.CompletedAt = &now
	case !completed:
		progress.CompletedAt = nil
	}
	// re-completing keeps the original completedAt
	progress.Completed = completed
	progress.UpdatedAt = now
	if err := s.progRepo.Update(ctx, tx, progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *progressService) GetCourseProgress(ctx context.Context, studentID, courseID uuid.UUID) (*model.CourseProgress, error) {
	course, err := s.courseRepo.FindCourseTree(ctx, s.db, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("COURSE_NOT_FOUND", "Course not found.", "courseId", model.ErrNotFound)
		}
		return nil, err
	}
	if err := requireActiveEnrollment(ctx, s.db, s.enrollRepo, studentID, courseID); err != nil {
		return nil, err
	}

	records, err := s.progRepo.FindByStudentAndCourse(ctx, s.db, studentID, courseID)
	if err != nil {
		return nil, err
	}

	lessonIDs := course.LessonIDs()
	completed := countCompleted(lessonIDs, records)
	percent := 0
	if len(lessonIDs) > 0 {
		percent = int(math.Round(100 * float64(completed) / float64(len(lessonIDs))))
	}
	return &model.CourseProgress{
		CourseID:         courseID,
		CompletedLessons: completed,
		TotalLessons:     len(lessonIDs),
		Percent:          percent,
		Lessons:          records,
	}, nil
}
