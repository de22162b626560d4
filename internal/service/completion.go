// internal/service/completion.go
package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go_lms_certificate/internal/middleware"
	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const reasonNoLessons = "course has no lessons"

// CompletionEvaluator decides whether a student has finished a course and
// with which grade. It never writes.
type CompletionEvaluator interface {
	Evaluate(ctx context.Context, studentID, courseID uuid.UUID) (*model.CompletionResult, *model.Course, error)
}

type completionEvaluator struct {
	db          *gorm.DB
	courseRepo  repository.CourseRepository
	progRepo    repository.ProgressRepository
	attemptRepo repository.QuizAttemptRepository
}

func NewCompletionEvaluator(
	db *gorm.DB,
	courseRepo repository.CourseRepository,
	progRepo repository.ProgressRepository,
	attemptRepo repository.QuizAttemptRepository,
) CompletionEvaluator {
	return &completionEvaluator{
		db:          db,
		courseRepo:  courseRepo,
		progRepo:    progRepo,
		attemptRepo: attemptRepo,
	}
}

// Evaluate loads the course tree, the student's completed lessons and quiz
// attempts, and reduces them with EvaluateCompletion. The loaded course is
// returned alongside so callers can reuse its title.
func (e *completionEvaluator) Evaluate(ctx context.Context, studentID, courseID uuid.UUID) (*model.CompletionResult, *model.Course, error) {
	logger := middleware.GetLogger(ctx)

	course, err := e.courseRepo.FindCourseTree(ctx, e.db, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil, model.NewAppError("COURSE_NOT_FOUND", "Course not found.", "courseId", model.ErrNotFound)
		}
		return nil, nil, err
	}

	lessonIDs := course.LessonIDs()
	if len(lessonIDs) == 0 {
		result := EvaluateCompletion(lessonIDs, nil, nil)
		return &result, course, nil
	}

	progress, err := e.progRepo.FindCompletedByStudentAndLessons(ctx, e.db, studentID, lessonIDs)
	if err != nil {
		return nil, nil, err
	}

	// attempts only matter once every lesson is done
	var attempts []model.QuizAttempt
	if countCompleted(lessonIDs, progress) == len(lessonIDs) {
		attempts, err = e.attemptRepo.FindByStudentAndLessons(ctx, e.db, studentID, lessonIDs)
		if err != nil {
			return nil, nil, err
		}
	}

	result := EvaluateCompletion(lessonIDs, progress, attempts)
	logger.Debug("Evaluated course completion",
		"student_id", studentID.String(),
		"course_id", courseID.String(),
		"completed", result.Completed,
		"completed_lessons", result.CompletedLessons,
		"total_lessons", result.TotalLessons,
		"grade", result.Grade,
	)
	return &result, course, nil
}

// EvaluateCompletion is the pure completion rule.
//
// Every lesson in lessonIDs needs a completed progress record. The grade is
// the rounded mean of the best score per quiz, or 100 when no quiz was
// attempted. The completion date is the latest completedAt; on equal
// timestamps the lowest lesson ID is reported.
func EvaluateCompletion(lessonIDs []uuid.UUID, progress []model.LessonProgress, attempts []model.QuizAttempt) model.CompletionResult {
	total := len(lessonIDs)
	if total == 0 {
		return model.CompletionResult{Completed: false, Reason: reasonNoLessons}
	}

	inCourse := make(map[uuid.UUID]bool, total)
	for _, id := range lessonIDs {
		inCourse[id] = true
	}

	completedAt := make(map[uuid.UUID]time.Time, total)
	for _, p := range progress {
		if !p.Completed || !inCourse[p.LessonID] {
			continue
		}
		ts := p.UpdatedAt
		if p.CompletedAt != nil {
			ts = *p.CompletedAt
		}
		completedAt[p.LessonID] = ts
	}

	completed := len(completedAt)
	if completed < total {
		return model.CompletionResult{
			Completed:        false,
			Reason:           "not all lessons are completed",
			CompletedLessons: completed,
			TotalLessons:     total,
		}
	}

	var (
		latest       time.Time
		latestLesson uuid.UUID
		found        bool
	)
	for lessonID, ts := range completedAt {
		switch {
		case !found || ts.After(latest):
			latest, latestLesson, found = ts, lessonID, true
		case ts.Equal(latest) && lessonID.String() < latestLesson.String():
			latestLesson = lessonID
		}
	}

	grade := aggregateGrade(inCourse, attempts)
	completionDate := latest
	return model.CompletionResult{
		Completed:          true,
		CompletedLessons:   completed,
		TotalLessons:       total,
		Grade:              grade,
		CompletionDate:     &completionDate,
		CompletionLessonID: &latestLesson,
	}
}

func aggregateGrade(inCourse map[uuid.UUID]bool, attempts []model.QuizAttempt) int {
	best := make(map[uuid.UUID]int)
	for _, a := range attempts {
		if !inCourse[a.LessonID] {
			continue
		}
		if prev, ok := best[a.QuizID]; !ok || a.Score > prev {
			best[a.QuizID] = a.Score
		}
	}
	if len(best) == 0 {
		return 100
	}
	sum := 0
	for _, score := range best {
		sum += score
	}
	return int(math.Round(float64(sum) / float64(len(best))))
}

func countCompleted(lessonIDs []uuid.UUID, progress []model.LessonProgress) int {
	inCourse := make(map[uuid.UUID]bool, len(lessonIDs))
	for _, id := range lessonIDs {
		inCourse[id] = true
	}
	seen := make(map[uuid.UUID]bool, len(progress))
	for _, p := range progress {
		if p.Completed && inCourse[p.LessonID] {
			seen[p.LessonID] = true
		}
	}
	return len(seen)
}
