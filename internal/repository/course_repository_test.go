package repository_test

import (
	"context"
	"testing"
	"time"

	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/repository"
	"go_lms_certificate/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCourseRepository_FindCourseTree(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := repository.NewGormCourseRepository()

	fx := testutil.SeedCourse(t, db, "Operating Systems",
		testutil.LessonSpec{Title: "Processes"},
		testutil.LessonSpec{Title: "Scheduling", Questions: 3},
		testutil.LessonSpec{Title: "Memory"},
	)

	course, err := repo.FindCourseTree(ctx, db, fx.Course.CourseID)
	require.NoError(t, err)
	assert.Equal(t, "Operating Systems", course.Title)
	require.Len(t, course.Modules, 1)

	lessonIDs := course.LessonIDs()
	require.Len(t, lessonIDs, 3)
	for i, l := range fx.Lessons {
		assert.Equal(t, l.LessonID, lessonIDs[i], "lesson %d out of order", i)
	}
	assert.Nil(t, course.Modules[0].Lessons[0].Quiz)
	require.NotNil(t, course.Modules[0].Lessons[1].Quiz)

	_, err = repo.FindCourseTree(ctx, db, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGormCourseRepository_FindQuizWithQuestions(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := repository.NewGormCourseRepository()

	fx := testutil.SeedCourse(t, db, "Networks", testutil.LessonSpec{Title: "TCP", Questions: 4, PassingScore: 50})
	lesson := fx.Lessons[0]
	seeded := fx.Quizzes[lesson.LessonID]

	quiz, gotLesson, err := repo.FindQuizWithQuestions(ctx, db, seeded.QuizID)
	require.NoError(t, err)
	assert.Equal(t, lesson.LessonID, gotLesson.LessonID)
	assert.Equal(t, fx.Course.CourseID, gotLesson.CourseID)
	assert.Equal(t, 50, quiz.PassingScore)
	require.Len(t, quiz.Questions, 4)
	for i, q := range quiz.Questions {
		assert.Equal(t, i, q.Index)
		assert.Equal(t, []string{"right", "wrong"}, []string(q.Options))
	}

	_, _, err = repo.FindQuizWithQuestions(ctx, db, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGormQuizAttemptRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := repository.NewGormQuizAttemptRepository()

	fx := testutil.SeedCourse(t, db, "Databases",
		testutil.LessonSpec{Title: "Indexes", Questions: 2},
		testutil.LessonSpec{Title: "Transactions", Questions: 2},
	)
	student := uuid.New()
	q1 := fx.Quizzes[fx.Lessons[0].LessonID]
	q2 := fx.Quizzes[fx.Lessons[1].LessonID]
	base := time.Now().UTC().Truncate(time.Second)

	testutil.RecordAttempt(t, db, student, q1, 50, base)
	testutil.RecordAttempt(t, db, student, q1, 100, base.Add(time.Minute))
	testutil.RecordAttempt(t, db, student, q2, 0, base)
	testutil.RecordAttempt(t, db, uuid.New(), q1, 100, base)

	t.Run("by lessons", func(t *testing.T) {
		got, err := repo.FindByStudentAndLessons(ctx, db, student, []uuid.UUID{fx.Lessons[0].LessonID})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = repo.FindByStudentAndLessons(ctx, db, student, nil)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("by quiz newest first", func(t *testing.T) {
		got, err := repo.FindByStudentAndQuiz(ctx, db, student, q1.QuizID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 100, got[0].Score)
		assert.Equal(t, 50, got[1].Score)
	})

	t.Run("create keeps answers", func(t *testing.T) {
		attempt := &model.QuizAttempt{
			AttemptID:   uuid.New(),
			StudentID:   student,
			QuizID:      q2.QuizID,
			LessonID:    q2.LessonID,
			Answers:     []model.QuizAnswer{{QuestionIndex: 0, SelectedAnswer: 0}, {QuestionIndex: 1, SelectedAnswer: 1}},
			Score:       50,
			AttemptedAt: base.Add(time.Hour),
		}
		require.NoError(t, repo.Create(ctx, db, attempt))

		got, err := repo.FindByStudentAndQuiz(ctx, db, student, q2.QuizID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, attempt.AttemptID, got[0].AttemptID)
		assert.Len(t, got[0].Answers, 2)
		assert.Equal(t, 1, got[0].Answers[1].SelectedAnswer)
	})
}
