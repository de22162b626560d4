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

func TestGormEnrollmentRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := repository.NewGormEnrollmentRepository()

	student, course := uuid.New(), uuid.New()
	now := time.Now().UTC()
	enrollment := &model.Enrollment{
		EnrollmentID: uuid.New(),
		StudentID:    student,
		CourseID:     course,
		Status:       model.EnrollmentActive,
		EnrolledAt:   now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(ctx, db, enrollment))

	t.Run("duplicate pair is a storage conflict", func(t *testing.T) {
		dup := *enrollment
		dup.EnrollmentID = uuid.New()
		assert.ErrorIs(t, repo.Create(ctx, db, &dup), model.ErrStorageConflict)
	})

	t.Run("update status", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, db, student, course, model.EnrollmentCompleted))
		got, err := repo.FindByStudentAndCourse(ctx, db, student, course)
		require.NoError(t, err)
		assert.Equal(t, model.EnrollmentCompleted, got.Status)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, db, student, course, model.EnrollmentStatus("graduated"))
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("update of missing enrollment", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, db, uuid.New(), course, model.EnrollmentCompleted)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("find by student", func(t *testing.T) {
		got, err := repo.FindByStudent(ctx, db, student)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, course, got[0].CourseID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, db, student, course))
		_, err := repo.FindByStudentAndCourse(ctx, db, student, course)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, db, student, course), model.ErrNotFound)
	})
}
