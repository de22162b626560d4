package service

import (
	"context"
	"testing"

	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/repository"
	"go_lms_certificate/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_enrollmentService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := NewEnrollmentService(db, repository.NewGormCourseRepository(), repository.NewGormEnrollmentRepository())

	fx := testutil.SeedCourse(t, db, "C", testutil.LessonSpec{Title: "L1"})
	student := uuid.New()

	enrollment, err := svc.Enroll(ctx, student, fx.Course.CourseID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)

	_, err = svc.Enroll(ctx, student, fx.Course.CourseID)
	appErr := requireAppError(t, err, model.ErrConflict)
	assert.Equal(t, "ALREADY_ENROLLED", appErr.Code)

	_, err = svc.Enroll(ctx, student, uuid.New())
	requireAppError(t, err, model.ErrNotFound)

	mine, err := svc.ListMyEnrollments(ctx, student)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, fx.Course.CourseID, mine[0].CourseID)

	require.NoError(t, svc.Unenroll(ctx, student, fx.Course.CourseID))
	err = svc.Unenroll(ctx, student, fx.Course.CourseID)
	requireAppError(t, err, model.ErrNotFound)

	mine, err = svc.ListMyEnrollments(ctx, student)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestEnrollmentStatus_RejectsUnknownValues(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := repository.NewGormEnrollmentRepository()
	fx := testutil.SeedCourse(t, db, "C", testutil.LessonSpec{Title: "L1"})
	student := uuid.New()
	testutil.Enroll(t, db, student, fx.Course.CourseID, model.EnrollmentActive)

	err := repo.UpdateStatus(ctx, db, student, fx.Course.CourseID, model.EnrollmentStatus("graduated"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	// a bad value written behind the model's back is rejected on read
	require.NoError(t, db.Exec("UPDATE enrollments SET status = ? WHERE student_id = ?", "graduated", student).Error)
	_, err = repo.FindByStudentAndCourse(ctx, db, student, fx.Course.CourseID)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
