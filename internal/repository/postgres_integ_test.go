package repository_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/repository"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// PostgresSuite runs the stores against a throwaway Postgres container.
// Opt in with POSTGRES_INTEGRATION=1; a running Docker daemon is required.
type PostgresSuite struct {
	suite.Suite

	pool     *dockertest.Pool
	resource *dockertest.Resource
	db       *gorm.DB
}

func TestPostgresSuite(t *testing.T) {
	if os.Getenv("POSTGRES_INTEGRATION") != "1" {
		t.Skip("set POSTGRES_INTEGRATION=1 to run against a Postgres container")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	pool, err := dockertest.NewPool("")
	s.Require().NoError(err, "Could not construct pool")
	pool.MaxWait = 120 * time.Second
	s.Require().NoError(pool.Client.Ping(), "Could not connect to Docker")
	s.pool = pool

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_USER=user",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=lms",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	s.Require().NoError(err, "Could not start PostgreSQL resource")
	s.resource = resource
	resource.Expire(300)

	databaseURL := fmt.Sprintf("postgres://user:secret@%s/lms?sslmode=disable", resource.GetHostPort("5432/tcp"))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err = pool.Retry(func() error {
		var errRetry error
		s.db, errRetry = repository.NewDB(databaseURL, logger)
		return errRetry
	})
	s.Require().NoError(err, "Could not connect to PostgreSQL container")
	s.Require().NoError(repository.AutoMigrate(s.db))
}

func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if s.resource != nil {
		if err := s.pool.Purge(s.resource); err != nil {
			s.T().Logf("Could not purge resource: %s", err)
		}
	}
}

func (s *PostgresSuite) TestCertificateUniqueUnderConcurrency() {
	ctx := context.Background()
	repo := repository.NewGormCertificateRepository()

	student, course := uuid.New(), uuid.New()
	const workers = 10

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
		others    []error
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			cert := newCertificate(student, course,
				fmt.Sprintf("CERT-PG-%08d", i),
				fmt.Sprintf("%032X", i+1),
				time.Now().UTC())
			err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				return repo.Create(ctx, tx, cert)
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, model.ErrStorageConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	s.Empty(others)
	s.Equal(1, created)
	s.Equal(workers-1, conflicts)

	got, err := repo.FindByStudentAndCourse(ctx, s.db, student, course)
	s.Require().NoError(err)
	s.Equal(student, got.StudentID)
}

func (s *PostgresSuite) TestEnrollmentStatusRejectsUnknownValue() {
	ctx := context.Background()
	repo := repository.NewGormEnrollmentRepository()

	student, course := uuid.New(), uuid.New()
	now := time.Now().UTC()
	s.Require().NoError(repo.Create(ctx, s.db, &model.Enrollment{
		EnrollmentID: uuid.New(),
		StudentID:    student,
		CourseID:     course,
		Status:       model.EnrollmentActive,
		EnrolledAt:   now,
		UpdatedAt:    now,
	}))

	s.Require().NoError(s.db.Exec(`UPDATE enrollments SET status = 'archived' WHERE student_id = ?`, student).Error)
	_, err := repo.FindByStudentAndCourse(ctx, s.db, student, course)
	s.Error(err)
}
