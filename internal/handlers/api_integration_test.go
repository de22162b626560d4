package handlers_test

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/repository"
	"go_lms_certificate/internal/service"
	"go_lms_certificate/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newAPIServer wires the real services over a private SQLite database.
func newAPIServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)

	courseRepo := repository.NewGormCourseRepository()
	enrollRepo := repository.NewGormEnrollmentRepository()
	progRepo := repository.NewGormProgressRepository()
	attemptRepo := repository.NewGormQuizAttemptRepository()
	certRepo := repository.NewGormCertificateRepository()

	cfg := devConfig()
	evaluator := service.NewCompletionEvaluator(db, courseRepo, progRepo, attemptRepo)
	certService := service.NewCertificateService(db, enrollRepo, certRepo, evaluator,
		service.NewIdentifierGenerator(), &service.LogMailer{}, nil, cfg)

	server := newTestServer(t, db,
		certService,
		service.NewEnrollmentService(db, courseRepo, enrollRepo),
		service.NewProgressService(db, courseRepo, enrollRepo, progRepo),
		service.NewQuizService(db, courseRepo, enrollRepo, attemptRepo),
	)
	return server, db
}

// quizAnswers answers the first `right` questions correctly (option 0) and
// the rest wrongly.
func quizAnswers(total, right int) map[string]interface{} {
	answers := make([]map[string]int, 0, total)
	for i := 0; i < total; i++ {
		selected := 1
		if i < right {
			selected = 0
		}
		answers = append(answers, map[string]int{"questionIndex": i, "selectedAnswer": selected})
	}
	return map[string]interface{}{"answers": answers}
}

func TestAPI_CertificateLifecycle(t *testing.T) {
	server, db := newAPIServer(t)
	fx := testutil.SeedCourse(t, db, "Distributed Systems",
		testutil.LessonSpec{Title: "Consensus"},
		testutil.LessonSpec{Title: "Replication", Questions: 5},
	)
	courseID := fx.Course.CourseID.String()
	l1, l2 := fx.Lessons[0], fx.Lessons[1]
	quiz := fx.Quizzes[l2.LessonID]

	student := uuid.New()
	as := func(method, path string, body interface{}) httpRequestDetails {
		return httpRequestDetails{
			Method:    method,
			Path:      path,
			Body:      body,
			StudentID: student,
			Headers:   map[string]string{"X-Student-Name": "Ada Lovelace"},
		}
	}
	expect := func(code int) httpResponseExpectations {
		return httpResponseExpectations{ExpectedCode: code}
	}

	// not enrolled yet
	sendRequest(t, server, as(http.MethodPost, "/api/v1/certificates/issue", map[string]string{"courseId": courseID}),
		httpResponseExpectations{ExpectedCode: http.StatusForbidden, ExpectedErrorCode: "NOT_ENROLLED"})

	_, body := sendRequest(t, server, as(http.MethodPost, "/api/v1/enrollments", map[string]string{"courseId": courseID}), expect(http.StatusCreated))
	assert.Equal(t, "active", decodeBody(t, body)["status"])

	sendRequest(t, server, as(http.MethodPost, "/api/v1/enrollments", map[string]string{"courseId": courseID}),
		httpResponseExpectations{ExpectedCode: http.StatusConflict, ExpectedErrorCode: "ALREADY_ENROLLED"})

	// nothing completed
	_, body = sendRequest(t, server, as(http.MethodPost, "/api/v1/certificates/issue", map[string]string{"courseId": courseID}),
		httpResponseExpectations{ExpectedCode: http.StatusBadRequest, ExpectedErrorCode: "NOT_ELIGIBLE"})
	progress := decodeBody(t, body)["progress"].(map[string]interface{})
	assert.EqualValues(t, 0, progress["completedLessons"])
	assert.EqualValues(t, 2, progress["totalLessons"])

	sendRequest(t, server, as(http.MethodPut, "/api/v1/progress/lessons/"+l1.LessonID.String(), map[string]bool{"completed": true}), expect(http.StatusOK))

	_, body = sendRequest(t, server, as(http.MethodGet, "/api/v1/certificates/check/"+courseID, nil), expect(http.StatusOK))
	check := decodeBody(t, body)
	assert.Equal(t, false, check["eligible"])
	assert.EqualValues(t, 1, check["progress"].(map[string]interface{})["completedLessons"])

	_, body = sendRequest(t, server, as(http.MethodPut, "/api/v1/progress/lessons/"+l2.LessonID.String(), map[string]bool{"completed": true}), expect(http.StatusOK))
	assert.Equal(t, true, decodeBody(t, body)["completed"])

	_, body = sendRequest(t, server, as(http.MethodGet, "/api/v1/progress/courses/"+courseID, nil), expect(http.StatusOK))
	summary := decodeBody(t, body)
	assert.EqualValues(t, 2, summary["completedLessons"])
	assert.EqualValues(t, 100, summary["percent"])

	// two attempts, the best one counts
	attemptsPath := "/api/v1/quizzes/" + quiz.QuizID.String() + "/attempts"
	_, body = sendRequest(t, server, as(http.MethodPost, attemptsPath, quizAnswers(5, 3)), expect(http.StatusCreated))
	assert.EqualValues(t, 60, decodeBody(t, body)["score"])
	_, body = sendRequest(t, server, as(http.MethodPost, attemptsPath, quizAnswers(5, 4)), expect(http.StatusCreated))
	assert.EqualValues(t, 80, decodeBody(t, body)["score"])

	_, body = sendRequest(t, server, as(http.MethodGet, attemptsPath, nil), expect(http.StatusOK))
	var attempts []model.QuizAttempt
	require.NoError(t, json.Unmarshal(body, &attempts))
	assert.Len(t, attempts, 2)

	_, body = sendRequest(t, server, as(http.MethodGet, "/api/v1/certificates/check/"+courseID, nil), expect(http.StatusOK))
	check = decodeBody(t, body)
	assert.Equal(t, true, check["eligible"])
	assert.Equal(t, true, check["completed"])
	assert.EqualValues(t, 80, check["grade"])

	// issue
	_, body = sendRequest(t, server, as(http.MethodPost, "/api/v1/certificates/issue", map[string]string{"courseId": courseID}), expect(http.StatusCreated))
	var issued model.IssueCertificateResponse
	require.NoError(t, json.Unmarshal(body, &issued))
	require.NotNil(t, issued.Certificate)
	cert := issued.Certificate
	assert.Equal(t, 80, cert.Grade)
	assert.Equal(t, "Ada Lovelace", cert.StudentName)
	assert.Equal(t, "Distributed Systems", cert.CourseTitle)
	assert.True(t, strings.HasPrefix(cert.CertificateID, "CERT-"))
	assert.Len(t, cert.VerificationCode, 32)

	// issuing again returns the same certificate in the error body
	_, body = sendRequest(t, server, as(http.MethodPost, "/api/v1/certificates/issue", map[string]string{"courseId": courseID}),
		httpResponseExpectations{ExpectedCode: http.StatusBadRequest, ExpectedErrorCode: "CERTIFICATE_ALREADY_ISSUED"})
	existing := decodeBody(t, body)["certificate"].(map[string]interface{})
	assert.Equal(t, cert.CertificateID, existing["certificateId"])

	_, body = sendRequest(t, server, as(http.MethodGet, "/api/v1/enrollments/my", nil), expect(http.StatusOK))
	var enrollments []model.Enrollment
	require.NoError(t, json.Unmarshal(body, &enrollments))
	require.Len(t, enrollments, 1)
	assert.Equal(t, model.EnrollmentCompleted, enrollments[0].Status)

	_, body = sendRequest(t, server, as(http.MethodGet, "/api/v1/certificates/my-certificates", nil), expect(http.StatusOK))
	var mine []model.Certificate
	require.NoError(t, json.Unmarshal(body, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, cert.CertificateID, mine[0].CertificateID)

	// a third party verifies with the lower-cased code and no credentials
	_, body = sendRequest(t, server, httpRequestDetails{
		Method: http.MethodPost,
		Path:   "/api/v1/certificates/verify",
		Body:   map[string]string{"verificationCode": strings.ToLower(cert.VerificationCode)},
	}, expect(http.StatusOK))
	var verified model.VerifyCertificateResponse
	require.NoError(t, json.Unmarshal(body, &verified))
	assert.True(t, verified.Verified)
	require.NotNil(t, verified.Certificate)
	assert.Equal(t, cert.CertificateID, verified.Certificate.CertificateID)

	_, body = sendRequest(t, server, httpRequestDetails{
		Method: http.MethodPost,
		Path:   "/api/v1/certificates/verify",
		Body:   map[string]string{"verificationCode": strings.Repeat("0", 32)},
	}, expect(http.StatusNotFound))
	assert.Equal(t, false, decodeBody(t, body)["verified"])

	_, body = sendRequest(t, server, httpRequestDetails{
		Method: http.MethodGet,
		Path:   "/api/v1/certificates/" + cert.CertificateID,
	}, expect(http.StatusOK))
	assert.Equal(t, cert.VerificationCode, decodeBody(t, body)["verificationCode"])

	resp, err := server.Client().Get(server.URL + "/api/v1/certificates/" + cert.CertificateID + "/image")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), img.Bounds().Dy())

	// unenrolling keeps the certificate
	sendRequest(t, server, as(http.MethodDelete, "/api/v1/enrollments/"+courseID, nil), expect(http.StatusNoContent))
	sendRequest(t, server, httpRequestDetails{
		Method: http.MethodGet,
		Path:   "/api/v1/certificates/" + cert.CertificateID,
	}, expect(http.StatusOK))
}

func TestAPI_ProgressOnUnknownLesson(t *testing.T) {
	server, _ := newAPIServer(t)

	sendRequest(t, server, httpRequestDetails{
		Method:    http.MethodPut,
		Path:      "/api/v1/progress/lessons/" + uuid.NewString(),
		Body:      map[string]bool{"completed": true},
		StudentID: uuid.New(),
	}, httpResponseExpectations{
		ExpectedCode:      http.StatusNotFound,
		ExpectedErrorCode: "LESSON_NOT_FOUND",
	})
}

func TestAPI_RoleCheck(t *testing.T) {
	server, db := newAPIServer(t)
	fx := testutil.SeedCourse(t, db, "Compilers", testutil.LessonSpec{Title: "Parsing"})

	sendRequest(t, server, httpRequestDetails{
		Method:    http.MethodPost,
		Path:      "/api/v1/certificates/issue",
		Body:      map[string]string{"courseId": fx.Course.CourseID.String()},
		StudentID: uuid.New(),
		Headers:   map[string]string{"X-Student-Role": model.RoleInstructor},
	}, httpResponseExpectations{
		ExpectedCode:      http.StatusForbidden,
		ExpectedErrorCode: "FORBIDDEN",
	})
}

func TestAPI_Health(t *testing.T) {
	server, _ := newAPIServer(t)

	resp, err := server.Client().Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
