// helpers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go_lms_certificate/internal/config"
	"go_lms_certificate/internal/handlers"
	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// httpRequestDetails groups what is needed to send one request.
type httpRequestDetails struct {
	Method    string
	Path      string
	Body      interface{}
	StudentID uuid.UUID // sent as X-Student-ID when set
	Headers   map[string]string
}

// httpResponseExpectations holds the status and error checks for a response.
// Success bodies differ per endpoint and are checked by the caller.
type httpResponseExpectations struct {
	ExpectedCode      int
	ExpectedErrorCode string
}

// sendRequest sends the request, asserts the status code and returns the body.
func sendRequest(t *testing.T, server *httptest.Server, details httpRequestDetails, expectations httpResponseExpectations) (int, []byte) {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		if strPayload, ok := details.Body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")

	if details.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if details.StudentID != uuid.Nil {
		req.Header.Set("X-Student-ID", details.StudentID.String())
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	assert.Equal(t, expectations.ExpectedCode, resp.StatusCode, "Status code mismatch, body: %s", string(respBodyBytes))
	if expectations.ExpectedErrorCode != "" {
		verifyErrorResponse(t, respBodyBytes, expectations.ExpectedErrorCode)
	}

	return resp.StatusCode, respBodyBytes
}

// verifyErrorResponse checks the code of an error body.
func verifyErrorResponse(t *testing.T, bodyBytes []byte, expectedCode string) {
	t.Helper()
	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(bodyBytes, &errResp), "error body is not JSON: %s", string(bodyBytes))
	assert.Equal(t, expectedCode, errResp.Error.Code, "unexpected error code, body: %s", string(bodyBytes))
}

// decodeBody unmarshals a JSON response into a generic map.
func decodeBody(t *testing.T, bodyBytes []byte) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(bodyBytes, &body), "body is not a JSON object: %s", string(bodyBytes))
	return body
}

func devConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.Enabled = false
	cfg.Certificate.IssuerName = "Test Academy"
	return cfg
}

// newTestServer mounts the real router. Services left nil are never reached
// by the calling test.
func newTestServer(t *testing.T, db *gorm.DB, cert service.CertificateService, enroll service.EnrollmentService, prog service.ProgressService, quiz service.QuizService) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := handlers.NewRouter(devConfig(), logger, db, handlers.Handlers{
		Certificate: handlers.NewCertificateHandler(cert, logger),
		Enrollment:  handlers.NewEnrollmentHandler(enroll, logger),
		Progress:    handlers.NewProgressHandler(prog, logger),
		Quiz:        handlers.NewQuizHandler(quiz, logger),
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}
