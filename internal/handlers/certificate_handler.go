// internal/handlers/certificate_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"go_lms_certificate/internal/middleware"
	"go_lms_certificate/internal/model"
	"go_lms_certificate/internal/service"
	"go_lms_certificate/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CertificateHandler struct {
	service service.CertificateService
	logger  *slog.Logger
}

func NewCertificateHandler(s service.CertificateService, logger *slog.Logger) *CertificateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CertificateHandler{
		service: s,
		logger:  logger,
	}
}

// IssueCertificate handles POST /certificates/issue.
func (h *CertificateHandler) IssueCertificate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "IssueCertificate"))

	studentID, err := middleware.GetStudentIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("student_id", studentID.String()))

	var req model.IssueCertificateRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		webutil.HandleError(w, logger, invalidUUIDError("courseId"))
		return
	}

	cert, err := h.service.IssueCertificate(r.Context(), studentID, courseID)
	if err != nil {
		logger.Info("Certificate not issued", slog.String("course_id", courseID.String()), slog.String("reason", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusCreated, model.IssueCertificateResponse{
		Message:     "Certificate issued successfully",
		Certificate: cert,
	}, logger)
}

// GetMyCertificates handles GET /certificates/my-certificates.
func (h *CertificateHandler) GetMyCertificates(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetMyCertificates"))

	studentID, err := middleware.GetStudentIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	certs, err := h.service.GetMyCertificates(r.Context(), studentID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, certs, logger)
}

// GetCertificate handles GET /certificates/{certificateId}. Public.
func (h *CertificateHandler) GetCertificate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCertificate"))

	cert, err := h.service.GetByCertificateID(r.Context(), chi.URLParam(r, "certificateId"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, cert, logger)
}

// GetCertificateImage handles GET /certificates/{certificateId}/image. Public.
func (h *CertificateHandler) GetCertificateImage(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCertificateImage"))

	cert, img, err := h.service.RenderCertificate(r.Context(), chi.URLParam(r, "certificateId"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Header().Set("Content-Disposition", `inline; filename="`+cert.CertificateID+`.png"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		logger.Warn("Failed to write certificate image", slog.String("error", err.Error()))
	}
}

// VerifyCertificate handles POST /certificates/verify. Public: a third party
// holding the verification code needs no account.
func (h *CertificateHandler) VerifyCertificate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "VerifyCertificate"))

	var req model.VerifyCertificateRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	cert, err := h.service.VerifyByCode(r.Context(), req.VerificationCode)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			webutil.RespondWithJSON(w, http.StatusNotFound, model.VerifyCertificateResponse{
				Verified: false,
				Error:    "Invalid verification code",
			}, logger)
			return
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, model.VerifyCertificateResponse{
		Verified:    true,
		Certificate: cert,
	}, logger)
}

// CheckEligibility handles GET /certificates/check/{courseId}.
func (h *CertificateHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CheckEligibility"))

	studentID, err := middleware.GetStudentIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	courseID, err := uuidParam(r, "courseId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	result, err := h.service.CheckEligibility(r.Context(), studentID, courseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
