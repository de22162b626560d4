package handlers

import (
	"net/http"

	"go_lms_certificate/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// uuidParam reads a UUID path parameter.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, invalidUUIDError(name)
	}
	return id, nil
}

func invalidUUIDError(field string) error {
	return model.NewAppError("VALIDATION_ERROR", field+" must be a valid UUID.", field, model.ErrInvalidInput)
}
