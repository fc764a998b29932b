package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hausgraph/autochain/internal/domain"
)

// ErrorResp is the JSON error envelope of the ops API.
type ErrorResp struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError

	var (
		validationErr *domain.ValidationErr
		notFoundErr   *domain.NotFoundErr
		modelErr      *domain.ModelUnavailableErr
	)
	switch {
	case errors.As(err, &validationErr):
		statusCode = http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		statusCode = http.StatusNotFound
	case errors.As(err, &modelErr):
		statusCode = http.StatusServiceUnavailable
	}

	respondJSON(w, statusCode, ErrorResp{Error: err.Error()})
}
