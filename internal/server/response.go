package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desertthunder/prima/internal/shared"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: apiError{Code: code, Message: message}})
}

// errorStatus maps a domain error to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, shared.ErrNoPlatforms):
		return http.StatusBadRequest, "NO_PLATFORMS"
	case errors.Is(err, shared.ErrShiftActive):
		return http.StatusConflict, "SHIFT_ACTIVE"
	case errors.Is(err, shared.ErrNoActiveShift):
		return http.StatusConflict, "NO_ACTIVE_SHIFT"
	case errors.Is(err, shared.ErrTaskNotFound), errors.Is(err, shared.ErrGuideNotFound), errors.Is(err, shared.ErrShiftNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, shared.ErrInvalidSignature), errors.Is(err, shared.ErrNotAuthenticated):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, shared.ErrInitDataExpired):
		return http.StatusUnauthorized, "INIT_DATA_EXPIRED"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal error"
	}
	writeError(w, status, code, message)
}
