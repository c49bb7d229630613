package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/qaboard/internal/server/apperr"
)

// errorResponse is the JSON envelope for failed requests. The code field is
// the stable application code (ATH-001, ATHR-003, ...), not the HTTP status.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// statusForKind maps the application error taxonomy to HTTP statuses.
// ATHR-001/ATHR-002 and sign-out failures read as 401, policy denials
// (ATHR-003) as 403.
func statusForKind(e *apperr.Error) int {
	switch e.Kind {
	case apperr.KindAuthentication, apperr.KindSignOut:
		return http.StatusUnauthorized
	case apperr.KindAuthorization:
		if e.Code == "ATHR-003" {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		writeJSON(w, statusForKind(appErr), errorResponse{
			Code:    appErr.Code,
			Message: appErr.Description,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    "GEN-001",
		Message: "internal error",
	})
}
