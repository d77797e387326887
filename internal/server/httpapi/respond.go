package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ddanilovs/inform/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the service error taxonomy onto the HTTP status
// contract. Denial messages are deliberately uniform: a caller learns that it
// was not permitted, never why. Internal failures return an opaque message;
// the handler logs the details server-side before calling this.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, common.ErrorAccountDisabled):
		writeError(w, http.StatusForbidden, "Account is disabled. Please contact administrator.")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		writeError(w, http.StatusForbidden, "You don't have permission to perform this action")
	case errors.Is(err, common.ErrorWeakPassword):
		writeError(w, http.StatusBadRequest, "Password does not meet the minimum length")
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusBadRequest, "Already exists")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}
