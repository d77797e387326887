package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ddanilovs/inform/internal/common"
	"github.com/ddanilovs/inform/internal/server/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing credentials")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	result, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(r.Context(), "login failed", "error", err)
		}
		s.writeServiceError(w, err)
		return
	}

	if result.RequiresPasswordChange {
		writeJSON(w, http.StatusOK, map[string]any{
			"token":                  result.Token,
			"requiresPasswordChange": true,
			"message":                "Password change required",
			"user":                   toUserDTO(result.User),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": result.Token,
		"user":  toUserDTO(result.User),
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "New password is required")
		return
	}
	if req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "New password is required")
		return
	}
	if session.Kind == auth.SessionFull && req.CurrentPassword == "" {
		writeError(w, http.StatusBadRequest, "Current password is required")
		return
	}

	result, err := s.users.ChangePassword(r.Context(), session, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(r.Context(), "change password failed", "error", err)
		}
		s.writeServiceError(w, err)
		return
	}

	// a full-session caller keeps its existing token; a restricted caller
	// gets the freshly issued full one
	token := result.Token
	if token == "" {
		token, _ = bearerToken(r.Header.Get("Authorization"))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Password changed successfully",
		"token":   token,
		"user":    toUserDTO(result.User),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	resp := map[string]any{
		"id":    session.UserID,
		"email": session.Email,
		"role":  session.Role,
		"name":  session.Name,
	}
	if session.Kind == auth.SessionRestricted {
		resp["restricted"] = true
	}
	writeJSON(w, http.StatusOK, resp)
}
