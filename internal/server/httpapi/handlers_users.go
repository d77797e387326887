package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ddanilovs/inform/internal/common"
	"github.com/ddanilovs/inform/internal/server/auth"
	"github.com/ddanilovs/inform/internal/server/services"
)

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	user, err := s.users.CreateUser(r.Context(), session, services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(r.Context(), "create user failed", "error", err)
		}
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserAdminDTO(user))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	list, err := s.users.ListUsers(r.Context(), session)
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(r.Context(), "list users failed", "error", err)
		}
		s.writeServiceError(w, err)
		return
	}

	result := make([]userAdminDTO, 0, len(list))
	for _, u := range list {
		result = append(result, toUserAdminDTO(u))
	}

	writeJSON(w, http.StatusOK, result)
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
	IsActive *bool   `json:"isActive"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	id := r.PathValue("id")

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	user, err := s.users.UpdateUser(r.Context(), session, id, services.UpdateUserInput{
		Name:     req.Name,
		Role:     req.Role,
		Password: req.Password,
		IsActive: req.IsActive,
	})
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(r.Context(), "update user failed", "error", err, "id", id)
		}
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserAdminDTO(user))
}

type setUserActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

func (s *Server) handleSetUserActive(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	id := r.PathValue("id")

	var req setUserActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		writeError(w, http.StatusBadRequest, "isActive must be true or false")
		return
	}

	user, err := s.users.SetUserActive(r.Context(), session, id, *req.IsActive)
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(r.Context(), "set user active failed", "error", err, "id", id)
		}
		s.writeServiceError(w, err)
		return
	}

	message := "User deactivated successfully"
	if user.IsActive {
		message = "User activated successfully"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": message,
		"user": map[string]any{
			"id":       user.ID,
			"email":    user.Email,
			"isActive": user.IsActive,
		},
	})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	id := r.PathValue("id")

	user, err := s.users.DeleteUser(r.Context(), session, id)
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(r.Context(), "delete user failed", "error", err, "id", id)
		}
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User deleted successfully",
		"user":    map[string]string{"id": user.ID, "email": user.Email},
	})
}
