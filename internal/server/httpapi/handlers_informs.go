package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ddanilovs/inform/internal/common"
	"github.com/ddanilovs/inform/internal/server/auth"
	"github.com/ddanilovs/inform/internal/server/services"
)

// createInformRequest has no creator field on purpose: ownership comes from
// the session, and a client-supplied value is dropped by the decoder.
type createInformRequest struct {
	Tool    string   `json:"tool"`
	Module  string   `json:"module"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

func (s *Server) handleCreateInform(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	var req createInformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	view, err := s.informs.Create(r.Context(), session, services.CreateInformInput{
		ToolID:  req.Tool,
		Module:  req.Module,
		Title:   req.Title,
		Content: req.Content,
		Images:  req.Images,
	})
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(r.Context(), "create inform failed", "error", err)
		}
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toInformDTO(view))
}

func (s *Server) handleListInforms(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	views, err := s.informs.List(r.Context(), session)
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(r.Context(), "list informs failed", "error", err)
		}
		s.writeServiceError(w, err)
		return
	}

	result := make([]informDTO, 0, len(views))
	for _, v := range views {
		result = append(result, toInformDTO(v))
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetInform(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	id := r.PathValue("id")

	view, err := s.informs.Get(r.Context(), session, id)
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(r.Context(), "get inform failed", "error", err, "id", id)
		}
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toInformDTOShaped(view, session.IsAdmin()))
}

type updateInformRequest struct {
	Tool    *string   `json:"tool"`
	Module  *string   `json:"module"`
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Images  *[]string `json:"images"`
	Status  *string   `json:"status"`
}

func (s *Server) handleUpdateInform(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	id := r.PathValue("id")

	var req updateInformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	view, err := s.informs.Update(r.Context(), session, id, services.UpdateInformInput{
		ToolID:  req.Tool,
		Module:  req.Module,
		Title:   req.Title,
		Content: req.Content,
		Images:  req.Images,
		Status:  req.Status,
	})
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(r.Context(), "update inform failed", "error", err, "id", id)
		}
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toInformDTOShaped(view, session.IsAdmin()))
}

func (s *Server) handleDeleteInform(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	id := r.PathValue("id")

	if err := s.informs.Delete(r.Context(), session, id); err != nil {
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(r.Context(), "delete inform failed", "error", err, "id", id)
		}
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Inform deleted successfully",
	})
}

func (s *Server) handlePresignUpload(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	key, url, err := s.attachments.PresignUpload(r.Context(), session)
	if err != nil {
		s.logger.Error(r.Context(), "presign upload failed", "error", err)
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
}

func (s *Server) handlePresignDownload(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	key := r.PathValue("key")

	url, err := s.attachments.PresignDownload(r.Context(), session, key)
	if err != nil {
		s.logger.Error(r.Context(), "presign download failed", "error", err, "key", key)
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
