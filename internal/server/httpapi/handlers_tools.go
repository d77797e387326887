package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ddanilovs/inform/internal/common"
	"github.com/ddanilovs/inform/internal/server/auth"
	"github.com/ddanilovs/inform/internal/server/services"
)

type createToolRequest struct {
	ToolNumber string   `json:"toolNumber"`
	ToolID     string   `json:"toolId"`
	Client     string   `json:"client"`
	BayArea    string   `json:"bayArea"`
	Modules    []string `json:"modules"`
}

func (s *Server) handleCreateTool(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	var req createToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	tool, err := s.tools.CreateTool(r.Context(), session, services.CreateToolInput{
		ToolNumber: req.ToolNumber,
		ToolID:     req.ToolID,
		Client:     req.Client,
		BayArea:    req.BayArea,
		Modules:    req.Modules,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusBadRequest, "Tool already exists")
			return
		}
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(r.Context(), "create tool failed", "error", err)
		}
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toToolDTO(tool))
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	list, err := s.tools.ListTools(r.Context(), session)
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			s.logger.Error(r.Context(), "list tools failed", "error", err)
		}
		s.writeServiceError(w, err)
		return
	}

	result := make([]toolDTO, 0, len(list))
	for _, t := range list {
		result = append(result, toToolDTO(t))
	}

	writeJSON(w, http.StatusOK, result)
}
