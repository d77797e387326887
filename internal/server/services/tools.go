package services

import (
	"context"
	"errors"

	"github.com/ddanilovs/inform/internal/common"
	"github.com/ddanilovs/inform/internal/server/auth"
	"github.com/ddanilovs/inform/internal/server/authz"
	"github.com/ddanilovs/inform/internal/server/models"
	"github.com/ddanilovs/inform/internal/server/repositories/tools"
)

type ToolService struct {
	repo tools.Repository
}

func NewToolService(repo tools.Repository) *ToolService {
	return &ToolService{repo: repo}
}

type CreateToolInput struct {
	ToolNumber string
	ToolID     string
	Client     string
	BayArea    string
	Modules    []string
}

// CreateTool registers a new tool. Both identifiers must be unused; a clash
// on either surfaces as ErrorAlreadyExists. The creator is recorded from the
// acting session, never from the payload.
func (s *ToolService) CreateTool(ctx context.Context, session *auth.Session, input CreateToolInput) (*models.Tool, error) {

	if err := authz.Authorize(session, authz.ActionCreateTool, nil); err != nil {
		return nil, err
	}

	if input.ToolNumber == "" || input.ToolID == "" {
		return nil, common.ErrorValidation
	}

	exists, err := s.repo.ExistsByNumberOrToolID(ctx, input.ToolNumber, input.ToolID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if exists {
		return nil, common.ErrorAlreadyExists
	}

	modules := input.Modules
	if len(modules) == 0 {
		modules = models.DefaultToolModules
	}

	tool := &models.Tool{
		ToolNumber:  input.ToolNumber,
		ToolID:      input.ToolID,
		Client:      input.Client,
		BayArea:     input.BayArea,
		Modules:     modules,
		CreatedByID: session.UserID,
	}

	tool, err = s.repo.Create(ctx, tool)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, common.ErrorInternal
	}

	return tool, nil
}

func (s *ToolService) ListTools(ctx context.Context, session *auth.Session) ([]*models.Tool, error) {

	if err := authz.Authorize(session, authz.ActionListTools, nil); err != nil {
		return nil, err
	}

	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return result, nil
}
