package services

import (
	"context"
	"errors"

	"github.com/ddanilovs/inform/internal/common"
	"github.com/ddanilovs/inform/internal/server/auth"
	"github.com/ddanilovs/inform/internal/server/authz"
	"github.com/ddanilovs/inform/internal/server/models"
	"github.com/ddanilovs/inform/internal/server/repositories/informs"
	"github.com/ddanilovs/inform/internal/server/repositories/tools"
)

type InformService struct {
	repo     informs.Repository
	toolRepo tools.Repository
}

func NewInformService(repo informs.Repository, toolRepo tools.Repository) *InformService {
	return &InformService{repo: repo, toolRepo: toolRepo}
}

// CreateInformInput deliberately has no creator field: ownership is assigned
// from the authenticated session at creation time, and anything the client
// sends for it is dropped during decoding.
type CreateInformInput struct {
	ToolID  string
	Module  string
	Title   string
	Content string
	Images  []string
}

func (s *InformService) Create(ctx context.Context, session *auth.Session, input CreateInformInput) (*models.InformView, error) {

	if err := authz.Authorize(session, authz.ActionCreateInform, nil); err != nil {
		return nil, err
	}

	if input.ToolID == "" || input.Module == "" {
		return nil, common.ErrorValidation
	}

	tool, err := s.toolRepo.GetByID(ctx, input.ToolID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorValidation
		}
		return nil, common.ErrorInternal
	}
	if !tool.HasModule(input.Module) {
		return nil, common.ErrorValidation
	}

	inform := &models.Inform{
		ToolID:         input.ToolID,
		Module:         input.Module,
		Title:          input.Title,
		Content:        input.Content,
		Images:         input.Images,
		Status:         models.StatusOpen,
		CreatedByID:    session.UserID,
		LastEditedByID: session.UserID,
	}

	inform, err = s.repo.Create(ctx, inform)
	if err != nil {
		return nil, common.ErrorInternal
	}

	view, err := s.repo.GetByID(ctx, inform.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return view, nil
}

// Get returns one inform. Non-admins only see their own records; a foreign
// record is denied without confirming what the denial was about.
func (s *InformService) Get(ctx context.Context, session *auth.Session, id string) (*models.InformView, error) {

	view, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// the policy still decides whether the caller could have seen it
			if authErr := authz.Authorize(session, authz.ActionListInforms, nil); authErr != nil {
				return nil, authErr
			}
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	resource := &authz.Resource{OwnerID: view.CreatedByID, Status: view.Status}
	if err := authz.Authorize(session, authz.ActionReadInform, resource); err != nil {
		return nil, err
	}

	return view, nil
}

// List returns all informs for administrators and only the caller's own for
// everyone else.
func (s *InformService) List(ctx context.Context, session *auth.Session) ([]*models.InformView, error) {

	if err := authz.Authorize(session, authz.ActionListInforms, nil); err != nil {
		return nil, err
	}

	ownerID := ""
	if !session.IsAdmin() {
		ownerID = session.UserID
	}

	result, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return result, nil
}

// UpdateInformInput is the edit payload. Nil fields are left untouched.
// There is no creator field here either; ownership never moves.
type UpdateInformInput struct {
	ToolID  *string
	Module  *string
	Title   *string
	Content *string
	Images  *[]string
	Status  *string
}

// Update edits an inform. The ownership and lifecycle gates run against the
// record's current state; a status change additionally requires the admin
// role. The acting identity and the refreshed timestamp are persisted
// together with the change.
func (s *InformService) Update(ctx context.Context, session *auth.Session, id string, input UpdateInformInput) (*models.InformView, error) {

	view, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			if authErr := authz.Authorize(session, authz.ActionListInforms, nil); authErr != nil {
				return nil, authErr
			}
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	resource := &authz.Resource{OwnerID: view.CreatedByID, Status: view.Status}
	if err := authz.Authorize(session, authz.ActionEditInform, resource); err != nil {
		return nil, err
	}

	inform := view.Inform

	if input.Status != nil && *input.Status != inform.Status {
		if err := authz.Authorize(session, authz.ActionChangeInformStatus, resource); err != nil {
			return nil, err
		}
		if *input.Status != models.StatusOpen && *input.Status != models.StatusCompleted {
			return nil, common.ErrorValidation
		}
		inform.Status = *input.Status
	}

	if input.ToolID != nil {
		inform.ToolID = *input.ToolID
	}
	if input.Module != nil {
		inform.Module = *input.Module
	}
	if input.ToolID != nil || input.Module != nil {
		tool, err := s.toolRepo.GetByID(ctx, inform.ToolID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorValidation
			}
			return nil, common.ErrorInternal
		}
		if !tool.HasModule(inform.Module) {
			return nil, common.ErrorValidation
		}
	}
	if input.Title != nil {
		inform.Title = *input.Title
	}
	if input.Content != nil {
		inform.Content = *input.Content
	}
	if input.Images != nil {
		inform.Images = *input.Images
	}

	inform.LastEditedByID = session.UserID

	if err := s.repo.Update(ctx, &inform); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return updated, nil
}

func (s *InformService) Delete(ctx context.Context, session *auth.Session, id string) error {

	if err := authz.Authorize(session, authz.ActionDeleteInform, nil); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	return nil
}
