package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ddanilovs/inform/internal/common"
	"github.com/ddanilovs/inform/internal/server/auth"
	"github.com/ddanilovs/inform/internal/server/models"
)

// --- helpers ---

type fakeToolsRepo struct {
	byID map[string]*models.Tool
}

func newFakeToolsRepo() *fakeToolsRepo {
	return &fakeToolsRepo{byID: map[string]*models.Tool{}}
}

func (f *fakeToolsRepo) Create(ctx context.Context, tool *models.Tool) (*models.Tool, error) {
	if tool.ID == "" {
		tool.ID = tool.ToolNumber
	}
	f.byID[tool.ID] = tool
	return tool, nil
}

func (f *fakeToolsRepo) GetByID(ctx context.Context, id string) (*models.Tool, error) {
	tool, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return tool, nil
}

func (f *fakeToolsRepo) ExistsByNumberOrToolID(ctx context.Context, toolNumber, toolID string) (bool, error) {
	for _, t := range f.byID {
		if t.ToolNumber == toolNumber || t.ToolID == toolID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeToolsRepo) List(ctx context.Context) ([]*models.Tool, error) {
	result := make([]*models.Tool, 0, len(f.byID))
	for _, t := range f.byID {
		result = append(result, t)
	}
	return result, nil
}

type fakeInformsRepo struct {
	byID map[string]*models.Inform

	nextID  int
	updated int
	deleted int
}

func newFakeInformsRepo() *fakeInformsRepo {
	return &fakeInformsRepo{byID: map[string]*models.Inform{}}
}

func (f *fakeInformsRepo) Create(ctx context.Context, inform *models.Inform) (*models.Inform, error) {
	f.nextID++
	copy := *inform
	if copy.ID == "" {
		copy.ID = string(rune('a' + f.nextID - 1))
	}
	f.byID[copy.ID] = &copy
	return &copy, nil
}

func (f *fakeInformsRepo) GetByID(ctx context.Context, id string) (*models.InformView, error) {
	inform, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.InformView{Inform: *inform}, nil
}

func (f *fakeInformsRepo) List(ctx context.Context, ownerID string) ([]*models.InformView, error) {
	result := []*models.InformView{}
	for _, inform := range f.byID {
		if ownerID != "" && inform.CreatedByID != ownerID {
			continue
		}
		result = append(result, &models.InformView{Inform: *inform})
	}
	return result, nil
}

func (f *fakeInformsRepo) Update(ctx context.Context, inform *models.Inform) error {
	if _, ok := f.byID[inform.ID]; !ok {
		return common.ErrorNotFound
	}
	f.updated++
	copy := *inform
	f.byID[copy.ID] = &copy
	return nil
}

func (f *fakeInformsRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	f.deleted++
	delete(f.byID, id)
	return nil
}

func newTestInformService() (*InformService, *fakeInformsRepo, *fakeToolsRepo) {
	informs := newFakeInformsRepo()
	tools := newFakeToolsRepo()
	tools.byID["t1"] = &models.Tool{
		ID:         "t1",
		ToolNumber: "TN-100",
		ToolID:     "TID-100",
		Modules:    models.DefaultToolModules,
	}
	return NewInformService(informs, tools), informs, tools
}

func userSession(id string) *auth.Session {
	return &auth.Session{UserID: id, Role: models.RoleUser, Kind: auth.SessionFull}
}

// --- create ---

func TestCreateInform_OwnershipFromSession(t *testing.T) {
	s, repo, _ := newTestInformService()

	view, err := s.Create(context.Background(), userSession("bob"), CreateInformInput{
		ToolID:  "t1",
		Module:  "PM1",
		Title:   "chamber leak",
		Content: "found a leak on the PM1 chamber door seal",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if view.CreatedByID != "bob" || view.LastEditedByID != "bob" {
		t.Fatalf("ownership must come from the session: %+v", view.Inform)
	}
	if view.Status != models.StatusOpen {
		t.Fatalf("new inform must start OPEN, got %s", view.Status)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected one stored inform")
	}
}

func TestCreateInform_UnknownModule(t *testing.T) {
	s, _, _ := newTestInformService()

	_, err := s.Create(context.Background(), userSession("bob"), CreateInformInput{
		ToolID: "t1",
		Module: "PM9",
		Title:  "x",
	})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation for unknown module, got %v", err)
	}
}

func TestCreateInform_UnknownTool(t *testing.T) {
	s, _, _ := newTestInformService()

	_, err := s.Create(context.Background(), userSession("bob"), CreateInformInput{
		ToolID: "missing",
		Module: "PM1",
	})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation for unknown tool, got %v", err)
	}
}

func TestCreateInform_RestrictedSessionDenied(t *testing.T) {
	s, _, _ := newTestInformService()

	session := &auth.Session{UserID: "alice", Role: models.RoleUser, Kind: auth.SessionRestricted}
	_, err := s.Create(context.Background(), session, CreateInformInput{ToolID: "t1", Module: "PM1"})
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized for restricted session, got %v", err)
	}
}

// --- read ---

func TestGetInform_ForeignRecordDenied(t *testing.T) {
	s, repo, _ := newTestInformService()
	repo.byID["i1"] = &models.Inform{ID: "i1", ToolID: "t1", Module: "PM1", Status: models.StatusOpen, CreatedByID: "carol"}

	_, err := s.Get(context.Background(), userSession("dave"), "i1")
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("expected ErrorForbidden for a foreign record, got %v", err)
	}
}

func TestGetInform_OwnerAndAdminAllowed(t *testing.T) {
	s, repo, _ := newTestInformService()
	repo.byID["i1"] = &models.Inform{ID: "i1", ToolID: "t1", Module: "PM1", Status: models.StatusOpen, CreatedByID: "carol"}

	if _, err := s.Get(context.Background(), userSession("carol"), "i1"); err != nil {
		t.Fatalf("owner read error: %v", err)
	}
	if _, err := s.Get(context.Background(), adminSession(), "i1"); err != nil {
		t.Fatalf("admin read error: %v", err)
	}
}

func TestListInforms_ScopedByRole(t *testing.T) {
	s, repo, _ := newTestInformService()
	repo.byID["i1"] = &models.Inform{ID: "i1", CreatedByID: "carol", Status: models.StatusOpen}
	repo.byID["i2"] = &models.Inform{ID: "i2", CreatedByID: "dave", Status: models.StatusOpen}

	own, err := s.List(context.Background(), userSession("carol"))
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(own) != 1 || own[0].ID != "i1" {
		t.Fatalf("non-admin must only see own informs: %+v", own)
	}

	all, err := s.List(context.Background(), adminSession())
	if err != nil {
		t.Fatalf("admin List error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin must see all informs, got %d", len(all))
	}
}

// --- update ---

func TestUpdateInform_CompletedLocksOwner(t *testing.T) {
	s, repo, _ := newTestInformService()
	repo.byID["i1"] = &models.Inform{ID: "i1", ToolID: "t1", Module: "PM1", Status: models.StatusCompleted, CreatedByID: "bob"}

	title := "late edit"
	_, err := s.Update(context.Background(), userSession("bob"), "i1", UpdateInformInput{Title: &title})
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("expected ErrorForbidden on a completed inform, got %v", err)
	}

	view, err := s.Update(context.Background(), adminSession(), "i1", UpdateInformInput{Title: &title})
	if err != nil {
		t.Fatalf("admin edit of completed inform error: %v", err)
	}
	if view.Title != "late edit" {
		t.Fatalf("admin edit was not applied: %+v", view.Inform)
	}
}

func TestUpdateInform_StatusChangeAdminOnly(t *testing.T) {
	s, repo, _ := newTestInformService()
	repo.byID["i1"] = &models.Inform{ID: "i1", ToolID: "t1", Module: "PM1", Status: models.StatusOpen, CreatedByID: "bob"}

	completed := models.StatusCompleted
	_, err := s.Update(context.Background(), userSession("bob"), "i1", UpdateInformInput{Status: &completed})
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("expected ErrorForbidden for owner status change, got %v", err)
	}

	view, err := s.Update(context.Background(), adminSession(), "i1", UpdateInformInput{Status: &completed})
	if err != nil {
		t.Fatalf("admin status change error: %v", err)
	}
	if view.Status != models.StatusCompleted {
		t.Fatalf("status change was not applied: %s", view.Status)
	}
}

func TestUpdateInform_InvalidStatusValue(t *testing.T) {
	s, repo, _ := newTestInformService()
	repo.byID["i1"] = &models.Inform{ID: "i1", ToolID: "t1", Module: "PM1", Status: models.StatusOpen, CreatedByID: "bob"}

	bad := "ARCHIVED"
	_, err := s.Update(context.Background(), adminSession(), "i1", UpdateInformInput{Status: &bad})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation for unknown status, got %v", err)
	}
}

func TestUpdateInform_ModuleRevalidated(t *testing.T) {
	s, repo, tools := newTestInformService()
	tools.byID["t2"] = &models.Tool{ID: "t2", ToolNumber: "TN-200", ToolID: "TID-200", Modules: []string{"EFEM"}}
	repo.byID["i1"] = &models.Inform{ID: "i1", ToolID: "t1", Module: "PM1", Status: models.StatusOpen, CreatedByID: "bob"}

	// moving to a tool that lacks the record's module must fail
	target := "t2"
	_, err := s.Update(context.Background(), userSession("bob"), "i1", UpdateInformInput{ToolID: &target})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation for module not on tool, got %v", err)
	}

	// moving tool and module together is fine when they match
	module := "EFEM"
	view, err := s.Update(context.Background(), userSession("bob"), "i1", UpdateInformInput{ToolID: &target, Module: &module})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if view.ToolID != "t2" || view.Module != "EFEM" {
		t.Fatalf("tool move was not applied: %+v", view.Inform)
	}
}

func TestUpdateInform_RecordsEditor(t *testing.T) {
	s, repo, _ := newTestInformService()
	repo.byID["i1"] = &models.Inform{ID: "i1", ToolID: "t1", Module: "PM1", Status: models.StatusOpen, CreatedByID: "bob", LastEditedByID: "bob"}

	content := "replaced the seal, leak test passed"
	view, err := s.Update(context.Background(), adminSession(), "i1", UpdateInformInput{Content: &content})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if view.CreatedByID != "bob" {
		t.Fatalf("ownership must never move, got %s", view.CreatedByID)
	}
	if view.LastEditedByID != "admin1" {
		t.Fatalf("editor must be the acting identity, got %s", view.LastEditedByID)
	}
}

// --- delete ---

func TestDeleteInform_AdminOnly(t *testing.T) {
	s, repo, _ := newTestInformService()
	repo.byID["i1"] = &models.Inform{ID: "i1", CreatedByID: "bob", Status: models.StatusOpen}

	err := s.Delete(context.Background(), userSession("bob"), "i1")
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("expected ErrorForbidden for owner delete, got %v", err)
	}
	if repo.deleted != 0 {
		t.Fatalf("denied delete must not touch the store")
	}

	if err := s.Delete(context.Background(), adminSession(), "i1"); err != nil {
		t.Fatalf("admin delete error: %v", err)
	}
	if repo.deleted != 1 {
		t.Fatalf("expected one delete")
	}
}
