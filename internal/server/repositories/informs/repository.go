package informs

import (
	"context"

	"github.com/ddanilovs/inform/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, inform *models.Inform) (*models.Inform, error)
	GetByID(ctx context.Context, id string) (*models.InformView, error)
	// List returns informs joined with tool and user summaries, newest first.
	// An empty ownerID returns all informs; otherwise only those created by
	// the given identity.
	List(ctx context.Context, ownerID string) ([]*models.InformView, error)
	// Update persists the record's mutable fields, the acting editor, and the
	// refreshed timestamp in a single statement.
	Update(ctx context.Context, inform *models.Inform) error
	Delete(ctx context.Context, id string) error
}
