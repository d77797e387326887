package tools

import (
	"context"

	"github.com/ddanilovs/inform/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, tool *models.Tool) (*models.Tool, error)
	GetByID(ctx context.Context, id string) (*models.Tool, error)
	// ExistsByNumberOrToolID reports whether any tool already carries either
	// identifier.
	ExistsByNumberOrToolID(ctx context.Context, toolNumber, toolID string) (bool, error)
	List(ctx context.Context) ([]*models.Tool, error)
}
