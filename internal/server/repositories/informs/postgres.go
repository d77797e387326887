package informs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ddanilovs/inform/internal/common"
	"github.com/ddanilovs/inform/internal/dbx"
	"github.com/ddanilovs/inform/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// viewColumns joins the inform with its tool and both user references.
const viewColumns = `
	i.id, i.tool, i.module, i.title, i.content, i.images, i.status,
	i.created_by, i.last_edited_by, i.created_at, i.updated_at,
	t.tool_number, t.tool_id, t.client, t.bay_area,
	cu.name, cu.email,
	eu.name, eu.email`

const viewJoins = `
	FROM informs i
	JOIN tools t ON t.id = i.tool
	JOIN users cu ON cu.id = i.created_by
	JOIN users eu ON eu.id = i.last_edited_by`

func (r *PostgresRepository) Create(ctx context.Context, inform *models.Inform) (*models.Inform, error) {

	images, err := json.Marshal(orEmpty(inform.Images))
	if err != nil {
		return nil, fmt.Errorf("marshal images: %w", err)
	}

	query :=
		`INSERT INTO informs (tool, module, title, content, images, status, created_by, last_edited_by)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		inform.ToolID, inform.Module, inform.Title, inform.Content, images,
		inform.Status, inform.CreatedByID, inform.LastEditedByID).
		Scan(&inform.ID, &inform.CreatedAt, &inform.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return inform, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.InformView, error) {
	query := `SELECT` + viewColumns + viewJoins + ` WHERE i.id = $1`

	view, err := scanView(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return view, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.InformView, error) {
	query := `SELECT` + viewColumns + viewJoins
	args := []any{}
	if ownerID != "" {
		query += ` WHERE i.created_by = $1`
		args = append(args, ownerID)
	}
	query += ` ORDER BY i.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.InformView
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Update writes the mutable fields, the acting editor, and updated_at in one
// statement, so concurrent saves resolve to exactly one writer's state.
func (r *PostgresRepository) Update(ctx context.Context, inform *models.Inform) error {

	images, err := json.Marshal(orEmpty(inform.Images))
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}

	query :=
		`UPDATE informs
		 SET tool = $2, module = $3, title = $4, content = $5, images = $6,
		     status = $7, last_edited_by = $8, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, inform.ID,
		inform.ToolID, inform.Module, inform.Title, inform.Content, images,
		inform.Status, inform.LastEditedByID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM informs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanView(row scanner) (*models.InformView, error) {
	view := &models.InformView{}
	var images []byte

	err := row.Scan(
		&view.ID, &view.ToolID, &view.Module, &view.Title, &view.Content, &images, &view.Status,
		&view.CreatedByID, &view.LastEditedByID, &view.CreatedAt, &view.UpdatedAt,
		&view.Tool.ToolNumber, &view.Tool.ToolID, &view.Tool.Client, &view.Tool.BayArea,
		&view.CreatedBy.Name, &view.CreatedBy.Email,
		&view.LastEditedBy.Name, &view.LastEditedBy.Email,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(images, &view.Images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}

	view.Tool.ID = view.ToolID
	view.CreatedBy.ID = view.CreatedByID
	view.LastEditedBy.ID = view.LastEditedByID

	return view, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
