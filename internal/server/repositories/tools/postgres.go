package tools

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ddanilovs/inform/internal/common"
	"github.com/ddanilovs/inform/internal/dbx"
	"github.com/ddanilovs/inform/internal/server/models"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, tool *models.Tool) (*models.Tool, error) {

	modules, err := json.Marshal(tool.Modules)
	if err != nil {
		return nil, fmt.Errorf("marshal modules: %w", err)
	}

	query :=
		`INSERT INTO tools (tool_number, tool_id, client, bay_area, modules, created_by)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		tool.ToolNumber, tool.ToolID, tool.Client, tool.BayArea, modules, tool.CreatedByID).
		Scan(&tool.ID, &tool.CreatedAt, &tool.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tool, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Tool, error) {
	query :=
		`SELECT id, tool_number, tool_id, client, bay_area, modules, created_by, created_at, updated_at
		 FROM tools
		 WHERE id = $1
		 `

	tool := &models.Tool{}
	var modules []byte
	var createdBy sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(&tool.ID, &tool.ToolNumber, &tool.ToolID,
		&tool.Client, &tool.BayArea, &modules, &createdBy, &tool.CreatedAt, &tool.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(modules, &tool.Modules); err != nil {
		return nil, fmt.Errorf("unmarshal modules: %w", err)
	}
	tool.CreatedByID = createdBy.String

	return tool, nil
}

func (r *PostgresRepository) ExistsByNumberOrToolID(ctx context.Context, toolNumber, toolID string) (bool, error) {
	query :=
		`SELECT EXISTS (
		     SELECT 1 FROM tools WHERE tool_number = $1 OR tool_id = $2
		 )`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, toolNumber, toolID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Tool, error) {
	query :=
		`SELECT id, tool_number, tool_id, client, bay_area, modules, created_by, created_at, updated_at
		 FROM tools
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Tool
	for rows.Next() {
		tool := &models.Tool{}
		var modules []byte
		var createdBy sql.NullString

		err := rows.Scan(&tool.ID, &tool.ToolNumber, &tool.ToolID, &tool.Client, &tool.BayArea,
			&modules, &createdBy, &tool.CreatedAt, &tool.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		if err := json.Unmarshal(modules, &tool.Modules); err != nil {
			return nil, fmt.Errorf("unmarshal modules: %w", err)
		}
		tool.CreatedByID = createdBy.String

		result = append(result, tool)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
