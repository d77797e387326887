package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ddanilovs/inform/internal/server/migrations"
	"github.com/ddanilovs/inform/internal/server/repositories/informs"
	"github.com/ddanilovs/inform/internal/server/repositories/tools"
	"github.com/ddanilovs/inform/internal/server/repositories/users"
)

type PostgresRepositoryManager struct {
	db      *sql.DB
	users   users.Repository
	tools   tools.Repository
	informs informs.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Tools() tools.Repository {
	return m.tools
}

func (m *PostgresRepositoryManager) Informs() informs.Repository {
	return m.informs
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:      db,
		users:   users.NewPostgresRepository(db),
		tools:   tools.NewPostgresRepository(db),
		informs: informs.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
