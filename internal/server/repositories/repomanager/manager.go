// Package repomanager wires the concrete repositories onto a shared database
// handle and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/ddanilovs/inform/internal/server/repositories/informs"
	"github.com/ddanilovs/inform/internal/server/repositories/tools"
	"github.com/ddanilovs/inform/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Tools() tools.Repository
	Informs() informs.Repository
}
