package repomanager

import (
	"context"
	"database/sql"

	"github.com/mkalvans/userhub/internal/dbx"
	"github.com/mkalvans/userhub/internal/server/repositories/audit"
	"github.com/mkalvans/userhub/internal/server/repositories/permissions"
	"github.com/mkalvans/userhub/internal/server/repositories/pictures"
	"github.com/mkalvans/userhub/internal/server/repositories/roles"
	"github.com/mkalvans/userhub/internal/server/repositories/userroles"
	"github.com/mkalvans/userhub/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX. Services pass their
// *sql.DB for single-statement work and a *sql.Tx inside dbx.WithTx for
// multi-statement transactions.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Roles(db dbx.DBTX) roles.Repository
	UserRoles(db dbx.DBTX) userroles.Repository
	Permissions(db dbx.DBTX) permissions.Repository
	Audit(db dbx.DBTX) audit.Repository
	Pictures(db dbx.DBTX) pictures.Repository
}
