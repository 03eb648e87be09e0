// Package repomanager vends repository implementations bound to a database
// handle and exposes a schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/stremhub/internal/dbx"
	"github.com/dmitrijs2005/stremhub/internal/server/repositories/trakttokens"
	"github.com/dmitrijs2005/stremhub/internal/server/repositories/usagelogs"
	"github.com/dmitrijs2005/stremhub/internal/server/repositories/users"
)

// RepositoryManager abstracts the storage backend. The db argument accepts
// either the shared *sql.DB or a transaction handle, so services can bind
// repositories into dbx.WithTx blocks.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	TraktTokens(db dbx.DBTX) trakttokens.Repository
	UsageLogs(db dbx.DBTX) usagelogs.Repository
}
