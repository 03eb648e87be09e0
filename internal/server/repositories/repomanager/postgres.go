package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/stremhub/internal/dbx"
	"github.com/dmitrijs2005/stremhub/internal/server/migrations"
	"github.com/dmitrijs2005/stremhub/internal/server/repositories/trakttokens"
	"github.com/dmitrijs2005/stremhub/internal/server/repositories/usagelogs"
	"github.com/dmitrijs2005/stremhub/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// TraktTokens returns a trakttokens.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) TraktTokens(db dbx.DBTX) trakttokens.Repository {
	return trakttokens.NewPostgresRepository(db)
}

// UsageLogs returns a usagelogs.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) UsageLogs(db dbx.DBTX) usagelogs.Repository {
	return usagelogs.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed
// RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
