package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/stremhub/internal/dbx"
	"github.com/dmitrijs2005/stremhub/internal/server/config"
	"github.com/dmitrijs2005/stremhub/internal/server/models"
	"github.com/dmitrijs2005/stremhub/internal/server/repositories/repomanager"
	trakttokensrepo "github.com/dmitrijs2005/stremhub/internal/server/repositories/trakttokens"
	usagelogsrepo "github.com/dmitrijs2005/stremhub/internal/server/repositories/usagelogs"
	usersrepo "github.com/dmitrijs2005/stremhub/internal/server/repositories/users"
)

// --- shared helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"
	cfg.AccessTokenValidityDuration = time.Hour
	cfg.TraktClientID = "cid"
	cfg.TraktClientSecret = "csecret"
	cfg.TorboxAPIKey = "torbox-key"
	return cfg
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	listOut []*models.User
	listErr error

	updateOut *models.User
	updateErr error

	deleteErr error

	countOut int64
	countErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}
func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeUsersRepo) List(ctx context.Context, offset, limit int) ([]*models.User, error) {
	return f.listOut, f.listErr
}
func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateOut != nil {
		return f.updateOut, nil
	}
	return u, nil
}
func (f *fakeUsersRepo) Delete(ctx context.Context, id int64) error {
	return f.deleteErr
}
func (f *fakeUsersRepo) Count(ctx context.Context) (int64, error) {
	return f.countOut, f.countErr
}

type fakeTraktRepo struct {
	getOut *models.TraktToken
	getErr error

	upsertErr error
	upserted  *models.TraktToken
}

func (f *fakeTraktRepo) GetByUserID(ctx context.Context, userID int64) (*models.TraktToken, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeTraktRepo) Upsert(ctx context.Context, tok *models.TraktToken) (*models.TraktToken, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.upserted = tok
	return tok, nil
}

type fakeUsageRepo struct {
	created   []int64
	createErr error

	listOut []*models.UsageLog
	listErr error

	countOut int64
	countErr error

	byDayOut []*models.UsageByDay
	byDayErr error

	activeOut []*models.ActiveUser
	activeErr error
}

func (f *fakeUsageRepo) Create(ctx context.Context, userID int64) (*models.UsageLog, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, userID)
	return &models.UsageLog{ID: int64(len(f.created)), UserID: userID}, nil
}
func (f *fakeUsageRepo) List(ctx context.Context, offset, limit int) ([]*models.UsageLog, error) {
	return f.listOut, f.listErr
}
func (f *fakeUsageRepo) Count(ctx context.Context) (int64, error) {
	return f.countOut, f.countErr
}
func (f *fakeUsageRepo) CountByDay(ctx context.Context) ([]*models.UsageByDay, error) {
	return f.byDayOut, f.byDayErr
}
func (f *fakeUsageRepo) MostActiveUsers(ctx context.Context, limit int) ([]*models.ActiveUser, error) {
	return f.activeOut, f.activeErr
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	tt *fakeTraktRepo
	ul *fakeUsageRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.u }
func (m *fakeRepoManager) TraktTokens(db dbx.DBTX) trakttokensrepo.Repository { return m.tt }
func (m *fakeRepoManager) UsageLogs(db dbx.DBTX) usagelogsrepo.Repository { return m.ul }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)
