package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/dmitrijs2005/stremhub/internal/common"
	"github.com/dmitrijs2005/stremhub/internal/server/auth"
	"github.com/dmitrijs2005/stremhub/internal/server/models"
)

func newUserService(t *testing.T, rm *fakeRepoManager) *UserService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	return NewUserService(db, rm, testConfig())
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	h, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	return h
}

func TestLogin_Flows(t *testing.T) {
	hash := hashFor(t, "right")

	// not found → invalid credentials
	sNF := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrorNotFound}})
	if _, err := sNF.Login(context.Background(), "ghost@example.com", "x"); !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("notfound → invalid credentials, got %v", err)
	}

	// internal error
	sIE := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{getErr: errBoom{}}})
	if _, err := sIE.Login(context.Background(), "u@example.com", "x"); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("internal → ErrorInternal, got %v", err)
	}

	// wrong password → invalid credentials, indistinguishable from not found
	sWP := newUserService(t, &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{ID: 1, Email: "u@example.com", PasswordHash: hash}},
	})
	errWP := func() error {
		_, err := sWP.Login(context.Background(), "u@example.com", "wrong")
		return err
	}()
	if !errors.Is(errWP, common.ErrInvalidCredentials) {
		t.Fatalf("wrong password → invalid credentials, got %v", errWP)
	}
	errNF := func() error {
		_, err := sNF.Login(context.Background(), "ghost@example.com", "x")
		return err
	}()
	if errWP.Error() != errNF.Error() {
		t.Fatalf("credential failures must be indistinguishable: %q vs %q", errWP, errNF)
	}

	// success
	sOK := newUserService(t, &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{ID: 1, Email: "u@example.com", PasswordHash: hash}},
	})
	token, err := sOK.Login(context.Background(), "u@example.com", "right")
	if err != nil || token == "" {
		t.Fatalf("Login success: token=%q err=%v", token, err)
	}
	subj, err := auth.GetSubjectFromToken(token, []byte("k"))
	if err != nil || subj != "u@example.com" {
		t.Fatalf("issued token must carry the email subject: %q %v", subj, err)
	}
}

func TestGetUserByToken(t *testing.T) {
	hash := hashFor(t, "pw")
	user := &models.User{ID: 1, Email: "u@example.com", PasswordHash: hash}

	s := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{getOut: user}})
	token, err := s.Login(context.Background(), "u@example.com", "pw")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	got, err := s.GetUserByToken(context.Background(), token)
	if err != nil || got.ID != 1 {
		t.Fatalf("GetUserByToken: got (%+v, %v)", got, err)
	}

	if _, err := s.GetUserByToken(context.Background(), "not-a-token"); !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("garbage token → invalid credentials, got %v", err)
	}

	// valid token whose subject no longer exists
	sGone := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrorNotFound}})
	if _, err := sGone.GetUserByToken(context.Background(), token); !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("deleted subject → invalid credentials, got %v", err)
	}
}

func TestRegister_SuccessAndDuplicate(t *testing.T) {
	sOK := newUserService(t, &fakeRepoManager{
		u: &fakeUsersRepo{createOut: &models.User{ID: 42, Email: "alice@example.com"}},
	})
	u, err := sOK.Register(context.Background(), "alice@example.com", "pw", false)
	if err != nil || u.ID != 42 {
		t.Fatalf("Register ok: got (%+v, %v)", u, err)
	}

	sDup := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrDuplicateEmail}})
	if _, err := sDup.Register(context.Background(), "alice@example.com", "pw", false); !errors.Is(err, common.ErrDuplicateEmail) {
		t.Fatalf("duplicate → ErrDuplicateEmail, got %v", err)
	}

	sErr := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{createErr: errBoom{}}})
	_, err = sErr.Register(context.Background(), "bob@example.com", "pw", false)
	if err == nil || !regexp.MustCompile(`error creating user: .*boom`).MatchString(err.Error()) {
		t.Fatalf("Register expected wrapped error, got %v", err)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	hash := hashFor(t, "old")
	repo := &fakeUsersRepo{getOut: &models.User{ID: 1, Email: "old@example.com", PasswordHash: hash, IsAdmin: false}}

	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	s := NewUserService(db, &fakeRepoManager{u: repo}, testConfig())

	email := "new@example.com"
	admin := true
	got, err := s.Update(context.Background(), 1, UserUpdate{Email: &email, IsAdmin: &admin})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Email != "new@example.com" || !got.IsAdmin {
		t.Fatalf("unexpected user after update: %+v", got)
	}
	if got.PasswordHash != hash {
		t.Fatalf("password hash must be unchanged when Password is nil")
	}

	pw := "fresh"
	got, err = s.Update(context.Background(), 1, UserUpdate{Password: &pw})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !auth.VerifyPassword("fresh", got.PasswordHash) {
		t.Fatalf("new password must verify against the stored hash")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	s := NewUserService(db, &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrorNotFound}}, testConfig())
	if _, err := s.Update(context.Background(), 7, UserUpdate{}); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDelete_PassesThrough(t *testing.T) {
	s := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{deleteErr: common.ErrorNotFound}})
	if err := s.Delete(context.Background(), 7); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
