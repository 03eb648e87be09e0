// Package services contains the application services of the server:
// local authentication, Trakt account linking, addon URL issuance and
// usage analytics. Services own no state beyond their configuration and
// talk to storage through the repository manager.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/stremhub/internal/common"
	"github.com/dmitrijs2005/stremhub/internal/dbx"
	"github.com/dmitrijs2005/stremhub/internal/server/auth"
	"github.com/dmitrijs2005/stremhub/internal/server/config"
	"github.com/dmitrijs2005/stremhub/internal/server/models"
	"github.com/dmitrijs2005/stremhub/internal/server/repositories/repomanager"
)

// UserUpdate describes a partial profile update; nil fields are left
// unchanged.
type UserUpdate struct {
	Email    *string
	Password *string
	IsAdmin  *bool
}

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Login verifies the password for the given email and returns a signed
// bearer token. A missing user and a wrong password are indistinguishable:
// both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// GetUserByToken resolves a bearer token back to its user record. Any token
// failure, and a token whose subject no longer exists, yield
// ErrInvalidCredentials.
func (s *UserService) GetUserByToken(ctx context.Context, token string) (*models.User, error) {

	email, err := auth.GetSubjectFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// Register creates a user with a freshly salted password hash.
// Returns ErrDuplicateEmail when the email is already taken.
func (s *UserService) Register(ctx context.Context, email, password string, isAdmin bool) (*models.User, error) {

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}

	user, err = s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx, offset, limit)
}

// Update applies a partial profile update to an existing user. The
// read-modify-write runs in one transaction so concurrent updates cannot
// interleave.
func (s *UserService) Update(ctx context.Context, id int64, upd UserUpdate) (*models.User, error) {

	var updated *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if upd.Email != nil {
			user.Email = *upd.Email
		}
		if upd.Password != nil {
			hash, err := auth.HashPassword(*upd.Password)
			if err != nil {
				return fmt.Errorf("error hashing password: %w", err)
			}
			user.PasswordHash = hash
		}
		if upd.IsAdmin != nil {
			user.IsAdmin = *upd.IsAdmin
		}

		updated, err = repo.Update(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a user; the OAuth link and usage logs go with it via
// cascade at the storage layer.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Users(s.db).Delete(ctx, id)
}
