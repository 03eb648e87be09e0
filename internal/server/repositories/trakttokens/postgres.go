package trakttokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/stremhub/internal/common"
	"github.com/dmitrijs2005/stremhub/internal/dbx"
	"github.com/dmitrijs2005/stremhub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID int64) (*models.TraktToken, error) {
	query :=
		`SELECT id, user_id, access_token, refresh_token, token_type, scope, expires_in, created_at
		 FROM trakt_tokens
		 WHERE user_id = $1
		 `

	token := &models.TraktToken{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&token.ID, &token.UserID, &token.AccessToken, &token.RefreshToken,
			&token.TokenType, &token.Scope, &token.ExpiresIn, &token.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return token, nil
}

// Upsert writes the token set for token.UserID. The unique constraint on
// user_id guarantees at most one row per user; a second exchange for the
// same user overwrites all provider-issued fields in one atomic statement.
func (r *PostgresRepository) Upsert(ctx context.Context, token *models.TraktToken) (*models.TraktToken, error) {
	query :=
		`INSERT INTO trakt_tokens (user_id, access_token, refresh_token, token_type, scope, expires_in, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE SET
		     access_token = EXCLUDED.access_token,
		     refresh_token = EXCLUDED.refresh_token,
		     token_type = EXCLUDED.token_type,
		     scope = EXCLUDED.scope,
		     expires_in = EXCLUDED.expires_in,
		     created_at = EXCLUDED.created_at
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		token.UserID, token.AccessToken, token.RefreshToken,
		token.TokenType, token.Scope, token.ExpiresIn, token.CreatedAt).Scan(&token.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return token, nil
}
