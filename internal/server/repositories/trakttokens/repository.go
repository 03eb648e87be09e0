package trakttokens

import (
	"context"

	"github.com/dmitrijs2005/stremhub/internal/server/models"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.TraktToken, error)
	Upsert(ctx context.Context, token *models.TraktToken) (*models.TraktToken, error)
}
