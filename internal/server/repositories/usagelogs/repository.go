package usagelogs

import (
	"context"

	"github.com/dmitrijs2005/stremhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID int64) (*models.UsageLog, error)
	List(ctx context.Context, offset, limit int) ([]*models.UsageLog, error)
	Count(ctx context.Context) (int64, error)
	CountByDay(ctx context.Context) ([]*models.UsageByDay, error)
	MostActiveUsers(ctx context.Context, limit int) ([]*models.ActiveUser, error)
}
