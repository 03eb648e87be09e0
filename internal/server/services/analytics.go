package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/stremhub/internal/server/models"
	"github.com/dmitrijs2005/stremhub/internal/server/repositories/repomanager"
)

// Stats is the aggregated usage report served to administrators.
type Stats struct {
	TotalUsers      int64               `json:"total_users"`
	TotalAddonUsage int64               `json:"total_addon_usage"`
	UsageByDay      []*models.UsageByDay `json:"usage_by_day"`
	MostActiveUsers []*models.ActiveUser `json:"most_active_users"`
}

const mostActiveUsersLimit = 10

type AnalyticsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAnalyticsService(db *sql.DB, m repomanager.RepositoryManager) *AnalyticsService {
	return &AnalyticsService{db: db, repomanager: m}
}

// Stats assembles user and usage totals with the per-day and per-user
// breakdowns.
func (s *AnalyticsService) Stats(ctx context.Context) (*Stats, error) {

	users := s.repomanager.Users(s.db)
	logs := s.repomanager.UsageLogs(s.db)

	totalUsers, err := users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}

	totalUsage, err := logs.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting usage logs: %w", err)
	}

	byDay, err := logs.CountByDay(ctx)
	if err != nil {
		return nil, fmt.Errorf("error aggregating usage by day: %w", err)
	}

	active, err := logs.MostActiveUsers(ctx, mostActiveUsersLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing most active users: %w", err)
	}

	return &Stats{
		TotalUsers:      totalUsers,
		TotalAddonUsage: totalUsage,
		UsageByDay:      byDay,
		MostActiveUsers: active,
	}, nil
}
