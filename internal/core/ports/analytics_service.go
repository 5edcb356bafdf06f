package ports

import (
	"context"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

// DashboardStats is the admin overview payload.
type DashboardStats struct {
	TotalUsers     int64                    `json:"total_users"`
	ActiveUsers    int64                    `json:"active_users"`
	TotalAnalyses  int64                    `json:"total_analyses"`
	RecentAnalyses []*domain.AnalysisRecord `json:"recent_analyses"`
}

type AnalyticsService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	// History returns the caller's recent analyses; admins see everyone's.
	History(ctx context.Context, userID, role string) ([]*domain.AnalysisRecord, error)
}
