package service

import (
	"context"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
	"github.com/refi-rr/crypto-dss/internal/core/ports"
)

const (
	dashboardRecent  = 10
	adminHistoryMax  = 100
	memberHistoryMax = 50
)

// AnalyticsService produces the admin dashboard overview and the analysis
// history listings.
type AnalyticsService struct {
	users   ports.UserRepository
	history ports.AnalysisRepository
}

func NewAnalyticsService(users ports.UserRepository, history ports.AnalysisRepository) *AnalyticsService {
	return &AnalyticsService{users: users, history: history}
}

func (s *AnalyticsService) Dashboard(ctx context.Context) (*ports.DashboardStats, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	totalAnalyses, err := s.history.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.history.List(ctx, ports.HistoryFilter{Limit: dashboardRecent})
	if err != nil {
		return nil, err
	}

	stats := &ports.DashboardStats{
		TotalUsers:     int64(len(users)),
		TotalAnalyses:  totalAnalyses,
		RecentAnalyses: recent,
	}
	for _, u := range users {
		if u.Status == domain.StatusActive {
			stats.ActiveUsers++
		}
	}
	return stats, nil
}

// History returns the most recent analyses: all users' for admins, the
// caller's own otherwise.
func (s *AnalyticsService) History(ctx context.Context, userID, role string) ([]*domain.AnalysisRecord, error) {
	filter := ports.HistoryFilter{UserID: userID, Limit: memberHistoryMax}
	if role == domain.RoleAdmin {
		filter = ports.HistoryFilter{Limit: adminHistoryMax}
	}
	return s.history.List(ctx, filter)
}
