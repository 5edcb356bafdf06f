package ports

import (
	"context"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

// HistoryFilter scopes a history listing. An empty UserID means all users.
type HistoryFilter struct {
	UserID string
	Limit  int
}

// AnalysisRepository persists analysis runs and their reported outcomes.
type AnalysisRepository interface {
	Insert(ctx context.Context, rec *domain.AnalysisRecord) (*domain.AnalysisRecord, error)
	List(ctx context.Context, filter HistoryFilter) ([]*domain.AnalysisRecord, error)
	// SetOutcome records a win/loss report on an existing analysis; the
	// record must belong to userID.
	SetOutcome(ctx context.Context, id, userID, outcome string, profitLoss float64) error
	CountAll(ctx context.Context) (int64, error)
}

// AnalysisRecorder accepts analysis records for persistence without blocking
// the caller. The queue dispatcher implements it in front of an
// AnalysisRepository.
type AnalysisRecorder interface {
	Record(rec *domain.AnalysisRecord)
}

// BacktestRepository persists strategy replay runs.
type BacktestRepository interface {
	Insert(ctx context.Context, result *domain.BacktestResult) (*domain.BacktestResult, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.BacktestResult, error)
}
