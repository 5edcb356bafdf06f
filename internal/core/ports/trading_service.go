package ports

import (
	"context"
	"time"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

type TradingService interface {
	Pairs(ctx context.Context) ([]string, error)
	Analyze(ctx context.Context, userID, pair, timeframe string) (*domain.Analysis, error)
	ReportOutcome(ctx context.Context, userID, analysisID, outcome string, profitLoss float64) error
}

// BacktestInput describes one strategy replay request.
type BacktestInput struct {
	Pair           string
	Timeframe      string
	StartDate      time.Time
	EndDate        time.Time
	InitialCapital float64
}

type BacktestService interface {
	Run(ctx context.Context, userID string, input BacktestInput) (*domain.BacktestResult, error)
	History(ctx context.Context, userID string, limit int) ([]*domain.BacktestResult, error)
	WinRate(ctx context.Context, userID string) (*domain.WinRateStats, error)
}
