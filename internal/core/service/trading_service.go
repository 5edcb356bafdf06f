package service

import (
	"context"
	"fmt"
	"time"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
	"github.com/refi-rr/crypto-dss/internal/core/ports"
	"github.com/refi-rr/crypto-dss/internal/core/service/signal"
)

// klineWindow is the candle count fetched for a live analysis.
const klineWindow = 200

// TradingService serves the pair list, live signal analysis and outcome
// reporting. Analysis records are handed to the recorder so persistence
// never blocks the caller.
type TradingService struct {
	market   ports.MarketData
	history  ports.AnalysisRepository
	recorder ports.AnalysisRecorder
	now      func() time.Time
}

func NewTradingService(market ports.MarketData, history ports.AnalysisRepository, recorder ports.AnalysisRecorder) *TradingService {
	return &TradingService{market: market, history: history, recorder: recorder, now: time.Now}
}

func (s *TradingService) Pairs(ctx context.Context) ([]string, error) {
	return s.market.Pairs(ctx)
}

func (s *TradingService) Analyze(ctx context.Context, userID, pair, timeframe string) (*domain.Analysis, error) {
	series, err := s.market.Klines(ctx, pair, timeframe, klineWindow)
	if err != nil {
		return nil, fmt.Errorf("fetch klines %s %s: %w", pair, timeframe, err)
	}

	analysis, err := signal.Evaluate(series)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", pair, err)
	}

	s.recorder.Record(&domain.AnalysisRecord{
		UserID:    userID,
		Pair:      pair,
		Timeframe: timeframe,
		Signal:    analysis.Signal,
		Score:     analysis.ConfidenceScore,
		CreatedAt: s.now().UTC(),
	})

	return analysis, nil
}

func (s *TradingService) ReportOutcome(ctx context.Context, userID, analysisID, outcome string, profitLoss float64) error {
	if outcome != domain.OutcomeWin && outcome != domain.OutcomeLoss {
		return fmt.Errorf("outcome must be %q or %q", domain.OutcomeWin, domain.OutcomeLoss)
	}
	return s.history.SetOutcome(ctx, analysisID, userID, outcome, profitLoss)
}
