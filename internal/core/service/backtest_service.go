package service

import (
	"context"
	"fmt"
	"time"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
	"github.com/refi-rr/crypto-dss/internal/core/ports"
	"github.com/refi-rr/crypto-dss/internal/core/service/signal"
)

const (
	// backtestWarmup is the first candle index eligible for a trade entry,
	// giving the slowest moving average a full window.
	backtestWarmup = 50
	// backtestWindow caps how far back each per-candle evaluation looks.
	backtestWindow = 200

	defaultHistoryLimit = 20
)

// BacktestService replays the signal engine over a historical window and
// aggregates reported outcomes into win-rate statistics.
type BacktestService struct {
	market    ports.MarketData
	backtests ports.BacktestRepository
	history   ports.AnalysisRepository
	now       func() time.Time
}

func NewBacktestService(market ports.MarketData, backtests ports.BacktestRepository, history ports.AnalysisRepository) *BacktestService {
	return &BacktestService{market: market, backtests: backtests, history: history, now: time.Now}
}

// Run simulates the strategy over input's window: enter on a LONG or SHORT
// call of at least MODERATE strength, exit when the engine flips to the
// opposite direction, close any open position on the last candle. The whole
// running capital is committed to each trade.
func (s *BacktestService) Run(ctx context.Context, userID string, input ports.BacktestInput) (*domain.BacktestResult, error) {
	if input.InitialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("end date must be after start date")
	}

	series, err := s.market.KlinesRange(ctx, input.Pair, input.Timeframe, input.StartDate, input.EndDate)
	if err != nil {
		return nil, fmt.Errorf("fetch klines %s %s: %w", input.Pair, input.Timeframe, err)
	}
	if len(series) <= backtestWarmup {
		return nil, fmt.Errorf("window too short: %d candles: %w", len(series), domain.ErrMarketUnavailable)
	}

	capital := input.InitialCapital
	var trades []domain.BacktestTrade
	var open *domain.BacktestTrade

	closePosition := func(t *domain.BacktestTrade, c domain.Candle) {
		t.ExitTime = c.OpenTime
		t.ExitPrice = c.Close
		if t.Side == domain.SignalLong {
			t.ProfitPct = (t.ExitPrice - t.EntryPrice) / t.EntryPrice * 100
		} else {
			t.ProfitPct = (t.EntryPrice - t.ExitPrice) / t.EntryPrice * 100
		}
		t.Profit = capital * t.ProfitPct / 100
		capital += t.Profit
		trades = append(trades, *t)
	}

	for i := backtestWarmup; i < len(series); i++ {
		lo := 0
		if i+1 > backtestWindow {
			lo = i + 1 - backtestWindow
		}
		a, err := signal.Evaluate(series[lo : i+1])
		if err != nil {
			return nil, err
		}
		candle := series[i]

		if open != nil {
			opposite := open.Side == domain.SignalLong && a.Signal == domain.SignalShort ||
				open.Side == domain.SignalShort && a.Signal == domain.SignalLong
			if opposite {
				closePosition(open, candle)
				open = nil
			}
		}

		if open == nil &&
			(a.Signal == domain.SignalLong || a.Signal == domain.SignalShort) &&
			a.ConfidenceScore >= signal.ModerateThreshold {
			open = &domain.BacktestTrade{
				Side:       a.Signal,
				EntryTime:  candle.OpenTime,
				EntryPrice: candle.Close,
			}
		}
	}
	if open != nil {
		closePosition(open, series[len(series)-1])
	}

	result := &domain.BacktestResult{
		UserID:         userID,
		Pair:           input.Pair,
		Timeframe:      input.Timeframe,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		InitialCapital: input.InitialCapital,
		FinalCapital:   capital,
		TotalProfit:    capital - input.InitialCapital,
		ROI:            (capital - input.InitialCapital) / input.InitialCapital * 100,
		TotalTrades:    len(trades),
		Trades:         trades,
		CreatedAt:      s.now().UTC(),
	}
	for _, t := range trades {
		if t.Profit > 0 {
			result.WinningTrades++
		} else {
			result.LosingTrades++
		}
	}
	if result.TotalTrades > 0 {
		result.WinRate = float64(result.WinningTrades) / float64(result.TotalTrades) * 100
	}

	return s.backtests.Insert(ctx, result)
}

func (s *BacktestService) History(ctx context.Context, userID string, limit int) ([]*domain.BacktestResult, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.backtests.ListByUser(ctx, userID, limit)
}

// WinRate aggregates the outcomes the user reported on past analyses.
func (s *BacktestService) WinRate(ctx context.Context, userID string) (*domain.WinRateStats, error) {
	records, err := s.history.List(ctx, ports.HistoryFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	stats := &domain.WinRateStats{BySignal: map[string]domain.SignalTypeStats{}}
	for _, rec := range records {
		if rec.Outcome == "" {
			continue
		}
		stats.TotalSignals++
		stats.TotalProfitLoss += rec.ProfitLoss

		perSignal := stats.BySignal[string(rec.Signal)]
		perSignal.Total++
		if rec.Outcome == domain.OutcomeWin {
			stats.WinningSignals++
			perSignal.Wins++
		} else {
			stats.LosingSignals++
			perSignal.Losses++
		}
		if perSignal.Total > 0 {
			perSignal.WinRate = float64(perSignal.Wins) / float64(perSignal.Total) * 100
		}
		stats.BySignal[string(rec.Signal)] = perSignal
	}

	if stats.TotalSignals > 0 {
		stats.WinRate = float64(stats.WinningSignals) / float64(stats.TotalSignals) * 100
		stats.AverageProfitLoss = stats.TotalProfitLoss / float64(stats.TotalSignals)
	}
	return stats, nil
}
