package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
	"github.com/refi-rr/crypto-dss/internal/core/ports"
)

type stubTradingService struct {
	pairsFn         func(ctx context.Context) ([]string, error)
	analyzeFn       func(ctx context.Context, userID, pair, timeframe string) (*domain.Analysis, error)
	reportOutcomeFn func(ctx context.Context, userID, analysisID, outcome string, profitLoss float64) error
}

func (s *stubTradingService) Pairs(ctx context.Context) ([]string, error) {
	return s.pairsFn(ctx)
}

func (s *stubTradingService) Analyze(ctx context.Context, userID, pair, timeframe string) (*domain.Analysis, error) {
	return s.analyzeFn(ctx, userID, pair, timeframe)
}

func (s *stubTradingService) ReportOutcome(ctx context.Context, userID, analysisID, outcome string, profitLoss float64) error {
	return s.reportOutcomeFn(ctx, userID, analysisID, outcome, profitLoss)
}

type stubBacktestService struct {
	runFn     func(ctx context.Context, userID string, input ports.BacktestInput) (*domain.BacktestResult, error)
	historyFn func(ctx context.Context, userID string, limit int) ([]*domain.BacktestResult, error)
	winRateFn func(ctx context.Context, userID string) (*domain.WinRateStats, error)
}

func (s *stubBacktestService) Run(ctx context.Context, userID string, input ports.BacktestInput) (*domain.BacktestResult, error) {
	return s.runFn(ctx, userID, input)
}

func (s *stubBacktestService) History(ctx context.Context, userID string, limit int) ([]*domain.BacktestResult, error) {
	return s.historyFn(ctx, userID, limit)
}

func (s *stubBacktestService) WinRate(ctx context.Context, userID string) (*domain.WinRateStats, error) {
	return s.winRateFn(ctx, userID)
}

func TestTradingHandler_Pairs(t *testing.T) {
	trading := &stubTradingService{
		pairsFn: func(ctx context.Context) ([]string, error) {
			return []string{"BTC/USDT", "ETH/USDT"}, nil
		},
	}
	handler := NewTradingHandler(trading, &stubBacktestService{})

	c, rec := newTestContext(t, http.MethodGet, "/api/trading/pairs", "")

	if err := handler.Pairs(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp pairsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Pairs) != 2 || resp.Pairs[0] != "BTC/USDT" {
		t.Fatalf("unexpected pairs: %v", resp.Pairs)
	}
}

func TestTradingHandler_Analyze_Success(t *testing.T) {
	trading := &stubTradingService{
		analyzeFn: func(ctx context.Context, userID, pair, timeframe string) (*domain.Analysis, error) {
			if userID != "u1" || pair != "BTC/USDT" || timeframe != "1h" {
				t.Fatalf("unexpected args: %s %s %s", userID, pair, timeframe)
			}
			return &domain.Analysis{Signal: domain.SignalLong, ConfidenceScore: 65}, nil
		},
	}
	handler := NewTradingHandler(trading, &stubBacktestService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/trading/analyze",
		`{"pair":"BTC/USDT","timeframe":"1h"}`)
	c.Set("user_id", "u1")

	if err := handler.Analyze(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp domain.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Signal != domain.SignalLong || resp.ConfidenceScore != 65 {
		t.Fatalf("unexpected analysis: %+v", resp)
	}
}

func TestTradingHandler_Analyze_BadTimeframe(t *testing.T) {
	trading := &stubTradingService{
		analyzeFn: func(ctx context.Context, userID, pair, timeframe string) (*domain.Analysis, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewTradingHandler(trading, &stubBacktestService{})

	c, _ := newTestContext(t, http.MethodPost, "/api/trading/analyze",
		`{"pair":"BTC/USDT","timeframe":"2h"}`)
	c.Set("user_id", "u1")

	err := handler.Analyze(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestTradingHandler_Analyze_MissingClaims(t *testing.T) {
	handler := NewTradingHandler(&stubTradingService{}, &stubBacktestService{})

	c, _ := newTestContext(t, http.MethodPost, "/api/trading/analyze",
		`{"pair":"BTC/USDT","timeframe":"1h"}`)

	err := handler.Analyze(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestTradingHandler_Backtest_ParsesDates(t *testing.T) {
	backtests := &stubBacktestService{
		runFn: func(ctx context.Context, userID string, input ports.BacktestInput) (*domain.BacktestResult, error) {
			wantStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			wantEnd := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
			if !input.StartDate.Equal(wantStart) || !input.EndDate.Equal(wantEnd) {
				t.Fatalf("unexpected window: %v - %v", input.StartDate, input.EndDate)
			}
			if input.InitialCapital != 1000 {
				t.Fatalf("unexpected capital: %v", input.InitialCapital)
			}
			return &domain.BacktestResult{Pair: input.Pair}, nil
		},
	}
	handler := NewTradingHandler(&stubTradingService{}, backtests)

	c, rec := newTestContext(t, http.MethodPost, "/api/trading/backtest",
		`{"pair":"BTC/USDT","timeframe":"1h","start_date":"2026-01-01","end_date":"2026-03-01","initial_capital":1000}`)
	c.Set("user_id", "u1")

	if err := handler.Backtest(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTradingHandler_Backtest_BadDateFormat(t *testing.T) {
	backtests := &stubBacktestService{
		runFn: func(ctx context.Context, userID string, input ports.BacktestInput) (*domain.BacktestResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewTradingHandler(&stubTradingService{}, backtests)

	c, _ := newTestContext(t, http.MethodPost, "/api/trading/backtest",
		`{"pair":"BTC/USDT","timeframe":"1h","start_date":"01/01/2026","end_date":"2026-03-01","initial_capital":1000}`)
	c.Set("user_id", "u1")

	err := handler.Backtest(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestTradingHandler_ReportOutcome(t *testing.T) {
	called := false
	trading := &stubTradingService{
		reportOutcomeFn: func(ctx context.Context, userID, analysisID, outcome string, profitLoss float64) error {
			called = true
			if userID != "u1" || analysisID != "a42" || outcome != "win" || profitLoss != 12.5 {
				t.Fatalf("unexpected args: %s %s %s %v", userID, analysisID, outcome, profitLoss)
			}
			return nil
		},
	}
	handler := NewTradingHandler(trading, &stubBacktestService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/trading/signals/a42/outcome",
		`{"outcome":"win","profit_loss":12.5}`)
	c.Set("user_id", "u1")
	c.SetParamNames("id")
	c.SetParamValues("a42")

	if err := handler.ReportOutcome(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("service not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTradingHandler_ReportOutcome_BadOutcome(t *testing.T) {
	trading := &stubTradingService{
		reportOutcomeFn: func(ctx context.Context, userID, analysisID, outcome string, profitLoss float64) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	handler := NewTradingHandler(trading, &stubBacktestService{})

	c, _ := newTestContext(t, http.MethodPost, "/api/trading/signals/a42/outcome",
		`{"outcome":"breakeven"}`)
	c.Set("user_id", "u1")
	c.SetParamNames("id")
	c.SetParamValues("a42")

	err := handler.ReportOutcome(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}
