package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/refi-rr/crypto-dss/internal/api/metrics"
	"github.com/refi-rr/crypto-dss/internal/core/ports"
)

type TradingHandler struct {
	tradingService  ports.TradingService
	backtestService ports.BacktestService
}

func NewTradingHandler(tradingService ports.TradingService, backtestService ports.BacktestService) *TradingHandler {
	return &TradingHandler{tradingService: tradingService, backtestService: backtestService}
}

type pairsResponse struct {
	Pairs []string `json:"pairs"`
}

type analyzeRequest struct {
	Pair      string `json:"pair"      validate:"required"`
	Timeframe string `json:"timeframe" validate:"required,oneof=1m 5m 15m 30m 1h 4h 1d"`
}

type backtestRequest struct {
	Pair           string  `json:"pair"            validate:"required"`
	Timeframe      string  `json:"timeframe"       validate:"required,oneof=1m 5m 15m 30m 1h 4h 1d"`
	StartDate      string  `json:"start_date"      validate:"required"`
	EndDate        string  `json:"end_date"        validate:"required"`
	InitialCapital float64 `json:"initial_capital" validate:"required,gt=0"`
}

type outcomeRequest struct {
	Outcome    string  `json:"outcome"     validate:"required,oneof=win loss"`
	ProfitLoss float64 `json:"profit_loss"`
}

// Pairs returns the tradable pair list.
//
// @Summary      Trading pairs
// @Tags         trading
// @Produce      json
// @Success      200  {object}  pairsResponse
// @Router       /trading/pairs [get]
func (h *TradingHandler) Pairs(c echo.Context) error {
	pairs, err := h.tradingService.Pairs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pairsResponse{Pairs: pairs})
}

// Analyze runs a live signal analysis. Requires an active subscription.
//
// @Summary      Analyze a trading pair
// @Tags         trading
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      analyzeRequest  true  "Pair and timeframe"
// @Success      200   {object}  domain.Analysis
// @Failure      403   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /trading/analyze [post]
func (h *TradingHandler) Analyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	analysis, err := h.tradingService.Analyze(c.Request().Context(), userID, req.Pair, req.Timeframe)
	if err != nil {
		return err
	}

	metrics.AnalysesTotal.WithLabelValues(string(analysis.Signal)).Inc()
	return c.JSON(http.StatusOK, analysis)
}

// Backtest replays the strategy over a historical window. Requires an active
// subscription.
//
// @Summary      Run a backtest
// @Tags         trading
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      backtestRequest  true  "Backtest window"
// @Success      200   {object}  domain.BacktestResult
// @Failure      400   {object}  map[string]string
// @Router       /trading/backtest [post]
func (h *TradingHandler) Backtest(c echo.Context) error {
	var req backtestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "end_date must be YYYY-MM-DD")
	}

	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.backtestService.Run(c.Request().Context(), userID, ports.BacktestInput{
		Pair:           req.Pair,
		Timeframe:      req.Timeframe,
		StartDate:      start,
		EndDate:        end,
		InitialCapital: req.InitialCapital,
	})
	if err != nil {
		return err
	}

	metrics.BacktestsTotal.Inc()
	return c.JSON(http.StatusOK, result)
}

// BacktestHistory returns the caller's recent backtest runs.
//
// @Summary      Backtest history
// @Tags         trading
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.BacktestResult
// @Router       /trading/backtest-history [get]
func (h *TradingHandler) BacktestHistory(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	results, err := h.backtestService.History(c.Request().Context(), userID, 0)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}

// WinRate aggregates the caller's reported signal outcomes.
//
// @Summary      Win-rate statistics
// @Tags         trading
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.WinRateStats
// @Router       /trading/win-rate [get]
func (h *TradingHandler) WinRate(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	stats, err := h.backtestService.WinRate(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ReportOutcome records a win/loss report on one of the caller's analyses.
//
// @Summary      Report a signal outcome
// @Tags         trading
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Analysis ID"
// @Param        body  body      outcomeRequest  true  "Outcome report"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Router       /trading/signals/{id}/outcome [post]
func (h *TradingHandler) ReportOutcome(c echo.Context) error {
	var req outcomeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.tradingService.ReportOutcome(c.Request().Context(), userID, c.Param("id"), req.Outcome, req.ProfitLoss); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Outcome recorded"})
}
