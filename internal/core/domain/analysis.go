package domain

import "time"

// Signal is the direction recommended by the scoring engine.
type Signal string

const (
	SignalLong  Signal = "LONG"
	SignalShort Signal = "SHORT"
	SignalWait  Signal = "WAIT"
)

// Strength buckets the confidence score.
type Strength string

const (
	StrengthStrong   Strength = "STRONG"
	StrengthModerate Strength = "MODERATE"
	StrengthWeak     Strength = "WEAK"
)

// Analysis is the full output of a signal evaluation on one candle window.
type Analysis struct {
	Signal          Signal   `json:"signal"`
	Strength        Strength `json:"strength"`
	ConfidenceScore int      `json:"confidence_score"`
	LongScore       int      `json:"long_score"`
	ShortScore      int      `json:"short_score"`
	CurrentPrice    float64  `json:"current_price"`
	RSI             float64  `json:"rsi"`
	MACD            float64  `json:"macd"`
	MACDSignal      float64  `json:"macd_signal"`
	UpperBB         float64  `json:"upper_bb"`
	LowerBB         float64  `json:"lower_bb"`
	SMA20           float64  `json:"sma_20"`
	SMA50           float64  `json:"sma_50"`
	VolumeRatio     float64  `json:"volume_ratio"`
	Signals         []string `json:"signals"`
}

// AnalysisRecord is a persisted analysis run, kept for history and win-rate
// aggregation. Outcome stays empty until the user reports one.
type AnalysisRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Pair       string    `json:"pair"`
	Timeframe  string    `json:"timeframe"`
	Signal     Signal    `json:"signal"`
	Score      int       `json:"score"`
	Outcome    string    `json:"outcome,omitempty"` // "win" or "loss"
	ProfitLoss float64   `json:"profit_loss,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Outcome values for AnalysisRecord.
const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
)

// BacktestTrade is one simulated entry/exit pair.
type BacktestTrade struct {
	Side       Signal    `json:"side"`
	EntryTime  time.Time `json:"entry_time"`
	EntryPrice float64   `json:"entry_price"`
	ExitTime   time.Time `json:"exit_time"`
	ExitPrice  float64   `json:"exit_price"`
	ProfitPct  float64   `json:"profit_pct"`
	Profit     float64   `json:"profit"`
}

// BacktestResult summarizes a strategy replay over a historical window.
type BacktestResult struct {
	ID             string          `json:"id,omitempty"`
	UserID         string          `json:"-"`
	Pair           string          `json:"pair"`
	Timeframe      string          `json:"timeframe"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	InitialCapital float64         `json:"initial_capital"`
	FinalCapital   float64         `json:"final_capital"`
	TotalProfit    float64         `json:"total_profit"`
	ROI            float64         `json:"roi"`
	TotalTrades    int             `json:"total_trades"`
	WinningTrades  int             `json:"winning_trades"`
	LosingTrades   int             `json:"losing_trades"`
	WinRate        float64         `json:"win_rate"`
	Trades         []BacktestTrade `json:"trades,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SignalTypeStats breaks win-rate figures down per signal direction.
type SignalTypeStats struct {
	Total   int     `json:"total"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`
}

// WinRateStats aggregates reported outcomes across a user's signals.
type WinRateStats struct {
	TotalSignals      int                        `json:"total_signals"`
	WinningSignals    int                        `json:"winning_signals"`
	LosingSignals     int                        `json:"losing_signals"`
	WinRate           float64                    `json:"win_rate"`
	AverageProfitLoss float64                    `json:"average_profit_loss"`
	TotalProfitLoss   float64                    `json:"total_profit_loss"`
	BySignal          map[string]SignalTypeStats `json:"by_signal"`
}
