package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/refi-rr/crypto-dss/internal/client/gateway"
	"github.com/refi-rr/crypto-dss/internal/client/session"
	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

// Backtest shows previous strategy replays and the aggregated win-rate
// statistics. Runs are started through the shell.
type Backtest struct {
	gw   *gateway.Gateway
	sess *session.Session
}

func NewBacktest(gw *gateway.Gateway, sess *session.Session) *Backtest {
	return &Backtest{gw: gw, sess: sess}
}

func (v *Backtest) Render(ctx context.Context, h *Handle) error {
	var b strings.Builder
	heading(&b, "Backtesting & Win Rate")

	if !v.sess.CheckSubscription() {
		b.WriteString("Subscription required: backtesting needs an active subscription.\n")
		h.SetContent(b.String())
		return nil
	}

	history, err := v.gw.BacktestHistory(ctx)
	if err != nil {
		return err
	}
	stats, err := v.gw.WinRate(ctx)
	if err != nil {
		return err
	}

	if stats.TotalSignals == 0 {
		b.WriteString("No reported outcomes yet. Analyze signals and report outcomes to track your win rate.\n\n")
	} else {
		renderKV(&b, [][2]string{
			{"win rate", formatFloat(stats.WinRate) + "%"},
			{"signals", fmt.Sprintf("%d (%dW / %dL)", stats.TotalSignals, stats.WinningSignals, stats.LosingSignals)},
			{"avg p/l", formatFloat(stats.AverageProfitLoss) + "%"},
			{"total p/l", formatFloat(stats.TotalProfitLoss) + "%"},
		})
		b.WriteString("\n")
	}

	b.WriteString("Previous runs\n")
	rows := make([][]string, 0, len(history))
	for _, r := range history {
		rows = append(rows, []string{
			r.Pair,
			r.Timeframe,
			strconv.Itoa(r.TotalTrades),
			formatFloat(r.WinRate) + "%",
			formatFloat(r.TotalProfit),
			formatFloat(r.ROI) + "%",
			formatTime(r.CreatedAt),
		})
	}
	renderTable(&b, []string{"PAIR", "TF", "TRADES", "WIN", "PROFIT", "ROI", "AT"}, rows)

	b.WriteString("\n  backtest <pair> <timeframe> <start> <end> <capital>\n")
	b.WriteString("  e.g. backtest BTC/USDT 1h 2026-07-01 2026-08-01 10000\n")

	h.SetContent(b.String())
	return nil
}

// RenderResult paints a completed backtest run.
func (v *Backtest) RenderResult(h *Handle, r *domain.BacktestResult) {
	var b strings.Builder
	heading(&b, fmt.Sprintf("Backtest — %s %s", r.Pair, r.Timeframe))

	renderKV(&b, [][2]string{
		{"window", fmt.Sprintf("%s .. %s", r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"))},
		{"profit", fmt.Sprintf("%s (ROI %s%%)", formatFloat(r.TotalProfit), formatFloat(r.ROI))},
		{"capital", fmt.Sprintf("%s -> %s", formatFloat(r.InitialCapital), formatFloat(r.FinalCapital))},
		{"trades", fmt.Sprintf("%d (%dW / %dL)", r.TotalTrades, r.WinningTrades, r.LosingTrades)},
		{"win rate", formatFloat(r.WinRate) + "%"},
	})

	if len(r.Trades) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(r.Trades))
		for _, t := range r.Trades {
			rows = append(rows, []string{
				string(t.Side),
				formatTime(t.EntryTime),
				formatFloat(t.EntryPrice),
				formatFloat(t.ExitPrice),
				formatFloat(t.ProfitPct) + "%",
			})
		}
		renderTable(&b, []string{"SIDE", "ENTRY", "IN", "OUT", "P/L"}, rows)
	}

	h.SetContent(b.String())
}
