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

// TraderInsight is the signal-analysis view: it lists tradable pairs and
// renders analysis results requested through the shell.
type TraderInsight struct {
	gw   *gateway.Gateway
	sess *session.Session
}

func NewTraderInsight(gw *gateway.Gateway, sess *session.Session) *TraderInsight {
	return &TraderInsight{gw: gw, sess: sess}
}

func (v *TraderInsight) Render(ctx context.Context, h *Handle) error {
	pairs, err := v.gw.TradingPairs(ctx)
	if err != nil {
		return err
	}

	var b strings.Builder
	heading(&b, "Trader Insight")

	if !v.sess.CheckSubscription() {
		b.WriteString("Subscription required: signal analysis needs an active subscription.\n")
		h.SetContent(b.String())
		return nil
	}

	b.WriteString("Pairs: " + strings.Join(pairs, " ") + "\n\n")
	b.WriteString("  analyze <pair> <timeframe>       e.g. analyze BTC/USDT 1h\n")
	b.WriteString("  outcome <id> win|loss <pnl%>     report a signal outcome\n")
	b.WriteString("  timeframes: 1m 5m 15m 30m 1h 4h 1d\n")

	h.SetContent(b.String())
	return nil
}

// RenderAnalysis paints a completed analysis. Invoked by the shell after an
// analyze command; the view owns its own re-renders.
func (v *TraderInsight) RenderAnalysis(h *Handle, pair, timeframe string, a *domain.Analysis) {
	var b strings.Builder
	heading(&b, fmt.Sprintf("Signal — %s %s", pair, timeframe))

	renderKV(&b, [][2]string{
		{"signal", string(a.Signal)},
		{"strength", string(a.Strength)},
		{"confidence", strconv.Itoa(a.ConfidenceScore)},
		{"long/short", fmt.Sprintf("%d / %d", a.LongScore, a.ShortScore)},
		{"price", formatFloat(a.CurrentPrice)},
		{"rsi", formatFloat(a.RSI)},
		{"macd", fmt.Sprintf("%.4f (signal %.4f)", a.MACD, a.MACDSignal)},
		{"bollinger", fmt.Sprintf("%s .. %s", formatFloat(a.LowerBB), formatFloat(a.UpperBB))},
		{"sma 20/50", fmt.Sprintf("%s / %s", formatFloat(a.SMA20), formatFloat(a.SMA50))},
		{"volume ratio", formatFloat(a.VolumeRatio)},
	})

	if len(a.Signals) > 0 {
		b.WriteString("\nTriggered:\n")
		for _, s := range a.Signals {
			b.WriteString("  - " + s + "\n")
		}
	}

	h.SetContent(b.String())
}
