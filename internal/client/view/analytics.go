package view

import (
	"context"
	"strconv"
	"strings"

	"github.com/refi-rr/crypto-dss/internal/client/gateway"
)

// Analytics lists the platform-wide analysis history for admins.
type Analytics struct {
	gw *gateway.Gateway
}

func NewAnalytics(gw *gateway.Gateway) *Analytics {
	return &Analytics{gw: gw}
}

func (v *Analytics) Render(ctx context.Context, h *Handle) error {
	history, err := v.gw.History(ctx)
	if err != nil {
		return err
	}

	var b strings.Builder
	heading(&b, "Analytics")

	signalCounts := map[string]int{}
	rows := make([][]string, 0, len(history))
	for _, rec := range history {
		signalCounts[string(rec.Signal)]++
		outcome := rec.Outcome
		if outcome == "" {
			outcome = "-"
		}
		rows = append(rows, []string{
			rec.Pair,
			rec.Timeframe,
			string(rec.Signal),
			strconv.Itoa(rec.Score),
			outcome,
			formatTime(rec.CreatedAt),
		})
	}

	renderKV(&b, [][2]string{
		{"total", strconv.Itoa(len(history))},
		{"long", strconv.Itoa(signalCounts["LONG"])},
		{"short", strconv.Itoa(signalCounts["SHORT"])},
		{"wait", strconv.Itoa(signalCounts["WAIT"])},
	})
	b.WriteString("\n")
	renderTable(&b, []string{"PAIR", "TF", "SIGNAL", "SCORE", "OUTCOME", "AT"}, rows)

	h.SetContent(b.String())
	return nil
}
