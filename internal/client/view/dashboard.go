package view

import (
	"context"
	"strconv"
	"strings"

	"github.com/refi-rr/crypto-dss/internal/client/gateway"
)

// Dashboard shows the admin overview: user counts and recent analyses.
type Dashboard struct {
	gw *gateway.Gateway
}

func NewDashboard(gw *gateway.Gateway) *Dashboard {
	return &Dashboard{gw: gw}
}

func (v *Dashboard) Render(ctx context.Context, h *Handle) error {
	stats, err := v.gw.Dashboard(ctx)
	if err != nil {
		return err
	}

	var b strings.Builder
	heading(&b, "Dashboard")
	renderKV(&b, [][2]string{
		{"total users", strconv.Itoa(stats.TotalUsers)},
		{"active users", strconv.Itoa(stats.ActiveUsers)},
		{"total analyses", strconv.Itoa(stats.TotalAnalyses)},
	})

	b.WriteString("\nRecent analyses\n")
	rows := make([][]string, 0, len(stats.RecentAnalyses))
	for _, rec := range stats.RecentAnalyses {
		rows = append(rows, []string{
			rec.Pair,
			rec.Timeframe,
			string(rec.Signal),
			strconv.Itoa(rec.Score),
			formatTime(rec.CreatedAt),
		})
	}
	renderTable(&b, []string{"PAIR", "TF", "SIGNAL", "SCORE", "AT"}, rows)

	h.SetContent(b.String())
	return nil
}
