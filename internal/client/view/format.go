package view

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"
)

func renderTable(b *strings.Builder, headers []string, rows [][]string) {
	if len(rows) == 0 {
		b.WriteString("no results\n")
		return
	}
	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func renderKV(b *strings.Builder, rows [][2]string) {
	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func heading(b *strings.Builder, title string) {
	b.WriteString("== " + title + " ==\n\n")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
