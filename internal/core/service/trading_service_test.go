package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
	"github.com/refi-rr/crypto-dss/internal/core/ports"
)

type stubMarket struct {
	series domain.Series
	pairs  []string
	err    error
}

func (m *stubMarket) Klines(_ context.Context, _, _ string, _ int) (domain.Series, error) {
	return m.series, m.err
}

func (m *stubMarket) KlinesRange(_ context.Context, _, _ string, _, _ time.Time) (domain.Series, error) {
	return m.series, m.err
}

func (m *stubMarket) Pairs(_ context.Context) ([]string, error) {
	return m.pairs, m.err
}

type captureRecorder struct {
	records []*domain.AnalysisRecord
}

func (r *captureRecorder) Record(rec *domain.AnalysisRecord) {
	r.records = append(r.records, rec)
}

type stubAnalysisRepo struct {
	records  []*domain.AnalysisRecord
	outcomes map[string]string
}

func newStubAnalysisRepo() *stubAnalysisRepo {
	return &stubAnalysisRepo{outcomes: make(map[string]string)}
}

func (r *stubAnalysisRepo) Insert(_ context.Context, rec *domain.AnalysisRecord) (*domain.AnalysisRecord, error) {
	r.records = append(r.records, rec)
	return rec, nil
}

func (r *stubAnalysisRepo) List(_ context.Context, filter ports.HistoryFilter) ([]*domain.AnalysisRecord, error) {
	var out []*domain.AnalysisRecord
	for _, rec := range r.records {
		if filter.UserID != "" && rec.UserID != filter.UserID {
			continue
		}
		out = append(out, rec)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *stubAnalysisRepo) SetOutcome(_ context.Context, id, userID, outcome string, profitLoss float64) error {
	for _, rec := range r.records {
		if rec.ID == id && rec.UserID == userID {
			rec.Outcome = outcome
			rec.ProfitLoss = profitLoss
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubAnalysisRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.records)), nil
}

// spikeSeries is a flat market ending in a +5% breakout candle on triple
// volume, which scores LONG with moderate strength.
func spikeSeries() domain.Series {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(domain.Series, 60)
	for i := range s {
		s[i] = domain.Candle{
			OpenTime: base.Add(time.Duration(i) * time.Hour),
			Close:    100,
			Volume:   1000,
		}
	}
	s[59].Close = 105
	s[59].Volume = 3000
	return s
}

func TestTradingService_Analyze_RecordsHistory(t *testing.T) {
	recorder := &captureRecorder{}
	svc := NewTradingService(&stubMarket{series: spikeSeries()}, newStubAnalysisRepo(), recorder)

	analysis, err := svc.Analyze(context.Background(), "user-1", "BTC/USDT", "1h")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.Signal != domain.SignalLong {
		t.Fatalf("signal = %s, want LONG", analysis.Signal)
	}

	if len(recorder.records) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(recorder.records))
	}
	rec := recorder.records[0]
	if rec.UserID != "user-1" || rec.Pair != "BTC/USDT" || rec.Timeframe != "1h" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Signal != analysis.Signal || rec.Score != analysis.ConfidenceScore {
		t.Fatalf("record does not mirror analysis: %+v", rec)
	}
}

func TestTradingService_Analyze_MarketError(t *testing.T) {
	recorder := &captureRecorder{}
	svc := NewTradingService(&stubMarket{err: domain.ErrMarketUnavailable}, newStubAnalysisRepo(), recorder)

	_, err := svc.Analyze(context.Background(), "user-1", "BTC/USDT", "1h")
	if !errors.Is(err, domain.ErrMarketUnavailable) {
		t.Fatalf("err = %v, want ErrMarketUnavailable", err)
	}
	if len(recorder.records) != 0 {
		t.Fatalf("failed analysis must not be recorded")
	}
}

func TestTradingService_Pairs(t *testing.T) {
	svc := NewTradingService(&stubMarket{pairs: []string{"BTC/USDT", "ETH/USDT"}}, newStubAnalysisRepo(), &captureRecorder{})

	pairs, err := svc.Pairs(context.Background())
	if err != nil {
		t.Fatalf("Pairs: %v", err)
	}
	if len(pairs) != 2 || pairs[0] != "BTC/USDT" {
		t.Fatalf("pairs = %v", pairs)
	}
}

func TestTradingService_ReportOutcome(t *testing.T) {
	repo := newStubAnalysisRepo()
	repo.records = append(repo.records, &domain.AnalysisRecord{ID: "a1", UserID: "user-1", Signal: domain.SignalLong})
	svc := NewTradingService(&stubMarket{}, repo, &captureRecorder{})

	if err := svc.ReportOutcome(context.Background(), "user-1", "a1", domain.OutcomeWin, 3.5); err != nil {
		t.Fatalf("ReportOutcome: %v", err)
	}
	if repo.records[0].Outcome != domain.OutcomeWin || repo.records[0].ProfitLoss != 3.5 {
		t.Fatalf("outcome not persisted: %+v", repo.records[0])
	}

	err := svc.ReportOutcome(context.Background(), "user-1", "a1", "breakeven", 0)
	if err == nil || !strings.Contains(err.Error(), "outcome") {
		t.Fatalf("expected outcome validation error, got %v", err)
	}
}
