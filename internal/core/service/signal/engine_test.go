package signal

import (
	"errors"
	"testing"
	"time"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

func makeSeries(closes, volumes []float64) domain.Series {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(domain.Series, len(closes))
	for i := range closes {
		s[i] = domain.Candle{
			OpenTime: base.Add(time.Duration(i) * time.Hour),
			Open:     closes[i],
			High:     closes[i],
			Low:      closes[i],
			Close:    closes[i],
			Volume:   volumes[i],
		}
	}
	return s
}

func flatSeries(n int, price, volume float64) domain.Series {
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i := range closes {
		closes[i] = price
		volumes[i] = volume
	}
	return makeSeries(closes, volumes)
}

func TestEvaluate_NotEnoughData(t *testing.T) {
	_, err := Evaluate(flatSeries(MinCandles-1, 100, 1000))
	if !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("err = %v, want ErrNotEnoughData", err)
	}
}

func TestEvaluate_FlatMarketWaits(t *testing.T) {
	a, err := Evaluate(flatSeries(60, 100, 1000))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if a.Signal != domain.SignalWait {
		t.Fatalf("signal = %s, want WAIT", a.Signal)
	}
	if a.Strength != domain.StrengthWeak {
		t.Fatalf("strength = %s, want WEAK", a.Strength)
	}
	if a.LongScore != 0 || a.ShortScore != 0 || a.ConfidenceScore != 0 {
		t.Fatalf("scores = %d/%d/%d, want zeros", a.LongScore, a.ShortScore, a.ConfidenceScore)
	}
	if len(a.Signals) != 0 {
		t.Fatalf("signals = %v, want none", a.Signals)
	}
	if a.VolumeRatio != 1 {
		t.Fatalf("volume ratio = %v, want 1", a.VolumeRatio)
	}
}

func TestEvaluate_SteadyDowntrend(t *testing.T) {
	closes := make([]float64, 60)
	volumes := make([]float64, 60)
	for i := range closes {
		closes[i] = 1000 - float64(i)
		volumes[i] = 1000
	}
	a, err := Evaluate(makeSeries(closes, volumes))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	// oversold RSI argues for a reversal, the MA stack for continuation
	want := []string{
		"RSI Oversold (<30) - BULLISH",
		"Price Below MAs - BEARISH",
	}
	if len(a.Signals) != len(want) {
		t.Fatalf("signals = %v, want %v", a.Signals, want)
	}
	for i := range want {
		if a.Signals[i] != want[i] {
			t.Fatalf("signals[%d] = %q, want %q", i, a.Signals[i], want[i])
		}
	}
	if a.LongScore != 20 || a.ShortScore != 15 {
		t.Fatalf("scores = %d/%d, want 20/15", a.LongScore, a.ShortScore)
	}
	if a.Signal != domain.SignalLong || a.ConfidenceScore != 20 || a.Strength != domain.StrengthWeak {
		t.Fatalf("got %s/%d/%s", a.Signal, a.ConfidenceScore, a.Strength)
	}
	if a.RSI != 0 {
		t.Fatalf("rsi = %v, want 0", a.RSI)
	}
}

func TestEvaluate_BreakoutSpike(t *testing.T) {
	// flat at 100, then a +5% candle on triple volume
	closes := make([]float64, 60)
	volumes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 1000
	}
	closes[59] = 105
	volumes[59] = 3000

	a, err := Evaluate(makeSeries(closes, volumes))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	for _, want := range []string{
		"MACD Bullish Crossover - BULLISH",
		"Price Above Upper BB - BEARISH",
		"Price Above MAs - BULLISH",
		"High Volume on Green Candle - BULLISH",
		"Strong Upward Movement (+5.00%) - BULLISH",
		"RSI Overbought (>70) - BEARISH",
	} {
		found := false
		for _, s := range a.Signals {
			if s == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("signal %q missing in %v", want, a.Signals)
		}
	}

	if a.LongScore != 65 || a.ShortScore != 35 {
		t.Fatalf("scores = %d/%d, want 65/35", a.LongScore, a.ShortScore)
	}
	if a.Signal != domain.SignalLong || a.ConfidenceScore != 65 {
		t.Fatalf("signal = %s/%d, want LONG/65", a.Signal, a.ConfidenceScore)
	}
	if a.Strength != domain.StrengthModerate {
		t.Fatalf("strength = %s, want MODERATE", a.Strength)
	}
	if a.CurrentPrice != 105 {
		t.Fatalf("current price = %v", a.CurrentPrice)
	}
	if !almostEqual(a.VolumeRatio, 3000.0/1100.0, 1e-9) {
		t.Fatalf("volume ratio = %v", a.VolumeRatio)
	}
}
