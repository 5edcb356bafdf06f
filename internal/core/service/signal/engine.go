package signal

import (
	"errors"
	"fmt"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

// MinCandles is the shortest window Evaluate accepts: the widest rolling
// indicator (20 periods) plus one previous candle for crossover checks.
const MinCandles = BollingerPeriod + 1

// ErrNotEnoughData is returned when the candle window is shorter than
// MinCandles.
var ErrNotEnoughData = errors.New("not enough candles for analysis")

// Score contributions per triggered condition.
const (
	scoreRSI       = 20
	scoreMACD      = 20
	scoreBollinger = 15
	scoreMAStack   = 15
	scoreVolume    = 15
	scoreMove      = 15
)

// StrongThreshold and ModerateThreshold bucket the confidence score.
const (
	StrongThreshold   = 70
	ModerateThreshold = 50
)

// Evaluate scores the latest candle of the series and returns the resulting
// trade recommendation. The series must be ordered oldest first.
func Evaluate(series domain.Series) (*domain.Analysis, error) {
	if len(series) < MinCandles {
		return nil, ErrNotEnoughData
	}

	closes := series.Closes()
	volumes := series.Volumes()
	last := len(closes) - 1

	rsi := RSI(closes, RSIPeriod)
	macdLine, signalLine := MACD(closes, MACDFast, MACDSlow, MACDSignalSpan)
	upperBB, lowerBB := Bollinger(closes, BollingerPeriod, BollingerStdDev)
	sma20 := SMA(closes, BollingerPeriod)
	sma50 := sma20
	if len(closes) >= 50 {
		sma50 = SMA(closes, 50)
	}
	avgVolume := SMA(volumes, VolumePeriod)

	price := closes[last]
	prevPrice := closes[last-1]
	currentVolume := volumes[last]

	var longScore, shortScore int
	var signals []string

	if rsi < 30 {
		longScore += scoreRSI
		signals = append(signals, "RSI Oversold (<30) - BULLISH")
	} else if rsi > 70 {
		shortScore += scoreRSI
		signals = append(signals, "RSI Overbought (>70) - BEARISH")
	}

	macdCur, sigCur := macdLine[last], signalLine[last]
	macdPrev, sigPrev := macdLine[last-1], signalLine[last-1]
	if macdCur > sigCur && macdPrev <= sigPrev {
		longScore += scoreMACD
		signals = append(signals, "MACD Bullish Crossover - BULLISH")
	} else if macdCur < sigCur && macdPrev >= sigPrev {
		shortScore += scoreMACD
		signals = append(signals, "MACD Bearish Crossover - BEARISH")
	}

	if price < lowerBB {
		longScore += scoreBollinger
		signals = append(signals, "Price Below Lower BB - BULLISH")
	} else if price > upperBB {
		shortScore += scoreBollinger
		signals = append(signals, "Price Above Upper BB - BEARISH")
	}

	if price > sma20 && sma20 > sma50 {
		longScore += scoreMAStack
		signals = append(signals, "Price Above MAs - BULLISH")
	} else if price < sma20 && sma20 < sma50 {
		shortScore += scoreMAStack
		signals = append(signals, "Price Below MAs - BEARISH")
	}

	if currentVolume > avgVolume*1.5 {
		if price > prevPrice {
			longScore += scoreVolume
			signals = append(signals, "High Volume on Green Candle - BULLISH")
		} else {
			shortScore += scoreVolume
			signals = append(signals, "High Volume on Red Candle - BEARISH")
		}
	}

	priceChange := (price - prevPrice) / prevPrice * 100
	if priceChange > 2 {
		longScore += scoreMove
		signals = append(signals, fmt.Sprintf("Strong Upward Movement (+%.2f%%) - BULLISH", priceChange))
	} else if priceChange < -2 {
		shortScore += scoreMove
		signals = append(signals, fmt.Sprintf("Strong Downward Movement (%.2f%%) - BEARISH", priceChange))
	}

	var sig domain.Signal
	var confidence int
	switch {
	case longScore > shortScore:
		sig, confidence = domain.SignalLong, longScore
	case shortScore > longScore:
		sig, confidence = domain.SignalShort, shortScore
	default:
		sig, confidence = domain.SignalWait, longScore
	}

	strength := domain.StrengthWeak
	switch {
	case confidence >= StrongThreshold:
		strength = domain.StrengthStrong
	case confidence >= ModerateThreshold:
		strength = domain.StrengthModerate
	}

	return &domain.Analysis{
		Signal:          sig,
		Strength:        strength,
		ConfidenceScore: confidence,
		LongScore:       longScore,
		ShortScore:      shortScore,
		CurrentPrice:    price,
		RSI:             rsi,
		MACD:            macdCur,
		MACDSignal:      sigCur,
		UpperBB:         upperBB,
		LowerBB:         lowerBB,
		SMA20:           sma20,
		SMA50:           sma50,
		VolumeRatio:     currentVolume / avgVolume,
		Signals:         signals,
	}, nil
}
