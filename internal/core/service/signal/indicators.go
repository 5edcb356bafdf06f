// Package signal computes technical indicators over candle windows and
// scores them into trade recommendations.
package signal

import "math"

// Default indicator parameters.
const (
	RSIPeriod       = 14
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignalSpan  = 9
	BollingerPeriod = 20
	BollingerStdDev = 2.0
	EMASpan         = 9
	VolumePeriod    = 20
)

// RSI returns the relative strength index of the last price using simple
// rolling means of gains and losses. NaN when the window is too short or
// flat, 100 when the window holds gains but no losses.
func RSI(prices []float64, period int) float64 {
	if len(prices) < period+1 {
		return math.NaN()
	}
	var gain, loss float64
	for i := len(prices) - period; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	if loss == 0 {
		if gain == 0 {
			return math.NaN()
		}
		return 100
	}
	rs := gain / loss
	return 100 - 100/(1+rs)
}

// EWMA returns the exponentially weighted moving average series with the
// given span, weighting every sample back to the start of the series.
func EWMA(values []float64, span int) []float64 {
	alpha := 2.0 / (float64(span) + 1)
	out := make([]float64, len(values))
	var num, den float64
	for i, v := range values {
		num = v + (1-alpha)*num
		den = 1 + (1-alpha)*den
		out[i] = num / den
	}
	return out
}

// MACD returns the full MACD line and its signal line.
func MACD(prices []float64, fast, slow, signalSpan int) (macdLine, signalLine []float64) {
	emaFast := EWMA(prices, fast)
	emaSlow := EWMA(prices, slow)
	macdLine = make([]float64, len(prices))
	for i := range prices {
		macdLine[i] = emaFast[i] - emaSlow[i]
	}
	signalLine = EWMA(macdLine, signalSpan)
	return macdLine, signalLine
}

// SMA returns the simple moving average of the last period values, NaN when
// the window is too short.
func SMA(values []float64, period int) float64 {
	if len(values) < period {
		return math.NaN()
	}
	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// Bollinger returns the upper and lower bands: SMA(period) +/- stdDev sample
// standard deviations.
func Bollinger(prices []float64, period int, stdDev float64) (upper, lower float64) {
	mean := SMA(prices, period)
	if math.IsNaN(mean) {
		return math.NaN(), math.NaN()
	}
	var sq float64
	for _, v := range prices[len(prices)-period:] {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(period-1))
	return mean + stdDev*std, mean - stdDev*std
}
