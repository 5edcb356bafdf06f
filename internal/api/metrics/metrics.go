// Package metrics defines all custom Prometheus metrics for the crypto-dss
// API. It is the single source of truth for metric names, labels, and help
// strings. Collectors register themselves with the default registry on
// first import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cryptodss"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AnalysesTotal counts live analyses served, labelled by the resulting
// signal direction.
var AnalysesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_total",
		Help:      "Total number of live signal analyses served, by signal.",
	},
	[]string{"signal"},
)

// AnalysesRecordedTotal counts analysis records persisted by the queue
// workers.
var AnalysesRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_recorded_total",
		Help:      "Total number of analysis records persisted, by signal.",
	},
	[]string{"signal"},
)

// BacktestsTotal counts completed backtest runs.
var BacktestsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backtests_total",
		Help:      "Total number of completed backtest runs.",
	},
)

// RecorderQueueDepth tracks the records waiting in each queue worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RecorderQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "recorder_queue_depth",
		Help:      "Current number of analysis records pending in each queue worker channel.",
	},
	[]string{"worker_id"},
)

// MarketCacheTotal counts market cache lookups.
// Label:
//   - result: "hit" or "miss"
var MarketCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "market_cache_total",
		Help:      "Total number of market data cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)

// MarketRequestDuration measures upstream market API request latency.
// Labels:
//   - provider: "futures" or "spot"
//   - endpoint: "klines" or "exchange_info"
var MarketRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "market_request_duration_seconds",
		Help:      "Duration of upstream market data requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"provider", "endpoint"},
)
