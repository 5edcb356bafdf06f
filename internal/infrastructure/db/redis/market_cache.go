package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/refi-rr/crypto-dss/internal/api/metrics"
	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

const (
	klinesTTL = time.Minute
	pairsTTL  = time.Hour
)

// MarketCache caches candle windows and the pair list so repeated analyses
// of the same pair do not hammer the upstream market API.
// Key formats: market:klines:<pair>:<timeframe>:<limit>, market:pairs
type MarketCache struct {
	client *redis.Client
}

// NewMarketCache creates a MarketCache wrapping the given Redis client.
func NewMarketCache(client *redis.Client) *MarketCache {
	return &MarketCache{client: client}
}

// Klines returns the cached candle window, or ok=false on a miss. Cache
// failures count as misses; the caller falls through to the upstream API.
func (c *MarketCache) Klines(ctx context.Context, pair, timeframe string, limit int) (domain.Series, bool) {
	raw, err := c.client.Get(ctx, c.klinesKey(pair, timeframe, limit)).Bytes()
	if err != nil {
		metrics.MarketCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var series domain.Series
	if err := json.Unmarshal(raw, &series); err != nil {
		metrics.MarketCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.MarketCacheTotal.WithLabelValues("hit").Inc()
	return series, true
}

// StoreKlines caches a candle window for klinesTTL. Errors are dropped:
// failing to cache must never fail the analysis.
func (c *MarketCache) StoreKlines(ctx context.Context, pair, timeframe string, limit int, series domain.Series) {
	raw, err := json.Marshal(series)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.klinesKey(pair, timeframe, limit), raw, klinesTTL).Err()
}

// Pairs returns the cached pair list, or ok=false on a miss.
func (c *MarketCache) Pairs(ctx context.Context) ([]string, bool) {
	raw, err := c.client.Get(ctx, "market:pairs").Bytes()
	if err != nil {
		metrics.MarketCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var pairs []string
	if err := json.Unmarshal(raw, &pairs); err != nil {
		metrics.MarketCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.MarketCacheTotal.WithLabelValues("hit").Inc()
	return pairs, true
}

// StorePairs caches the pair list for pairsTTL.
func (c *MarketCache) StorePairs(ctx context.Context, pairs []string) {
	raw, err := json.Marshal(pairs)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, "market:pairs", raw, pairsTTL).Err()
}

func (c *MarketCache) klinesKey(pair, timeframe string, limit int) string {
	return fmt.Sprintf("market:klines:%s:%s:%d", pair, timeframe, limit)
}
