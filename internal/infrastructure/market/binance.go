// Package market fetches candles and tradable pairs from Binance, futures
// first with a spot fallback, fronted by an optional cache.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/refi-rr/crypto-dss/internal/api/metrics"
	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

const (
	defaultFuturesBaseURL = "https://fapi.binance.com"
	defaultSpotBaseURL    = "https://api.binance.com"

	defaultRetries    = 3
	defaultRetryDelay = time.Second
	defaultTimeout    = 10 * time.Second

	maxPairs      = 50
	maxRangeLimit = 1000
)

// fallbackPairs is served when every upstream provider is down.
var fallbackPairs = []string{
	"BTC/USDT", "ETH/USDT", "BNB/USDT", "XRP/USDT", "ADA/USDT",
	"DOGE/USDT", "SOL/USDT", "DOT/USDT", "MATIC/USDT", "LTC/USDT",
	"LINK/USDT", "UNI/USDT", "ATOM/USDT", "ETC/USDT", "XLM/USDT",
	"AVAX/USDT", "TRX/USDT", "SHIB/USDT", "BCH/USDT", "ALGO/USDT",
}

// Cache fronts the upstream providers. A nil cache disables caching.
type Cache interface {
	Klines(ctx context.Context, pair, timeframe string, limit int) (domain.Series, bool)
	StoreKlines(ctx context.Context, pair, timeframe string, limit int, series domain.Series)
	Pairs(ctx context.Context) ([]string, bool)
	StorePairs(ctx context.Context, pairs []string)
}

// Config tunes the upstream endpoints and the retry policy. Zero values fall
// back to production defaults.
type Config struct {
	FuturesBaseURL string
	SpotBaseURL    string
	Retries        int
	RetryDelay     time.Duration
	Timeout        time.Duration
}

// Client implements ports.MarketData against the Binance REST APIs.
type Client struct {
	futuresBase string
	spotBase    string
	retries     int
	retryDelay  time.Duration
	httpClient  *http.Client
	cache       Cache
	log         zerolog.Logger
}

func NewClient(cfg Config, cache Cache, log zerolog.Logger) *Client {
	if cfg.FuturesBaseURL == "" {
		cfg.FuturesBaseURL = defaultFuturesBaseURL
	}
	if cfg.SpotBaseURL == "" {
		cfg.SpotBaseURL = defaultSpotBaseURL
	}
	if cfg.Retries <= 0 {
		cfg.Retries = defaultRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		futuresBase: cfg.FuturesBaseURL,
		spotBase:    cfg.SpotBaseURL,
		retries:     cfg.Retries,
		retryDelay:  cfg.RetryDelay,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		cache:       cache,
		log:         log,
	}
}

// Klines returns the latest limit candles for the pair, oldest first.
func (c *Client) Klines(ctx context.Context, pair, timeframe string, limit int) (domain.Series, error) {
	if c.cache != nil {
		if series, ok := c.cache.Klines(ctx, pair, timeframe, limit); ok {
			return series, nil
		}
	}

	params := url.Values{}
	params.Set("symbol", symbolOf(pair))
	params.Set("interval", timeframe)
	params.Set("limit", strconv.Itoa(limit))

	series, err := c.fetchKlines(ctx, params)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.StoreKlines(ctx, pair, timeframe, limit, series)
	}
	return series, nil
}

// KlinesRange returns the candles between start and end, oldest first.
func (c *Client) KlinesRange(ctx context.Context, pair, timeframe string, start, end time.Time) (domain.Series, error) {
	params := url.Values{}
	params.Set("symbol", symbolOf(pair))
	params.Set("interval", timeframe)
	params.Set("limit", strconv.Itoa(maxRangeLimit))
	params.Set("startTime", strconv.FormatInt(start.UnixMilli(), 10))
	params.Set("endTime", strconv.FormatInt(end.UnixMilli(), 10))

	return c.fetchKlines(ctx, params)
}

// Pairs returns the USDT-quoted pairs open for trading, capped at maxPairs.
// When both providers are down a fixed popular-pairs list is served.
func (c *Client) Pairs(ctx context.Context) ([]string, error) {
	if c.cache != nil {
		if pairs, ok := c.cache.Pairs(ctx); ok {
			return pairs, nil
		}
	}

	pairs, err := c.fetchPairs(ctx, "futures", c.futuresBase+"/fapi/v1/exchangeInfo")
	if err != nil {
		c.log.Warn().Err(err).Msg("futures exchange info failed, falling back to spot")
		pairs, err = c.fetchPairs(ctx, "spot", c.spotBase+"/api/v3/exchangeInfo")
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("spot exchange info failed, serving fixed pair list")
		return fallbackPairs, nil
	}

	if c.cache != nil {
		c.cache.StorePairs(ctx, pairs)
	}
	return pairs, nil
}

func (c *Client) fetchKlines(ctx context.Context, params url.Values) (domain.Series, error) {
	var raw [][]any
	err := c.getJSON(ctx, "futures", "klines", c.futuresBase+"/fapi/v1/klines?"+params.Encode(), &raw)
	if err != nil {
		c.log.Warn().Err(err).Msg("futures klines failed, falling back to spot")
		err = c.getJSON(ctx, "spot", "klines", c.spotBase+"/api/v3/klines?"+params.Encode(), &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMarketUnavailable, err)
	}
	return parseKlines(raw)
}

type exchangeInfo struct {
	Symbols []struct {
		Symbol string `json:"symbol"`
		Status string `json:"status"`
	} `json:"symbols"`
}

func (c *Client) fetchPairs(ctx context.Context, provider, u string) ([]string, error) {
	var info exchangeInfo
	if err := c.getJSON(ctx, provider, "exchange_info", u, &info); err != nil {
		return nil, err
	}

	var pairs []string
	for _, s := range info.Symbols {
		if s.Status != "TRADING" || !strings.HasSuffix(s.Symbol, "USDT") {
			continue
		}
		pairs = append(pairs, s.Symbol[:len(s.Symbol)-4]+"/USDT")
		if len(pairs) == maxPairs {
			break
		}
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no tradable USDT pairs in %s exchange info", provider)
	}
	sort.Strings(pairs)
	return pairs, nil
}

// getJSON fetches u and decodes the body, retrying transient failures with a
// fixed delay between attempts.
func (c *Client) getJSON(ctx context.Context, provider, endpoint, u string, out any) error {
	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		lastErr = c.getJSONOnce(ctx, provider, endpoint, u, out)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func (c *Client) getJSONOnce(ctx context.Context, provider, endpoint, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.MarketRequestDuration.WithLabelValues(provider, endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: status %d", provider, endpoint, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// parseKlines converts the raw Binance kline rows, where prices and volume
// arrive as strings and the open time as a millisecond number.
func parseKlines(raw [][]any) (domain.Series, error) {
	series := make(domain.Series, 0, len(raw))
	for _, row := range raw {
		if len(row) < 6 {
			return nil, fmt.Errorf("malformed kline row of %d fields", len(row))
		}

		ts, ok := row[0].(float64)
		if !ok {
			return nil, fmt.Errorf("malformed kline open time %v", row[0])
		}

		var c domain.Candle
		c.OpenTime = time.UnixMilli(int64(ts)).UTC()
		for i, dst := range []*float64{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume} {
			s, ok := row[i+1].(string)
			if !ok {
				return nil, fmt.Errorf("malformed kline field %v", row[i+1])
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("parse kline field: %w", err)
			}
			*dst = v
		}
		series = append(series, c)
	}
	return series, nil
}

func symbolOf(pair string) string {
	return strings.ReplaceAll(pair, "/", "")
}
