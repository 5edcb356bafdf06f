package ports

import (
	"context"
	"time"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

// MarketData hands out candle windows and the tradable pair list. Pairs are
// formatted "BASE/USDT". Implementations may serve cached data.
type MarketData interface {
	Klines(ctx context.Context, pair, timeframe string, limit int) (domain.Series, error)
	KlinesRange(ctx context.Context, pair, timeframe string, start, end time.Time) (domain.Series, error)
	Pairs(ctx context.Context) ([]string, error)
}
