package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

const backtestCollection = "backtests"

type BacktestRepository struct {
	coll *mongo.Collection
}

func NewBacktestRepository(db *mongo.Database) *BacktestRepository {
	return &BacktestRepository{coll: db.Collection(backtestCollection)}
}

type backtestTradeDoc struct {
	Side       string    `bson:"side"`
	EntryTime  time.Time `bson:"entry_time"`
	EntryPrice float64   `bson:"entry_price"`
	ExitTime   time.Time `bson:"exit_time"`
	ExitPrice  float64   `bson:"exit_price"`
	ProfitPct  float64   `bson:"profit_pct"`
	Profit     float64   `bson:"profit"`
}

type backtestDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         string             `bson:"user_id"`
	Pair           string             `bson:"pair"`
	Timeframe      string             `bson:"timeframe"`
	StartDate      time.Time          `bson:"start_date"`
	EndDate        time.Time          `bson:"end_date"`
	InitialCapital float64            `bson:"initial_capital"`
	FinalCapital   float64            `bson:"final_capital"`
	TotalProfit    float64            `bson:"total_profit"`
	ROI            float64            `bson:"roi"`
	TotalTrades    int                `bson:"total_trades"`
	WinningTrades  int                `bson:"winning_trades"`
	LosingTrades   int                `bson:"losing_trades"`
	WinRate        float64            `bson:"win_rate"`
	Trades         []backtestTradeDoc `bson:"trades"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func toBacktestDoc(result *domain.BacktestResult) backtestDoc {
	doc := backtestDoc{
		UserID:         result.UserID,
		Pair:           result.Pair,
		Timeframe:      result.Timeframe,
		StartDate:      result.StartDate,
		EndDate:        result.EndDate,
		InitialCapital: result.InitialCapital,
		FinalCapital:   result.FinalCapital,
		TotalProfit:    result.TotalProfit,
		ROI:            result.ROI,
		TotalTrades:    result.TotalTrades,
		WinningTrades:  result.WinningTrades,
		LosingTrades:   result.LosingTrades,
		WinRate:        result.WinRate,
		CreatedAt:      result.CreatedAt,
	}
	for _, t := range result.Trades {
		doc.Trades = append(doc.Trades, backtestTradeDoc{
			Side:       string(t.Side),
			EntryTime:  t.EntryTime,
			EntryPrice: t.EntryPrice,
			ExitTime:   t.ExitTime,
			ExitPrice:  t.ExitPrice,
			ProfitPct:  t.ProfitPct,
			Profit:     t.Profit,
		})
	}
	return doc
}

func (d backtestDoc) toDomain() *domain.BacktestResult {
	result := &domain.BacktestResult{
		ID:             d.ID.Hex(),
		UserID:         d.UserID,
		Pair:           d.Pair,
		Timeframe:      d.Timeframe,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		InitialCapital: d.InitialCapital,
		FinalCapital:   d.FinalCapital,
		TotalProfit:    d.TotalProfit,
		ROI:            d.ROI,
		TotalTrades:    d.TotalTrades,
		WinningTrades:  d.WinningTrades,
		LosingTrades:   d.LosingTrades,
		WinRate:        d.WinRate,
		CreatedAt:      d.CreatedAt,
	}
	for _, t := range d.Trades {
		result.Trades = append(result.Trades, domain.BacktestTrade{
			Side:       domain.Signal(t.Side),
			EntryTime:  t.EntryTime,
			EntryPrice: t.EntryPrice,
			ExitTime:   t.ExitTime,
			ExitPrice:  t.ExitPrice,
			ProfitPct:  t.ProfitPct,
			Profit:     t.Profit,
		})
	}
	return result
}

func (r *BacktestRepository) Insert(ctx context.Context, result *domain.BacktestResult) (*domain.BacktestResult, error) {
	res, err := r.coll.InsertOne(ctx, toBacktestDoc(result))
	if err != nil {
		return nil, fmt.Errorf("insert backtest: %w", err)
	}

	created := *result
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *BacktestRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.BacktestResult, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list backtests: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.BacktestResult
	for cur.Next(ctx) {
		var doc backtestDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode backtest: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}
