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
	"github.com/refi-rr/crypto-dss/internal/core/ports"
)

const analysisCollection = "analysis_history"

type AnalysisRepository struct {
	coll *mongo.Collection
}

func NewAnalysisRepository(db *mongo.Database) *AnalysisRepository {
	return &AnalysisRepository{coll: db.Collection(analysisCollection)}
}

type analysisDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id"`
	Pair       string             `bson:"pair"`
	Timeframe  string             `bson:"timeframe"`
	Signal     string             `bson:"signal"`
	Score      int                `bson:"score"`
	Outcome    string             `bson:"outcome,omitempty"`
	ProfitLoss float64            `bson:"profit_loss,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d analysisDoc) toDomain() *domain.AnalysisRecord {
	return &domain.AnalysisRecord{
		ID:         d.ID.Hex(),
		UserID:     d.UserID,
		Pair:       d.Pair,
		Timeframe:  d.Timeframe,
		Signal:     domain.Signal(d.Signal),
		Score:      d.Score,
		Outcome:    d.Outcome,
		ProfitLoss: d.ProfitLoss,
		CreatedAt:  d.CreatedAt,
	}
}

func (r *AnalysisRepository) Insert(ctx context.Context, rec *domain.AnalysisRecord) (*domain.AnalysisRecord, error) {
	doc := analysisDoc{
		UserID:    rec.UserID,
		Pair:      rec.Pair,
		Timeframe: rec.Timeframe,
		Signal:    string(rec.Signal),
		Score:     rec.Score,
		CreatedAt: rec.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}

	created := *rec
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AnalysisRepository) List(ctx context.Context, filter ports.HistoryFilter) ([]*domain.AnalysisRecord, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.AnalysisRecord
	for cur.Next(ctx) {
		var doc analysisDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *AnalysisRepository) SetOutcome(ctx context.Context, id, userID, outcome string, profitLoss float64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "user_id": userID},
		bson.M{"$set": bson.M{"outcome": outcome, "profit_loss": profitLoss}},
	)
	if err != nil {
		return fmt.Errorf("set outcome: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *AnalysisRepository) CountAll(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count analyses: %w", err)
	}
	return n, nil
}
