package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mohammadf16/numberhunt/internal/model"
)

// HistoryRepo archives finished games.
type HistoryRepo interface {
	Save(ctx context.Context, rec *model.GameRecord) error
	ByIdentity(ctx context.Context, identityID string, limit int) ([]model.GameRecord, error)
}

type historyRepo struct {
	coll *mongo.Collection
}

// NewHistoryRepo creates a game-history repository over db.
func NewHistoryRepo(db *mongo.Database) HistoryRepo {
	return &historyRepo{coll: db.Collection("game_history")}
}

func (r *historyRepo) Save(ctx context.Context, rec *model.GameRecord) error {
	_, err := r.coll.InsertOne(ctx, rec)
	return err
}

func (r *historyRepo) ByIdentity(ctx context.Context, identityID string, limit int) ([]model.GameRecord, error) {
	opts := options.Find().
		SetSort(bson.M{"finished_at": -1}).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.M{"players.identity_id": identityID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.GameRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
