package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mohammadf16/numberhunt/internal/model"
)

// StatsRepo keeps cumulative per-identity totals across games.
type StatsRepo interface {
	Apply(ctx context.Context, result model.PlayerResult, playedAt time.Time) error
	Top(ctx context.Context, limit int) ([]model.PlayerStats, error)
}

type statsRepo struct {
	coll *mongo.Collection
}

// NewStatsRepo creates a player-stats repository over db.
func NewStatsRepo(db *mongo.Database) StatsRepo {
	return &statsRepo{coll: db.Collection("player_stats")}
}

func (r *statsRepo) Apply(ctx context.Context, result model.PlayerResult, playedAt time.Time) error {
	wins := 0
	if result.Won {
		wins = 1
	}
	update := bson.M{
		"$inc": bson.M{
			"total_games": 1,
			"total_wins":  wins,
			"total_score": result.Score,
		},
		"$set": bson.M{
			"username":    result.Nickname,
			"last_played": playedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.coll.UpdateByID(ctx, result.IdentityID, update, opts)
	return err
}

func (r *statsRepo) Top(ctx context.Context, limit int) ([]model.PlayerStats, error) {
	opts := options.Find().
		SetSort(bson.M{"total_score": -1}).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.PlayerStats
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
