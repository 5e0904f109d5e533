package question

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mohammadf16/numberhunt/internal/model"
)

// MongoBank serves the catalog from the questions and decoy_questions
// collections, sampling server-side.
type MongoBank struct {
	questions *mongo.Collection
	decoys    *mongo.Collection
}

// NewMongoBank creates a bank over db.
func NewMongoBank(db *mongo.Database) *MongoBank {
	return &MongoBank{
		questions: db.Collection("questions"),
		decoys:    db.Collection("decoy_questions"),
	}
}

// DrawPairs implements Bank.
func (b *MongoBank) DrawPairs(ctx context.Context, category string, difficulty, n int) ([]model.QuestionPair, error) {
	match := bson.M{}
	if category != "" {
		match["category"] = category
	}
	if difficulty != 0 {
		match["difficulty"] = difficulty
	}

	reals, err := b.sample(ctx, b.questions, match, n)
	if err != nil {
		return nil, fmt.Errorf("draw questions: %w", err)
	}
	if len(reals) == 0 && len(match) > 0 {
		// Preference too narrow; fall back to the full catalog.
		reals, err = b.sample(ctx, b.questions, bson.M{}, n)
		if err != nil {
			return nil, fmt.Errorf("draw questions: %w", err)
		}
	}
	decoys, err := b.sample(ctx, b.decoys, bson.M{}, n)
	if err != nil {
		return nil, fmt.Errorf("draw decoys: %w", err)
	}
	if len(reals) == 0 || len(decoys) == 0 {
		return nil, ErrBankEmpty
	}

	pairs := make([]model.QuestionPair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, model.QuestionPair{
			Real:  reals[i%len(reals)],
			Decoy: decoys[i%len(decoys)],
		})
	}
	return pairs, nil
}

func (b *MongoBank) sample(ctx context.Context, coll *mongo.Collection, match bson.M, n int) ([]model.Question, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sample", Value: bson.M{"size": n}}},
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.Question
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Seed inserts the built-in catalog, replacing whatever is there. Used
// by the seed command.
func (b *MongoBank) Seed(ctx context.Context) (int, error) {
	if _, err := b.questions.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, err
	}
	if _, err := b.decoys.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, err
	}

	qs := SeedQuestions()
	docs := make([]any, len(qs))
	for i, q := range qs {
		docs[i] = q
	}
	if _, err := b.questions.InsertMany(ctx, docs); err != nil {
		return 0, err
	}

	ds := SeedDecoys()
	docs = make([]any, len(ds))
	for i, d := range ds {
		docs[i] = d
	}
	if _, err := b.decoys.InsertMany(ctx, docs); err != nil {
		return 0, err
	}
	return len(qs) + len(ds), nil
}

var _ Bank = (*MongoBank)(nil)
var _ Bank = (*StaticBank)(nil)
