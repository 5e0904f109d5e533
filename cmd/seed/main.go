package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mohammadf16/numberhunt/internal/config"
	"github.com/mohammadf16/numberhunt/internal/question"
)

// Loads the built-in question catalog into MongoDB. Run once before
// starting the server against a fresh database.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if cfg.MongoURI == "" {
		log.Fatal().Msg("MONGO_URI is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)

	bank := question.NewMongoBank(client.Database(cfg.MongoDB))
	n, err := bank.Seed(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Int("documents", n).Msg("catalog seeded")
}
