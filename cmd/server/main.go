package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mohammadf16/numberhunt/internal/cache"
	"github.com/mohammadf16/numberhunt/internal/config"
	"github.com/mohammadf16/numberhunt/internal/game"
	"github.com/mohammadf16/numberhunt/internal/question"
	"github.com/mohammadf16/numberhunt/internal/repository"
	"github.com/mohammadf16/numberhunt/internal/service"
	"github.com/mohammadf16/numberhunt/internal/transport/rest"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := newLogger(cfg)
	log.Info().Msg("started")

	ctx := context.Background()

	// MongoDB is optional in development: without it accounts live in
	// memory and questions come from the built-in catalog.
	var db *mongo.Database
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		defer mongoClient.Disconnect(ctx)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			log.Fatal().Err(err).Msg("failed to ping MongoDB")
		}
		log.Info().Msg("connected to MongoDB")
		db = mongoClient.Database(cfg.MongoDB)
	} else {
		log.Warn().Msg("MONGO_URI not set, running without persistence")
	}

	// Redis mirrors the leaderboard; skipped when unset.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal().Err(err).Msg("failed to ping Redis")
		}
		log.Info().Msg("connected to Redis")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, running without leaderboard cache")
	}

	clock := clockwork.NewRealClock()
	rngSrc := rand.NewSource(time.Now().UnixNano())

	rules := game.DefaultRules()
	rules.DetectionBonus = cfg.DetectionBonus
	rules.EvasionBonus = cfg.EvasionBonus
	rules.AnswerTime = cfg.AnswerTime
	rules.PlayerTimeout = cfg.PlayerTimeout

	registry := game.NewRegistry(clock, rngSrc, rules, cfg.RoomIdleTimeout, log)

	var (
		users       repository.UserRepo
		history     repository.HistoryRepo
		stats       repository.StatsRepo
		leaderboard cache.LeaderboardCache
		bank        question.Bank
	)
	if db != nil {
		users = repository.NewUserRepo(db)
		history = repository.NewHistoryRepo(db)
		stats = repository.NewStatsRepo(db)
		bank = question.NewMongoBank(db)
	} else {
		users = repository.NewMemoryUserRepo()
		bank = question.NewStaticBank(rand.NewSource(time.Now().UnixNano()), question.SeedQuestions(), question.SeedDecoys())
	}
	if rdb != nil {
		leaderboard = cache.NewLeaderboardCache(rdb)
	}

	authSvc := service.NewAuthService(users, cfg.JWTSecret)
	gameSvc := service.NewGameService(registry, bank, history, stats, leaderboard, log)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go gameSvc.RunSweeper(sweepCtx, cfg.SweepInterval)

	router := rest.NewRouter(&rest.Container{
		AuthService: authSvc,
		GameService: gameSvc,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.LogPretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
