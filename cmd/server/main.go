// Command server runs the trading signal API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/refi-rr/crypto-dss/internal/api"
	"github.com/refi-rr/crypto-dss/internal/infrastructure/config"
	mongodb "github.com/refi-rr/crypto-dss/internal/infrastructure/db/mongo"
	redisdb "github.com/refi-rr/crypto-dss/internal/infrastructure/db/redis"
	"github.com/refi-rr/crypto-dss/internal/infrastructure/market"
	"github.com/refi-rr/crypto-dss/internal/infrastructure/queue"
	"github.com/refi-rr/crypto-dss/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("configuration error")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	mongoClient, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
		}
	}()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()

	marketClient := market.NewClient(market.Config{
		FuturesBaseURL: cfg.Market.FuturesBaseURL,
		SpotBaseURL:    cfg.Market.SpotBaseURL,
		Retries:        cfg.Market.Retries,
		RetryDelay:     cfg.Market.RetryDelay,
	}, redisdb.NewMarketCache(rdb), log)

	recorder := queue.NewRecorder(cfg.RecorderWorkers, mongodb.NewAnalysisRepository(db), log)
	recorder.Start(ctx)

	e := api.NewRouter(db, rdb, marketClient, recorder, cfg.JWTSecret, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
