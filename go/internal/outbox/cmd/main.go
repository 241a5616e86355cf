package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/gridiron/go/internal/dbconfig"
	"github.com/mcdev12/gridiron/go/internal/outbox"
)

func main() {
	// load .env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// configure zerolog console output and level
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	// DB config
	cfg := dbconfig.NewConfigFromEnv()
	db, err := cfg.Open()
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("connected to database")

	// JetStream publisher
	jsCfg := outbox.DefaultJetStreamConfig()
	if url := os.Getenv("NATS_URL"); url != "" {
		jsCfg.URL = url
	}
	publisher, err := outbox.NewJetStreamPublisher(jsCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create JetStream publisher")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("close publisher")
		}
	}()

	wCfg := outbox.DefaultConfig()
	if iv := os.Getenv("OUTBOX_POLL_INTERVAL"); iv != "" {
		if d, err := time.ParseDuration(iv); err == nil {
			wCfg.PollInterval = d
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	worker := outbox.NewWorker(db, publisher, wCfg, logger)

	// signal-aware context
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := worker.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start outbox worker")
	}

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")
	if err := worker.Stop(); err != nil {
		log.Error().Err(err).Msg("stop outbox worker")
	}
	log.Info().Msg("graceful shutdown complete")
}
