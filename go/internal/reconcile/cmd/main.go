package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/gridiron/go/internal/dbconfig"
	"github.com/mcdev12/gridiron/go/internal/entries"
	"github.com/mcdev12/gridiron/go/internal/reconcile"
)

func main() {
	// load .env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// configure zerolog console output and level
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB config
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := cfg.Connect(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("connected to database")

	clock := clockwork.NewRealClock()
	entriesApp := entries.NewApp(entries.NewRepository(pool), clock)
	updater := reconcile.NewUpdater(reconcile.NewRepository(pool), entriesApp)

	natsURL := nats.DefaultURL
	if url := os.Getenv("NATS_URL"); url != "" {
		natsURL = url
	}
	consumer, err := reconcile.NewConsumer(ctx, natsURL, updater)
	if err != nil {
		log.Fatal().Err(err).Msg("create reconciliation consumer")
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			log.Error().Err(err).Msg("close consumer")
		}
	}()

	// run consumer
	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.Run(ctx)
	}()

	// wait for shutdown or error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		<-shutdownCtx.Done()
		log.Info().Msg("graceful shutdown complete")

	case err := <-errCh:
		log.Error().Err(err).Msg("consumer exited unexpectedly")
	}
}
