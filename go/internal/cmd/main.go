package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := setupDatabase(ctx)
	if err != nil {
		log.Fatalf("Failed to set up database: %v", err)
	}
	defer pool.Close()

	services := setupServices(pool)

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		config, err := loadConfig(path)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		services.Updater.SetWorkers(config.Reconciler.Workers)
	}

	server := setupServer(services)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server exited: %v", err)
		}
	}
}
