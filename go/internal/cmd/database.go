package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/gridiron/go/internal/dbconfig"
)

//go:embed schema.sql
var schema string

func setupDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	cfg := dbconfig.NewConfigFromEnv()

	pool, err := cfg.Connect(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Printf("Connected to database: %s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Database)
	return pool, nil
}
