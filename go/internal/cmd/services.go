package main

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/entries"
	"github.com/mcdev12/gridiron/go/internal/games"
	"github.com/mcdev12/gridiron/go/internal/pools"
	"github.com/mcdev12/gridiron/go/internal/reconcile"
)

type Services struct {
	Games   *games.App
	Pools   *pools.App
	Entries *entries.App
	Updater *reconcile.Updater
}

func setupServices(pool *pgxpool.Pool) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → HTTP handlers
	clock := clockwork.NewRealClock()

	gamesApp := games.NewApp(games.NewRepository(pool), clock)
	poolsApp := pools.NewApp(pools.NewRepository(pool), clock)
	entriesApp := entries.NewApp(entries.NewRepository(pool), clock)
	updater := reconcile.NewUpdater(reconcile.NewRepository(pool), entriesApp)

	return &Services{
		Games:   gamesApp,
		Pools:   poolsApp,
		Entries: entriesApp,
		Updater: updater,
	}
}
