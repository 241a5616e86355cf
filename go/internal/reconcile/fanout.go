package reconcile

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/rs/zerolog/log"
)

// inFlightRetryWait is how long a worker backs off when another batch already
// holds the entry it popped.
const inFlightRetryWait = 10 * time.Millisecond

// FanOut recalculates every entry affected by a game's result. An entry is
// affected when it picked the game's winner or loser. Entries are deduplicated
// across pools and recalculated by a bounded worker pool; an entry already
// claimed by an overlapping batch is waited out, and a single entry failing
// never aborts the batch.
func (u *Updater) FanOut(ctx context.Context, game *models.Game) error {
	affected, err := u.affectedEntries(ctx, game)
	if err != nil {
		return err
	}
	if len(affected) == 0 {
		log.Debug().Str("game_id", game.ID.String()).Msg("no entries affected by result")
		return nil
	}

	log.Info().
		Str("game_id", game.ID.String()).
		Int("entries", len(affected)).
		Int("workers", u.numWorkers).
		Msg("fanning out result to entries")

	workCh := make(chan uuid.UUID, u.numWorkers*2)

	var wg sync.WaitGroup
	for i := 0; i < u.numWorkers; i++ {
		wg.Add(1)
		go u.worker(ctx, &wg, i, game, workCh)
	}

dispatch:
	for _, entryID := range affected {
		select {
		case <-ctx.Done():
			log.Info().Str("game_id", game.ID.String()).Msg("shutdown while queueing entries")
			break dispatch
		case workCh <- entryID:
		}
	}
	close(workCh)
	wg.Wait()
	return ctx.Err()
}

// affectedEntries walks the game's pools and collects, deduplicated, every
// entry that picked the winner or the loser.
func (u *Updater) affectedEntries(ctx context.Context, game *models.Game) ([]uuid.UUID, error) {
	pools, err := u.repo.FindPoolsByGame(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find pools for game: %w", err)
	}

	seen := make(map[uuid.UUID]bool)
	var affected []uuid.UUID
	for _, pool := range pools {
		picks, err := u.repo.FindEntryIDsByPool(ctx, pool.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to find entries for pool %s: %w", pool.ID, err)
		}
		for _, ep := range picks {
			if seen[ep.ID] || !picksResult(ep.Teams, game) {
				continue
			}
			seen[ep.ID] = true
			affected = append(affected, ep.ID)
		}
	}
	return affected, nil
}

// acquireEntry claims exclusive write access to an entry, waiting out any
// writer an overlapping batch already has on it. Returns false once the
// context is cancelled.
func (u *Updater) acquireEntry(ctx context.Context, id uuid.UUID) bool {
	for {
		u.mu.Lock()
		if !u.inFlight[id] {
			u.inFlight[id] = true
			u.mu.Unlock()
			return true
		}
		u.mu.Unlock()

		select {
		case <-ctx.Done():
			return false
		case <-u.clock.After(inFlightRetryWait):
		}
	}
}

func (u *Updater) releaseEntry(id uuid.UUID) {
	u.mu.Lock()
	delete(u.inFlight, id)
	u.mu.Unlock()
}

func picksResult(teams []models.Team, game *models.Game) bool {
	if game.Winner != models.NoWinner && slices.Contains(teams, game.Winner) {
		return true
	}
	return game.Loser != models.NoWinner && slices.Contains(teams, game.Loser)
}

// worker recalculates entries from the work channel
func (u *Updater) worker(ctx context.Context, wg *sync.WaitGroup, workerID int, game *models.Game, workCh <-chan uuid.UUID) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker_id", workerID).Msg("worker shutting down")
			return
		case entryID, ok := <-workCh:
			if !ok {
				return
			}
			if !u.acquireEntry(ctx, entryID) {
				return
			}
			if _, err := u.calculator.CalculateEntry(ctx, entryID, game); err != nil {
				log.Error().
					Err(err).
					Str("entry_id", entryID.String()).
					Str("game_id", game.ID.String()).
					Int("worker_id", workerID).
					Msg("entry recalculation failed")
			}
			u.releaseEntry(entryID)
		}
	}
}
