package entries

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/validate"
)

// EntriesRepository defines what the app layer needs from the repository
type EntriesRepository interface {
	CreateEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	GetEntry(ctx context.Context, id uuid.UUID) (*models.Entry, error)
	UpdateEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	FindEntriesByPool(ctx context.Context, poolID uuid.UUID) ([]models.Entry, error)
	GamesForPool(ctx context.Context, poolID uuid.UUID) ([]models.Game, error)
	GetPool(ctx context.Context, id uuid.UUID) (*models.Pool, error)
}

// App handles entries business logic
type App struct {
	repo  EntriesRepository
	clock clockwork.Clock
}

// NewApp creates a new entries App
func NewApp(repo EntriesRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// CreateEntry creates a new entry after running the full validation chain.
func (a *App) CreateEntry(ctx context.Context, req CreateEntryRequest) (*models.Entry, error) {
	if _, err := a.repo.GetPool(ctx, req.PoolID); err != nil {
		return nil, fmt.Errorf("pool not found: %w", err)
	}

	status := req.Status
	if status == "" {
		status = models.EntryStatusPending
	}

	now := a.clock.Now().UTC()
	entry := &models.Entry{
		ID:        uuid.New(),
		PoolID:    req.PoolID,
		UserID:    req.UserID,
		Name:      req.Name,
		Status:    status,
		Teams:     slices.Clone(req.Teams),
		CreatedAt: now,
		UpdatedAt: now,
	}

	errs, fatal := a.validateEntry(ctx, entry, nil)
	if fatal != nil {
		return nil, fatal
	}
	if errs.Any() {
		return nil, &validate.Error{Fields: errs}
	}

	created, err := a.repo.CreateEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	log.Printf("Created entry %q in pool %s (%d picks)", created.Name, created.PoolID, len(created.Teams))
	return created, nil
}

// GetEntry retrieves an entry by ID
func (a *App) GetEntry(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	entry, err := a.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

// FindEntriesByPool lists every entry in a pool.
func (a *App) FindEntriesByPool(ctx context.Context, poolID uuid.UUID) ([]models.Entry, error) {
	list, err := a.repo.FindEntriesByPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries for pool: %w", err)
	}
	return list, nil
}

// UpdateEntry applies field changes and re-runs the validation chain. A team
// change on a pending entry rebuilds the ledger; a team change on an active
// entry is reverted and fails validation.
func (a *App) UpdateEntry(ctx context.Context, id uuid.UUID, req UpdateEntryRequest) (*models.Entry, error) {
	stored, err := a.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("entry not found: %w", err)
	}

	updated := stored.Record().Entry()
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	if req.Teams != nil {
		updated.Teams = slices.Clone(*req.Teams)
	}

	errs, fatal := a.validateEntry(ctx, updated, stored)
	if fatal != nil {
		return nil, fatal
	}
	if errs.Any() {
		return nil, &validate.Error{Fields: errs}
	}

	if !slices.Equal(updated.Teams, stored.Teams) {
		updated.RecalculateLedger()
	}

	updated.UpdatedAt = a.clock.Now().UTC()
	entry, err := a.repo.UpdateEntry(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	return entry, nil
}

// DeleteEntry deletes an entry by ID
func (a *App) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	entry, err := a.repo.GetEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("entry not found: %w", err)
	}
	if err := a.repo.DeleteEntry(ctx, entry.ID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	log.Printf("Deleted entry %q from pool %s", entry.Name, entry.PoolID)
	return nil
}

// CalculateEntry reconciles an entry's ledger, optionally against a finished
// game, and persists the result. An entry that fails validation is skipped
// silently so one malformed entry never halts a reconciliation batch.
func (a *App) CalculateEntry(ctx context.Context, id uuid.UUID, game *models.Game) (*models.Entry, error) {
	entry, err := a.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("entry not found: %w", err)
	}

	// Redundant recomputation guard: without a game, an existing ledger
	// means there is nothing to do and nothing to persist.
	if game == nil && entry.HasLedger() {
		return entry, nil
	}

	errs, fatal := a.validateEntry(ctx, entry, nil)
	if fatal != nil {
		if !errors.Is(fatal, models.ErrIncompleteActiveEntry) {
			return nil, fatal
		}
		log.Printf("Skipping calculation for incomplete active entry %s", entry.ID)
		return entry, nil
	}
	if errs.Any() {
		log.Printf("Skipping calculation for invalid entry %s: %v", entry.ID, errs)
		return entry, nil
	}

	entry.Calculate(game)
	entry.UpdatedAt = a.clock.Now().UTC()

	saved, err := a.repo.UpdateEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to save calculated entry: %w", err)
	}
	return saved, nil
}

// validateEntry runs the full chain: entity invariants, the active-entry
// freeze (updates only), and the cross-reference against the pool's games.
// The returned error is the fatal incomplete-active failure.
func (a *App) validateEntry(ctx context.Context, entry *models.Entry, stored *models.Entry) (validate.Errors, error) {
	errs, fatal := entry.Validate()
	if fatal != nil {
		return errs, fatal
	}
	if stored != nil {
		entry.ForceImmutableTeams(stored, errs)
	}

	games, err := a.repo.GamesForPool(ctx, entry.PoolID)
	if err != nil {
		return errs, fmt.Errorf("failed to get games for pool: %w", err)
	}
	entry.ValidateTeamsAgainstGames(games, errs)
	return errs, nil
}
