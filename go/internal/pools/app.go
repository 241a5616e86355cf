package pools

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/validate"
)

// PoolsRepository defines what the app layer needs from the repository
type PoolsRepository interface {
	CreatePool(ctx context.Context, pool *models.Pool) (*models.Pool, error)
	GetPool(ctx context.Context, id uuid.UUID) (*models.Pool, error)
	FindGamesByWeekYear(ctx context.Context, week, year int) ([]models.Game, error)
	AttachGameToPool(ctx context.Context, gameID, poolID uuid.UUID, week, year int) error
	GamesForPool(ctx context.Context, poolID uuid.UUID) ([]models.Game, error)
}

// App handles pools business logic
type App struct {
	repo  PoolsRepository
	clock clockwork.Clock
}

// NewApp creates a new pools App
func NewApp(repo PoolsRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// CreatePool creates a new pool with validation
func (a *App) CreatePool(ctx context.Context, req CreatePoolRequest) (*models.Pool, error) {
	errs := validate.Errors{}
	if req.Week == nil {
		errs.Add("week", "can't be blank")
	}
	if req.Year == nil {
		errs.Add("year", "can't be blank")
	}
	if errs.Any() {
		return nil, &validate.Error{Fields: errs}
	}

	status := req.Status
	if status == "" {
		status = models.PoolStatusPending
	}

	now := a.clock.Now().UTC()
	pool := &models.Pool{
		ID:          uuid.New(),
		Week:        *req.Week,
		Year:        *req.Year,
		Description: req.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if errs := pool.Validate(); errs.Any() {
		return nil, &validate.Error{Fields: errs}
	}

	created, err := a.repo.CreatePool(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	log.Printf("Created pool %s (week %d, %d)", created.ID, created.Week, created.Year)
	return created, nil
}

// GetPool retrieves a pool by ID
func (a *App) GetPool(ctx context.Context, id uuid.UUID) (*models.Pool, error) {
	pool, err := a.repo.GetPool(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	return pool, nil
}

// AttachGames associates every game sharing the pool's week/year with the
// pool. Idempotent: re-running never duplicates associations.
func (a *App) AttachGames(ctx context.Context, input any) (*models.Pool, error) {
	pool, ok := input.(*models.Pool)
	if !ok || pool == nil {
		return nil, &GameAdderError{Input: input}
	}

	games, err := a.repo.FindGamesByWeekYear(ctx, pool.Week, pool.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to find games for week %d, %d: %w", pool.Week, pool.Year, err)
	}

	for _, game := range games {
		if err := a.repo.AttachGameToPool(ctx, game.ID, pool.ID, pool.Week, pool.Year); err != nil {
			return nil, fmt.Errorf("failed to attach game %s to pool %s: %w", game.ID, pool.ID, err)
		}
	}

	log.Printf("Attached %d games to pool %s (week %d, %d)", len(games), pool.ID, pool.Week, pool.Year)
	return pool, nil
}

// Games lists the games associated with a pool.
func (a *App) Games(ctx context.Context, poolID uuid.UUID) ([]models.Game, error) {
	games, err := a.repo.GamesForPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get games for pool: %w", err)
	}
	return games, nil
}
