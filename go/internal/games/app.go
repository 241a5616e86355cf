package games

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/validate"
)

// GamesRepository defines what the app layer needs from the repository
type GamesRepository interface {
	CreateGame(ctx context.Context, game *models.Game) (*models.Game, error)
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	UpdateGame(ctx context.Context, game *models.Game) (*models.Game, error)
	FindGamesByWeekYear(ctx context.Context, week, year int) ([]models.Game, error)
	FindPoolsByWeekYear(ctx context.Context, week, year int) ([]models.Pool, error)
	AttachPoolToGame(ctx context.Context, gameID, poolID uuid.UUID, week, year int) error
}

// App handles games business logic
type App struct {
	repo  GamesRepository
	clock clockwork.Clock
}

// NewApp creates a new games App
func NewApp(repo GamesRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// CreateGame creates a new game with validation
func (a *App) CreateGame(ctx context.Context, req CreateGameRequest) (*models.Game, error) {
	errs := validate.Errors{}
	if req.HomeTeam == nil {
		errs.Add("home_team", "can't be blank")
	}
	if req.AwayTeam == nil {
		errs.Add("away_team", "can't be blank")
	}
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
		status = models.GameStatusPending
	}

	now := a.clock.Now().UTC()
	game := &models.Game{
		ID:        uuid.New(),
		HomeTeam:  *req.HomeTeam,
		AwayTeam:  *req.AwayTeam,
		Week:      *req.Week,
		Year:      *req.Year,
		Status:    status,
		Winner:    models.NoWinner,
		Loser:     models.NoWinner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errs := game.Validate(); errs.Any() {
		return nil, &validate.Error{Fields: errs}
	}

	created, err := a.repo.CreateGame(ctx, game)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	log.Printf("Created game: %s at %s (week %d, %d)", created.AwayTeam, created.HomeTeam, created.Week, created.Year)
	return created, nil
}

// GetGame retrieves a game by ID
func (a *App) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	game, err := a.repo.GetGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// UpdateGame applies field changes to an existing game and persists it.
// Schedule fields on a locked game are restored to their stored values and
// the update fails validation.
func (a *App) UpdateGame(ctx context.Context, id uuid.UUID, req UpdateGameRequest) (*models.Game, error) {
	stored, err := a.repo.GetGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("game not found: %w", err)
	}

	updated, errs := ApplyUpdate(stored, req)
	if errs.Any() {
		return nil, &validate.Error{Fields: errs}
	}

	updated.UpdatedAt = a.clock.Now().UTC()
	game, err := a.repo.UpdateGame(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	log.Printf("Updated game %s: status=%s winner=%s", game.ID, game.Status, game.Winner)
	return game, nil
}

// ApplyUpdate builds the updated game from the stored one without persisting.
// Once a game is locked (active or finished), home/away/week/year changes are
// reverted to the stored values and recorded as validation failures;
// winner, loser and status stay updatable so results can be entered.
func ApplyUpdate(stored *models.Game, req UpdateGameRequest) (*models.Game, validate.Errors) {
	updated := *stored
	errs := validate.Errors{}

	if req.HomeTeam != nil {
		updated.HomeTeam = *req.HomeTeam
	}
	if req.AwayTeam != nil {
		updated.AwayTeam = *req.AwayTeam
	}
	if req.Week != nil {
		updated.Week = *req.Week
	}
	if req.Year != nil {
		updated.Year = *req.Year
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	if req.Winner != nil {
		updated.Winner = *req.Winner
	}
	if req.Loser != nil {
		updated.Loser = *req.Loser
	}

	if stored.Locked() {
		if updated.HomeTeam != stored.HomeTeam {
			updated.HomeTeam = stored.HomeTeam
			errs.Add("home_team", "can't be changed, active Game")
		}
		if updated.AwayTeam != stored.AwayTeam {
			updated.AwayTeam = stored.AwayTeam
			errs.Add("away_team", "can't be changed, active Game")
		}
		if updated.Week != stored.Week {
			updated.Week = stored.Week
			errs.Add("week", "can't be changed, active Game")
		}
		if updated.Year != stored.Year {
			updated.Year = stored.Year
			errs.Add("year", "can't be changed, active Game")
		}
	}

	errs.Merge(updated.Validate())
	return &updated, errs
}

// AttachPools associates every pool sharing the game's week/year with the
// game. Idempotent: re-running never duplicates associations.
func (a *App) AttachPools(ctx context.Context, input any) (*models.Game, error) {
	game, ok := input.(*models.Game)
	if !ok || game == nil {
		return nil, &PoolAdderError{Input: input}
	}

	pools, err := a.repo.FindPoolsByWeekYear(ctx, game.Week, game.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to find pools for week %d, %d: %w", game.Week, game.Year, err)
	}

	for _, pool := range pools {
		if err := a.repo.AttachPoolToGame(ctx, game.ID, pool.ID, game.Week, game.Year); err != nil {
			return nil, fmt.Errorf("failed to attach pool %s to game %s: %w", pool.ID, game.ID, err)
		}
	}

	log.Printf("Attached %d pools to game %s (week %d, %d)", len(pools), game.ID, game.Week, game.Year)
	return game, nil
}
