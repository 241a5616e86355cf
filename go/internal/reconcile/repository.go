package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/gridiron/go/internal/games"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
)

// Repository gives the updater its own view of games, pools and entries so a
// reconciliation pass runs without borrowing the domain repositories.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const gameColumns = `id, home_team, away_team, week, year, status, winner, loser, created_at, updated_at`

func (r *Repository) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	const query = `SELECT ` + gameColumns + ` FROM games WHERE id = @id`

	game, err := scanGame(r.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, games.ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func (r *Repository) UpdateGame(ctx context.Context, game *models.Game) (*models.Game, error) {
	const query = `UPDATE games
		SET home_team = @home_team, away_team = @away_team, week = @week, year = @year,
			status = @status, winner = @winner, loser = @loser, updated_at = @updated_at
		WHERE id = @id
		RETURNING ` + gameColumns

	updated, err := scanGame(r.pool.QueryRow(ctx, query, gameArgs(game)))
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	return updated, nil
}

// SaveGameWithEvent persists the game and stages the outbox row in one
// transaction so a result change and its event cannot diverge.
func (r *Repository) SaveGameWithEvent(ctx context.Context, game *models.Game, event OutboxRow) (*models.Game, error) {
	const updateQuery = `UPDATE games
		SET home_team = @home_team, away_team = @away_team, week = @week, year = @year,
			status = @status, winner = @winner, loser = @loser, updated_at = @updated_at
		WHERE id = @id
		RETURNING ` + gameColumns

	const outboxQuery = `INSERT INTO outbox (id, game_id, event_type, payload)
		VALUES (@id, @game_id, @event_type, @payload)`

	var updated *models.Game
	err := sqlutil.Run(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		updated, err = scanGame(tx.QueryRow(ctx, updateQuery, gameArgs(game)))
		if err != nil {
			return fmt.Errorf("failed to update game: %w", err)
		}

		_, err = tx.Exec(ctx, outboxQuery, pgx.NamedArgs{
			"id":         event.ID,
			"game_id":    event.GameID,
			"event_type": event.EventType,
			"payload":    event.Payload,
		})
		if err != nil {
			return fmt.Errorf("failed to insert outbox event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FindPoolsByGame lists the pools a game fans out to through game_pools.
func (r *Repository) FindPoolsByGame(ctx context.Context, gameID uuid.UUID) ([]models.Pool, error) {
	const query = `SELECT p.id, p.week, p.year, p.description, p.status, p.created_at, p.updated_at
		FROM pools p
		JOIN game_pools gp ON gp.pool_id = p.id
		WHERE gp.game_id = @game_id
		ORDER BY p.created_at`

	rows, err := r.pool.Query(ctx, query, pgx.NamedArgs{"game_id": gameID})
	if err != nil {
		return nil, fmt.Errorf("failed to query pools for game: %w", err)
	}
	defer rows.Close()

	var pools []models.Pool
	for rows.Next() {
		var p models.Pool
		if err := rows.Scan(&p.ID, &p.Week, &p.Year, &p.Description, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

// FindEntryIDsByPool lists entry IDs with their picks, enough for the fan-out
// to decide which entries a result touches without hydrating full entries.
func (r *Repository) FindEntryIDsByPool(ctx context.Context, poolID uuid.UUID) ([]EntryPicks, error) {
	const query = `SELECT id, teams FROM entries WHERE pool_id = @pool_id ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, pgx.NamedArgs{"pool_id": poolID})
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for pool: %w", err)
	}
	defer rows.Close()

	var list []EntryPicks
	for rows.Next() {
		var ep EntryPicks
		var teams []int32
		if err := rows.Scan(&ep.ID, &teams); err != nil {
			return nil, err
		}
		ep.Teams = make([]models.Team, len(teams))
		for i, t := range teams {
			ep.Teams[i] = models.Team(t)
		}
		list = append(list, ep)
	}
	return list, rows.Err()
}

func gameArgs(game *models.Game) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":         game.ID,
		"home_team":  int(game.HomeTeam),
		"away_team":  int(game.AwayTeam),
		"week":       game.Week,
		"year":       game.Year,
		"status":     string(game.Status),
		"winner":     int(game.Winner),
		"loser":      int(game.Loser),
		"created_at": game.CreatedAt,
		"updated_at": game.UpdatedAt,
	}
}

func scanGame(row pgx.Row) (*models.Game, error) {
	var g models.Game
	var home, away, winner, loser int
	err := row.Scan(&g.ID, &home, &away, &g.Week, &g.Year, &g.Status, &winner, &loser, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	g.HomeTeam = models.Team(home)
	g.AwayTeam = models.Team(away)
	g.Winner = models.Team(winner)
	g.Loser = models.Team(loser)
	return &g, nil
}
