package games

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/gridiron/go/internal/models"
)

var ErrGameNotFound = errors.New("game not found")

// Repository persists games and their pool associations in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const gameColumns = `id, home_team, away_team, week, year, status, winner, loser, created_at, updated_at`

func (r *Repository) CreateGame(ctx context.Context, game *models.Game) (*models.Game, error) {
	const query = `INSERT INTO games (` + gameColumns + `)
		VALUES (@id, @home_team, @away_team, @week, @year, @status, @winner, @loser, @created_at, @updated_at)
		RETURNING ` + gameColumns

	row := r.pool.QueryRow(ctx, query, gameArgs(game))
	created, err := scanGame(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert game: %w", err)
	}
	return created, nil
}

func (r *Repository) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	const query = `SELECT ` + gameColumns + ` FROM games WHERE id = @id`

	row := r.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id})
	game, err := scanGame(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
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

	row := r.pool.QueryRow(ctx, query, gameArgs(game))
	updated, err := scanGame(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	return updated, nil
}

func (r *Repository) FindGamesByWeekYear(ctx context.Context, week, year int) ([]models.Game, error) {
	const query = `SELECT ` + gameColumns + ` FROM games WHERE week = @week AND year = @year ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, pgx.NamedArgs{"week": week, "year": year})
	if err != nil {
		return nil, fmt.Errorf("failed to query games for week %d, %d: %w", week, year, err)
	}
	defer rows.Close()
	return collectGames(rows)
}

func (r *Repository) FindPoolsByWeekYear(ctx context.Context, week, year int) ([]models.Pool, error) {
	const query = `SELECT id, week, year, description, status, created_at, updated_at
		FROM pools WHERE week = @week AND year = @year ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, pgx.NamedArgs{"week": week, "year": year})
	if err != nil {
		return nil, fmt.Errorf("failed to query pools for week %d, %d: %w", week, year, err)
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

// AttachPoolToGame inserts the join row. ON CONFLICT keeps re-runs from
// duplicating associations.
func (r *Repository) AttachPoolToGame(ctx context.Context, gameID, poolID uuid.UUID, week, year int) error {
	const query = `INSERT INTO game_pools (game_id, pool_id, week, year)
		VALUES (@game_id, @pool_id, @week, @year)
		ON CONFLICT (game_id, pool_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, pgx.NamedArgs{
		"game_id": gameID,
		"pool_id": poolID,
		"week":    week,
		"year":    year,
	})
	if err != nil {
		return fmt.Errorf("failed to attach pool to game: %w", err)
	}
	return nil
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

func collectGames(rows pgx.Rows) ([]models.Game, error) {
	var games []models.Game
	for rows.Next() {
		var g models.Game
		var home, away, winner, loser int
		if err := rows.Scan(&g.ID, &home, &away, &g.Week, &g.Year, &g.Status, &winner, &loser, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		g.HomeTeam = models.Team(home)
		g.AwayTeam = models.Team(away)
		g.Winner = models.Team(winner)
		g.Loser = models.Team(loser)
		games = append(games, g)
	}
	return games, rows.Err()
}
