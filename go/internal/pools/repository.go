package pools

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/gridiron/go/internal/models"
)

var ErrPoolNotFound = errors.New("pool not found")

// Repository persists pools and their game associations in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const poolColumns = `id, week, year, description, status, created_at, updated_at`

func (r *Repository) CreatePool(ctx context.Context, pool *models.Pool) (*models.Pool, error) {
	const query = `INSERT INTO pools (` + poolColumns + `)
		VALUES (@id, @week, @year, @description, @status, @created_at, @updated_at)
		RETURNING ` + poolColumns

	row := r.pool.QueryRow(ctx, query, pgx.NamedArgs{
		"id":          pool.ID,
		"week":        pool.Week,
		"year":        pool.Year,
		"description": pool.Description,
		"status":      string(pool.Status),
		"created_at":  pool.CreatedAt,
		"updated_at":  pool.UpdatedAt,
	})
	created, err := scanPool(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert pool: %w", err)
	}
	return created, nil
}

func (r *Repository) GetPool(ctx context.Context, id uuid.UUID) (*models.Pool, error) {
	const query = `SELECT ` + poolColumns + ` FROM pools WHERE id = @id`

	row := r.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id})
	pool, err := scanPool(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPoolNotFound
		}
		return nil, err
	}
	return pool, nil
}

func (r *Repository) FindGamesByWeekYear(ctx context.Context, week, year int) ([]models.Game, error) {
	const query = `SELECT id, home_team, away_team, week, year, status, winner, loser, created_at, updated_at
		FROM games WHERE week = @week AND year = @year ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, pgx.NamedArgs{"week": week, "year": year})
	if err != nil {
		return nil, fmt.Errorf("failed to query games for week %d, %d: %w", week, year, err)
	}
	defer rows.Close()
	return collectGames(rows)
}

// AttachGameToPool inserts the join row. ON CONFLICT keeps re-runs from
// duplicating associations.
func (r *Repository) AttachGameToPool(ctx context.Context, gameID, poolID uuid.UUID, week, year int) error {
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
		return fmt.Errorf("failed to attach game to pool: %w", err)
	}
	return nil
}

// GamesForPool lists games through the game_pools join.
func (r *Repository) GamesForPool(ctx context.Context, poolID uuid.UUID) ([]models.Game, error) {
	const query = `SELECT g.id, g.home_team, g.away_team, g.week, g.year, g.status, g.winner, g.loser, g.created_at, g.updated_at
		FROM games g
		JOIN game_pools gp ON gp.game_id = g.id
		WHERE gp.pool_id = @pool_id
		ORDER BY g.created_at`

	rows, err := r.pool.Query(ctx, query, pgx.NamedArgs{"pool_id": poolID})
	if err != nil {
		return nil, fmt.Errorf("failed to query games for pool: %w", err)
	}
	defer rows.Close()
	return collectGames(rows)
}

func scanPool(row pgx.Row) (*models.Pool, error) {
	var p models.Pool
	err := row.Scan(&p.ID, &p.Week, &p.Year, &p.Description, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
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
