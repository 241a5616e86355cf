package entries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/gridiron/go/internal/models"
)

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrPoolNotFound  = errors.New("pool not found")
)

// Repository persists entries in Postgres. The pick ledger travels as a JSONB
// column keyed on the raw team codes.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const entryColumns = `id, pool_id, user_id, name, status, teams, data, created_at, updated_at`

func (r *Repository) CreateEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	const query = `INSERT INTO entries (` + entryColumns + `)
		VALUES (@id, @pool_id, @user_id, @name, @status, @teams, @data, @created_at, @updated_at)
		RETURNING ` + entryColumns

	args, err := entryArgs(entry)
	if err != nil {
		return nil, err
	}
	created, err := scanEntry(r.pool.QueryRow(ctx, query, args))
	if err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}
	return created, nil
}

func (r *Repository) GetEntry(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	const query = `SELECT ` + entryColumns + ` FROM entries WHERE id = @id`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (r *Repository) UpdateEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	const query = `UPDATE entries
		SET name = @name, status = @status, teams = @teams, data = @data, updated_at = @updated_at
		WHERE id = @id
		RETURNING ` + entryColumns

	args, err := entryArgs(entry)
	if err != nil {
		return nil, err
	}
	updated, err := scanEntry(r.pool.QueryRow(ctx, query, args))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	return updated, nil
}

func (r *Repository) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entries WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *Repository) FindEntriesByPool(ctx context.Context, poolID uuid.UUID) ([]models.Entry, error) {
	const query = `SELECT ` + entryColumns + ` FROM entries WHERE pool_id = @pool_id ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, pgx.NamedArgs{"pool_id": poolID})
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for pool: %w", err)
	}
	defer rows.Close()

	var list []models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *entry)
	}
	return list, rows.Err()
}

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

func (r *Repository) GetPool(ctx context.Context, id uuid.UUID) (*models.Pool, error) {
	const query = `SELECT id, week, year, description, status, created_at, updated_at FROM pools WHERE id = @id`

	var p models.Pool
	err := r.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id}).
		Scan(&p.ID, &p.Week, &p.Year, &p.Description, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPoolNotFound
		}
		return nil, err
	}
	return &p, nil
}

func entryArgs(entry *models.Entry) (pgx.NamedArgs, error) {
	rec := entry.Record()

	teams := make([]int32, len(rec.Teams))
	for i, t := range rec.Teams {
		teams[i] = int32(t)
	}

	var data []byte
	if rec.Data != nil {
		var err error
		data, err = json.Marshal(rec.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal entry ledger: %w", err)
		}
	}

	return pgx.NamedArgs{
		"id":         rec.ID,
		"pool_id":    rec.PoolID,
		"user_id":    rec.UserID,
		"name":       rec.Name,
		"status":     string(rec.Status),
		"teams":      teams,
		"data":       data,
		"created_at": rec.CreatedAt,
		"updated_at": rec.UpdatedAt,
	}, nil
}

func scanEntry(row pgx.Row) (*models.Entry, error) {
	var rec models.EntryRecord
	var teams []int32
	var data []byte
	err := row.Scan(&rec.ID, &rec.PoolID, &rec.UserID, &rec.Name, &rec.Status, &teams, &data, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rec.Teams = make([]models.Team, len(teams))
	for i, t := range teams {
		rec.Teams[i] = models.Team(t)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &rec.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry ledger: %w", err)
		}
	}
	return rec.Entry(), nil
}
