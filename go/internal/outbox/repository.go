package outbox

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/gridiron/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

// DBTX is satisfied by *sql.DB and *sql.Tx so the same queries run inside or
// outside a relay transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type Repository struct {
	db DBTX
}

func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository's queries to a relay transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx}
}

// FetchUnsentOutbox claims up to limit unsent events. SKIP LOCKED keeps
// concurrent relays from publishing the same batch twice.
func (r *Repository) FetchUnsentOutbox(ctx context.Context, limit int32) ([]OutboxEvent, error) {
	const query = `SELECT id, game_id, event_type, payload, created_at, sent_at
		FROM outbox
		WHERE sent_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var event OutboxEvent
		var payload pqtype.NullRawMessage
		var sentAt sql.NullTime
		if err := rows.Scan(&event.ID, &event.GameID, &event.EventType, &payload, &event.CreatedAt, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		if payload.Valid {
			event.Payload = payload.RawMessage
		}
		event.SentAt = sqlutil.FromSqlTime(sentAt)
		events = append(events, event)
	}
	return events, rows.Err()
}

// MarkOutboxSent stamps the given events as published.
func (r *Repository) MarkOutboxSent(ctx context.Context, ids []uuid.UUID) error {
	const query = `UPDATE outbox SET sent_at = NOW() WHERE id = ANY($1)`

	_, err := r.db.ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to mark outbox events as sent: %w", err)
	}
	return nil
}
