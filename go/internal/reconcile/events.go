package reconcile

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types carried through the outbox and the game event stream.
const (
	EventTypeGameResultUpdated = "GameResultUpdated"
)

// GameResultPayload is the body of a GameResultUpdated event. It carries
// enough for a consumer to re-drive reconciliation without a second lookup.
type GameResultPayload struct {
	GameID    string    `json:"game_id"`
	Status    string    `json:"status"`
	Winner    string    `json:"winner"`
	Loser     string    `json:"loser"`
	Week      int       `json:"week"`
	Year      int       `json:"year"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DomainEvent is the envelope the outbox relay publishes to JetStream.
type DomainEvent struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	GameID    string          `json:"gameId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// OutboxRow is the pending event row written alongside a game update in the
// same transaction.
type OutboxRow struct {
	ID        uuid.UUID
	GameID    uuid.UUID
	EventType string
	Payload   []byte
}
