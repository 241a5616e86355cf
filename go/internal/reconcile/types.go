package reconcile

import (
	"context"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
)

// EntryPicks is the slim projection the fan-out works from: an entry and the
// teams it picked.
type EntryPicks struct {
	ID    uuid.UUID
	Teams []models.Team
}

// UpdaterRepository defines what the updater needs from storage.
type UpdaterRepository interface {
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	UpdateGame(ctx context.Context, game *models.Game) (*models.Game, error)
	SaveGameWithEvent(ctx context.Context, game *models.Game, event OutboxRow) (*models.Game, error)
	FindPoolsByGame(ctx context.Context, gameID uuid.UUID) ([]models.Pool, error)
	FindEntryIDsByPool(ctx context.Context, poolID uuid.UUID) ([]EntryPicks, error)
}

// EntryCalculator is the slice of the entries app the fan-out drives.
type EntryCalculator interface {
	CalculateEntry(ctx context.Context, id uuid.UUID, game *models.Game) (*models.Entry, error)
}
