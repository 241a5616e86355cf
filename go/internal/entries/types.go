package entries

import (
	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/models"
)

// CreateEntryRequest represents the data needed to create a new entry.
type CreateEntryRequest struct {
	PoolID uuid.UUID          `json:"pool_id"`
	UserID uuid.UUID          `json:"user_id"`
	Name   string             `json:"name"`
	Teams  []models.Team      `json:"teams"`
	Status models.EntryStatus `json:"status,omitempty"`
}

// UpdateEntryRequest represents the fields that can change on an entry. Nil
// fields are left untouched; Teams replaces the whole pick set when present.
type UpdateEntryRequest struct {
	Name   *string             `json:"name,omitempty"`
	Status *models.EntryStatus `json:"status,omitempty"`
	Teams  *[]models.Team      `json:"teams,omitempty"`
}

// EntryView is the caller-facing shape of an entry, exposing the ledger as
// read-only data.
type EntryView struct {
	ID     uuid.UUID                          `json:"id"`
	PoolID uuid.UUID                          `json:"pool_id"`
	UserID uuid.UUID                          `json:"user_id"`
	Name   string                             `json:"name"`
	Status models.EntryStatus                 `json:"status"`
	Teams  []models.Team                      `json:"teams"`
	Data   map[models.Team]models.PickOutcome `json:"data,omitempty"`
}

// View builds the caller-facing shape from an entry.
func View(e *models.Entry) EntryView {
	return EntryView{
		ID:     e.ID,
		PoolID: e.PoolID,
		UserID: e.UserID,
		Name:   e.Name,
		Status: e.Status,
		Teams:  e.Teams,
		Data:   e.Data(),
	}
}
