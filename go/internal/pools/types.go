package pools

import "github.com/mcdev12/gridiron/go/internal/models"

// CreatePoolRequest represents the data needed to create a new pool. Week and
// year are pointers so week zero is distinguishable from a missing value.
type CreatePoolRequest struct {
	Week        *int              `json:"week"`
	Year        *int              `json:"year"`
	Description string            `json:"description,omitempty"`
	Status      models.PoolStatus `json:"status,omitempty"`
}
