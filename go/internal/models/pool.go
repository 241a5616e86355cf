package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/validate"
)

// PoolStatus defines the status of a pool.
type PoolStatus string

const (
	PoolStatusPending  PoolStatus = "PENDING"
	PoolStatusActive   PoolStatus = "ACTIVE"
	PoolStatusFinished PoolStatus = "FINISHED"
)

// Pool represents one contest instance scoped to a week/year. Games join it
// through the game_pools association, entries belong to it directly.
type Pool struct {
	ID          uuid.UUID  `json:"id"`
	Week        int        `json:"week"`
	Year        int        `json:"year"`
	Description string     `json:"description"`
	Status      PoolStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p *Pool) Validate() validate.Errors {
	errs := validate.Errors{}
	switch p.Status {
	case PoolStatusPending, PoolStatusActive, PoolStatusFinished:
	case "":
		errs.Add("status", "can't be blank")
	default:
		errs.Add("status", "is not a valid status")
	}
	return errs
}
