package models

import (
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/validate"
)

// MaxPicks is the number of teams a complete entry picks.
const MaxPicks = 6

// EntryStatus defines the status of an entry.
type EntryStatus string

const (
	EntryStatusPending EntryStatus = "PENDING"
	EntryStatusActive  EntryStatus = "ACTIVE"
	EntryStatusWinner  EntryStatus = "WINNER"
	EntryStatusLoser   EntryStatus = "LOSER"
)

// PickOutcome is the per-team progress value in an entry's ledger. The values
// are lowercase for compatibility with the historical JSONB ledger rows.
type PickOutcome string

const (
	PickPending PickOutcome = "pending"
	PickWinner  PickOutcome = "winner"
	PickLoser   PickOutcome = "loser"
)

// ErrIncompleteActiveEntry is the fatal failure for an active entry with
// fewer than six picks. Unlike the recorded validation messages it aborts the
// whole save.
var ErrIncompleteActiveEntry = errors.New("entry can't be active without a full pick set")

// Entry is one user's set of picks within a pool. The ledger is private
// derived state: Calculate is the only mutation path, Data returns a copy.
type Entry struct {
	ID        uuid.UUID
	PoolID    uuid.UUID
	UserID    uuid.UUID
	Name      string
	Status    EntryStatus
	Teams     []Team
	data      map[Team]PickOutcome
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Data returns a copy of the pick ledger, or nil when it has not been
// calculated yet.
func (e *Entry) Data() map[Team]PickOutcome {
	if e.data == nil {
		return nil
	}
	out := make(map[Team]PickOutcome, len(e.data))
	for t, o := range e.data {
		out[t] = o
	}
	return out
}

// HasLedger reports whether the pick ledger has been built.
func (e *Entry) HasLedger() bool {
	return e.data != nil
}

// Calculate reconciles the ledger. Without a game it is a build-once no-op:
// an existing ledger is left untouched, a missing one defaults every pick to
// pending. With a game, the ledger keys matching the game's winner and loser
// flip to their outcome and the entry status is recomputed.
func (e *Entry) Calculate(game *Game) {
	if game == nil && e.data != nil {
		return
	}
	if e.data == nil {
		e.data = make(map[Team]PickOutcome, len(e.Teams))
		for _, t := range e.Teams {
			e.data[t] = PickPending
		}
	}
	if game == nil {
		return
	}

	if game.Winner.Valid() {
		if _, picked := e.data[game.Winner]; picked {
			e.data[game.Winner] = PickWinner
			if e.ledgerWon() {
				e.Status = EntryStatusWinner
			}
		}
	}
	if game.Loser.Valid() {
		if _, picked := e.data[game.Loser]; picked {
			e.data[game.Loser] = PickLoser
			e.Status = EntryStatusLoser
		}
	}
}

// RecalculateLedger rebuilds the ledger from the current team set. Called when
// the picks change before the entry locks; a never-built ledger stays lazy.
func (e *Entry) RecalculateLedger() {
	if e.data == nil {
		return
	}
	e.data = nil
	e.Calculate(nil)
}

// ledgerWon reports whether every ledger entry is winner. Any pending or
// loser value blocks promotion.
func (e *Entry) ledgerWon() bool {
	for _, outcome := range e.data {
		if outcome == PickPending || outcome == PickLoser {
			return false
		}
	}
	return true
}

// Validate checks the entry's own invariants: presence, pick count, and
// at-six uniqueness. The returned error is non-nil only for the fatal
// incomplete-active case.
func (e *Entry) Validate() (validate.Errors, error) {
	errs := validate.Errors{}
	if e.Name == "" {
		errs.Add("name", "can't be blank")
	}
	switch e.Status {
	case EntryStatusPending, EntryStatusActive, EntryStatusWinner, EntryStatusLoser:
	case "":
		errs.Add("status", "can't be blank")
	default:
		errs.Add("status", "is not a valid status")
	}

	if len(e.Teams) > MaxPicks {
		errs.Add("teams", "picked too many")
	}
	if len(e.Teams) == MaxPicks && len(uniqueTeams(e.Teams)) < MaxPicks {
		errs.Add("teams", "can only be picked once")
	}

	if e.Status == EntryStatusActive && len(e.Teams) < MaxPicks {
		errs.Add("teams", "haven't picked enough")
		return errs, ErrIncompleteActiveEntry
	}
	return errs, nil
}

// ValidateTeamsAgainstGames cross-references the picks with the games
// scheduled in the entry's pool: every pick must appear as home or away of
// some pool game, and no two picks may oppose each other in one game.
func (e *Entry) ValidateTeamsAgainstGames(games []Game, errs validate.Errors) {
	if len(e.Teams) == 0 {
		return
	}

	playing := make(map[Team]bool, len(games)*2)
	for _, g := range games {
		playing[g.HomeTeam] = true
		playing[g.AwayTeam] = true
	}

	var notPlaying []string
	for _, t := range e.Teams {
		if !playing[t] {
			notPlaying = append(notPlaying, t.Name())
		}
	}
	if len(notPlaying) > 0 {
		msg, _ := json.Marshal(notPlaying)
		errs.Add("teams", string(msg)+" picked but aren't playing")
	}

	picked := make(map[Team]bool, len(e.Teams))
	for _, t := range e.Teams {
		picked[t] = true
	}
	var opponents [][]string
	for _, g := range games {
		if picked[g.HomeTeam] && picked[g.AwayTeam] {
			opponents = append(opponents, []string{g.HomeTeam.Name(), g.AwayTeam.Name()})
		}
	}
	if len(opponents) > 0 {
		msg, _ := json.Marshal(opponents)
		errs.Add("teams", string(msg)+" are playing each other")
	}
}

// ForceImmutableTeams enforces the active-entry freeze: an attempted change
// to the team set is reverted to the stored value and recorded as a
// validation failure.
func (e *Entry) ForceImmutableTeams(stored *Entry, errs validate.Errors) {
	if e.Status != EntryStatusActive {
		return
	}
	if !slices.Equal(e.Teams, stored.Teams) {
		e.Teams = slices.Clone(stored.Teams)
		e.data = stored.Data()
		errs.Add("teams", "can't be changed, active Entry")
	}
}

func uniqueTeams(teams []Team) []Team {
	seen := make(map[Team]bool, len(teams))
	out := teams[:0:0]
	for _, t := range teams {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// EntryRecord is the persistence shape of an entry. Repositories hydrate
// entries through it so the ledger stays private everywhere else.
type EntryRecord struct {
	ID        uuid.UUID
	PoolID    uuid.UUID
	UserID    uuid.UUID
	Name      string
	Status    EntryStatus
	Teams     []Team
	Data      map[Team]PickOutcome
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Entry builds the domain entity from a stored record.
func (r EntryRecord) Entry() *Entry {
	return &Entry{
		ID:        r.ID,
		PoolID:    r.PoolID,
		UserID:    r.UserID,
		Name:      r.Name,
		Status:    r.Status,
		Teams:     slices.Clone(r.Teams),
		data:      r.Data,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Record snapshots the entry for persistence, ledger included.
func (e *Entry) Record() EntryRecord {
	return EntryRecord{
		ID:        e.ID,
		PoolID:    e.PoolID,
		UserID:    e.UserID,
		Name:      e.Name,
		Status:    e.Status,
		Teams:     slices.Clone(e.Teams),
		Data:      e.Data(),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
