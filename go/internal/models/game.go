package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/validate"
)

// GameStatus defines the status of a game.
type GameStatus string

const (
	GameStatusPending  GameStatus = "PENDING"
	GameStatusActive   GameStatus = "ACTIVE"
	GameStatusFinished GameStatus = "FINISHED"
)

// Game represents one scheduled matchup. Winner and Loser hold NoWinner until
// a result is recorded.
type Game struct {
	ID        uuid.UUID  `json:"id"`
	HomeTeam  Team       `json:"home_team"`
	AwayTeam  Team       `json:"away_team"`
	Week      int        `json:"week"`
	Year      int        `json:"year"`
	Status    GameStatus `json:"status"`
	Winner    Team       `json:"winner"`
	Loser     Team       `json:"loser"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Locked reports whether the game has entered the state where its schedule
// fields (home/away team, week, year) are frozen.
func (g *Game) Locked() bool {
	return g.Status == GameStatusActive || g.Status == GameStatusFinished
}

// HasResult reports whether a winner or loser has been recorded.
func (g *Game) HasResult() bool {
	return g.Winner.Valid() || g.Loser.Valid()
}

// Validate checks the game's field-level invariants. Equality of home and away
// is decided on the resolved team codes, never on input text.
func (g *Game) Validate() validate.Errors {
	errs := validate.Errors{}
	if !g.HomeTeam.Valid() {
		errs.Add("home_team", "can't be blank")
	}
	if !g.AwayTeam.Valid() {
		errs.Add("away_team", "can't be blank")
	}
	if g.HomeTeam.Valid() && g.AwayTeam.Valid() && g.HomeTeam == g.AwayTeam {
		errs.Add("away_team", "can't be the same as Home team")
	}
	switch g.Status {
	case GameStatusPending, GameStatusActive, GameStatusFinished:
	case "":
		errs.Add("status", "can't be blank")
	default:
		errs.Add("status", "is not a valid status")
	}
	if !g.Winner.Valid() && g.Winner != NoWinner {
		errs.Add("winner", "is not a valid team")
	}
	if !g.Loser.Valid() && g.Loser != NoWinner {
		errs.Add("loser", "is not a valid team")
	}
	return errs
}
