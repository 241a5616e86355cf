package games

import "github.com/mcdev12/gridiron/go/internal/models"

// CreateGameRequest represents the data needed to create a new game.
// Required fields are pointers so a missing value is distinguishable from a
// zero team code or week zero.
type CreateGameRequest struct {
	HomeTeam *models.Team      `json:"home_team"`
	AwayTeam *models.Team      `json:"away_team"`
	Week     *int              `json:"week"`
	Year     *int              `json:"year"`
	Status   models.GameStatus `json:"status,omitempty"`
}

// UpdateGameRequest represents the fields that can change on a game. Nil
// fields are left untouched.
type UpdateGameRequest struct {
	HomeTeam *models.Team       `json:"home_team,omitempty"`
	AwayTeam *models.Team       `json:"away_team,omitempty"`
	Week     *int               `json:"week,omitempty"`
	Year     *int               `json:"year,omitempty"`
	Status   *models.GameStatus `json:"status,omitempty"`
	Winner   *models.Team       `json:"winner,omitempty"`
	Loser    *models.Team       `json:"loser,omitempty"`
}
