package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/games"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/validate"
	"github.com/rs/zerolog/log"
)

// gameAttrs is the set of attribute names the updater accepts.
var gameAttrs = map[string]bool{
	"home_team": true,
	"away_team": true,
	"week":      true,
	"year":      true,
	"status":    true,
	"winner":    true,
	"loser":     true,
}

// resultAttrs are the only attributes a locked game still accepts.
var resultAttrs = map[string]bool{"winner": true, "loser": true}

// Updater applies result updates to games and fans the changes out to every
// entry that picked one of the affected teams.
type Updater struct {
	repo       UpdaterRepository
	calculator EntryCalculator
	clock      clockwork.Clock

	// Worker pool configuration
	numWorkers int

	// Per-entry write exclusivity across overlapping fan-out batches
	mu       sync.Mutex
	inFlight map[uuid.UUID]bool
}

// NewUpdater creates a game updater with a bounded fan-out pool.
func NewUpdater(repo UpdaterRepository, calculator EntryCalculator) *Updater {
	return &Updater{
		repo:       repo,
		calculator: calculator,
		clock:      clockwork.NewRealClock(),
		numWorkers: 10,
		inFlight:   make(map[uuid.UUID]bool),
	}
}

// SetWorkers overrides the fan-out pool size.
func (u *Updater) SetWorkers(n int) {
	if n > 0 {
		u.numWorkers = n
	}
}

// UpdateGame applies an attribute map to a game. Unknown attributes are
// rejected, and once a game is active or finished only winner and loser may be
// supplied at all. When the update changes the game's result (status, winner
// or loser), the new state is persisted together with a GameResultUpdated
// outbox event and reconciliation fans out to the affected entries.
func (u *Updater) UpdateGame(ctx context.Context, input any, attrs map[string]any) (*models.Game, error) {
	game, ok := input.(*models.Game)
	if !ok || game == nil {
		return nil, &GameUpdaterError{Input: input}
	}

	stored, err := u.repo.GetGame(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("game not found: %w", err)
	}

	req, invalid := buildUpdateRequest(attrs)
	if len(invalid) > 0 {
		return nil, &GameUpdaterError{Message: fmt.Sprintf("Invalid attributes: %v", invalid)}
	}

	if stored.Locked() {
		if offending := lockedAttrs(attrs); len(offending) > 0 {
			return nil, &GameUpdaterError{
				Message: fmt.Sprintf("Invalid attributes: attempted to change %s but game is active", strings.Join(offending, ", ")),
			}
		}
	}

	updated, errs := games.ApplyUpdate(stored, req)
	if errs.Any() {
		return nil, &validate.Error{Fields: errs}
	}
	updated.UpdatedAt = u.clock.Now().UTC()

	resultChanged := updated.Status != stored.Status ||
		updated.Winner != stored.Winner ||
		updated.Loser != stored.Loser

	if !resultChanged {
		saved, err := u.repo.UpdateGame(ctx, updated)
		if err != nil {
			return nil, err
		}
		return saved, nil
	}

	event, err := resultEvent(updated)
	if err != nil {
		return nil, err
	}
	saved, err := u.repo.SaveGameWithEvent(ctx, updated, event)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", saved.ID.String()).
		Str("status", string(saved.Status)).
		Str("winner", saved.Winner.String()).
		Str("loser", saved.Loser.String()).
		Msg("game result updated")

	if err := u.FanOut(ctx, saved); err != nil {
		return nil, fmt.Errorf("failed to fan out game result: %w", err)
	}
	return saved, nil
}

// buildUpdateRequest coerces an attribute map into a field update. Teams
// arrive as codes or names, numbers as any numeric type JSON decoding
// produces. Anything unknown or uncoercible lands in the invalid map.
func buildUpdateRequest(attrs map[string]any) (games.UpdateGameRequest, map[string]any) {
	var req games.UpdateGameRequest
	invalid := map[string]any{}

	for name, value := range attrs {
		if !gameAttrs[name] {
			invalid[name] = value
			continue
		}
		switch name {
		case "home_team", "away_team", "winner", "loser":
			team, err := teamAttr(value)
			if err != nil {
				invalid[name] = value
				continue
			}
			switch name {
			case "home_team":
				req.HomeTeam = &team
			case "away_team":
				req.AwayTeam = &team
			case "winner":
				req.Winner = &team
			case "loser":
				req.Loser = &team
			}
		case "week", "year":
			n, err := intAttr(value)
			if err != nil {
				invalid[name] = value
				continue
			}
			if name == "week" {
				req.Week = &n
			} else {
				req.Year = &n
			}
		case "status":
			s, ok := value.(string)
			if !ok {
				invalid[name] = value
				continue
			}
			status := models.GameStatus(strings.ToUpper(s))
			req.Status = &status
		}
	}
	return req, invalid
}

// lockedAttrs lists the supplied attribute names a locked game no longer
// accepts, sorted for a stable message. Presence alone is rejected: resending
// the stored value is still an attempted change.
func lockedAttrs(attrs map[string]any) []string {
	var offending []string
	for name := range attrs {
		if !resultAttrs[name] {
			offending = append(offending, name)
		}
	}
	sort.Strings(offending)
	return offending
}

func teamAttr(value any) (models.Team, error) {
	switch v := value.(type) {
	case models.Team:
		return v, nil
	case int:
		return models.Team(v), nil
	case float64:
		return models.Team(int(v)), nil
	case string:
		return models.ParseTeam(v)
	default:
		return 0, fmt.Errorf("cannot coerce %T to team", value)
	}
}

func intAttr(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to int", value)
	}
}

func resultEvent(game *models.Game) (OutboxRow, error) {
	payload, err := json.Marshal(GameResultPayload{
		GameID:    game.ID.String(),
		Status:    string(game.Status),
		Winner:    game.Winner.String(),
		Loser:     game.Loser.String(),
		Week:      game.Week,
		Year:      game.Year,
		UpdatedAt: game.UpdatedAt,
	})
	if err != nil {
		return OutboxRow{}, fmt.Errorf("failed to marshal result payload: %w", err)
	}
	return OutboxRow{
		ID:        uuid.New(),
		GameID:    game.ID,
		EventType: EventTypeGameResultUpdated,
		Payload:   payload,
	}, nil
}
