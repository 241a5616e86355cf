package games

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/mcdev12/gridiron/go/internal/validate"
)

type fakeRepo struct {
	games    map[uuid.UUID]*models.Game
	pools    []models.Pool
	attached map[uuid.UUID][]uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		games:    make(map[uuid.UUID]*models.Game),
		attached: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeRepo) CreateGame(ctx context.Context, game *models.Game) (*models.Game, error) {
	g := *game
	f.games[game.ID] = &g
	return game, nil
}

func (f *fakeRepo) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	game, ok := f.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	g := *game
	return &g, nil
}

func (f *fakeRepo) UpdateGame(ctx context.Context, game *models.Game) (*models.Game, error) {
	if _, ok := f.games[game.ID]; !ok {
		return nil, ErrGameNotFound
	}
	g := *game
	f.games[game.ID] = &g
	return game, nil
}

func (f *fakeRepo) FindGamesByWeekYear(ctx context.Context, week, year int) ([]models.Game, error) {
	var list []models.Game
	for _, g := range f.games {
		if g.Week == week && g.Year == year {
			list = append(list, *g)
		}
	}
	return list, nil
}

func (f *fakeRepo) FindPoolsByWeekYear(ctx context.Context, week, year int) ([]models.Pool, error) {
	var list []models.Pool
	for _, p := range f.pools {
		if p.Week == week && p.Year == year {
			list = append(list, p)
		}
	}
	return list, nil
}

func (f *fakeRepo) AttachPoolToGame(ctx context.Context, gameID, poolID uuid.UUID, week, year int) error {
	for _, existing := range f.attached[gameID] {
		if existing == poolID {
			return nil
		}
	}
	f.attached[gameID] = append(f.attached[gameID], poolID)
	return nil
}

func intPtr(n int) *int { return &n }

func teamPtr(t models.Team) *models.Team { return &t }

func statusPtr(s models.GameStatus) *models.GameStatus { return &s }

func createRequest() CreateGameRequest {
	return CreateGameRequest{
		HomeTeam: teamPtr(models.TeamDallasCowboys),
		AwayTeam: teamPtr(models.TeamNewYorkGiants),
		Week:     intPtr(1),
		Year:     intPtr(2015),
	}
}

func TestCreateGame(t *testing.T) {
	app := NewApp(newFakeRepo(), clockwork.NewFakeClock())

	game, err := app.CreateGame(context.Background(), createRequest())
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if game.Status != models.GameStatusPending {
		t.Errorf("status = %s, want default PENDING", game.Status)
	}
	if game.Winner != models.NoWinner || game.Loser != models.NoWinner {
		t.Errorf("new game has a result: winner=%s loser=%s", game.Winner, game.Loser)
	}
}

func TestCreateGameMissingFields(t *testing.T) {
	app := NewApp(newFakeRepo(), clockwork.NewFakeClock())

	_, err := app.CreateGame(context.Background(), CreateGameRequest{})
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"home_team", "away_team", "week", "year"} {
		if msgs := verr.Fields[field]; len(msgs) != 1 || msgs[0] != "can't be blank" {
			t.Errorf("%s errors = %v", field, msgs)
		}
	}
}

func TestCreateGameSameTeams(t *testing.T) {
	app := NewApp(newFakeRepo(), clockwork.NewFakeClock())

	req := createRequest()
	req.AwayTeam = teamPtr(models.TeamDallasCowboys)
	_, err := app.CreateGame(context.Background(), req)

	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if msgs := verr.Fields["away_team"]; len(msgs) != 1 || msgs[0] != "can't be the same as Home team" {
		t.Errorf("away_team errors = %v", msgs)
	}
}

func TestApplyUpdateFreezesLockedSchedule(t *testing.T) {
	stored := &models.Game{
		ID:       uuid.New(),
		HomeTeam: models.TeamDallasCowboys,
		AwayTeam: models.TeamNewYorkGiants,
		Week:     1,
		Year:     2015,
		Status:   models.GameStatusActive,
		Winner:   models.NoWinner,
		Loser:    models.NoWinner,
	}

	updated, errs := ApplyUpdate(stored, UpdateGameRequest{
		HomeTeam: teamPtr(models.TeamChicagoBears),
		Week:     intPtr(2),
	})

	if updated.HomeTeam != models.TeamDallasCowboys {
		t.Errorf("home team not reverted: %s", updated.HomeTeam)
	}
	if updated.Week != 1 {
		t.Errorf("week not reverted: %d", updated.Week)
	}
	for _, field := range []string{"home_team", "week"} {
		if msgs := errs[field]; len(msgs) != 1 || msgs[0] != "can't be changed, active Game" {
			t.Errorf("%s errors = %v", field, msgs)
		}
	}
}

func TestApplyUpdateAllowsResultOnLockedGame(t *testing.T) {
	stored := &models.Game{
		ID:       uuid.New(),
		HomeTeam: models.TeamDallasCowboys,
		AwayTeam: models.TeamNewYorkGiants,
		Week:     1,
		Year:     2015,
		Status:   models.GameStatusActive,
		Winner:   models.NoWinner,
		Loser:    models.NoWinner,
	}

	updated, errs := ApplyUpdate(stored, UpdateGameRequest{
		Status: statusPtr(models.GameStatusFinished),
		Winner: teamPtr(models.TeamDallasCowboys),
		Loser:  teamPtr(models.TeamNewYorkGiants),
	})

	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if updated.Status != models.GameStatusFinished {
		t.Errorf("status = %s", updated.Status)
	}
	if updated.Winner != models.TeamDallasCowboys || updated.Loser != models.TeamNewYorkGiants {
		t.Errorf("result not applied: winner=%s loser=%s", updated.Winner, updated.Loser)
	}
}

func TestAttachPoolsRejectsNonGame(t *testing.T) {
	app := NewApp(newFakeRepo(), clockwork.NewFakeClock())

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"pool input", &models.Pool{}, "Expecting Game, received Pool"},
		{"nil input", nil, "Expecting Game, received nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := app.AttachPools(context.Background(), tt.input)
			var adderErr *PoolAdderError
			if !errors.As(err, &adderErr) {
				t.Fatalf("expected PoolAdderError, got %v", err)
			}
			if err.Error() != tt.want {
				t.Errorf("message = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestAttachPoolsIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	app := NewApp(repo, clockwork.NewFakeClock())

	game, err := app.CreateGame(context.Background(), createRequest())
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	repo.pools = []models.Pool{
		{ID: uuid.New(), Week: 1, Year: 2015},
		{ID: uuid.New(), Week: 1, Year: 2015},
		{ID: uuid.New(), Week: 2, Year: 2015},
	}

	for i := 0; i < 2; i++ {
		if _, err := app.AttachPools(context.Background(), game); err != nil {
			t.Fatalf("AttachPools: %v", err)
		}
	}

	if got := len(repo.attached[game.ID]); got != 2 {
		t.Errorf("attached %d pools, want 2 (same week/year only, no duplicates)", got)
	}
}
