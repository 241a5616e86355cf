package entries

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
	entries map[uuid.UUID]models.EntryRecord
	pools   map[uuid.UUID]*models.Pool
	games   map[uuid.UUID][]models.Game

	updateCalls int
	gamesErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		entries: make(map[uuid.UUID]models.EntryRecord),
		pools:   make(map[uuid.UUID]*models.Pool),
		games:   make(map[uuid.UUID][]models.Game),
	}
}

func (f *fakeRepo) CreateEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	f.entries[entry.ID] = entry.Record()
	return entry, nil
}

func (f *fakeRepo) GetEntry(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	rec, ok := f.entries[id]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return rec.Entry(), nil
}

func (f *fakeRepo) UpdateEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	if _, ok := f.entries[entry.ID]; !ok {
		return nil, ErrEntryNotFound
	}
	f.updateCalls++
	f.entries[entry.ID] = entry.Record()
	return entry, nil
}

func (f *fakeRepo) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.entries[id]; !ok {
		return ErrEntryNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeRepo) FindEntriesByPool(ctx context.Context, poolID uuid.UUID) ([]models.Entry, error) {
	var list []models.Entry
	for _, rec := range f.entries {
		if rec.PoolID == poolID {
			list = append(list, *rec.Entry())
		}
	}
	return list, nil
}

func (f *fakeRepo) GamesForPool(ctx context.Context, poolID uuid.UUID) ([]models.Game, error) {
	if f.gamesErr != nil {
		return nil, f.gamesErr
	}
	return f.games[poolID], nil
}

func (f *fakeRepo) GetPool(ctx context.Context, id uuid.UUID) (*models.Pool, error) {
	pool, ok := f.pools[id]
	if !ok {
		return nil, ErrPoolNotFound
	}
	return pool, nil
}

var sixPicks = []models.Team{
	models.TeamDallasCowboys,
	models.TeamGreenBayPackers,
	models.TeamSeattleSeahawks,
	models.TeamNewEnglandPatriots,
	models.TeamDenverBroncos,
	models.TeamPittsburghSteelers,
}

// scheduleFor returns games covering every pick plus one extra matchup, none
// of which oppose each other.
func scheduleFor(picks []models.Team) []models.Game {
	opponents := []models.Team{
		models.TeamArizonaCardinals,
		models.TeamAtlantaFalcons,
		models.TeamBaltimoreRavens,
		models.TeamBuffaloBills,
		models.TeamCarolinaPanthers,
		models.TeamCincinnatiBengals,
		models.TeamClevelandBrowns,
		models.TeamHoustonTexans,
	}
	var games []models.Game
	for i, t := range picks {
		games = append(games, models.Game{
			ID:       uuid.New(),
			HomeTeam: t,
			AwayTeam: opponents[i%len(opponents)],
			Status:   models.GameStatusPending,
			Winner:   models.NoWinner,
			Loser:    models.NoWinner,
		})
	}
	return games
}

func newTestApp() (*App, *fakeRepo, uuid.UUID) {
	repo := newFakeRepo()
	poolID := uuid.New()
	repo.pools[poolID] = &models.Pool{ID: poolID, Week: 1, Year: 2015, Status: models.PoolStatusPending}
	repo.games[poolID] = scheduleFor(sixPicks)
	return NewApp(repo, clockwork.NewFakeClock()), repo, poolID
}

func TestCreateEntry(t *testing.T) {
	app, _, poolID := newTestApp()

	entry, err := app.CreateEntry(context.Background(), CreateEntryRequest{
		PoolID: poolID,
		UserID: uuid.New(),
		Name:   "week one",
		Teams:  sixPicks,
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if entry.Status != models.EntryStatusPending {
		t.Errorf("status = %s, want default PENDING", entry.Status)
	}
	if entry.HasLedger() {
		t.Error("ledger should stay lazy until first calculation")
	}
}

func TestCreateEntryUnknownPool(t *testing.T) {
	app, _, _ := newTestApp()

	_, err := app.CreateEntry(context.Background(), CreateEntryRequest{
		PoolID: uuid.New(),
		Name:   "orphan",
		Teams:  sixPicks,
	})
	if !errors.Is(err, ErrPoolNotFound) {
		t.Fatalf("err = %v, want ErrPoolNotFound", err)
	}
}

func TestCreateEntryTeamNotPlaying(t *testing.T) {
	app, repo, poolID := newTestApp()
	repo.games[poolID] = scheduleFor(sixPicks[:5])

	_, err := app.CreateEntry(context.Background(), CreateEntryRequest{
		PoolID: poolID,
		Name:   "stray pick",
		Teams:  sixPicks,
	})

	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := `["Pittsburgh Steelers"] picked but aren't playing`
	if msgs := verr.Fields["teams"]; len(msgs) != 1 || msgs[0] != want {
		t.Errorf("teams errors = %v, want %q", msgs, want)
	}
}

func TestCreateEntryOpposingPicks(t *testing.T) {
	app, repo, poolID := newTestApp()
	repo.games[poolID] = append(repo.games[poolID], models.Game{
		ID:       uuid.New(),
		HomeTeam: models.TeamDallasCowboys,
		AwayTeam: models.TeamGreenBayPackers,
		Status:   models.GameStatusPending,
		Winner:   models.NoWinner,
		Loser:    models.NoWinner,
	})

	_, err := app.CreateEntry(context.Background(), CreateEntryRequest{
		PoolID: poolID,
		Name:   "hedged",
		Teams:  sixPicks,
	})

	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := `[["Dallas Cowboys","Green Bay Packers"]] are playing each other`
	if msgs := verr.Fields["teams"]; len(msgs) != 1 || msgs[0] != want {
		t.Errorf("teams errors = %v, want %q", msgs, want)
	}
}

func TestUpdateEntryActiveTeamsFrozen(t *testing.T) {
	app, _, poolID := newTestApp()

	created, err := app.CreateEntry(context.Background(), CreateEntryRequest{
		PoolID: poolID,
		Name:   "locked in",
		Status: models.EntryStatusActive,
		Teams:  sixPicks,
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	changed := append([]models.Team(nil), sixPicks...)
	changed[0] = models.TeamChicagoBears
	_, err = app.UpdateEntry(context.Background(), created.ID, UpdateEntryRequest{Teams: &changed})

	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if msgs := verr.Fields["teams"]; len(msgs) != 1 || msgs[0] != "can't be changed, active Entry" {
		t.Errorf("teams errors = %v", msgs)
	}
}

func TestUpdateEntryPendingTeamsRebuildLedger(t *testing.T) {
	app, repo, poolID := newTestApp()
	repo.games[poolID] = scheduleFor(append([]models.Team{models.TeamChicagoBears}, sixPicks...))

	created, err := app.CreateEntry(context.Background(), CreateEntryRequest{
		PoolID: poolID,
		Name:   "still deciding",
		Teams:  sixPicks,
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	// Build the ledger first so the rebuild is observable.
	if _, err := app.CalculateEntry(context.Background(), created.ID, nil); err != nil {
		t.Fatalf("CalculateEntry: %v", err)
	}

	changed := append([]models.Team(nil), sixPicks...)
	changed[0] = models.TeamChicagoBears
	updated, err := app.UpdateEntry(context.Background(), created.ID, UpdateEntryRequest{Teams: &changed})
	if err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}

	data := updated.Data()
	if _, ok := data[models.TeamDallasCowboys]; ok {
		t.Error("dropped pick still in ledger")
	}
	if data[models.TeamChicagoBears] != models.PickPending {
		t.Errorf("new pick = %q, want pending", data[models.TeamChicagoBears])
	}
}

func TestCalculateEntryRedundantRunDoesNotPersist(t *testing.T) {
	app, repo, poolID := newTestApp()

	created, err := app.CreateEntry(context.Background(), CreateEntryRequest{
		PoolID: poolID,
		Name:   "idempotent",
		Teams:  sixPicks,
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	if _, err := app.CalculateEntry(context.Background(), created.ID, nil); err != nil {
		t.Fatalf("first CalculateEntry: %v", err)
	}
	writes := repo.updateCalls

	if _, err := app.CalculateEntry(context.Background(), created.ID, nil); err != nil {
		t.Fatalf("second CalculateEntry: %v", err)
	}
	if repo.updateCalls != writes {
		t.Errorf("second calculation persisted: %d writes, want %d", repo.updateCalls, writes)
	}
}

func TestCalculateEntrySkipsIncompleteActive(t *testing.T) {
	app, repo, poolID := newTestApp()

	// Seed an invalid entry directly: active with too few picks.
	rec := models.EntryRecord{
		ID:     uuid.New(),
		PoolID: poolID,
		Name:   "short",
		Status: models.EntryStatusActive,
		Teams:  sixPicks[:3],
	}
	repo.entries[rec.ID] = rec

	entry, err := app.CalculateEntry(context.Background(), rec.ID, nil)
	if err != nil {
		t.Fatalf("CalculateEntry should skip, got %v", err)
	}
	if entry.HasLedger() {
		t.Error("skipped entry grew a ledger")
	}
	if repo.updateCalls != 0 {
		t.Errorf("skipped entry was persisted %d times", repo.updateCalls)
	}
}

func TestCalculateEntryPropagatesRepoFailure(t *testing.T) {
	app, repo, poolID := newTestApp()

	created, err := app.CreateEntry(context.Background(), CreateEntryRequest{
		PoolID: poolID,
		Name:   "unlucky",
		Teams:  sixPicks,
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	repo.gamesErr = errors.New("connection reset")
	if _, err := app.CalculateEntry(context.Background(), created.ID, nil); err == nil {
		t.Fatal("expected infrastructure error to propagate")
	}
}

func TestCalculateEntryAppliesResult(t *testing.T) {
	app, _, poolID := newTestApp()

	created, err := app.CreateEntry(context.Background(), CreateEntryRequest{
		PoolID: poolID,
		Name:   "scored",
		Status: models.EntryStatusActive,
		Teams:  sixPicks,
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	game := &models.Game{
		ID:       uuid.New(),
		HomeTeam: models.TeamArizonaCardinals,
		AwayTeam: models.TeamSeattleSeahawks,
		Status:   models.GameStatusFinished,
		Winner:   models.TeamArizonaCardinals,
		Loser:    models.TeamSeattleSeahawks,
	}
	if _, err := app.CalculateEntry(context.Background(), created.ID, game); err != nil {
		t.Fatalf("CalculateEntry: %v", err)
	}

	saved, err := app.GetEntry(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got := saved.Data()[models.TeamSeattleSeahawks]; got != models.PickLoser {
		t.Errorf("ledger = %q, want loser", got)
	}
	if saved.Status != models.EntryStatusLoser {
		t.Errorf("status = %s, want %s", saved.Status, models.EntryStatusLoser)
	}
}

func TestDeleteEntry(t *testing.T) {
	app, _, poolID := newTestApp()

	created, err := app.CreateEntry(context.Background(), CreateEntryRequest{
		PoolID: poolID,
		Name:   "short lived",
		Teams:  sixPicks,
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	if err := app.DeleteEntry(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if _, err := app.GetEntry(context.Background(), created.ID); err == nil {
		t.Error("entry still retrievable after delete")
	}
}
