package models

import (
	"errors"
	"testing"

	"github.com/mcdev12/gridiron/go/internal/validate"
)

var sixPicks = []Team{
	TeamDallasCowboys,
	TeamGreenBayPackers,
	TeamSeattleSeahawks,
	TeamNewEnglandPatriots,
	TeamDenverBroncos,
	TeamPittsburghSteelers,
}

func activeEntry() *Entry {
	return &Entry{
		Name:   "week one picks",
		Status: EntryStatusActive,
		Teams:  append([]Team(nil), sixPicks...),
	}
}

func TestCalculateBuildsDefaultLedger(t *testing.T) {
	e := activeEntry()
	e.Calculate(nil)

	data := e.Data()
	if len(data) != MaxPicks {
		t.Fatalf("ledger size = %d, want %d", len(data), MaxPicks)
	}
	for _, team := range sixPicks {
		if data[team] != PickPending {
			t.Errorf("%s = %q, want %q", team, data[team], PickPending)
		}
	}
	if e.Status != EntryStatusActive {
		t.Errorf("status = %s, want unchanged", e.Status)
	}
}

func TestCalculateNilGameExistingLedgerIsNoop(t *testing.T) {
	e := activeEntry()
	e.Calculate(&Game{Winner: TeamDallasCowboys, Loser: TeamNewYorkGiants})
	before := e.Data()

	e.Calculate(nil)

	after := e.Data()
	for team, outcome := range before {
		if after[team] != outcome {
			t.Errorf("%s changed from %q to %q", team, outcome, after[team])
		}
	}
}

func TestCalculateWinnerFlip(t *testing.T) {
	e := activeEntry()
	e.Calculate(&Game{Winner: TeamDallasCowboys, Loser: TeamNewYorkGiants})

	if got := e.Data()[TeamDallasCowboys]; got != PickWinner {
		t.Errorf("winner pick = %q, want %q", got, PickWinner)
	}
	// Five picks are still pending, no promotion.
	if e.Status != EntryStatusActive {
		t.Errorf("status = %s, want %s", e.Status, EntryStatusActive)
	}
}

func TestCalculatePromotesWhenLedgerComplete(t *testing.T) {
	e := activeEntry()
	e.Calculate(nil)
	for i, team := range sixPicks {
		loser := TeamChicagoBears
		if i == len(sixPicks)-1 {
			loser = TeamAtlantaFalcons
		}
		e.Calculate(&Game{Winner: team, Loser: loser})
	}

	if e.Status != EntryStatusWinner {
		t.Errorf("status = %s, want %s", e.Status, EntryStatusWinner)
	}
}

func TestCalculateLoserFlipDemotesImmediately(t *testing.T) {
	e := activeEntry()
	e.Calculate(&Game{Winner: TeamNewYorkGiants, Loser: TeamSeattleSeahawks})

	if got := e.Data()[TeamSeattleSeahawks]; got != PickLoser {
		t.Errorf("loser pick = %q, want %q", got, PickLoser)
	}
	if e.Status != EntryStatusLoser {
		t.Errorf("status = %s, want %s", e.Status, EntryStatusLoser)
	}
}

func TestCalculateIgnoresUnpickedTeams(t *testing.T) {
	e := activeEntry()
	e.Calculate(&Game{Winner: TeamMiamiDolphins, Loser: TeamNewYorkJets})

	for team, outcome := range e.Data() {
		if outcome != PickPending {
			t.Errorf("%s = %q, want pending", team, outcome)
		}
	}
	if e.Status != EntryStatusActive {
		t.Errorf("status = %s, want unchanged", e.Status)
	}
}

func TestRecalculateLedger(t *testing.T) {
	e := activeEntry()

	// A never-built ledger stays lazy.
	e.RecalculateLedger()
	if e.HasLedger() {
		t.Fatal("ledger should not be built by recalculation alone")
	}

	e.Calculate(&Game{Winner: TeamDallasCowboys, Loser: TeamNewYorkGiants})
	e.Teams[0] = TeamChicagoBears
	e.RecalculateLedger()

	data := e.Data()
	if _, ok := data[TeamDallasCowboys]; ok {
		t.Error("dropped pick still present in ledger")
	}
	if data[TeamChicagoBears] != PickPending {
		t.Errorf("new pick = %q, want pending", data[TeamChicagoBears])
	}
}

func TestDataReturnsCopy(t *testing.T) {
	e := activeEntry()
	e.Calculate(nil)

	data := e.Data()
	data[TeamDallasCowboys] = PickLoser

	if e.Data()[TeamDallasCowboys] != PickPending {
		t.Error("mutating the returned ledger changed the entry")
	}
}

func TestEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Entry)
		field   string
		message string
	}{
		{
			name:   "valid entry",
			mutate: func(e *Entry) {},
		},
		{
			name:    "blank name",
			mutate:  func(e *Entry) { e.Name = "" },
			field:   "name",
			message: "can't be blank",
		},
		{
			name:    "too many picks",
			mutate:  func(e *Entry) { e.Teams = append(e.Teams, TeamChicagoBears) },
			field:   "teams",
			message: "picked too many",
		},
		{
			name:    "duplicate picks",
			mutate:  func(e *Entry) { e.Teams[5] = e.Teams[0] },
			field:   "teams",
			message: "can only be picked once",
		},
		{
			name:    "unknown status",
			mutate:  func(e *Entry) { e.Status = "RETIRED" },
			field:   "status",
			message: "is not a valid status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := activeEntry()
			tt.mutate(e)
			errs, fatal := e.Validate()
			if fatal != nil {
				t.Fatalf("unexpected fatal error: %v", fatal)
			}
			if tt.field == "" {
				if errs.Any() {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			found := false
			for _, msg := range errs[tt.field] {
				if msg == tt.message {
					found = true
				}
			}
			if !found {
				t.Errorf("missing %q on %q, got %v", tt.message, tt.field, errs)
			}
		})
	}
}

func TestEntryValidateIncompleteActiveIsFatal(t *testing.T) {
	e := activeEntry()
	e.Teams = e.Teams[:4]

	errs, fatal := e.Validate()
	if !errors.Is(fatal, ErrIncompleteActiveEntry) {
		t.Fatalf("fatal = %v, want ErrIncompleteActiveEntry", fatal)
	}
	found := false
	for _, msg := range errs["teams"] {
		if msg == "haven't picked enough" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing haven't-picked-enough message, got %v", errs)
	}
}

func TestEntryValidatePendingShortIsFine(t *testing.T) {
	e := activeEntry()
	e.Status = EntryStatusPending
	e.Teams = e.Teams[:2]

	errs, fatal := e.Validate()
	if fatal != nil {
		t.Fatalf("unexpected fatal error: %v", fatal)
	}
	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateTeamsAgainstGames(t *testing.T) {
	games := []Game{
		{HomeTeam: TeamDallasCowboys, AwayTeam: TeamNewYorkGiants},
		{HomeTeam: TeamGreenBayPackers, AwayTeam: TeamChicagoBears},
	}

	t.Run("picks not on the schedule", func(t *testing.T) {
		e := &Entry{
			Name:   "strays",
			Status: EntryStatusPending,
			Teams:  []Team{TeamDallasCowboys, TeamMiamiDolphins, TeamNewYorkJets},
		}
		errs := validate.Errors{}
		e.ValidateTeamsAgainstGames(games, errs)

		want := `["Miami Dolphins","New York Jets"] picked but aren't playing`
		if len(errs["teams"]) != 1 || errs["teams"][0] != want {
			t.Errorf("errs = %v, want %q", errs["teams"], want)
		}
	})

	t.Run("picks playing each other", func(t *testing.T) {
		e := &Entry{
			Name:   "hedged",
			Status: EntryStatusPending,
			Teams:  []Team{TeamDallasCowboys, TeamNewYorkGiants},
		}
		errs := validate.Errors{}
		e.ValidateTeamsAgainstGames(games, errs)

		want := `[["Dallas Cowboys","New York Giants"]] are playing each other`
		if len(errs["teams"]) != 1 || errs["teams"][0] != want {
			t.Errorf("errs = %v, want %q", errs["teams"], want)
		}
	})

	t.Run("no picks is fine", func(t *testing.T) {
		e := &Entry{Name: "empty", Status: EntryStatusPending}
		errs := validate.Errors{}
		e.ValidateTeamsAgainstGames(games, errs)
		if errs.Any() {
			t.Errorf("unexpected errors: %v", errs)
		}
	})
}

func TestForceImmutableTeams(t *testing.T) {
	stored := activeEntry()
	stored.Calculate(nil)

	t.Run("active entry reverts team changes", func(t *testing.T) {
		e := stored.Record().Entry()
		e.Teams[0] = TeamChicagoBears

		errs := validate.Errors{}
		e.ForceImmutableTeams(stored, errs)

		if e.Teams[0] != TeamDallasCowboys {
			t.Errorf("teams not reverted, got %v", e.Teams[0])
		}
		if len(errs["teams"]) != 1 || errs["teams"][0] != "can't be changed, active Entry" {
			t.Errorf("errs = %v", errs["teams"])
		}
	})

	t.Run("pending entry can change teams", func(t *testing.T) {
		e := stored.Record().Entry()
		e.Status = EntryStatusPending
		e.Teams[0] = TeamChicagoBears

		errs := validate.Errors{}
		e.ForceImmutableTeams(stored, errs)

		if e.Teams[0] != TeamChicagoBears {
			t.Error("pending entry change was reverted")
		}
		if errs.Any() {
			t.Errorf("unexpected errors: %v", errs)
		}
	})
}
