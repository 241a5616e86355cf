package models

import "fmt"

// Team is the integer code of an NFL franchise. Codes are stable: games store
// them raw and entry ledgers key on them, so reordering is a data migration.
type Team int

const (
	TeamArizonaCardinals Team = iota
	TeamAtlantaFalcons
	TeamBaltimoreRavens
	TeamBuffaloBills
	TeamCarolinaPanthers
	TeamChicagoBears
	TeamCincinnatiBengals
	TeamClevelandBrowns
	TeamDallasCowboys
	TeamDenverBroncos
	TeamDetroitLions
	TeamGreenBayPackers
	TeamHoustonTexans
	TeamIndianapolisColts
	TeamJacksonvilleJaguars
	TeamKansasCityChiefs
	TeamLosAngelesChargers
	TeamLosAngelesRams
	TeamMiamiDolphins
	TeamMinnesotaVikings
	TeamNewEnglandPatriots
	TeamNewOrleansSaints
	TeamNewYorkGiants
	TeamNewYorkJets
	TeamOaklandRaiders
	TeamPhiladelphiaEagles
	TeamPittsburghSteelers
	TeamSeattleSeahawks
	TeamSanFrancisco49ers
	TeamTampaBayBuccaneers
	TeamTennesseeTitans
	TeamWashingtonRedskins
)

// NoWinner is the winner value of a game that has no result yet. It is a valid
// winner code but never a pickable team.
const NoWinner Team = 32

var teamNames = map[Team]string{
	TeamArizonaCardinals:    "Arizona Cardinals",
	TeamAtlantaFalcons:      "Atlanta Falcons",
	TeamBaltimoreRavens:     "Baltimore Ravens",
	TeamBuffaloBills:        "Buffalo Bills",
	TeamCarolinaPanthers:    "Carolina Panthers",
	TeamChicagoBears:        "Chicago Bears",
	TeamCincinnatiBengals:   "Cincinnati Bengals",
	TeamClevelandBrowns:     "Cleveland Browns",
	TeamDallasCowboys:       "Dallas Cowboys",
	TeamDenverBroncos:       "Denver Broncos",
	TeamDetroitLions:        "Detroit Lions",
	TeamGreenBayPackers:     "Green Bay Packers",
	TeamHoustonTexans:       "Houston Texans",
	TeamIndianapolisColts:   "Indianapolis Colts",
	TeamJacksonvilleJaguars: "Jacksonville Jaguars",
	TeamKansasCityChiefs:    "Kansas City Chiefs",
	TeamLosAngelesChargers:  "Los Angeles Chargers",
	TeamLosAngelesRams:      "Los Angeles Rams",
	TeamMiamiDolphins:       "Miami Dolphins",
	TeamMinnesotaVikings:    "Minnesota Vikings",
	TeamNewEnglandPatriots:  "New England Patriots",
	TeamNewOrleansSaints:    "New Orleans Saints",
	TeamNewYorkGiants:       "New York Giants",
	TeamNewYorkJets:         "New York Jets",
	TeamOaklandRaiders:      "Oakland Raiders",
	TeamPhiladelphiaEagles:  "Philadelphia Eagles",
	TeamPittsburghSteelers:  "Pittsburgh Steelers",
	TeamSeattleSeahawks:     "Seattle Seahawks",
	TeamSanFrancisco49ers:   "San Francisco 49ers",
	TeamTampaBayBuccaneers:  "Tampa Bay Buccaneers",
	TeamTennesseeTitans:     "Tennessee Titans",
	TeamWashingtonRedskins:  "Washington Redskins",
	NoWinner:                "no_winner",
}

var teamCodes = func() map[string]Team {
	m := make(map[string]Team, len(teamNames))
	for code, name := range teamNames {
		m[name] = code
	}
	return m
}()

// Valid reports whether t is a real franchise code. NoWinner is not a team.
func (t Team) Valid() bool {
	return t >= TeamArizonaCardinals && t <= TeamWashingtonRedskins
}

// Name returns the display name for a team code, or "" for unknown codes.
func (t Team) Name() string {
	return teamNames[t]
}

func (t Team) String() string {
	if name, ok := teamNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Team(%d)", int(t))
}

// ParseTeam resolves a display name to its team code.
func ParseTeam(name string) (Team, error) {
	if code, ok := teamCodes[name]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unknown team: %q", name)
}
