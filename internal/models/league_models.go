package models

import "time"

type Manager struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Avatar       string `json:"avatar,omitempty"`
	LastSeenYear int    `json:"lastSeenYear,omitempty"`
}

// SeasonStanding is one manager's final line for a season. Ranks within a
// season are distinct and run 1..N.
type SeasonStanding struct {
	ManagerID     string  `json:"managerId"`
	Rank          int     `json:"rank"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     float64 `json:"pointsFor"`
	PointsAgainst float64 `json:"pointsAgainst"`
	IsChampion    bool    `json:"isChampion"`
	IsPlayoff     bool    `json:"isPlayoff"`
}

type DraftPick struct {
	Round      int    `json:"round"`
	Pick       int    `json:"pick"`
	PlayerID   int    `json:"playerId,omitempty"`
	PlayerName string `json:"playerName"`
	ManagerID  string `json:"managerId"`
}

type GameSide struct {
	ManagerID string  `json:"managerId"`
	Points    float64 `json:"points"`
}

// Game is a scheduled matchup. Both sides at zero points means it has not
// been played yet.
type Game struct {
	Week       int      `json:"week"`
	IsPlayoffs bool     `json:"isPlayoffs"`
	Home       GameSide `json:"home"`
	Away       GameSide `json:"away"`
}

type Season struct {
	Year       int              `json:"year"`
	Key        string           `json:"key"`
	ChampionID string           `json:"championId,omitempty"`
	Standings  []SeasonStanding `json:"standings"`
	Draft      []DraftPick      `json:"draft,omitempty"`
	Games      []Game           `json:"games,omitempty"`
}

// LeagueHistory is every imported season of one league, ordered by year.
type LeagueHistory struct {
	LeagueID   string    `json:"leagueId"`
	Name       string    `json:"name"`
	Managers   []Manager `json:"managers"`
	Seasons    []Season  `json:"seasons"`
	ImportedAt time.Time `json:"importedAt"`
}
