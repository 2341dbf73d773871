package models

type LeagueResponse struct {
	ID              int            `json:"id"`
	ScoringPeriodID int            `json:"scoringPeriodId"`
	SeasonID        int            `json:"seasonId"`
	SegmentID       int            `json:"segmentId"`
	Status          Status         `json:"status"`
	Members         []Member       `json:"members"`
	Teams           []Team         `json:"teams"`
	Schedule        []MatchupScore `json:"schedule"`
	Settings        Settings       `json:"settings"`
	DraftDetail     DraftDetail    `json:"draftDetail"`
}

type Settings struct {
	Name             string           `json:"name"`
	Size             int              `json:"size"`
	ScheduleSettings ScheduleSettings `json:"scheduleSettings"`
}

type ScheduleSettings struct {
	MatchupPeriodCount int `json:"matchupPeriodCount"`
	PlayoffTeamCount   int `json:"playoffTeamCount"`
}

type Status struct {
	CurrentMatchupPeriod int  `json:"currentMatchupPeriod"`
	FinalScoringPeriod   int  `json:"finalScoringPeriod"`
	FirstScoringPeriod   int  `json:"firstScoringPeriod"`
	IsActive             bool `json:"isActive"`
}

type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

type Team struct {
	ID                  int      `json:"id"`
	Abbreviation        string   `json:"abbrev"`
	Name                string   `json:"name"`
	Location            string   `json:"location"`
	Nickname            string   `json:"nickname"`
	Logo                string   `json:"logo"`
	PrimaryOwner        string   `json:"primaryOwner"`
	Owners              []string `json:"owners"`
	PlayoffSeed         int      `json:"playoffSeed"`
	RankCalculatedFinal int      `json:"rankCalculatedFinal"`
	Points              float64  `json:"points"`
	Record              Record   `json:"record"`
}

type Record struct {
	Overall RecordDetails `json:"overall"`
}

type RecordDetails struct {
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	Percentage    float64 `json:"percentage"`
	PointsFor     float64 `json:"pointsFor"`
	PointsAgainst float64 `json:"pointsAgainst"`
}

type MatchupScore struct {
	ID              int        `json:"id"`
	MatchupPeriodID int        `json:"matchupPeriodId"`
	PlayoffTierType string     `json:"playoffTierType"`
	Away            *TeamScore `json:"away"`
	Home            TeamScore  `json:"home"`
	Winner          string     `json:"winner"`
}

type TeamScore struct {
	TeamID      int     `json:"teamId"`
	TotalPoints float64 `json:"totalPoints"`
}

type DraftDetail struct {
	Drafted bool            `json:"drafted"`
	Picks   []DraftPickWire `json:"picks"`
}

type DraftPickWire struct {
	OverallPickNumber int `json:"overallPickNumber"`
	RoundID           int `json:"roundId"`
	RoundPickNumber   int `json:"roundPickNumber"`
	PlayerID          int `json:"playerId"`
	TeamID            int `json:"teamId"`
}

type PlayerCardResponse struct {
	Players []PlayerPoolEntry `json:"players"`
}

type PlayerPoolEntry struct {
	ID     int    `json:"id"`
	Player Player `json:"player"`
}

type Player struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
}
