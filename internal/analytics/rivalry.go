package analytics

import (
	"sort"

	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

const (
	rivalryMinGames  = 5
	nemesisMaxWinPct = 45.0
	pigeonMinWinPct  = 55.0

	LabelNemesis = "Nemesis"
	LabelPigeon  = "Pigeon"
)

// Matchup is one direct game between a subject and an opponent, scored from
// the subject's side.
type Matchup struct {
	Year          int     `json:"year"`
	Week          int     `json:"week"`
	IsPlayoffs    bool    `json:"isPlayoffs"`
	PointsFor     float64 `json:"pointsFor"`
	PointsAgainst float64 `json:"pointsAgainst"`
	Result        Outcome `json:"result"`
}

type RivalryRecord struct {
	OpponentID    string  `json:"opponentId"`
	OpponentName  string  `json:"opponentName"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	Games         int     `json:"games"`
	PointsFor     float64 `json:"pointsFor"`
	PointsAgainst float64 `json:"pointsAgainst"`
	WinPct        float64 `json:"winPct"`
	CurrentStreak Streak  `json:"currentStreak"`
	Label         string  `json:"label,omitempty"`
}

type Rivalries struct {
	Status      Availability    `json:"status"`
	SubjectID   string          `json:"subjectId"`
	SubjectName string          `json:"subjectName"`
	Records     []RivalryRecord `json:"records"`
	Nemesis     *RivalryRecord  `json:"nemesis,omitempty"`
	Pigeon      *RivalryRecord  `json:"pigeon,omitempty"`
}

// directMatchups returns every played game between subject and opponent in
// chronological order.
func directMatchups(seasons []chronoSeason, subjectID, opponentID string) []Matchup {
	var out []Matchup
	for _, s := range seasons {
		for _, g := range s.Games {
			var us, them models.GameSide
			switch {
			case g.Home.ManagerID == subjectID && g.Away.ManagerID == opponentID:
				us, them = g.Home, g.Away
			case g.Away.ManagerID == subjectID && g.Home.ManagerID == opponentID:
				us, them = g.Away, g.Home
			default:
				continue
			}
			out = append(out, Matchup{
				Year:          s.Year,
				Week:          g.Week,
				IsPlayoffs:    g.IsPlayoffs,
				PointsFor:     us.Points,
				PointsAgainst: them.Points,
				Result:        outcomeFor(us.Points, them.Points),
			})
		}
	}
	return out
}

func newRivalryRecord(opponentID, opponentName string, games []Matchup) RivalryRecord {
	r := RivalryRecord{OpponentID: opponentID, OpponentName: opponentName}
	var t streakTracker
	for _, m := range games {
		switch m.Result {
		case Win:
			r.Wins++
		case Loss:
			r.Losses++
		default:
			r.Ties++
		}
		r.PointsFor += m.PointsFor
		r.PointsAgainst += m.PointsAgainst
		t.record(m.Result)
	}
	r.Games = r.Wins + r.Losses + r.Ties
	r.WinPct = percent(r.Wins, r.Games)
	r.CurrentStreak = t.current()
	return r
}

func opponentsOf(seasons []chronoSeason, subjectID string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range seasons {
		for _, g := range s.Games {
			var opp string
			switch subjectID {
			case g.Home.ManagerID:
				opp = g.Away.ManagerID
			case g.Away.ManagerID:
				opp = g.Home.ManagerID
			default:
				continue
			}
			if opp != subjectID && !seen[opp] {
				seen[opp] = true
				ids = append(ids, opp)
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// ComputeRivalries builds the subject's career record against every
// opponent they have played, most-played first. Nemesis and Pigeon are only
// chosen among opponents with at least five direct games.
func ComputeRivalries(h models.LeagueHistory, subjectID string) Rivalries {
	idx := NewManagerIndex(h.Managers)
	out := Rivalries{
		Status:      Unavailable,
		SubjectID:   subjectID,
		SubjectName: idx.Name(subjectID),
		Records:     []RivalryRecord{},
	}

	seasons := playedGames(h)
	for _, opp := range opponentsOf(seasons, subjectID) {
		games := directMatchups(seasons, subjectID, opp)
		out.Records = append(out.Records, newRivalryRecord(opp, idx.Name(opp), games))
	}
	if len(out.Records) == 0 {
		return out
	}
	out.Status = Available

	sort.SliceStable(out.Records, func(i, j int) bool {
		return out.Records[i].Games > out.Records[j].Games
	})

	nemesis, pigeon := -1, -1
	for i, r := range out.Records {
		if r.Games < rivalryMinGames {
			continue
		}
		if nemesis == -1 || r.WinPct < out.Records[nemesis].WinPct {
			nemesis = i
		}
		if pigeon == -1 || r.WinPct > out.Records[pigeon].WinPct {
			pigeon = i
		}
	}
	if nemesis != -1 && out.Records[nemesis].WinPct < nemesisMaxWinPct {
		out.Records[nemesis].Label = LabelNemesis
		rec := out.Records[nemesis]
		out.Nemesis = &rec
	}
	if pigeon != -1 && out.Records[pigeon].WinPct > pigeonMinWinPct {
		out.Records[pigeon].Label = LabelPigeon
		rec := out.Records[pigeon]
		out.Pigeon = &rec
	}
	return out
}

type ComparisonSide struct {
	ManagerID          string  `json:"managerId"`
	Name               string  `json:"name"`
	Seasons            int     `json:"seasons"`
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	Ties               int     `json:"ties"`
	WinPct             float64 `json:"winPct"`
	PointsFor          float64 `json:"pointsFor"`
	Titles             int     `json:"titles"`
	PlayoffAppearances int     `json:"playoffAppearances"`
	BestRank           int     `json:"bestRank"`
	AverageRank        float64 `json:"averageRank"`
	LegacyScore        float64 `json:"legacyScore"`
}

type SeasonMatchups struct {
	Year  int       `json:"year"`
	WinsA int       `json:"winsA"`
	WinsB int       `json:"winsB"`
	Ties  int       `json:"ties"`
	Games []Matchup `json:"games"`
}

// Comparison puts two managers side by side. HeadToHead and Seasons are from
// A's point of view.
type Comparison struct {
	Status     Availability     `json:"status"`
	A          ComparisonSide   `json:"a"`
	B          ComparisonSide   `json:"b"`
	HeadToHead RivalryRecord    `json:"headToHead"`
	Seasons    []SeasonMatchups `json:"seasons"`
}

func newComparisonSide(id string, c CareerStats, idx ManagerIndex) ComparisonSide {
	return ComparisonSide{
		ManagerID:          id,
		Name:               idx.Name(id),
		Seasons:            c.Seasons,
		Wins:               c.Wins,
		Losses:             c.Losses,
		Ties:               c.Ties,
		WinPct:             c.WinPct(),
		PointsFor:          c.PointsFor,
		Titles:             c.Titles,
		PlayoffAppearances: c.PlayoffAppearances,
		BestRank:           c.BestRank(),
		AverageRank:        c.AverageRank(),
		LegacyScore:        LegacyScore(c.Titles, c.PlayoffAppearances, c.Wins),
	}
}

// Compare aggregates both careers and their direct matchup history. Status
// is Unavailable when the two have never played each other.
func Compare(h models.LeagueHistory, aID, bID string) Comparison {
	idx := NewManagerIndex(h.Managers)
	careers := careerByID(h)

	games := directMatchups(playedGames(h), aID, bID)
	out := Comparison{
		Status:     Unavailable,
		A:          newComparisonSide(aID, careers[aID], idx),
		B:          newComparisonSide(bID, careers[bID], idx),
		HeadToHead: newRivalryRecord(bID, idx.Name(bID), games),
		Seasons:    []SeasonMatchups{},
	}
	if len(games) == 0 {
		return out
	}
	out.Status = Available

	for _, m := range games {
		n := len(out.Seasons)
		if n == 0 || out.Seasons[n-1].Year != m.Year {
			out.Seasons = append(out.Seasons, SeasonMatchups{Year: m.Year})
			n++
		}
		s := &out.Seasons[n-1]
		s.Games = append(s.Games, m)
		switch m.Result {
		case Win:
			s.WinsA++
		case Loss:
			s.WinsB++
		default:
			s.Ties++
		}
	}
	return out
}
