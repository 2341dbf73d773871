package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

const (
	marginListSize      = 5
	streakListSize      = 6
	weeklyHighListSize  = 5
	consistencyMinGames = 10
)

// MarginGame is a played game annotated for the closest/blowout lists. The
// higher raw score is listed as the winner, home on an exact tie, and Tie is
// set when the margin is inside the tie epsilon.
type MarginGame struct {
	Year         int     `json:"year"`
	Week         int     `json:"week"`
	IsPlayoffs   bool    `json:"isPlayoffs"`
	WinnerID     string  `json:"winnerId"`
	WinnerName   string  `json:"winnerName"`
	WinnerPoints float64 `json:"winnerPoints"`
	LoserID      string  `json:"loserId"`
	LoserName    string  `json:"loserName"`
	LoserPoints  float64 `json:"loserPoints"`
	Margin       float64 `json:"margin"`
	Score        string  `json:"score"`
	Tie          bool    `json:"tie"`
}

type ConsistencyRow struct {
	ManagerID string  `json:"managerId"`
	Name      string  `json:"name"`
	Games     int     `json:"games"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"stdDev"`
}

type StreakRow struct {
	ManagerID     string `json:"managerId"`
	Name          string `json:"name"`
	MaxWinStreak  int    `json:"maxWinStreak"`
	MaxLossStreak int    `json:"maxLossStreak"`
	Current       Streak `json:"current"`
}

type WeeklyHighRow struct {
	ManagerID string `json:"managerId"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
}

// ScheduleLuckRow compares a manager's real record with the record they
// would have had playing every team every week. LuckFactor is
// ActualWinPct - AllPlayWinPct; positive means a friendly schedule.
type ScheduleLuckRow struct {
	ManagerID     string  `json:"managerId"`
	Name          string  `json:"name"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	AllPlayWins   int     `json:"allPlayWins"`
	AllPlayLosses int     `json:"allPlayLosses"`
	ActualWinPct  float64 `json:"actualWinPct"`
	AllPlayWinPct float64 `json:"allPlayWinPct"`
	LuckFactor    float64 `json:"luckFactor"`
}

type GameStats struct {
	Closest      Stat[MarginGame]      `json:"closest"`
	Blowouts     Stat[MarginGame]      `json:"blowouts"`
	Consistency  Stat[ConsistencyRow]  `json:"consistency"`
	Streaks      Stat[StreakRow]       `json:"streaks"`
	WeeklyHighs  Stat[WeeklyHighRow]   `json:"weeklyHighs"`
	ScheduleLuck Stat[ScheduleLuckRow] `json:"scheduleLuck"`
}

type managerGames struct {
	scores             []float64
	streaks            streakTracker
	wins, losses, ties int
	allPlayWins        int
	allPlayLosses      int
	weeklyHighs        int
}

type gameAccumulator map[string]*managerGames

func (a gameAccumulator) get(id string) *managerGames {
	mg, ok := a[id]
	if !ok {
		mg = &managerGames{}
		a[id] = mg
	}
	return mg
}

func (a gameAccumulator) ids() []string {
	ids := make([]string, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (a gameAccumulator) recordGame(g models.Game) {
	sides := [2][2]models.GameSide{{g.Home, g.Away}, {g.Away, g.Home}}
	for _, pair := range sides {
		mg := a.get(pair[0].ManagerID)
		mg.scores = append(mg.scores, pair[0].Points)
		o := outcomeFor(pair[0].Points, pair[1].Points)
		mg.streaks.record(o)
		switch o {
		case Win:
			mg.wins++
		case Loss:
			mg.losses++
		default:
			mg.ties++
		}
	}
}

// recordWeek credits the week's top scorers and runs the all-play
// comparison: every score against every other score that week.
func (a gameAccumulator) recordWeek(entries []models.GameSide) {
	high := math.Inf(-1)
	for _, e := range entries {
		high = math.Max(high, e.Points)
	}
	for _, e := range entries {
		if math.Abs(e.Points-high) < tieEpsilon {
			a.get(e.ManagerID).weeklyHighs++
		}
	}

	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			switch outcomeFor(entries[i].Points, entries[j].Points) {
			case Win:
				a.get(entries[i].ManagerID).allPlayWins++
				a.get(entries[j].ManagerID).allPlayLosses++
			case Loss:
				a.get(entries[i].ManagerID).allPlayLosses++
				a.get(entries[j].ManagerID).allPlayWins++
			}
		}
	}
}

// ComputeGameStats walks every played game of the history once. When no
// season has a played game every statistic reports Unavailable.
func ComputeGameStats(h models.LeagueHistory) GameStats {
	seasons := playedGames(h)
	if len(seasons) == 0 {
		return GameStats{
			Closest:      unavailable[MarginGame](),
			Blowouts:     unavailable[MarginGame](),
			Consistency:  unavailable[ConsistencyRow](),
			Streaks:      unavailable[StreakRow](),
			WeeklyHighs:  unavailable[WeeklyHighRow](),
			ScheduleLuck: unavailable[ScheduleLuckRow](),
		}
	}

	idx := NewManagerIndex(h.Managers)
	acc := gameAccumulator{}
	var margins []MarginGame

	for _, s := range seasons {
		weeks := make(map[int][]models.GameSide)
		var weekOrder []int
		for _, g := range s.Games {
			margins = append(margins, newMarginGame(s.Year, g, idx))
			acc.recordGame(g)
			if _, ok := weeks[g.Week]; !ok {
				weekOrder = append(weekOrder, g.Week)
			}
			weeks[g.Week] = append(weeks[g.Week], g.Home, g.Away)
		}
		for _, w := range weekOrder {
			acc.recordWeek(weeks[w])
		}
	}

	return GameStats{
		Closest:      available(closestGames(margins)),
		Blowouts:     available(blowoutGames(margins)),
		Consistency:  consistency(acc, idx),
		Streaks:      available(streakRows(acc, idx)),
		WeeklyHighs:  available(weeklyHighRows(acc, idx)),
		ScheduleLuck: available(scheduleLuckRows(acc, idx)),
	}
}

func newMarginGame(year int, g models.Game, idx ManagerIndex) MarginGame {
	winner, loser := g.Home, g.Away
	if g.Away.Points > g.Home.Points {
		winner, loser = g.Away, g.Home
	}
	return MarginGame{
		Year:         year,
		Week:         g.Week,
		IsPlayoffs:   g.IsPlayoffs,
		WinnerID:     winner.ManagerID,
		WinnerName:   idx.Name(winner.ManagerID),
		WinnerPoints: winner.Points,
		LoserID:      loser.ManagerID,
		LoserName:    idx.Name(loser.ManagerID),
		LoserPoints:  loser.Points,
		Margin:       math.Abs(g.Home.Points - g.Away.Points),
		Score:        fmt.Sprintf("%.2f - %.2f", winner.Points, loser.Points),
		Tie:          outcomeFor(g.Home.Points, g.Away.Points) == Tie,
	}
}

func sortMargins(games []MarginGame, widest bool) []MarginGame {
	out := make([]MarginGame, len(games))
	copy(out, games)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Margin != out[j].Margin {
			if widest {
				return out[i].Margin > out[j].Margin
			}
			return out[i].Margin < out[j].Margin
		}
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Week < out[j].Week
	})
	return out
}

func closestGames(games []MarginGame) []MarginGame {
	sorted := sortMargins(games, false)
	return sorted[:min(marginListSize, len(sorted))]
}

func blowoutGames(games []MarginGame) []MarginGame {
	sorted := sortMargins(games, true)
	return sorted[:min(marginListSize, len(sorted))]
}

// MeanStdDev returns the arithmetic mean and population standard deviation.
func MeanStdDev(values []float64) (mean, stdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

func consistency(acc gameAccumulator, idx ManagerIndex) Stat[ConsistencyRow] {
	rows := []ConsistencyRow{}
	for _, id := range acc.ids() {
		scores := acc[id].scores
		if len(scores) < consistencyMinGames {
			continue
		}
		mean, sd := MeanStdDev(scores)
		rows = append(rows, ConsistencyRow{
			ManagerID: id,
			Name:      idx.Name(id),
			Games:     len(scores),
			Mean:      mean,
			StdDev:    sd,
		})
	}
	if len(rows) == 0 {
		return Stat[ConsistencyRow]{Status: InsufficientSample, Rows: rows}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].StdDev < rows[j].StdDev
	})
	return available(rows)
}

func streakRows(acc gameAccumulator, idx ManagerIndex) []StreakRow {
	rows := make([]StreakRow, 0, len(acc))
	for _, id := range acc.ids() {
		t := acc[id].streaks
		rows = append(rows, StreakRow{
			ManagerID:     id,
			Name:          idx.Name(id),
			MaxWinStreak:  t.maxWin,
			MaxLossStreak: t.maxLoss,
			Current:       t.current(),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MaxWinStreak > rows[j].MaxWinStreak
	})
	return rows[:min(streakListSize, len(rows))]
}

func weeklyHighRows(acc gameAccumulator, idx ManagerIndex) []WeeklyHighRow {
	var rows []WeeklyHighRow
	for _, id := range acc.ids() {
		if n := acc[id].weeklyHighs; n > 0 {
			rows = append(rows, WeeklyHighRow{ManagerID: id, Name: idx.Name(id), Count: n})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	return rows[:min(weeklyHighListSize, len(rows))]
}

func scheduleLuckRows(acc gameAccumulator, idx ManagerIndex) []ScheduleLuckRow {
	rows := make([]ScheduleLuckRow, 0, len(acc))
	for _, id := range acc.ids() {
		mg := acc[id]
		actual := percent(mg.wins, mg.wins+mg.losses)
		allPlay := percent(mg.allPlayWins, mg.allPlayWins+mg.allPlayLosses)
		rows = append(rows, ScheduleLuckRow{
			ManagerID:     id,
			Name:          idx.Name(id),
			Wins:          mg.wins,
			Losses:        mg.losses,
			Ties:          mg.ties,
			AllPlayWins:   mg.allPlayWins,
			AllPlayLosses: mg.allPlayLosses,
			ActualWinPct:  actual,
			AllPlayWinPct: allPlay,
			LuckFactor:    actual - allPlay,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].LuckFactor > rows[j].LuckFactor
	})
	return rows
}
