package analytics

import (
	"sort"

	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

// CareerStats folds every season standing of one manager.
type CareerStats struct {
	ManagerID          string  `json:"managerId"`
	Name               string  `json:"name"`
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	Ties               int     `json:"ties"`
	PointsFor          float64 `json:"pointsFor"`
	PointsAgainst      float64 `json:"pointsAgainst"`
	Seasons            int     `json:"seasons"`
	Titles             int     `json:"titles"`
	PlayoffAppearances int     `json:"playoffAppearances"`
	Sackos             int     `json:"sackos"`
	Ranks              []int   `json:"ranks"`
	Years              []int   `json:"years"`
}

// WinPct is wins/(wins+losses) as a percentage; zero decisions yields 0.
func (c CareerStats) WinPct() float64 {
	return percent(c.Wins, c.Wins+c.Losses)
}

// AverageRank is the mean season rank. With no seasons it is 0, which is
// not a meaningful rank; check Seasons.
func (c CareerStats) AverageRank() float64 {
	sum := 0
	for _, r := range c.Ranks {
		sum += r
	}
	return float64(sum) / float64(max(len(c.Ranks), 1))
}

func (c CareerStats) BestRank() int {
	best := 0
	for _, r := range c.Ranks {
		if best == 0 || r < best {
			best = r
		}
	}
	return best
}

func (c CareerStats) PlayoffRate() float64 {
	return percent(c.PlayoffAppearances, c.Seasons)
}

func (c CareerStats) GamesPlayed() int {
	return c.Wins + c.Losses + c.Ties
}

func (c *CareerStats) addStanding(year int, st models.SeasonStanding, seasonSize int) {
	c.Wins += st.Wins
	c.Losses += st.Losses
	c.Ties += st.Ties
	c.PointsFor += st.PointsFor
	c.PointsAgainst += st.PointsAgainst
	c.Seasons++
	if st.IsChampion {
		c.Titles++
	}
	if st.IsPlayoff {
		c.PlayoffAppearances++
	}
	if st.Rank == seasonSize {
		c.Sackos++
	}
	c.Ranks = append(c.Ranks, st.Rank)
	c.Years = append(c.Years, year)
}

// AggregateCareers returns one record per manager in the manager list, in
// list order, followed by records for ids that only appear inside seasons
// (named Unknown), ordered by id. Managers without seasons are included with
// zero totals.
func AggregateCareers(h models.LeagueHistory) []CareerStats {
	idx := NewManagerIndex(h.Managers)
	byID := make(map[string]*CareerStats, len(h.Managers))
	order := make([]string, 0, len(h.Managers))

	for _, m := range h.Managers {
		if _, ok := byID[m.ID]; ok {
			continue
		}
		byID[m.ID] = &CareerStats{ManagerID: m.ID, Name: idx.Name(m.ID), Ranks: []int{}, Years: []int{}}
		order = append(order, m.ID)
	}

	var dangling []string
	for _, s := range seasonsByYear(h) {
		for _, st := range s.Standings {
			c, ok := byID[st.ManagerID]
			if !ok {
				c = &CareerStats{ManagerID: st.ManagerID, Name: idx.Name(st.ManagerID), Ranks: []int{}, Years: []int{}}
				byID[st.ManagerID] = c
				dangling = append(dangling, st.ManagerID)
			}
			c.addStanding(s.Year, st, len(s.Standings))
		}
	}
	sort.Strings(dangling)
	order = append(order, dangling...)

	out := make([]CareerStats, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

func careerByID(h models.LeagueHistory) map[string]CareerStats {
	careers := AggregateCareers(h)
	out := make(map[string]CareerStats, len(careers))
	for _, c := range careers {
		out[c.ManagerID] = c
	}
	return out
}

func seasonsByYear(h models.LeagueHistory) []models.Season {
	seasons := make([]models.Season, len(h.Seasons))
	copy(seasons, h.Seasons)
	sort.SliceStable(seasons, func(i, j int) bool {
		return seasons[i].Year < seasons[j].Year
	})
	return seasons
}
