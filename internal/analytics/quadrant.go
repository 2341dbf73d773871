package analytics

import (
	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

type Quadrant string

const (
	Juggernaut  Quadrant = "Juggernaut"
	GlassCannon Quadrant = "Glass Cannon"
	Sleeper     Quadrant = "Sleeper"
	SackoZone   Quadrant = "Sacko"
)

// Absorbs float noise from the mean of means so a manager sitting exactly on
// the league average lands on the favorable side.
const quadrantEpsilon = 1e-9

type QuadrantPoint struct {
	ManagerID        string   `json:"managerId"`
	Name             string   `json:"name"`
	Games            int      `json:"games"`
	AvgPointsFor     float64  `json:"avgPointsFor"`
	AvgPointsAgainst float64  `json:"avgPointsAgainst"`
	Quadrant         Quadrant `json:"quadrant"`
}

type LuckQuadrants struct {
	Status           Availability    `json:"status"`
	LeagueAvgFor     float64         `json:"leagueAvgPointsFor"`
	LeagueAvgAgainst float64         `json:"leagueAvgPointsAgainst"`
	Points           []QuadrantPoint `json:"points"`
}

func Classify(avgFor, avgAgainst, leagueFor, leagueAgainst float64) Quadrant {
	good := avgFor >= leagueFor-quadrantEpsilon
	lucky := avgAgainst <= leagueAgainst+quadrantEpsilon
	switch {
	case good && lucky:
		return Juggernaut
	case good:
		return GlassCannon
	case lucky:
		return Sleeper
	default:
		return SackoZone
	}
}

// ComputeLuckQuadrants averages career points for/against per game from the
// season standings and compares each manager to the mean of those averages.
// Managers without a positive game count are left out.
func ComputeLuckQuadrants(h models.LeagueHistory) LuckQuadrants {
	var points []QuadrantPoint
	var sumFor, sumAgainst float64
	for _, c := range AggregateCareers(h) {
		games := c.GamesPlayed()
		if games <= 0 {
			continue
		}
		p := QuadrantPoint{
			ManagerID:        c.ManagerID,
			Name:             c.Name,
			Games:            games,
			AvgPointsFor:     c.PointsFor / float64(games),
			AvgPointsAgainst: c.PointsAgainst / float64(games),
		}
		sumFor += p.AvgPointsFor
		sumAgainst += p.AvgPointsAgainst
		points = append(points, p)
	}
	if len(points) == 0 {
		return LuckQuadrants{Status: Unavailable, Points: []QuadrantPoint{}}
	}

	leagueFor := sumFor / float64(len(points))
	leagueAgainst := sumAgainst / float64(len(points))
	for i := range points {
		points[i].Quadrant = Classify(points[i].AvgPointsFor, points[i].AvgPointsAgainst, leagueFor, leagueAgainst)
	}
	return LuckQuadrants{
		Status:           Available,
		LeagueAvgFor:     leagueFor,
		LeagueAvgAgainst: leagueAgainst,
		Points:           points,
	}
}
