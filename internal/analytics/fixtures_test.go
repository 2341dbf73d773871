package analytics

import (
	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

func game(week int, homeID string, homePts float64, awayID string, awayPts float64) models.Game {
	return models.Game{
		Week: week,
		Home: models.GameSide{ManagerID: homeID, Points: homePts},
		Away: models.GameSide{ManagerID: awayID, Points: awayPts},
	}
}

// standing builds a season line with a two-team playoff cutoff.
func standing(id string, rank, wins, losses int, pf, pa float64) models.SeasonStanding {
	return models.SeasonStanding{
		ManagerID:     id,
		Rank:          rank,
		Wins:          wins,
		Losses:        losses,
		PointsFor:     pf,
		PointsAgainst: pa,
		IsChampion:    rank == 1,
		IsPlayoff:     rank <= 2,
	}
}

func managers(ids ...string) []models.Manager {
	out := make([]models.Manager, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Manager{ID: id, Name: "Manager " + id})
	}
	return out
}

// outcomeGames turns a result sequence for "a" against "b" into one game per
// week, listed in reverse so callers exercise the chronological sort.
func outcomeGames(seq []Outcome) []models.Game {
	games := make([]models.Game, 0, len(seq))
	for i := len(seq) - 1; i >= 0; i-- {
		week := i + 1
		switch seq[i] {
		case Win:
			games = append(games, game(week, "a", 110, "b", 100))
		case Loss:
			games = append(games, game(week, "a", 90, "b", 100))
		default:
			games = append(games, game(week, "a", 100, "b", 100.004))
		}
	}
	return games
}

// leagueFixture is a small two-season league with games in both seasons.
func leagueFixture() models.LeagueHistory {
	return models.LeagueHistory{
		LeagueID: "42",
		Name:     "Fixture League",
		Managers: managers("a", "b", "c", "d"),
		Seasons: []models.Season{
			{
				Year:       2023,
				Key:        "42-2023",
				ChampionID: "b",
				Standings: []models.SeasonStanding{
					standing("b", 1, 2, 1, 330, 300),
					standing("a", 2, 2, 1, 320, 310),
					standing("c", 3, 1, 2, 290, 300),
					standing("d", 4, 1, 2, 280, 310),
				},
				Games: []models.Game{
					game(2, "a", 95, "c", 105),
					game(2, "b", 120, "d", 100),
					game(1, "a", 110, "b", 100),
					game(1, "c", 90, "d", 95),
					game(3, "a", 115, "d", 85),
					game(3, "b", 110, "c", 95),
				},
			},
			{
				Year:       2022,
				Key:        "42-2022",
				ChampionID: "a",
				Standings: []models.SeasonStanding{
					standing("a", 1, 3, 0, 340, 280),
					standing("c", 2, 2, 1, 300, 290),
					standing("b", 3, 1, 2, 290, 310),
					standing("d", 4, 0, 3, 250, 300),
				},
				Games: []models.Game{
					game(1, "a", 120, "b", 100),
					game(1, "c", 100, "d", 80),
					game(2, "a", 110, "c", 100),
					game(2, "b", 95, "d", 90),
					game(3, "a", 110, "d", 80),
					game(3, "c", 100, "b", 95),
					game(4, "a", 0, "b", 0),
				},
			},
		},
	}
}
