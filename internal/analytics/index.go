// Package analytics derives league statistics from an imported LeagueHistory.
// Every function is pure: it reads the history, never mutates it, and keeps no
// state between calls.
package analytics

import (
	"math"
	"sort"

	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

const (
	UnknownManager = "Unknown"

	// Scores closer than this are a tie.
	tieEpsilon = 0.01
)

// Availability tells consumers whether a statistic had data to work with.
type Availability string

const (
	Available          Availability = "available"
	Unavailable        Availability = "unavailable"
	InsufficientSample Availability = "insufficient_sample"
)

// Stat is one statistic's rows plus whether it could be computed at all.
type Stat[T any] struct {
	Status Availability `json:"status"`
	Rows   []T          `json:"rows"`
}

func unavailable[T any]() Stat[T] {
	return Stat[T]{Status: Unavailable, Rows: []T{}}
}

func available[T any](rows []T) Stat[T] {
	if rows == nil {
		rows = []T{}
	}
	return Stat[T]{Status: Available, Rows: rows}
}

// ManagerIndex maps manager ids to managers so loops over seasons and games
// never rescan the manager list.
type ManagerIndex map[string]models.Manager

func NewManagerIndex(managers []models.Manager) ManagerIndex {
	idx := make(ManagerIndex, len(managers))
	for _, m := range managers {
		idx[m.ID] = m
	}
	return idx
}

func (idx ManagerIndex) Name(id string) string {
	if m, ok := idx[id]; ok && m.Name != "" {
		return m.Name
	}
	return UnknownManager
}

// Outcome is a single game result from one manager's point of view.
type Outcome string

const (
	Win  Outcome = "W"
	Loss Outcome = "L"
	Tie  Outcome = "T"
)

func outcomeFor(pointsFor, pointsAgainst float64) Outcome {
	switch {
	case math.Abs(pointsFor-pointsAgainst) < tieEpsilon:
		return Tie
	case pointsFor > pointsAgainst:
		return Win
	default:
		return Loss
	}
}

func isPlayed(g models.Game) bool {
	return g.Home.Points != 0 || g.Away.Points != 0
}

// chronoSeason is a season's played games ordered by week.
type chronoSeason struct {
	Year  int
	Games []models.Game
}

// playedGames returns every played game of the history grouped by season,
// seasons ascending by year and games ascending by week. The input is not
// modified.
func playedGames(h models.LeagueHistory) []chronoSeason {
	seasons := seasonsByYear(h)
	out := make([]chronoSeason, 0, len(seasons))
	for _, s := range seasons {
		games := make([]models.Game, 0, len(s.Games))
		for _, g := range s.Games {
			if isPlayed(g) {
				games = append(games, g)
			}
		}
		if len(games) == 0 {
			continue
		}
		sort.SliceStable(games, func(i, j int) bool {
			return games[i].Week < games[j].Week
		})
		out = append(out, chronoSeason{Year: s.Year, Games: games})
	}
	return out
}

func percent(num, den int) float64 {
	return float64(num) / float64(max(den, 1)) * 100
}
