package analytics

import (
	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

// RecordEntry is one record-book line: who set it, when, and the value.
type RecordEntry struct {
	Category  string  `json:"category"`
	ManagerID string  `json:"managerId"`
	Name      string  `json:"name"`
	Year      int     `json:"year"`
	Week      int     `json:"week,omitempty"`
	Value     float64 `json:"value"`
}

type RecordBook struct {
	GameRecords   Stat[RecordEntry] `json:"gameRecords"`
	SeasonRecords Stat[RecordEntry] `json:"seasonRecords"`
}

const (
	RecordHighestScore = "Highest Score"
	RecordLowestScore  = "Lowest Score"
	RecordMostPoints   = "Most Season Points"
	RecordFewestPoints = "Fewest Season Points"
	RecordMostWins     = "Most Season Wins"
	RecordFewestWins   = "Fewest Season Wins"
)

type extreme struct {
	entry RecordEntry
	set   bool
}

// keep replaces the current holder only on a strictly better value, so the
// earliest holder keeps a tied record.
func (e *extreme) keep(candidate RecordEntry, better func(a, b float64) bool) {
	if !e.set || better(candidate.Value, e.entry.Value) {
		e.entry = candidate
		e.set = true
	}
}

func higher(a, b float64) bool { return a > b }
func lower(a, b float64) bool  { return a < b }

// ComputeRecordBook finds single-game and single-season extremes. Game
// records need played games; season records need standings.
func ComputeRecordBook(h models.LeagueHistory) RecordBook {
	idx := NewManagerIndex(h.Managers)
	book := RecordBook{
		GameRecords:   unavailable[RecordEntry](),
		SeasonRecords: unavailable[RecordEntry](),
	}

	var high, low extreme
	for _, s := range playedGames(h) {
		for _, g := range s.Games {
			for _, side := range []models.GameSide{g.Home, g.Away} {
				e := RecordEntry{ManagerID: side.ManagerID, Name: idx.Name(side.ManagerID), Year: s.Year, Week: g.Week, Value: side.Points}
				e.Category = RecordHighestScore
				high.keep(e, higher)
				e.Category = RecordLowestScore
				low.keep(e, lower)
			}
		}
	}
	if high.set {
		book.GameRecords = available([]RecordEntry{high.entry, low.entry})
	}

	var mostPts, fewestPts, mostWins, fewestWins extreme
	for _, s := range seasonsByYear(h) {
		for _, st := range s.Standings {
			base := RecordEntry{ManagerID: st.ManagerID, Name: idx.Name(st.ManagerID), Year: s.Year}

			e := base
			e.Category, e.Value = RecordMostPoints, st.PointsFor
			mostPts.keep(e, higher)
			e.Category = RecordFewestPoints
			fewestPts.keep(e, lower)

			e = base
			e.Category, e.Value = RecordMostWins, float64(st.Wins)
			mostWins.keep(e, higher)
			e.Category = RecordFewestWins
			fewestWins.keep(e, lower)
		}
	}
	if mostPts.set {
		book.SeasonRecords = available([]RecordEntry{mostPts.entry, fewestPts.entry, mostWins.entry, fewestWins.entry})
	}
	return book
}
