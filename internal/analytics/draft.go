package analytics

import (
	"sort"

	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

type DraftBoard struct {
	ManagerID string             `json:"managerId"`
	Name      string             `json:"name"`
	Picks     []models.DraftPick `json:"picks"`
}

type DraftRecap struct {
	Status Availability `json:"status"`
	Year   int          `json:"year"`
	Boards []DraftBoard `json:"boards"`
}

// ComputeDraftRecap groups one season's picks by manager. Boards are ordered
// by each manager's first pick, picks by overall pick number.
func ComputeDraftRecap(h models.LeagueHistory, year int) DraftRecap {
	out := DraftRecap{Status: Unavailable, Year: year, Boards: []DraftBoard{}}

	var picks []models.DraftPick
	for _, s := range h.Seasons {
		if s.Year == year {
			picks = append(picks, s.Draft...)
		}
	}
	if len(picks) == 0 {
		return out
	}
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].Pick < picks[j].Pick
	})

	idx := NewManagerIndex(h.Managers)
	pos := make(map[string]int)
	for _, p := range picks {
		i, ok := pos[p.ManagerID]
		if !ok {
			i = len(out.Boards)
			pos[p.ManagerID] = i
			out.Boards = append(out.Boards, DraftBoard{ManagerID: p.ManagerID, Name: idx.Name(p.ManagerID)})
		}
		out.Boards[i].Picks = append(out.Boards[i].Picks, p)
	}
	out.Status = Available
	return out
}
