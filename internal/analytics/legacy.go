package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

const (
	TitleWeight   = 10.0
	PlayoffWeight = 3.0
	WinWeight     = 0.5
)

func LegacyScore(titles, playoffAppearances, wins int) float64 {
	return float64(titles)*TitleWeight + float64(playoffAppearances)*PlayoffWeight + float64(wins)*WinWeight
}

type LegacyRow struct {
	ManagerID          string  `json:"managerId"`
	Name               string  `json:"name"`
	LegacyScore        float64 `json:"legacyScore"`
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	Ties               int     `json:"ties"`
	WinPct             float64 `json:"winPct"`
	PointsFor          float64 `json:"pointsFor"`
	Titles             int     `json:"titles"`
	PlayoffAppearances int     `json:"playoffAppearances"`
	PlayoffRate        float64 `json:"playoffRate"`
	AverageRank        float64 `json:"averageRank"`
	BestRank           int     `json:"bestRank"`
	Seasons            int     `json:"seasons"`
	Sackos             int     `json:"sackos"`
}

type SortKey string

const (
	SortLegacy      SortKey = "legacy"
	SortWins        SortKey = "wins"
	SortWinPct      SortKey = "winpct"
	SortPoints      SortKey = "points"
	SortTitles      SortKey = "titles"
	SortAverageRank SortKey = "avgrank"
	SortPlayoffRate SortKey = "playoffrate"
)

var sortKeys = []SortKey{SortLegacy, SortWins, SortWinPct, SortPoints, SortTitles, SortAverageRank, SortPlayoffRate}

func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortLegacy, nil
	}
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range sortKeys {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Descending reports the default direction: lower average rank is better,
// every other key is better when higher.
func (k SortKey) Descending() bool {
	return k != SortAverageRank
}

func (k SortKey) value(r LegacyRow) float64 {
	switch k {
	case SortWins:
		return float64(r.Wins)
	case SortWinPct:
		return r.WinPct
	case SortPoints:
		return r.PointsFor
	case SortTitles:
		return float64(r.Titles)
	case SortAverageRank:
		return r.AverageRank
	case SortPlayoffRate:
		return r.PlayoffRate
	default:
		return r.LegacyScore
	}
}

// LegacyRankings returns one row per manager with at least one season,
// sorted by legacy score descending.
func LegacyRankings(h models.LeagueHistory) []LegacyRow {
	rows := make([]LegacyRow, 0, len(h.Managers))
	for _, c := range AggregateCareers(h) {
		if c.Seasons == 0 {
			continue
		}
		rows = append(rows, LegacyRow{
			ManagerID:          c.ManagerID,
			Name:               c.Name,
			LegacyScore:        LegacyScore(c.Titles, c.PlayoffAppearances, c.Wins),
			Wins:               c.Wins,
			Losses:             c.Losses,
			Ties:               c.Ties,
			WinPct:             c.WinPct(),
			PointsFor:          c.PointsFor,
			Titles:             c.Titles,
			PlayoffAppearances: c.PlayoffAppearances,
			PlayoffRate:        c.PlayoffRate(),
			AverageRank:        c.AverageRank(),
			BestRank:           c.BestRank(),
			Seasons:            c.Seasons,
			Sackos:             c.Sackos,
		})
	}
	return SortLegacyRows(rows, SortLegacy, true)
}

// SortLegacyRows returns a sorted copy of rows. Equal values fall back to
// manager id ascending so the order is deterministic.
func SortLegacyRows(rows []LegacyRow, key SortKey, descending bool) []LegacyRow {
	out := make([]LegacyRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := key.value(out[i]), key.value(out[j])
		if vi != vj {
			if descending {
				return vi > vj
			}
			return vi < vj
		}
		return out[i].ManagerID < out[j].ManagerID
	})
	return out
}
