package analytics

import (
	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

// Report bundles every league-wide statistic for one history snapshot.
type Report struct {
	LeagueID string        `json:"leagueId"`
	Careers  []CareerStats `json:"careers"`
	Legacy   []LegacyRow   `json:"legacy"`
	Games    GameStats     `json:"games"`
	Luck     LuckQuadrants `json:"luck"`
	Records  RecordBook    `json:"records"`
}

func Analyze(h models.LeagueHistory) Report {
	return Report{
		LeagueID: h.LeagueID,
		Careers:  AggregateCareers(h),
		Legacy:   LegacyRankings(h),
		Games:    ComputeGameStats(h),
		Luck:     ComputeLuckQuadrants(h),
		Records:  ComputeRecordBook(h),
	}
}
