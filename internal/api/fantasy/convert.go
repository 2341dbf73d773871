package fantasy

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

var placeholderName = regexp.MustCompile(`(?i)^(team|manager|owner) \d+$`)

// IsPlaceholderName reports names ESPN generates when a member has not set
// one.
func IsPlaceholderName(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, "Unknown") || placeholderName.MatchString(name)
}

// MergeManager combines two sightings of the same manager id. A real name
// beats a placeholder; otherwise the most recent season wins.
func MergeManager(existing, incoming models.Manager, incomingYear int) models.Manager {
	incoming.LastSeenYear = incomingYear

	existingPlaceholder := IsPlaceholderName(existing.Name)
	incomingPlaceholder := IsPlaceholderName(incoming.Name)

	var merged models.Manager
	switch {
	case existingPlaceholder && !incomingPlaceholder:
		merged = incoming
	case !existingPlaceholder && incomingPlaceholder:
		merged = existing
	case incomingYear >= existing.LastSeenYear:
		merged = incoming
	default:
		merged = existing
	}

	if merged.Avatar == "" {
		if incoming.Avatar != "" {
			merged.Avatar = incoming.Avatar
		} else {
			merged.Avatar = existing.Avatar
		}
	}
	merged.LastSeenYear = max(existing.LastSeenYear, incomingYear)
	return merged
}

func managerID(team models.Team) string {
	if team.PrimaryOwner != "" {
		return team.PrimaryOwner
	}
	if len(team.Owners) > 0 && team.Owners[0] != "" {
		return team.Owners[0]
	}
	return fmt.Sprintf("team-%d", team.ID)
}

func managerName(team models.Team, member models.Member, found bool) string {
	if found {
		full := strings.TrimSpace(member.FirstName + " " + member.LastName)
		if !IsPlaceholderName(full) {
			return full
		}
		if !IsPlaceholderName(member.DisplayName) {
			return member.DisplayName
		}
	}
	if team.Name != "" {
		return team.Name
	}
	return strings.TrimSpace(team.Location + " " + team.Nickname)
}

func provisionalRank(t models.Team) int {
	if t.RankCalculatedFinal > 0 {
		return t.RankCalculatedFinal
	}
	return t.PlayoffSeed
}

func winPct(t models.Team) float64 {
	r := t.Record.Overall
	games := r.Wins + r.Losses + r.Ties
	if games == 0 {
		return 0
	}
	return (float64(r.Wins) + float64(r.Ties)/2) / float64(games)
}

// rankTeams orders teams by ESPN's final rank, then playoff seed, then win
// percentage and points for. Teams without a rank sort after ranked ones.
func rankTeams(teams []models.Team) []models.Team {
	out := make([]models.Team, len(teams))
	copy(out, teams)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ra, rb := provisionalRank(a), provisionalRank(b)
		if ra != rb {
			if ra == 0 {
				return false
			}
			if rb == 0 {
				return true
			}
			return ra < rb
		}
		if pa, pb := winPct(a), winPct(b); pa != pb {
			return pa > pb
		}
		if a.Record.Overall.PointsFor != b.Record.Overall.PointsFor {
			return a.Record.Overall.PointsFor > b.Record.Overall.PointsFor
		}
		return a.ID < b.ID
	})
	return out
}

func placeholderPlayer(id int) string {
	return fmt.Sprintf("Player #%d", id)
}

// ConvertSeason maps one ESPN season payload onto the history model. Ranks
// are renumbered 1..N so every season has exactly one champion.
func ConvertSeason(leagueID string, year int, resp *models.LeagueResponse, defaultPlayoffTeams int) (models.Season, []models.Manager) {
	season := models.Season{
		Year: year,
		Key:  fmt.Sprintf("%s-%d", leagueID, year),
	}

	playoffTeams := resp.Settings.ScheduleSettings.PlayoffTeamCount
	if playoffTeams <= 0 {
		playoffTeams = defaultPlayoffTeams
	}

	members := make(map[string]models.Member, len(resp.Members))
	for _, m := range resp.Members {
		members[m.ID] = m
	}

	owners := make(map[int]string, len(resp.Teams))
	managers := make([]models.Manager, 0, len(resp.Teams))
	for _, team := range rankTeams(resp.Teams) {
		id := managerID(team)
		owners[team.ID] = id

		member, found := members[id]
		managers = append(managers, models.Manager{
			ID:           id,
			Name:         managerName(team, member, found),
			Avatar:       team.Logo,
			LastSeenYear: year,
		})

		rank := len(season.Standings) + 1
		r := team.Record.Overall
		season.Standings = append(season.Standings, models.SeasonStanding{
			ManagerID:     id,
			Rank:          rank,
			Wins:          r.Wins,
			Losses:        r.Losses,
			Ties:          r.Ties,
			PointsFor:     r.PointsFor,
			PointsAgainst: r.PointsAgainst,
			IsChampion:    rank == 1,
			IsPlayoff:     rank <= playoffTeams,
		})
		if rank == 1 {
			season.ChampionID = id
		}
	}

	for _, m := range resp.Schedule {
		if m.Away == nil {
			continue
		}
		season.Games = append(season.Games, models.Game{
			Week:       m.MatchupPeriodID,
			IsPlayoffs: m.PlayoffTierType != "" && m.PlayoffTierType != "NONE",
			Home:       models.GameSide{ManagerID: ownerOf(owners, m.Home.TeamID), Points: m.Home.TotalPoints},
			Away:       models.GameSide{ManagerID: ownerOf(owners, m.Away.TeamID), Points: m.Away.TotalPoints},
		})
	}

	picks := append([]models.DraftPickWire(nil), resp.DraftDetail.Picks...)
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].OverallPickNumber < picks[j].OverallPickNumber
	})
	for _, p := range picks {
		season.Draft = append(season.Draft, models.DraftPick{
			Round:      p.RoundID,
			Pick:       p.OverallPickNumber,
			PlayerID:   p.PlayerID,
			PlayerName: placeholderPlayer(p.PlayerID),
			ManagerID:  ownerOf(owners, p.TeamID),
		})
	}

	return season, managers
}

func ownerOf(owners map[int]string, teamID int) string {
	if id, ok := owners[teamID]; ok {
		return id
	}
	return fmt.Sprintf("team-%d", teamID)
}
