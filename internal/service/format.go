package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/omarshaarawi/leaguelegacy/internal/analytics"
)

const noGamesText = "No games have been played yet."

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// md escapes user supplied text for Telegram's legacy Markdown.
func md(s string) string {
	return markdownEscaper.Replace(s)
}

func formatStreak(s analytics.Streak) string {
	if s.Length == 0 {
		return "-"
	}
	return fmt.Sprintf("%s%d", s.Type, s.Length)
}

// ParseDirection maps "asc"/"desc" to a descending flag, falling back to the
// key's natural direction when empty.
func ParseDirection(key analytics.SortKey, dir string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "":
		return key.Descending(), nil
	case "asc":
		return false, nil
	case "desc":
		return true, nil
	default:
		return false, fmt.Errorf("unknown sort direction %q (use asc or desc)", dir)
	}
}

func (s *LeagueService) LegacyMessage(ctx context.Context, sortArg, dirArg string) (string, error) {
	key, err := analytics.ParseSortKey(sortArg)
	if err != nil {
		return "", err
	}
	descending, err := ParseDirection(key, dirArg)
	if err != nil {
		return "", err
	}

	rows, err := s.Legacy(ctx, key, descending)
	if err != nil {
		return "", fmt.Errorf("error building legacy table: %w", err)
	}
	return formatLegacy(rows, key), nil
}

func formatLegacy(rows []analytics.LegacyRow, key analytics.SortKey) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏛️ *League Legacy* (by %s)\n\n", key))
	if len(rows) == 0 {
		sb.WriteString("No seasons imported yet.")
		return sb.String()
	}

	for i, r := range rows {
		sb.WriteString(fmt.Sprintf("%d. *%s* - %.1f\n", i+1, md(r.Name), r.LegacyScore))
		sb.WriteString(fmt.Sprintf("   Titles: %d | Playoffs: %d/%d (%.0f%%)\n", r.Titles, r.PlayoffAppearances, r.Seasons, r.PlayoffRate))
		sb.WriteString(fmt.Sprintf("   Record: %d-%d-%d (%.1f%%) | PF: %.2f\n", r.Wins, r.Losses, r.Ties, r.WinPct, r.PointsFor))
		sb.WriteString(fmt.Sprintf("   Avg Finish: %.2f | Best: %d | Sackos: %d\n\n", r.AverageRank, r.BestRank, r.Sackos))
	}
	return sb.String()
}

func (s *LeagueService) LuckMessage(ctx context.Context) (string, error) {
	q, err := s.Quadrants(ctx)
	if err != nil {
		return "", fmt.Errorf("error building luck quadrants: %w", err)
	}
	return formatQuadrants(q), nil
}

var quadrantOrder = []struct {
	q     analytics.Quadrant
	emoji string
	blurb string
}{
	{analytics.Juggernaut, "💪", "scores a lot, gives up little"},
	{analytics.GlassCannon, "💥", "scores a lot, gives up a lot"},
	{analytics.Sleeper, "😴", "scores little, gives up little"},
	{analytics.SackoZone, "🚽", "scores little, gives up a lot"},
}

func formatQuadrants(q analytics.LuckQuadrants) string {
	var sb strings.Builder
	sb.WriteString("🍀 *Luck Quadrants*\n\n")
	if q.Status != analytics.Available {
		sb.WriteString("No standings imported yet.")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("League avg: %.2f for / %.2f against\n\n", q.LeagueAvgFor, q.LeagueAvgAgainst))
	for _, quad := range quadrantOrder {
		var lines []string
		for _, p := range q.Points {
			if p.Quadrant == quad.q {
				lines = append(lines, fmt.Sprintf("  • %s (%.2f / %.2f)", md(p.Name), p.AvgPointsFor, p.AvgPointsAgainst))
			}
		}
		if len(lines) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s *%s* - %s\n", quad.emoji, quad.q, quad.blurb))
		sb.WriteString(strings.Join(lines, "\n"))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func (s *LeagueService) ScheduleLuckMessage(ctx context.Context) (string, error) {
	stats, err := s.GameStats(ctx)
	if err != nil {
		return "", fmt.Errorf("error building schedule luck: %w", err)
	}
	return formatScheduleLuck(stats.ScheduleLuck), nil
}

func formatScheduleLuck(stat analytics.Stat[analytics.ScheduleLuckRow]) string {
	var sb strings.Builder
	sb.WriteString("🎲 *Schedule Luck*\n\n")
	if stat.Status != analytics.Available {
		sb.WriteString(noGamesText)
		return sb.String()
	}

	for i, r := range stat.Rows {
		sb.WriteString(fmt.Sprintf("%d. *%s* %+.1f%%\n", i+1, md(r.Name), r.LuckFactor))
		sb.WriteString(fmt.Sprintf("   Actual: %d-%d-%d (%.1f%%) | All-play: %d-%d (%.1f%%)\n",
			r.Wins, r.Losses, r.Ties, r.ActualWinPct,
			r.AllPlayWins, r.AllPlayLosses, r.AllPlayWinPct))
	}
	return sb.String()
}

func (s *LeagueService) StreaksMessage(ctx context.Context) (string, error) {
	stats, err := s.GameStats(ctx)
	if err != nil {
		return "", fmt.Errorf("error building streaks: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("🔥 *Streaks*\n\n")
	if stats.Streaks.Status != analytics.Available {
		sb.WriteString(noGamesText)
		return sb.String(), nil
	}
	for _, r := range stats.Streaks.Rows {
		sb.WriteString(fmt.Sprintf("*%s*: longest W%d / L%d, current %s\n",
			md(r.Name), r.MaxWinStreak, r.MaxLossStreak, formatStreak(r.Current)))
	}
	return sb.String(), nil
}

func (s *LeagueService) ConsistencyMessage(ctx context.Context) (string, error) {
	stats, err := s.GameStats(ctx)
	if err != nil {
		return "", fmt.Errorf("error building consistency: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("📏 *Consistency* (lowest spread first)\n\n")
	switch stats.Consistency.Status {
	case analytics.Unavailable:
		sb.WriteString(noGamesText)
		return sb.String(), nil
	case analytics.InsufficientSample:
		sb.WriteString("Nobody has played enough games to rank yet.")
		return sb.String(), nil
	}
	for i, r := range stats.Consistency.Rows {
		sb.WriteString(fmt.Sprintf("%d. *%s* %.2f ± %.2f (%d games)\n", i+1, md(r.Name), r.Mean, r.StdDev, r.Games))
	}
	return sb.String(), nil
}

func (s *LeagueService) WeeklyHighsMessage(ctx context.Context) (string, error) {
	stats, err := s.GameStats(ctx)
	if err != nil {
		return "", fmt.Errorf("error building weekly highs: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("🚀 *Weekly High Scores*\n\n")
	if stats.WeeklyHighs.Status != analytics.Available {
		sb.WriteString(noGamesText)
		return sb.String(), nil
	}
	for i, r := range stats.WeeklyHighs.Rows {
		sb.WriteString(fmt.Sprintf("%d. *%s* - %d\n", i+1, md(r.Name), r.Count))
	}
	return sb.String(), nil
}

func (s *LeagueService) GamesMessage(ctx context.Context) (string, error) {
	stats, err := s.GameStats(ctx)
	if err != nil {
		return "", fmt.Errorf("error building game margins: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("📊 *Closest Games*\n")
	writeMargins(&sb, stats.Closest)
	sb.WriteString("\n💀 *Biggest Blowouts*\n")
	writeMargins(&sb, stats.Blowouts)
	return sb.String(), nil
}

func writeMargins(sb *strings.Builder, stat analytics.Stat[analytics.MarginGame]) {
	if stat.Status != analytics.Available {
		sb.WriteString(noGamesText + "\n")
		return
	}
	for _, g := range stat.Rows {
		playoff := ""
		if g.IsPlayoffs {
			playoff = " 🏆"
		}
		verb := "def."
		if g.Tie {
			verb = "tied"
		}
		sb.WriteString(fmt.Sprintf("%d Wk %d%s: *%s* %s *%s* %s (%.2f)\n",
			g.Year, g.Week, playoff, md(g.WinnerName), verb, md(g.LoserName), g.Score, g.Margin))
	}
}

func (s *LeagueService) RecordsMessage(ctx context.Context) (string, error) {
	book, err := s.Records(ctx)
	if err != nil {
		return "", fmt.Errorf("error building record book: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("📖 *Record Book*\n\n")
	if book.GameRecords.Status == analytics.Available {
		for _, r := range book.GameRecords.Rows {
			sb.WriteString(fmt.Sprintf("%s: *%s* %.2f (%d Wk %d)\n", r.Category, md(r.Name), r.Value, r.Year, r.Week))
		}
	} else {
		sb.WriteString(noGamesText + "\n")
	}
	sb.WriteString("\n")
	if book.SeasonRecords.Status == analytics.Available {
		for _, r := range book.SeasonRecords.Rows {
			value := fmt.Sprintf("%.2f", r.Value)
			if r.Category == analytics.RecordMostWins || r.Category == analytics.RecordFewestWins {
				value = fmt.Sprintf("%.0f", r.Value)
			}
			sb.WriteString(fmt.Sprintf("%s: *%s* %s (%d)\n", r.Category, md(r.Name), value, r.Year))
		}
	} else {
		sb.WriteString("No standings imported yet.\n")
	}
	return sb.String(), nil
}

func (s *LeagueService) RivalsMessage(ctx context.Context, managerRef string) (string, error) {
	r, err := s.Rivalries(ctx, managerRef)
	if err != nil {
		return "", err
	}
	return formatRivalries(r), nil
}

func formatRivalries(r analytics.Rivalries) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚔️ *Rivalries: %s*\n\n", md(r.SubjectName)))
	if r.Status != analytics.Available {
		sb.WriteString(noGamesText)
		return sb.String()
	}

	if r.Nemesis != nil {
		sb.WriteString(fmt.Sprintf("😈 Nemesis: *%s* (%d-%d-%d)\n", md(r.Nemesis.OpponentName), r.Nemesis.Wins, r.Nemesis.Losses, r.Nemesis.Ties))
	}
	if r.Pigeon != nil {
		sb.WriteString(fmt.Sprintf("🐦 Pigeon: *%s* (%d-%d-%d)\n", md(r.Pigeon.OpponentName), r.Pigeon.Wins, r.Pigeon.Losses, r.Pigeon.Ties))
	}
	if r.Nemesis != nil || r.Pigeon != nil {
		sb.WriteString("\n")
	}

	for _, rec := range r.Records {
		sb.WriteString(fmt.Sprintf("vs *%s*: %d-%d-%d (%.0f%%) | %.2f-%.2f | streak %s\n",
			md(rec.OpponentName), rec.Wins, rec.Losses, rec.Ties, rec.WinPct,
			rec.PointsFor, rec.PointsAgainst, formatStreak(rec.CurrentStreak)))
	}
	return sb.String()
}

func (s *LeagueService) CompareMessage(ctx context.Context, refA, refB string) (string, error) {
	c, err := s.Compare(ctx, refA, refB)
	if err != nil {
		return "", err
	}
	return formatComparison(c), nil
}

func formatComparison(c analytics.Comparison) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🥊 *%s vs %s*\n\n", md(c.A.Name), md(c.B.Name)))

	for _, side := range []analytics.ComparisonSide{c.A, c.B} {
		sb.WriteString(fmt.Sprintf("*%s*\n", md(side.Name)))
		sb.WriteString(fmt.Sprintf("   Legacy: %.1f | Titles: %d | Playoffs: %d\n", side.LegacyScore, side.Titles, side.PlayoffAppearances))
		sb.WriteString(fmt.Sprintf("   Record: %d-%d-%d (%.1f%%) over %d seasons\n", side.Wins, side.Losses, side.Ties, side.WinPct, side.Seasons))
		sb.WriteString(fmt.Sprintf("   Avg Finish: %.2f | Best: %d\n\n", side.AverageRank, side.BestRank))
	}

	if c.Status != analytics.Available {
		sb.WriteString("These two have never played each other.")
		return sb.String()
	}

	h := c.HeadToHead
	sb.WriteString(fmt.Sprintf("*Head to head:* %d-%d-%d (%.2f-%.2f)\n", h.Wins, h.Losses, h.Ties, h.PointsFor, h.PointsAgainst))
	for _, season := range c.Seasons {
		sb.WriteString(fmt.Sprintf("  %d: %d-%d-%d\n", season.Year, season.WinsA, season.WinsB, season.Ties))
	}
	return sb.String()
}

func (s *LeagueService) DraftMessage(ctx context.Context, year int) (string, error) {
	recap, err := s.DraftRecap(ctx, year)
	if err != nil {
		return "", fmt.Errorf("error building draft recap: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📝 *%d Draft*\n\n", year))
	if recap.Status != analytics.Available {
		sb.WriteString("No draft recorded for that season.")
		return sb.String(), nil
	}
	for _, b := range recap.Boards {
		sb.WriteString(fmt.Sprintf("*%s*\n", md(b.Name)))
		for _, p := range b.Picks {
			sb.WriteString(fmt.Sprintf("  R%d #%d %s\n", p.Round, p.Pick, md(p.PlayerName)))
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (s *LeagueService) ImportMessage(ctx context.Context) (string, error) {
	h, err := s.Refresh(ctx)
	if err != nil {
		return "", err
	}
	name := h.Name
	if name == "" {
		name = h.LeagueID
	}
	return fmt.Sprintf("✅ Imported %d seasons and %d managers for *%s*", len(h.Seasons), len(h.Managers), md(name)), nil
}
