package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/omarshaarawi/leaguelegacy/internal/analytics"
	"github.com/omarshaarawi/leaguelegacy/internal/models"
	"github.com/omarshaarawi/leaguelegacy/internal/repository/memory"
)

type fakeImporter struct {
	history *models.LeagueHistory
	err     error
	calls   int
}

func (f *fakeImporter) Import(context.Context) (*models.LeagueHistory, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	h := *f.history
	return &h, nil
}

func testHistory(importedAt time.Time) *models.LeagueHistory {
	game := func(week int, home string, hp float64, away string, ap float64) models.Game {
		return models.Game{
			Week: week,
			Home: models.GameSide{ManagerID: home, Points: hp},
			Away: models.GameSide{ManagerID: away, Points: ap},
		}
	}
	return &models.LeagueHistory{
		LeagueID:   "42",
		Name:       "Test_League",
		ImportedAt: importedAt,
		Managers: []models.Manager{
			{ID: "{A}", Name: "Ann Lee"},
			{ID: "{B}", Name: "Bob Stone"},
			{ID: "{C}", Name: "Cara_Diaz"},
		},
		Seasons: []models.Season{{
			Year:       2023,
			ChampionID: "{A}",
			Standings: []models.SeasonStanding{
				{ManagerID: "{A}", Rank: 1, Wins: 2, PointsFor: 230, PointsAgainst: 200, IsChampion: true, IsPlayoff: true},
				{ManagerID: "{B}", Rank: 2, Wins: 1, Losses: 1, PointsFor: 210, PointsAgainst: 215, IsPlayoff: true},
				{ManagerID: "{C}", Rank: 3, Losses: 1, PointsFor: 90, PointsAgainst: 115},
			},
			Draft: []models.DraftPick{{Round: 1, Pick: 1, PlayerID: 7, PlayerName: "Player #7", ManagerID: "{A}"}},
			Games: []models.Game{
				game(1, "{A}", 120, "{B}", 100),
				game(2, "{A}", 110, "{C}", 90),
				game(2, "{B}", 110, "{A}", 0.5),
			},
		}},
	}
}

func newTestService(t *testing.T, imp *fakeImporter) (*LeagueService, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	svc := NewLeagueService(imp, repo, "42", time.Hour)
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestHistory_ImportsWhenMissing(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	imp := &fakeImporter{history: testHistory(now)}
	svc, repo := newTestService(t, imp)
	ctx := context.Background()

	if _, err := svc.History(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.History(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if imp.calls != 1 {
		t.Errorf("fresh history should be reused: want 1 import, got %d", imp.calls)
	}
	if _, err := repo.GetHistory(ctx, "42"); err != nil {
		t.Errorf("history should be stored: %v", err)
	}
}

func TestHistory_RefreshesStale(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	imp := &fakeImporter{history: testHistory(now)}
	svc, repo := newTestService(t, imp)
	ctx := context.Background()

	stale := testHistory(now.Add(-2 * time.Hour))
	stale.Name = "Stale"
	if err := repo.PutHistory(ctx, stale); err != nil {
		t.Fatal(err)
	}

	h, err := svc.History(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if imp.calls != 1 || h.Name != "Test_League" {
		t.Errorf("stale history should be refreshed, got %q after %d imports", h.Name, imp.calls)
	}
}

func TestHistory_ServesStaleWhenImportFails(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	imp := &fakeImporter{err: errors.New("espn down")}
	svc, repo := newTestService(t, imp)
	ctx := context.Background()

	stale := testHistory(now.Add(-48 * time.Hour))
	if err := repo.PutHistory(ctx, stale); err != nil {
		t.Fatal(err)
	}

	h, err := svc.History(ctx)
	if err != nil {
		t.Fatalf("want stale history, got error %v", err)
	}
	if !h.ImportedAt.Equal(stale.ImportedAt) {
		t.Errorf("want stale copy, got imported at %v", h.ImportedAt)
	}
}

func TestHistory_ImportFailsWithNothingStored(t *testing.T) {
	svc, _ := newTestService(t, &fakeImporter{err: errors.New("espn down")})

	if _, err := svc.History(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestResolveManager(t *testing.T) {
	managers := testHistory(time.Time{}).Managers

	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"{B}", "{B}", false},
		{"ann lee", "{A}", false},
		{"Bob Stne", "{B}", false},
		{"cara", "{C}", false},
		{"zzz", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			m, err := ResolveManager(managers, tt.ref)
			if tt.wantErr {
				if !errors.Is(err, ErrManagerNotFound) {
					t.Fatalf("want ErrManagerNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.ID != tt.want {
				t.Errorf("want %s, got %s", tt.want, m.ID)
			}
		})
	}
}

func TestLegacyMessage(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &fakeImporter{history: testHistory(now)})
	ctx := context.Background()

	msg, err := svc.LegacyMessage(ctx, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(msg, "1. *Ann Lee*") {
		t.Errorf("leader missing from message:\n%s", msg)
	}
	if !strings.Contains(msg, "Cara\\_Diaz") {
		t.Errorf("names should be markdown escaped:\n%s", msg)
	}

	msg, err = svc.LegacyMessage(ctx, "wins", "asc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(msg, "1. *Cara\\_Diaz*") {
		t.Errorf("ascending wins should start with Cara:\n%s", msg)
	}

	if _, err := svc.LegacyMessage(ctx, "vibes", ""); err == nil {
		t.Error("expected error for unknown sort key")
	}
	if _, err := svc.LegacyMessage(ctx, "wins", "sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestParseDirection(t *testing.T) {
	if d, _ := ParseDirection(analytics.SortAverageRank, ""); d {
		t.Error("average rank should default to ascending")
	}
	if d, _ := ParseDirection(analytics.SortWins, ""); !d {
		t.Error("wins should default to descending")
	}
	if d, _ := ParseDirection(analytics.SortWins, "ASC"); d {
		t.Error("explicit asc should win")
	}
}

func TestRivalsAndCompareMessages(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &fakeImporter{history: testHistory(now)})
	ctx := context.Background()

	msg, err := svc.RivalsMessage(ctx, "ann")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(msg, "vs *Bob Stone*: 1-1-0") {
		t.Errorf("rivalry line missing:\n%s", msg)
	}

	if _, err := svc.RivalsMessage(ctx, "nobody here"); !errors.Is(err, ErrManagerNotFound) {
		t.Errorf("want ErrManagerNotFound, got %v", err)
	}

	msg, err = svc.CompareMessage(ctx, "Bob Stone", "Cara_Diaz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(msg, "never played each other") {
		t.Errorf("want never-played note:\n%s", msg)
	}
}

func TestMessages_NoGames(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	h := testHistory(now)
	h.Seasons[0].Games = nil
	svc, _ := newTestService(t, &fakeImporter{history: h})
	ctx := context.Background()

	for name, fn := range map[string]func(context.Context) (string, error){
		"schedule luck": svc.ScheduleLuckMessage,
		"streaks":       svc.StreaksMessage,
		"consistency":   svc.ConsistencyMessage,
		"weekly highs":  svc.WeeklyHighsMessage,
		"games":         svc.GamesMessage,
	} {
		msg, err := fn(ctx)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if !strings.Contains(msg, noGamesText) {
			t.Errorf("%s: want no-games text, got:\n%s", name, msg)
		}
	}
}

func TestImportMessage(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	imp := &fakeImporter{history: testHistory(now)}
	svc, _ := newTestService(t, imp)

	msg, err := svc.ImportMessage(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "✅ Imported 1 seasons and 3 managers for *Test\\_League*" {
		t.Errorf("got %q", msg)
	}
	if imp.calls != 1 {
		t.Errorf("want 1 import, got %d", imp.calls)
	}
}

func TestStoredLeagues(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &fakeImporter{history: testHistory(now)})
	ctx := context.Background()

	ids, err := svc.StoredLeagues(ctx)
	if err != nil || len(ids) != 0 {
		t.Fatalf("want no leagues before import, got %v, %v", ids, err)
	}
	if _, err := svc.Refresh(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids, err = svc.StoredLeagues(ctx)
	if err != nil || len(ids) != 1 || ids[0] != "42" {
		t.Errorf("want [42], got %v, %v", ids, err)
	}
}
