package analytics

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

func TestComputeRecordBook(t *testing.T) {
	book := ComputeRecordBook(leagueFixture())

	games := book.GameRecords.Rows
	if len(games) != 2 {
		t.Fatalf("expected 2 game records, got %d", len(games))
	}
	high, low := games[0], games[1]
	if high.Category != RecordHighestScore || high.ManagerID != "a" || high.Year != 2022 || high.Value != 120 {
		t.Errorf("highest score: got %+v", high)
	}
	if low.Category != RecordLowestScore || low.ManagerID != "d" || low.Week != 1 || low.Value != 80 {
		t.Errorf("lowest score: got %+v", low)
	}

	seasons := book.SeasonRecords.Rows
	want := []struct {
		category string
		id       string
		value    float64
	}{
		{RecordMostPoints, "a", 340},
		{RecordFewestPoints, "d", 250},
		{RecordMostWins, "a", 3},
		{RecordFewestWins, "d", 0},
	}
	if len(seasons) != len(want) {
		t.Fatalf("expected %d season records, got %d", len(want), len(seasons))
	}
	for i, w := range want {
		got := seasons[i]
		if got.Category != w.category || got.ManagerID != w.id || got.Value != w.value {
			t.Errorf("%s: want %s %.0f, got %s %.0f", w.category, w.id, w.value, got.ManagerID, got.Value)
		}
	}
}

func TestComputeDraftRecap(t *testing.T) {
	h := leagueFixture()
	h.Seasons[0].Draft = []models.DraftPick{
		{Round: 1, Pick: 2, PlayerID: 20, PlayerName: "Second", ManagerID: "b"},
		{Round: 1, Pick: 1, PlayerID: 10, PlayerName: "First", ManagerID: "a"},
		{Round: 2, Pick: 3, PlayerID: 30, PlayerName: "Third", ManagerID: "b"},
		{Round: 2, Pick: 4, PlayerID: 40, PlayerName: "Fourth", ManagerID: "a"},
	}

	recap := ComputeDraftRecap(h, 2023)
	if recap.Status != Available {
		t.Fatalf("status: want %s, got %s", Available, recap.Status)
	}
	if len(recap.Boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(recap.Boards))
	}
	a := recap.Boards[0]
	if a.ManagerID != "a" || len(a.Picks) != 2 || a.Picks[1].PlayerName != "Fourth" {
		t.Errorf("board a: got %+v", a)
	}

	if missing := ComputeDraftRecap(h, 2010); missing.Status != Unavailable || len(missing.Boards) != 0 {
		t.Errorf("season without a draft: got %+v", missing)
	}
}

func TestAnalyze_EmptyHistory(t *testing.T) {
	r := Analyze(models.LeagueHistory{})

	if len(r.Careers) != 0 || len(r.Legacy) != 0 {
		t.Errorf("want no careers, got %d careers and %d legacy rows", len(r.Careers), len(r.Legacy))
	}
	if r.Games.Closest.Status != Unavailable || r.Games.ScheduleLuck.Status != Unavailable {
		t.Error("game stats should be unavailable")
	}
	if r.Luck.Status != Unavailable {
		t.Errorf("luck: want %s, got %s", Unavailable, r.Luck.Status)
	}
	if r.Records.GameRecords.Status != Unavailable || r.Records.SeasonRecords.Status != Unavailable {
		t.Error("records should be unavailable")
	}
	if c := Compare(models.LeagueHistory{}, "a", "b"); c.Status != Unavailable {
		t.Errorf("compare: want %s, got %s", Unavailable, c.Status)
	}
	if rv := ComputeRivalries(models.LeagueHistory{}, "a"); rv.Status != Unavailable || len(rv.Records) != 0 || rv.Nemesis != nil || rv.Pigeon != nil {
		t.Errorf("rivalries: got %+v", rv)
	}
	if d := ComputeDraftRecap(models.LeagueHistory{}, 2023); d.Status != Unavailable || len(d.Boards) != 0 {
		t.Errorf("draft recap: got %+v", d)
	}

	if _, err := json.Marshal(r); err != nil {
		t.Fatalf("marshal empty report: %v", err)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	h := leagueFixture()
	before, err := json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}

	first := Analyze(h)
	second := Analyze(h)
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over the same history produced different reports")
	}

	after, err := json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("Analyze mutated its input")
	}
	if h.Seasons[0].Year != 2023 || h.Seasons[0].Games[0].Week != 2 {
		t.Error("input season or game order changed")
	}
}

func validStatus(s Availability) bool {
	return s == Available || s == Unavailable || s == InsufficientSample
}

// Out-of-range ranks, negative counts and points, and ids missing from the
// manager list must produce finite output rather than a panic.
func TestAnalyze_MalformedInput(t *testing.T) {
	h := models.LeagueHistory{
		LeagueID: "42",
		Managers: managers("a", "b"),
		Seasons: []models.Season{{
			Year: 2023,
			Standings: []models.SeasonStanding{
				{ManagerID: "a", Rank: 0, Wins: -1, PointsFor: -5},
				{ManagerID: "b", Rank: 7, Wins: 1, Losses: 1, PointsFor: 200, PointsAgainst: 180},
			},
			Games: []models.Game{
				game(1, "a", 100, "zz", 90),
				game(2, "b", -5, "a", 80),
			},
			Draft: []models.DraftPick{{Round: 1, Pick: 1, PlayerName: "Player #1", ManagerID: "nobody"}},
		}},
	}

	r := Analyze(h)
	rivals := ComputeRivalries(h, "a")
	recap := ComputeDraftRecap(h, 2023)

	// encoding/json rejects NaN and infinities
	for name, v := range map[string]any{"report": r, "rivalries": rivals, "draft": recap} {
		if _, err := json.Marshal(v); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	statuses := []Availability{
		r.Luck.Status, r.Records.GameRecords.Status, r.Records.SeasonRecords.Status,
		r.Games.Closest.Status, r.Games.Blowouts.Status, r.Games.Consistency.Status,
		r.Games.Streaks.Status, r.Games.WeeklyHighs.Status, r.Games.ScheduleLuck.Status,
		rivals.Status, recap.Status,
	}
	for i, s := range statuses {
		if !validStatus(s) {
			t.Errorf("status %d: unexpected %q", i, s)
		}
	}

	// a negative game count is not a sample
	if r.Luck.Status != Available || len(r.Luck.Points) != 1 || r.Luck.Points[0].ManagerID != "b" {
		t.Errorf("luck: want only b, got %+v", r.Luck.Points)
	}

	var unknownOpponent bool
	for _, rec := range rivals.Records {
		if rec.OpponentID == "zz" {
			unknownOpponent = rec.OpponentName == UnknownManager && rec.Wins == 1
		}
	}
	if !unknownOpponent {
		t.Errorf("dangling opponent: got %+v", rivals.Records)
	}

	if recap.Status != Available || len(recap.Boards) != 1 || recap.Boards[0].Name != UnknownManager {
		t.Errorf("draft recap: got %+v", recap)
	}
}
