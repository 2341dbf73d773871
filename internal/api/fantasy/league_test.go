package fantasy

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

type fakeSource struct {
	mu        sync.Mutex
	seasons   map[int]*models.LeagueResponse
	namesErr  error
	requested []int
}

func (f *fakeSource) LeagueID() string { return "77" }

func (f *fakeSource) GetSeason(_ context.Context, year int) (*models.LeagueResponse, error) {
	f.mu.Lock()
	f.requested = append(f.requested, year)
	f.mu.Unlock()

	resp, ok := f.seasons[year]
	if !ok {
		return nil, errors.New("not found")
	}
	return resp, nil
}

func (f *fakeSource) ResolvePlayerNames(_ context.Context, _ int, ids []int) (map[int]string, error) {
	if f.namesErr != nil {
		return nil, f.namesErr
	}
	names := make(map[int]string)
	for _, id := range ids {
		if id == 100 {
			names[id] = "Christian McCaffrey"
		}
	}
	return names, nil
}

func olderSeason() *models.LeagueResponse {
	resp := seasonResponse()
	resp.Settings.Name = "Founding League"
	resp.Members = []models.Member{{ID: "{A}", DisplayName: "Team 1"}}
	resp.DraftDetail = models.DraftDetail{}
	return resp
}

func TestImporter_Import(t *testing.T) {
	src := &fakeSource{seasons: map[int]*models.LeagueResponse{
		2021: seasonResponse(),
		2017: olderSeason(),
	}}
	im := NewImporter(src, []int{2021, 2017, 2019}, 4)
	fixed := time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)
	im.now = func() time.Time { return fixed }

	h, err := im.Import(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(src.requested) != 3 {
		t.Errorf("expected 3 season requests, got %d", len(src.requested))
	}
	if len(h.Seasons) != 2 || h.Seasons[0].Year != 2017 || h.Seasons[1].Year != 2021 {
		t.Fatalf("seasons should be ascending and skip the failed year, got %d", len(h.Seasons))
	}
	if h.LeagueID != "77" || h.Name != "Dynasty" {
		t.Errorf("league: got id %q name %q", h.LeagueID, h.Name)
	}
	if !h.ImportedAt.Equal(fixed) {
		t.Errorf("imported at: got %v", h.ImportedAt)
	}
	if len(h.Managers) != 4 {
		t.Fatalf("expected 4 managers, got %d", len(h.Managers))
	}

	var ann models.Manager
	for _, m := range h.Managers {
		if m.ID == "{A}" {
			ann = m
		}
	}
	if ann.Name != "Ann Lee" || ann.LastSeenYear != 2021 {
		t.Errorf("merged manager: got %+v", ann)
	}

	draft := h.Seasons[1].Draft
	if draft[0].PlayerName != "Christian McCaffrey" {
		t.Errorf("resolved pick: got %q", draft[0].PlayerName)
	}
	if draft[1].PlayerName != "Player #200" {
		t.Errorf("unresolved pick should keep placeholder, got %q", draft[1].PlayerName)
	}
}

func TestImporter_NameResolutionFailureKeepsPlaceholders(t *testing.T) {
	src := &fakeSource{
		seasons:  map[int]*models.LeagueResponse{2021: seasonResponse()},
		namesErr: errors.New("boom"),
	}

	h, err := NewImporter(src, []int{2021}, 4).Import(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range h.Seasons[0].Draft {
		if p.PlayerName != placeholderPlayer(p.PlayerID) {
			t.Errorf("want placeholder, got %q", p.PlayerName)
		}
	}
}

func TestImporter_AllSeasonsFail(t *testing.T) {
	src := &fakeSource{seasons: map[int]*models.LeagueResponse{}}

	if _, err := NewImporter(src, []int{2020, 2021}, 4).Import(context.Background()); err == nil {
		t.Fatal("expected error when no season loads")
	}
}
