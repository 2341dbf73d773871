package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/leaguelegacy/internal/analytics"
	"github.com/omarshaarawi/leaguelegacy/internal/models"
	"github.com/omarshaarawi/leaguelegacy/internal/repository"
)

const nameSimilarityThreshold = 0.6

var ErrManagerNotFound = errors.New("manager not found")

type Importer interface {
	Import(ctx context.Context) (*models.LeagueHistory, error)
}

type HistoryStore interface {
	GetHistory(ctx context.Context, leagueID string) (*models.LeagueHistory, error)
	PutHistory(ctx context.Context, history *models.LeagueHistory) error
	ListLeagues(ctx context.Context) ([]string, error)
}

type LeagueService struct {
	importer Importer
	store    HistoryStore
	leagueID string
	ttl      time.Duration
	now      func() time.Time

	// serializes imports so concurrent callers share one refresh
	refreshMu sync.Mutex
}

func NewLeagueService(importer Importer, store HistoryStore, leagueID string, ttl time.Duration) *LeagueService {
	return &LeagueService{
		importer: importer,
		store:    store,
		leagueID: leagueID,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *LeagueService) LeagueID() string {
	return s.leagueID
}

// StoredLeagues lists the league ids present in the history store.
func (s *LeagueService) StoredLeagues(ctx context.Context) ([]string, error) {
	return s.store.ListLeagues(ctx)
}

func (s *LeagueService) fresh(h *models.LeagueHistory) bool {
	return s.ttl <= 0 || s.now().Sub(h.ImportedAt) < s.ttl
}

// History returns the stored history, importing it when it is missing or
// older than the TTL. A failed refresh falls back to the stale copy.
func (s *LeagueService) History(ctx context.Context) (*models.LeagueHistory, error) {
	h, err := s.store.GetHistory(ctx, s.leagueID)
	if err == nil && s.fresh(h) {
		return h, nil
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		slog.Error("Failed to load stored history", "league", s.leagueID, "error", err)
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// another caller may have refreshed while we waited
	if latest, err := s.store.GetHistory(ctx, s.leagueID); err == nil && s.fresh(latest) {
		return latest, nil
	}

	imported, importErr := s.importLocked(ctx)
	if importErr == nil {
		return imported, nil
	}
	if h != nil {
		slog.Warn("Serving stale league history", "league", s.leagueID, "importedAt", h.ImportedAt, "error", importErr)
		return h, nil
	}
	return nil, importErr
}

// Refresh imports the league unconditionally and stores the result.
func (s *LeagueService) Refresh(ctx context.Context) (*models.LeagueHistory, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.importLocked(ctx)
}

func (s *LeagueService) importLocked(ctx context.Context) (*models.LeagueHistory, error) {
	h, err := s.importer.Import(ctx)
	if err != nil {
		return nil, fmt.Errorf("importing league %s: %w", s.leagueID, err)
	}
	if err := s.store.PutHistory(ctx, h); err != nil {
		// the import is still usable for this request
		slog.Error("Failed to store league history", "league", s.leagueID, "error", err)
	}
	return h, nil
}

func (s *LeagueService) Report(ctx context.Context) (analytics.Report, error) {
	h, err := s.History(ctx)
	if err != nil {
		return analytics.Report{}, err
	}
	return analytics.Analyze(*h), nil
}

func (s *LeagueService) Legacy(ctx context.Context, key analytics.SortKey, descending bool) ([]analytics.LegacyRow, error) {
	h, err := s.History(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.SortLegacyRows(analytics.LegacyRankings(*h), key, descending), nil
}

func (s *LeagueService) Quadrants(ctx context.Context) (analytics.LuckQuadrants, error) {
	h, err := s.History(ctx)
	if err != nil {
		return analytics.LuckQuadrants{}, err
	}
	return analytics.ComputeLuckQuadrants(*h), nil
}

func (s *LeagueService) GameStats(ctx context.Context) (analytics.GameStats, error) {
	h, err := s.History(ctx)
	if err != nil {
		return analytics.GameStats{}, err
	}
	return analytics.ComputeGameStats(*h), nil
}

func (s *LeagueService) Records(ctx context.Context) (analytics.RecordBook, error) {
	h, err := s.History(ctx)
	if err != nil {
		return analytics.RecordBook{}, err
	}
	return analytics.ComputeRecordBook(*h), nil
}

func (s *LeagueService) Rivalries(ctx context.Context, managerRef string) (analytics.Rivalries, error) {
	h, err := s.History(ctx)
	if err != nil {
		return analytics.Rivalries{}, err
	}
	m, err := ResolveManager(h.Managers, managerRef)
	if err != nil {
		return analytics.Rivalries{}, err
	}
	return analytics.ComputeRivalries(*h, m.ID), nil
}

func (s *LeagueService) Compare(ctx context.Context, refA, refB string) (analytics.Comparison, error) {
	h, err := s.History(ctx)
	if err != nil {
		return analytics.Comparison{}, err
	}
	a, err := ResolveManager(h.Managers, refA)
	if err != nil {
		return analytics.Comparison{}, err
	}
	b, err := ResolveManager(h.Managers, refB)
	if err != nil {
		return analytics.Comparison{}, err
	}
	return analytics.Compare(*h, a.ID, b.ID), nil
}

func (s *LeagueService) DraftRecap(ctx context.Context, year int) (analytics.DraftRecap, error) {
	h, err := s.History(ctx)
	if err != nil {
		return analytics.DraftRecap{}, err
	}
	return analytics.ComputeDraftRecap(*h, year), nil
}

// ResolveManager finds a manager by id, by case-insensitive name, by
// Levenshtein similarity, and finally by a unique in-order character match
// such as "ann" for "Ann Lee".
func ResolveManager(managers []models.Manager, ref string) (models.Manager, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Manager{}, fmt.Errorf("%w: empty name", ErrManagerNotFound)
	}

	for _, m := range managers {
		if m.ID == ref {
			return m, nil
		}
	}
	for _, m := range managers {
		if strings.EqualFold(m.Name, ref) {
			return m, nil
		}
	}

	var bestMatch *models.Manager
	bestScore := -1.0
	lowerRef := strings.ToLower(ref)
	for i, m := range managers {
		name := strings.ToLower(m.Name)
		distance := fuzzy.LevenshteinDistance(lowerRef, name)
		maxLen := float64(max(len(lowerRef), len(name)))
		similarity := 1 - float64(distance)/maxLen

		if similarity > nameSimilarityThreshold && similarity > bestScore {
			bestScore = similarity
			bestMatch = &managers[i]
		}
	}
	if bestMatch != nil {
		return *bestMatch, nil
	}

	var partial []models.Manager
	for _, m := range managers {
		if fuzzy.MatchFold(ref, m.Name) {
			partial = append(partial, m)
		}
	}
	if len(partial) == 1 {
		return partial[0], nil
	}

	return models.Manager{}, fmt.Errorf("%w: %q", ErrManagerNotFound, ref)
}
