package fantasy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

const maxConcurrentSeasons = 4

// SeasonSource is the subset of the ESPN API the importer needs.
type SeasonSource interface {
	LeagueID() string
	GetSeason(ctx context.Context, year int) (*models.LeagueResponse, error)
	ResolvePlayerNames(ctx context.Context, year int, ids []int) (map[int]string, error)
}

type Importer struct {
	source       SeasonSource
	years        []int
	playoffTeams int
	now          func() time.Time
}

// NewImporter builds an importer for the given seasons. playoffTeams is used
// for seasons whose settings do not report a playoff size.
func NewImporter(source SeasonSource, years []int, playoffTeams int) *Importer {
	return &Importer{
		source:       source,
		years:        years,
		playoffTeams: playoffTeams,
		now:          time.Now,
	}
}

type seasonImport struct {
	season   models.Season
	managers []models.Manager
	name     string
}

// Import fetches every configured season concurrently and assembles one
// LeagueHistory. A season that fails to load is logged and skipped; the
// import only fails when no season loads.
func (im *Importer) Import(ctx context.Context) (*models.LeagueHistory, error) {
	leagueID := im.source.LeagueID()
	slog.Info("Importing league history", "league", leagueID, "seasons", len(im.years))

	results := make([]*seasonImport, len(im.years))
	var (
		mu       sync.Mutex
		failures []error
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSeasons)
	for i, year := range im.years {
		i, year := i, year
		g.Go(func() error {
			imp, err := im.importSeason(gCtx, leagueID, year)
			if err != nil {
				if ctxErr := gCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				slog.Error("Failed to import season", "league", leagueID, "year", year, "error", err)
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return nil
			}
			results[i] = imp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("importing league %s: %w", leagueID, err)
	}

	var imported []*seasonImport
	for _, r := range results {
		if r != nil {
			imported = append(imported, r)
		}
	}
	if len(imported) == 0 {
		return nil, fmt.Errorf("no seasons imported for league %s: %w", leagueID, errors.Join(failures...))
	}
	sort.Slice(imported, func(i, j int) bool {
		return imported[i].season.Year < imported[j].season.Year
	})

	history := &models.LeagueHistory{
		LeagueID:   leagueID,
		ImportedAt: im.now().UTC(),
	}
	merged := make(map[string]models.Manager)
	var order []string
	for _, imp := range imported {
		history.Seasons = append(history.Seasons, imp.season)
		if imp.name != "" {
			history.Name = imp.name
		}
		for _, m := range imp.managers {
			existing, ok := merged[m.ID]
			if !ok {
				merged[m.ID] = m
				order = append(order, m.ID)
				continue
			}
			merged[m.ID] = MergeManager(existing, m, imp.season.Year)
		}
	}
	for _, id := range order {
		history.Managers = append(history.Managers, merged[id])
	}

	slog.Info("Imported league history", "league", leagueID, "seasons", len(history.Seasons), "managers", len(history.Managers), "failed", len(failures))
	return history, nil
}

func (im *Importer) importSeason(ctx context.Context, leagueID string, year int) (*seasonImport, error) {
	resp, err := im.source.GetSeason(ctx, year)
	if err != nil {
		return nil, err
	}

	season, managers := ConvertSeason(leagueID, year, resp, im.playoffTeams)
	im.resolveDraftNames(ctx, &season)

	slog.Info("Imported season", "league", leagueID, "year", year, "teams", len(season.Standings), "games", len(season.Games))
	return &seasonImport{season: season, managers: managers, name: resp.Settings.Name}, nil
}

// resolveDraftNames replaces placeholder player names. Failure keeps the
// placeholders.
func (im *Importer) resolveDraftNames(ctx context.Context, season *models.Season) {
	if len(season.Draft) == 0 {
		return
	}
	ids := make([]int, 0, len(season.Draft))
	for _, p := range season.Draft {
		ids = append(ids, p.PlayerID)
	}

	names, err := im.source.ResolvePlayerNames(ctx, season.Year, ids)
	if err != nil {
		slog.Warn("Failed to resolve draft player names", "year", season.Year, "error", err)
		return
	}
	for i, p := range season.Draft {
		if name, ok := names[p.PlayerID]; ok {
			season.Draft[i].PlayerName = name
		}
	}
}
