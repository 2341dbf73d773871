package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/omarshaarawi/leaguelegacy/internal/models"
	"github.com/omarshaarawi/leaguelegacy/internal/repository"
)

type Repository struct {
	histories map[string]*models.LeagueHistory
	mu        sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{histories: make(map[string]*models.LeagueHistory)}
}

func (r *Repository) PutHistory(_ context.Context, history *models.LeagueHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histories[history.LeagueID] = history
	return nil
}

// GetHistory returns the stored pointer. Callers treat histories as
// read-only.
func (r *Repository) GetHistory(_ context.Context, leagueID string) (*models.LeagueHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.histories[leagueID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return h, nil
}

func (r *Repository) ListLeagues(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.histories))
	for id := range r.histories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
