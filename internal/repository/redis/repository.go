package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/omarshaarawi/leaguelegacy/internal/models"
	"github.com/omarshaarawi/leaguelegacy/internal/repository"
)

const leaguesKey = "leagues"

func historyKey(leagueID string) string {
	return fmt.Sprintf("league:%s:history", leagueID)
}

// Repository stores each league history as one JSON document.
type Repository struct {
	client *goredis.Client
}

func NewRepository(ctx context.Context, url string) (*Repository, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}
	opt.PoolSize = 10
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := goredis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", opt.Addr)
	return &Repository{client: client}, nil
}

func NewRepositoryFromClient(client *goredis.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) PutHistory(ctx context.Context, history *models.LeagueHistory) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshalling history: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, historyKey(history.LeagueID), data, 0)
		pipe.SAdd(ctx, leaguesKey, history.LeagueID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("storing history for league %s: %w", history.LeagueID, err)
	}

	slog.Info("Stored league history", "league", history.LeagueID, "bytes", len(data))
	return nil
}

func (r *Repository) GetHistory(ctx context.Context, leagueID string) (*models.LeagueHistory, error) {
	data, err := r.client.Get(ctx, historyKey(leagueID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading history for league %s: %w", leagueID, err)
	}

	var h models.LeagueHistory
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decoding history for league %s: %w", leagueID, err)
	}
	return &h, nil
}

func (r *Repository) ListLeagues(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, leaguesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing leagues: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *Repository) Close() error {
	return r.client.Close()
}
