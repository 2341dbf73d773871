package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/omarshaarawi/leaguelegacy/internal/api/espn"
	"github.com/omarshaarawi/leaguelegacy/internal/api/fantasy"
	"github.com/omarshaarawi/leaguelegacy/internal/bot"
	"github.com/omarshaarawi/leaguelegacy/internal/config"
	"github.com/omarshaarawi/leaguelegacy/internal/repository/memory"
	"github.com/omarshaarawi/leaguelegacy/internal/repository/redis"
	"github.com/omarshaarawi/leaguelegacy/internal/scheduler"
	"github.com/omarshaarawi/leaguelegacy/internal/server"
	"github.com/omarshaarawi/leaguelegacy/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	espnClient := espn.NewClient(cfg.ESPNAPI)
	espnAPI := espn.NewAPI(espnClient)
	importer := fantasy.NewImporter(espnAPI, cfg.ESPNAPI.Years, cfg.ESPNAPI.PlayoffTeams)

	store, closeStore, err := newStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	leagueService := service.NewLeagueService(importer, store, cfg.ESPNAPI.LeagueID, cfg.Storage.HistoryTTL)

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, leagueService)
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(leagueService, telegramBot.SendMessage, cfg.Schedule)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	httpServer := server.New(cfg.Server.Addr, leagueService)
	go func() {
		if err := httpServer.Start(); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error shutting down HTTP server", "error", err)
	}

	return nil
}

// newStore picks Redis when REDIS_URL is set and an in-process map otherwise.
func newStore(ctx context.Context, cfg config.Storage) (service.HistoryStore, func(), error) {
	if cfg.RedisURL == "" {
		slog.Info("Using in-memory history store")
		return memory.NewRepository(), func() {}, nil
	}

	repo, err := redis.NewRepository(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("Using redis history store")
	return repo, func() {
		if err := repo.Close(); err != nil {
			slog.Error("Error closing redis", "error", err)
		}
	}, nil
}
