package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"

	"github.com/omarshaarawi/leaguelegacy/internal/config"
	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

const jobTimeout = 5 * time.Minute

// LeagueJobs is what the scheduled jobs need from the league service.
type LeagueJobs interface {
	Refresh(ctx context.Context) (*models.LeagueHistory, error)
	ScheduleLuckMessage(ctx context.Context) (string, error)
	LegacyMessage(ctx context.Context, sortArg, dirArg string) (string, error)
}

type Scheduler struct {
	s           gocron.Scheduler
	jobs        LeagueJobs
	sendMessage func(string) error
	importCron  string
	importSpec  cron.Schedule
	location    *time.Location
}

func NewScheduler(jobs LeagueJobs, sendMessage func(string) error, cfg config.Schedule) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %q: %w", cfg.Timezone, err)
	}

	spec, err := cron.ParseStandard(cfg.ImportCron)
	if err != nil {
		return nil, fmt.Errorf("invalid import schedule %q: %w", cfg.ImportCron, err)
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		jobs:        jobs,
		sendMessage: sendMessage,
		importCron:  cfg.ImportCron,
		importSpec:  spec,
		location:    location,
	}, nil
}

// NextImport reports when the history import runs next after from.
func (s *Scheduler) NextImport(from time.Time) time.Time {
	return s.importSpec.Next(from.In(s.location))
}

func (s *Scheduler) Start() error {
	var err error

	// History import - IMPORT_CRON, Tuesday 7:30 by default
	_, err = s.s.NewJob(
		gocron.CronJob(s.importCron, false),
		gocron.NewTask(s.refreshHistory),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create import job: %w", err)
	}

	// Schedule luck digest - Tuesday 9:00, after the import
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(gocron.NewAtTime(9, 0, 0))),
		gocron.NewTask(s.sendScheduleLuck),
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule luck job: %w", err)
	}

	// Legacy table - Wednesday 7:30
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Wednesday), gocron.NewAtTimes(gocron.NewAtTime(7, 30, 0))),
		gocron.NewTask(s.sendLegacy),
	)
	if err != nil {
		return fmt.Errorf("failed to create legacy job: %w", err)
	}

	s.s.Start()
	slog.Info("Scheduler started", "jobs", len(s.s.Jobs()), "nextImport", s.NextImport(time.Now()))
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) refreshHistory() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	h, err := s.jobs.Refresh(ctx)
	if err != nil {
		slog.Error("Failed to refresh league history", "error", err)
		return
	}
	slog.Info("Refreshed league history", "league", h.LeagueID, "seasons", len(h.Seasons))
}

func (s *Scheduler) sendScheduleLuck() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.jobs.ScheduleLuckMessage(ctx)
	if err != nil {
		slog.Error("Failed to get schedule luck", "error", err)
		return
	}
	s.send(report)
}

func (s *Scheduler) sendLegacy() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	table, err := s.jobs.LegacyMessage(ctx, "", "")
	if err != nil {
		slog.Error("Failed to get legacy table", "error", err)
		return
	}
	s.send(table)
}

func (s *Scheduler) send(text string) {
	if err := s.sendMessage(text); err != nil {
		slog.Error("Failed to send scheduled message", "error", err)
	}
}
