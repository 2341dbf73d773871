package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/omarshaarawi/leaguelegacy/internal/analytics"
	"github.com/omarshaarawi/leaguelegacy/internal/models"
	"github.com/omarshaarawi/leaguelegacy/internal/service"
)

const requestTimeout = 2 * time.Minute

// League is the read side of the league service exposed over HTTP.
type League interface {
	LeagueID() string
	StoredLeagues(ctx context.Context) ([]string, error)
	History(ctx context.Context) (*models.LeagueHistory, error)
	Refresh(ctx context.Context) (*models.LeagueHistory, error)
	Report(ctx context.Context) (analytics.Report, error)
	Legacy(ctx context.Context, key analytics.SortKey, descending bool) ([]analytics.LegacyRow, error)
	Quadrants(ctx context.Context) (analytics.LuckQuadrants, error)
	GameStats(ctx context.Context) (analytics.GameStats, error)
	Records(ctx context.Context) (analytics.RecordBook, error)
	Rivalries(ctx context.Context, managerRef string) (analytics.Rivalries, error)
	Compare(ctx context.Context, refA, refB string) (analytics.Comparison, error)
	DraftRecap(ctx context.Context, year int) (analytics.DraftRecap, error)
}

type Handler struct {
	league        League
	importLimiter *rate.Limiter
}

func NewHandler(league League, importLimiter *rate.Limiter) *Handler {
	return &Handler{league: league, importLimiter: importLimiter}
}

// ImportSummary is the response body of a manual import.
type ImportSummary struct {
	LeagueID   string    `json:"leagueId"`
	Name       string    `json:"name"`
	Seasons    int       `json:"seasons"`
	Managers   int       `json:"managers"`
	ImportedAt time.Time `json:"importedAt"`
}

func (h *Handler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	leagues, err := h.league.StoredLeagues(ctx)
	if err != nil {
		slog.Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"league":    h.league.LeagueID(),
		"stored":    leagues,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) GetHistory(c *gin.Context) {
	respond(c, h.league.History)
}

func (h *Handler) GetReport(c *gin.Context) {
	respond(c, h.league.Report)
}

func (h *Handler) GetQuadrants(c *gin.Context) {
	respond(c, h.league.Quadrants)
}

func (h *Handler) GetGames(c *gin.Context) {
	respond(c, h.league.GameStats)
}

func (h *Handler) GetRecords(c *gin.Context) {
	respond(c, h.league.Records)
}

func (h *Handler) GetLegacy(c *gin.Context) {
	key, err := analytics.ParseSortKey(c.Query("sort"))
	if err != nil {
		badRequest(c, err)
		return
	}
	descending, err := service.ParseDirection(key, c.Query("dir"))
	if err != nil {
		badRequest(c, err)
		return
	}

	respond(c, func(ctx context.Context) ([]analytics.LegacyRow, error) {
		return h.league.Legacy(ctx, key, descending)
	})
}

func (h *Handler) GetRivals(c *gin.Context) {
	manager := c.Param("manager")
	respond(c, func(ctx context.Context) (analytics.Rivalries, error) {
		return h.league.Rivalries(ctx, manager)
	})
}

func (h *Handler) GetComparison(c *gin.Context) {
	a, b := c.Query("a"), c.Query("b")
	if a == "" || b == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "a and b are required",
			"example": "/api/v1/compare?a=Ann&b=Bob",
		})
		return
	}

	respond(c, func(ctx context.Context) (analytics.Comparison, error) {
		return h.league.Compare(ctx, a, b)
	})
}

func (h *Handler) GetDraft(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		badRequest(c, errors.New("year must be a number"))
		return
	}

	respond(c, func(ctx context.Context) (analytics.DraftRecap, error) {
		return h.league.DraftRecap(ctx, year)
	})
}

func (h *Handler) PostImport(c *gin.Context) {
	if !h.importLimiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "import rate limit exceeded, try again later",
		})
		return
	}

	respond(c, func(ctx context.Context) (ImportSummary, error) {
		hist, err := h.league.Refresh(ctx)
		if err != nil {
			return ImportSummary{}, err
		}
		return ImportSummary{
			LeagueID:   hist.LeagueID,
			Name:       hist.Name,
			Seasons:    len(hist.Seasons),
			Managers:   len(hist.Managers),
			ImportedAt: hist.ImportedAt,
		}, nil
	})
}

// respond runs fn under the request timeout and writes its result as JSON.
func respond[T any](c *gin.Context, fn func(ctx context.Context) (T, error)) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result, err := fn(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrManagerNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	slog.Error("Request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
