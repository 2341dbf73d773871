package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// One manual import per minute with a burst of two.
const (
	importRate  = rate.Limit(1.0 / 60)
	importBurst = 2
)

type Server struct {
	srv *http.Server
}

func New(addr string, league League) *Server {
	limiter := rate.NewLimiter(importRate, importBurst)
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(NewHandler(league, limiter)),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	router.GET("/health", h.HealthCheck)

	api := router.Group("/api/v1")
	{
		api.GET("/history", h.GetHistory)
		api.GET("/report", h.GetReport)
		api.GET("/legacy", h.GetLegacy)
		api.GET("/quadrants", h.GetQuadrants)
		api.GET("/games", h.GetGames)
		api.GET("/records", h.GetRecords)
		api.GET("/rivals/:manager", h.GetRivals)
		api.GET("/compare", h.GetComparison)
		api.GET("/draft/:year", h.GetDraft)
		api.POST("/import", h.PostImport)
	}

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	slog.Info("HTTP server starting", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
