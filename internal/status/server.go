// Package status serves a read-only view of an in-flight migration run:
// health, prometheus metrics, and per-record progress.
package status

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/homectl/internal/observability"
)

// Snapshot is one record's progress as exposed over the listener.
type Snapshot struct {
	UserName  string `json:"user_name"`
	Active    bool   `json:"active"`
	Result    string `json:"result,omitempty"`
	Processed bool   `json:"processed"`
}

// Server is the optional HTTP listener for a run. It only reads run state;
// all mutation stays with the engine.
type Server struct {
	runID   string
	source  func() []Snapshot
	started time.Time
	router  *gin.Engine
	httpSrv *http.Server
}

func New(runID string, source func() []Snapshot, corsOrigins []string) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(runID))
	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		runID:   runID,
		source:  source,
		started: time.Now(),
		router:  r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"run":    s.runID,
			"uptime": time.Since(s.started).String(),
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/records", func(c *gin.Context) {
		snapshots := s.source()
		var processed int
		for _, snap := range snapshots {
			if snap.Processed {
				processed++
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"run":       s.runID,
			"total":     len(snapshots),
			"processed": processed,
			"records":   snapshots,
		})
	})
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves in the background until Shutdown.
func (s *Server) Start(addr string) {
	s.httpSrv = &http.Server{Addr: addr, Handler: s.router}
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("status listener failed")
		}
	}()
	log.Info().Str("addr", addr).Str("run", s.runID).Msg("status listener up")
}

func (s *Server) Shutdown() {
	if s.httpSrv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.httpSrv.Shutdown(ctx)
}
