// Package httpapi exposes a small read-only/diagnostic HTTP surface
// alongside the serial wire protocol: health, a stats snapshot, and a frame
// injection endpoint used by integration tests that would rather POST a
// hex-encoded frame than drive a pty. None of this replaces or alters the
// wire protocol in spec.md §6 — it is purely operational.
package httpapi

import (
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hidbridge/internal/stats"
)

// FrameInjector is whatever can accept a raw frame the way bytes arriving
// on the primary serial port would — the bridge wires its own byte-feed
// loop in here.
type FrameInjector interface {
	InjectFrame(data []byte)
}

// Server wraps a gin.Engine configured the same way the teacher's
// hasher-host orchestrator configures its API router: release mode,
// recovery middleware, everything under /api/v1.
type Server struct {
	engine   *gin.Engine
	reporter *stats.Reporter
	injector FrameInjector
	nowFn    func() time.Duration
}

// New wires a Server. nowFn must return the same monotonic clock the rest
// of the bridge ticks the reporter with, so /stats reflects a coherent
// uptime.
func New(reporter *stats.Reporter, injector FrameInjector, nowFn func() time.Duration) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{engine: router, reporter: reporter, injector: injector, nowFn: nowFn}

	api := router.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/stats", s.handleStats)
	api.POST("/frame", s.handleFrame)

	return s
}

// Run blocks serving addr; callers run it on its own goroutine.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStats(c *gin.Context) {
	snap := s.reporter.Snapshot(s.nowFn())
	c.JSON(http.StatusOK, gin.H{
		"packets_total":       snap.PacketsTotal,
		"acks_success":        snap.AcksSuccess,
		"errors_total":        snap.ErrorsTotal,
		"queue_size":          snap.QueueSize,
		"timed_action_active": snap.TimedActive,
		"uptime_seconds":      snap.Uptime.Seconds(),
	})
}

type frameRequest struct {
	HexFrame string `json:"hex_frame" binding:"required"`
}

func (s *Server) handleFrame(c *gin.Context) {
	var req frameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	data, err := hex.DecodeString(req.HexFrame)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hex_frame"})
		return
	}
	s.injector.InjectFrame(data)
	c.JSON(http.StatusOK, gin.H{"injected_bytes": len(data)})
}
