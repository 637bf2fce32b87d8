// Package web exposes one game over HTTP: JSON state, direction and restart
// endpoints, PNG frames and a server-sent event stream of snapshots.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vovakirdan/bombsnake/internal/game"
	"github.com/vovakirdan/bombsnake/internal/loop"
	"github.com/vovakirdan/bombsnake/internal/render"
)

// requestIDHeader carries the per-request id back to the client.
const requestIDHeader = "X-Request-ID"

// restartHint is drawn under the game-over message in /frame.png.
const restartHint = "POST /restart to play again"

// Config holds configuration for the HTTP server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// TileSize is the pixel size of one cell in /frame.png.
	TileSize int

	// DefaultScale applies when /frame.png has no scale parameter.
	DefaultScale int

	// Seed returns the seed for each restart. Defaults to the clock.
	Seed func() int64
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:      ":8080",
		TileSize:     20,
		DefaultScale: 1,
	}
}

// Server serves a single game driven by l.
type Server struct {
	config Config
	loop   *loop.Loop
	engine *gin.Engine
	logger *log.Logger
}

// NewServer wires the routes. The loop should already be started.
func NewServer(cfg Config, l *loop.Loop, logger *log.Logger) *Server {
	if cfg.Seed == nil {
		cfg.Seed = func() int64 { return time.Now().UnixNano() }
	}
	if cfg.TileSize < 1 {
		cfg.TileSize = DefaultConfig().TileSize
	}
	if cfg.DefaultScale < 1 {
		cfg.DefaultScale = 1
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		config: cfg,
		loop:   l,
		logger: logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.loggingMiddleware())

	engine.GET("/state", s.handleState)
	engine.POST("/direction", s.handleDirection)
	engine.POST("/restart", s.handleRestart)
	engine.GET("/frame.png", s.handleFrame)
	engine.GET("/events", s.handleEvents)

	s.engine = engine
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// loggingMiddleware tags every request with an id and logs its outcome.
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		started := time.Now()
		c.Next()

		s.logger.Debug("request",
			"id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(started),
		)
	}
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.loop.Snapshot())
}

func (s *Server) handleDirection(c *gin.Context) {
	raw := c.Query("d")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter: d"})
		return
	}

	d, err := game.ParseDirection(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accepted := s.loop.QueueDirection(d)
	c.JSON(http.StatusOK, gin.H{"accepted": accepted, "direction": d})
}

func (s *Server) handleRestart(c *gin.Context) {
	seed := s.config.Seed()
	if err := s.loop.Restart(seed); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.loop.Snapshot())
}

func (s *Server) handleFrame(c *gin.Context) {
	scale := s.config.DefaultScale
	if raw := c.Query("scale"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > render.MaxScale {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("scale must be an integer in [1, %d]", render.MaxScale),
			})
			return
		}
		scale = n
	}

	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, s.loop.Snapshot(), render.Frame{
		Tile:  s.config.TileSize,
		Scale: scale,
		Hint:  restartHint,
	}); err != nil {
		s.logger.Error("cannot render frame", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot render frame"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// handleEvents streams a "frame" event per published snapshot until the
// client disconnects.
func (s *Server) handleEvents(c *gin.Context) {
	frames, unsubscribe := s.loop.Subscribe()
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	ctx := c.Request.Context()

	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-frames:
			if !ok {
				return false
			}
			c.SSEvent("frame", snap)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// ListenAndServe starts the HTTP server and blocks until SIGINT or SIGTERM.
func (s *Server) ListenAndServe() error {
	// Cancelled before Shutdown so open event streams return
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()

	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	s.logger.Info("starting HTTP server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web: %w", err)
	case <-done:
	}

	s.logger.Info("shutting down...")
	cancelStreams()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
