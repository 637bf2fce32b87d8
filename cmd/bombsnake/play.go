package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/bombsnake/internal/config"
	"github.com/vovakirdan/bombsnake/internal/game"
	"github.com/vovakirdan/bombsnake/internal/loop"
	"github.com/vovakirdan/bombsnake/internal/platform/tui"
	"github.com/vovakirdan/bombsnake/internal/render"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in the current terminal.

Controls:
  Arrows/WASD/HJKL - Steer
  R                - Restart (after game over)
  Ctrl+S           - Save a PNG screenshot to ~/.bombsnake/screenshots
  ?                - Toggle help
  Q/Ctrl+C         - Quit

Edits to the config file are picked up at the next restart.

Examples:
  bombsnake play
  bombsnake play --seed 42
  bombsnake play --config ./my-bombsnake.yaml --log-file /tmp/bombsnake.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	// Logging to the terminal would corrupt the alt screen
	logger, closeLog, err := newLogger("bombsnake", io.Discard)
	if err != nil {
		fatal("%v", err)
	}
	defer closeLog()

	cfg, source, err := loadConfig(logger)
	if err != nil {
		fatal("%v", err)
	}

	// Get terminal size early so the first frame fits
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	if minW, minH := render.MinScreenSize(cfg.GridSize); width < minW || height < minH+1 {
		logger.Warn("terminal smaller than board", "width", width, "height", height, "need_width", minW, "need_height", minH+1)
	}

	seed := seedSource()
	state, err := game.New(cfg, seed())
	if err != nil {
		fatal("%v", err)
	}

	l := loop.New(loop.TickerScheduler{}, loop.WithLogger(logger))
	l.Start(state, state.TickInterval())

	if source != "" {
		watcher, watchErr := config.Watch(source, logger, func(next config.Game) {
			if recErr := l.Reconfigure(next); recErr != nil {
				logger.Warn("config change rejected", "error", recErr)
			}
		})
		if watchErr != nil {
			logger.Warn("config hot reload disabled", "error", watchErr)
		} else {
			defer watcher.Close()
		}
	}

	opts := tui.Options{
		Width:    width,
		Height:   height,
		Seed:     seed,
		TileSize: cfg.Render.TileSize,
		Logger:   logger,
	}
	if dir := dataDir(); dir != "" {
		opts.ScreenshotDir = filepath.Join(dir, "screenshots")
	}

	logger.Info("game started", "grid", cfg.GridSize, "speed_ms", cfg.SpeedMS)
	if runErr := tui.Run(l, opts); runErr != nil {
		logger.Error("tui exited", "error", runErr)
		fatal("%v", runErr)
	}
	logger.Info("game closed", "score", l.Snapshot().Score)
}

