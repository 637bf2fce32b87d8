package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/bombsnake/internal/game"
	"github.com/vovakirdan/bombsnake/internal/loop"
	"github.com/vovakirdan/bombsnake/internal/platform/web"
)

var (
	flagWebAddr  string
	flagWebScale int
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve one game over HTTP",
	Long: `Run a single game and expose it over HTTP.

Endpoints:
  GET  /state                 - Current snapshot as JSON
  POST /direction?d=<dir>     - Steer: up, down, left or right
  POST /restart               - Start a new game
  GET  /frame.png?scale=<n>   - Current frame as PNG (scale 1-8)
  GET  /events                - Server-sent "frame" events, one per tick

Examples:
  bombsnake web
  bombsnake web --addr 127.0.0.1:9000 --scale 2
  curl -X POST 'localhost:8080/direction?d=up'`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port)")
	webCmd.Flags().IntVar(&flagWebScale, "scale", 1, "Default scale of /frame.png")
}

func runWeb(_ *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger("bombsnake-web", os.Stderr)
	if err != nil {
		fatal("%v", err)
	}
	defer closeLog()

	gameCfg, _, err := loadConfig(logger)
	if err != nil {
		fatal("%v", err)
	}

	seed := seedSource()
	state, err := game.New(gameCfg, seed())
	if err != nil {
		fatal("%v", err)
	}

	gin.SetMode(gin.ReleaseMode)

	l := loop.New(loop.TickerScheduler{}, loop.WithLogger(logger))
	l.Start(state, state.TickInterval())
	defer l.Stop()

	server := web.NewServer(web.Config{
		Address:      flagWebAddr,
		TileSize:     gameCfg.Render.TileSize,
		DefaultScale: flagWebScale,
		Seed:         seed,
	}, l, logger)

	fmt.Printf("Serving Bomb Snake on http://%s\n", displayAddr(flagWebAddr))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fatal("%v", err)
	}
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
