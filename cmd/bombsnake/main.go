// bombsnake is a terminal snake game where some fruit explodes.
//
// Usage:
//
//	bombsnake play      - Play in this terminal
//	bombsnake serve     - Start SSH server for remote play
//	bombsnake web       - Serve one game over HTTP
//	bombsnake config    - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Path to a custom config YAML
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--log-level <lvl>   - debug, info, warn or error (default: info)
//	--log-file <path>   - Write logs to a file instead of stderr
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/bombsnake/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bombsnake",
	Short: "Bomb Snake - eat the fruit, dodge the bombs",
	Long: `Bomb Snake is a terminal snake game. Every fruit you eat makes the
snake longer, but each new fruit may be a bomb, and the odds grow with
your score.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  web      - Serve one game over HTTP
  config   - Print the effective configuration

Examples:
  bombsnake play
  bombsnake play --seed 42
  bombsnake serve --ssh :2222
  bombsnake web --addr :8080
  bombsnake config --config ./my-bombsnake.yaml`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the process logger. Logs go to --log-file when set and
// to fallback otherwise. The returned func closes the log file.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	out := fallback
	closeFn := func() {}
	if flagLogFile != "" {
		f, openErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if openErr != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", openErr)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}

// loadConfig resolves the game configuration and logs where it came from.
func loadConfig(logger *log.Logger) (config.Game, string, error) {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		return cfg, "", err
	}
	if source == "" {
		logger.Debug("using embedded default config")
	} else {
		logger.Info("loaded config", "path", source)
	}
	return cfg, source, nil
}

// seedSource returns the seed for every new game: --seed when set,
// the clock otherwise.
func seedSource() func() int64 {
	if flagSeed != 0 {
		seed := flagSeed
		return func() int64 { return seed }
	}
	return func() int64 { return time.Now().UnixNano() }
}

// dataDir returns ~/.bombsnake, or an empty string if there is no home.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bombsnake")
}

// fatal prints err and exits, the way every subcommand reports failures.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
