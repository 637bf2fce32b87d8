package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bombsnake/internal/config"
)

var flagConfigDefault bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration a game would start with, as YAML.

Search order:
  1. --config <path>
  2. ~/.bombsnake/config.yaml
  3. ./configs/bombsnake.yaml
  4. Built-in defaults

Examples:
  bombsnake config
  bombsnake config --default > ~/.bombsnake/config.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefault, "default", false, "Print the built-in defaults instead")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagConfigDefault {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		fatal("%v", err)
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		fatal("%v", err)
	}

	if source == "" {
		source = "built-in defaults"
	}
	fmt.Printf("# source: %s\n", source)
	if n := cfg.Bomb.SaturatesAt(); n >= 0 {
		fmt.Printf("# bomb chance reaches %.2f at score %d\n", cfg.Bomb.MaxChance, n)
	}
	os.Stdout.Write(data)
}
