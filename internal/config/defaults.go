package config

import (
	_ "embed"
)

//go:embed defaults/bombsnake.yaml
var defaultYAML []byte

// Default returns the built-in configuration: a 20x20 board ticking every
// 120ms with a bomb chance of min(0.25 + 0.01*score, 0.60).
func Default() Game {
	return Game{
		GridSize: 20,
		SpeedMS:  120,
		Bomb: Difficulty{
			BaseChance: 0.25,
			PerPoint:   0.01,
			MaxChance:  0.60,
		},
		Spawn: Spawn{
			MaxAttempts: 400,
		},
		Render: Render{
			TileSize: 20,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
