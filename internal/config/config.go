// Package config provides YAML-based game configuration loading,
// validation and the bomb difficulty curve.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Limits enforced by Validate.
const (
	MinGridSize = 5
	MaxGridSize = 100
	MinTileSize = 4
)

// Game contains all configuration for a Bomb Snake game.
type Game struct {
	GridSize int        `yaml:"grid_size"`
	SpeedMS  int        `yaml:"speed_ms"`
	Bomb     Difficulty `yaml:"bomb"`
	Spawn    Spawn      `yaml:"spawn"`
	Render   Render     `yaml:"render"`
}

// Spawn controls item placement.
type Spawn struct {
	MaxAttempts int `yaml:"max_attempts"` // Rejection samples before the free-cell scan
}

// Render controls the PNG renderer.
type Render struct {
	TileSize int `yaml:"tile_size"` // Pixels per grid cell
}

// TickInterval returns the configured tick interval.
func (g Game) TickInterval() time.Duration {
	return time.Duration(g.SpeedMS) * time.Millisecond
}

// Validate reports every precondition violation in the configuration.
func (g Game) Validate() error {
	var errs []error

	if g.GridSize < MinGridSize || g.GridSize > MaxGridSize {
		errs = append(errs, fmt.Errorf("grid_size %d out of range [%d, %d]", g.GridSize, MinGridSize, MaxGridSize))
	}
	if g.SpeedMS <= 0 {
		errs = append(errs, fmt.Errorf("speed_ms must be positive, got %d", g.SpeedMS))
	}
	if err := g.Bomb.validate(); err != nil {
		errs = append(errs, err)
	}
	if g.Spawn.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("spawn.max_attempts must be at least 1, got %d", g.Spawn.MaxAttempts))
	}
	if g.Render.TileSize < MinTileSize {
		errs = append(errs, fmt.Errorf("render.tile_size must be at least %d, got %d", MinTileSize, g.Render.TileSize))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}
