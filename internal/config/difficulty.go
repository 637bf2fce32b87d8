package config

import (
	"fmt"
	"math"
)

// Difficulty defines the bomb probability curve. The chance grows linearly
// with score from BaseChance and saturates at MaxChance.
type Difficulty struct {
	BaseChance float64 `yaml:"base_chance"`
	PerPoint   float64 `yaml:"per_point"`
	MaxChance  float64 `yaml:"max_chance"`
}

// BombChance returns the probability that an item spawned at the given
// score is a bomb.
func (d Difficulty) BombChance(score int) float64 {
	if score < 0 {
		score = 0
	}
	chance := d.BaseChance + d.PerPoint*float64(score)
	return clampF(chance, 0.0, d.MaxChance)
}

// SaturatesAt returns the lowest score at which BombChance reaches MaxChance.
// Returns -1 if the curve never grows.
func (d Difficulty) SaturatesAt() int {
	if d.BaseChance >= d.MaxChance {
		return 0
	}
	if d.PerPoint <= 0 {
		return -1
	}
	// Small epsilon keeps 0.25+0.01*35 from landing just under 0.60.
	return int(math.Ceil((d.MaxChance-d.BaseChance)/d.PerPoint - 1e-9))
}

func (d Difficulty) validate() error {
	switch {
	case d.BaseChance < 0 || d.BaseChance > 1:
		return fmt.Errorf("bomb.base_chance %.2f out of range [0, 1]", d.BaseChance)
	case d.MaxChance < 0 || d.MaxChance > 1:
		return fmt.Errorf("bomb.max_chance %.2f out of range [0, 1]", d.MaxChance)
	case d.MaxChance < d.BaseChance:
		return fmt.Errorf("bomb.max_chance %.2f below base_chance %.2f", d.MaxChance, d.BaseChance)
	case d.PerPoint < 0:
		return fmt.Errorf("bomb.per_point must not be negative, got %.3f", d.PerPoint)
	}
	return nil
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
