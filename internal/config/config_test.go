package config

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() should be valid, got %v", err)
	}
	if cfg.GridSize != 20 {
		t.Errorf("GridSize = %d, expected 20", cfg.GridSize)
	}
	if cfg.TickInterval() != 120*time.Millisecond {
		t.Errorf("TickInterval() = %v, expected 120ms", cfg.TickInterval())
	}
	if cfg.Spawn.MaxAttempts != 400 {
		t.Errorf("Spawn.MaxAttempts = %d, expected 400", cfg.Spawn.MaxAttempts)
	}
}

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded default %+v differs from Default() %+v", cfg, Default())
	}
}

func TestBombChance(t *testing.T) {
	d := Default().Bomb

	cases := []struct {
		score int
		want  float64
	}{
		{-5, 0.25},
		{0, 0.25},
		{1, 0.26},
		{10, 0.35},
		{34, 0.59},
		{35, 0.60},
		{36, 0.60},
		{1000, 0.60},
	}

	for _, c := range cases {
		got := d.BombChance(c.score)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("BombChance(%d) = %.4f, expected %.4f", c.score, got, c.want)
		}
	}
}

func TestSaturatesAt(t *testing.T) {
	if got := Default().Bomb.SaturatesAt(); got != 35 {
		t.Errorf("SaturatesAt() = %d, expected 35", got)
	}

	flat := Difficulty{BaseChance: 0.3, PerPoint: 0, MaxChance: 0.5}
	if got := flat.SaturatesAt(); got != -1 {
		t.Errorf("flat curve SaturatesAt() = %d, expected -1", got)
	}

	capped := Difficulty{BaseChance: 0.5, PerPoint: 0.1, MaxChance: 0.5}
	if got := capped.SaturatesAt(); got != 0 {
		t.Errorf("capped curve SaturatesAt() = %d, expected 0", got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Game){
		"grid too small":    func(g *Game) { g.GridSize = 3 },
		"grid too large":    func(g *Game) { g.GridSize = 500 },
		"zero speed":        func(g *Game) { g.SpeedMS = 0 },
		"base above one":    func(g *Game) { g.Bomb.BaseChance = 1.5 },
		"max below base":    func(g *Game) { g.Bomb.MaxChance = 0.1 },
		"negative step":     func(g *Game) { g.Bomb.PerPoint = -0.01 },
		"no spawn attempts": func(g *Game) { g.Spawn.MaxAttempts = 0 },
		"tiny tiles":        func(g *Game) { g.Render.TileSize = 1 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestParsePartialOverride(t *testing.T) {
	cfg, err := Parse([]byte("speed_ms: 80\nbomb:\n  max_chance: 0.4\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.SpeedMS != 80 {
		t.Errorf("SpeedMS = %d, expected 80", cfg.SpeedMS)
	}
	if cfg.Bomb.MaxChance != 0.4 {
		t.Errorf("MaxChance = %.2f, expected 0.40", cfg.Bomb.MaxChance)
	}
	// Untouched keys keep their defaults
	if cfg.GridSize != 20 || cfg.Bomb.BaseChance != 0.25 {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("grid_size: [")); err == nil {
		t.Error("Parse() should fail on malformed YAML")
	}
	if _, err := Parse([]byte("grid_size: 2")); err == nil {
		t.Error("Parse() should fail validation")
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("grid_size: 12\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, source, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if source != path {
		t.Errorf("source = %q, expected %q", source, path)
	}
	if cfg.GridSize != 12 {
		t.Errorf("GridSize = %d, expected 12", cfg.GridSize)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() should fail for a missing custom file")
	}
	if !strings.Contains(err.Error(), "missing.yaml") {
		t.Errorf("error should name the file, got %v", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if !strings.Contains(string(data), "grid_size: 20") {
		t.Errorf("marshaled config missing grid_size:\n%s", data)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.yaml")
	if err := os.WriteFile(path, []byte("grid_size: 20\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	changes := make(chan Game, 16)
	w, err := Watch(path, log.New(io.Discard), func(cfg Game) {
		select {
		case changes <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("grid_size: 15\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if cfg.GridSize == 15 {
				return
			}
		case <-deadline:
			t.Fatal("no reload observed after write")
		}
	}
}
