// Package game implements the Bomb Snake state machine: a snake moving one
// cell per tick on a square grid, eating safe items to grow and dying on
// walls, on itself or on a bomb. It has no dependency on rendering or input.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/bombsnake/internal/config"
)

// StartLength is the number of segments a new snake has.
const StartLength = 3

// State holds a single game. It is not safe for concurrent use; the loop
// package serializes access to it.
type State struct {
	cfg  config.Game
	seed int64
	rng  *rand.Rand

	// Applied at the next Reset
	nextCfg  *config.Game
	nextSeed *int64

	tick   uint64
	score  int
	phase  Phase
	reason Reason

	// Snake state
	snake   []Position // Head at index 0
	dir     Direction
	pending Direction // Buffered direction for next move

	item    Item
	hasItem bool
}

// New validates cfg and returns a game that is already reset and running.
func New(cfg config.Game, seed int64) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	s := &State{cfg: cfg, seed: seed}
	s.Reset()
	return s, nil
}

// Reset restores the fixed starting layout: a 3-segment snake in the middle
// of the board heading right, score 0, and a freshly spawned item. The RNG is
// reseeded, so two resets with the same seed yield identical games.
func (s *State) Reset() {
	if s.nextCfg != nil {
		s.cfg = *s.nextCfg
		s.nextCfg = nil
	}
	if s.nextSeed != nil {
		s.seed = *s.nextSeed
		s.nextSeed = nil
	}

	s.rng = rand.New(rand.NewSource(s.seed))
	s.tick = 0
	s.score = 0
	s.reason = ReasonNone

	mid := s.cfg.GridSize / 2
	s.snake = make([]Position, 0, StartLength+8)
	for i := range StartLength {
		s.snake = append(s.snake, Position{X: mid - i, Y: mid})
	}
	s.dir = Right
	s.pending = Right

	s.phase = PhaseRunning
	s.hasItem = false
	s.spawnItem()
}

// Reseed sets the seed used from the next Reset on.
func (s *State) Reseed(seed int64) {
	s.nextSeed = &seed
}

// Reconfigure validates cfg and schedules it for the next Reset.
// The current game keeps its settings until then.
func (s *State) Reconfigure(cfg config.Game) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	s.nextCfg = &cfg
	return nil
}

// QueueDirection buffers d for the next tick. Reversing straight into the
// neck (the exact opposite of the current direction) is ignored, as is any
// request once the game is over. Returns whether the request was accepted.
func (s *State) QueueDirection(d Direction) bool {
	if s.phase != PhaseRunning || !d.Valid() {
		return false
	}
	if d == s.dir.Opposite() {
		return false
	}
	s.pending = d
	return true
}

// Advance runs one tick.
func (s *State) Advance() Event {
	if s.phase != PhaseRunning {
		return EventNone
	}
	s.tick++

	// Apply buffered direction
	s.dir = s.pending
	head := s.snake[0].Add(s.dir)

	if !s.inBounds(head) {
		s.terminate(ReasonWall)
		return EventDied
	}
	// Whole body counts, tail included: it has not moved yet.
	if s.isSnakeAt(head) {
		s.terminate(ReasonSelf)
		return EventDied
	}

	// Move snake: add new head
	s.snake = append(s.snake, Position{})
	copy(s.snake[1:], s.snake)
	s.snake[0] = head

	if s.hasItem && head == s.item.Pos {
		if s.item.Kind == ItemBomb {
			s.terminate(ReasonBomb)
			return EventDied
		}
		s.score++
		if !s.spawnItem() {
			s.terminate(ReasonFull)
			return EventDied
		}
		return EventAte
	}

	// Remove tail
	s.snake = s.snake[:len(s.snake)-1]
	return EventMoved
}

// terminate ends the game and leaves the board as it was at the collision.
func (s *State) terminate(r Reason) {
	s.phase = PhaseTerminal
	s.reason = r
}

func (s *State) inBounds(p Position) bool {
	n := s.cfg.GridSize
	return p.X >= 0 && p.X < n && p.Y >= 0 && p.Y < n
}

// isSnakeAt checks if the snake occupies the given point.
func (s *State) isSnakeAt(p Position) bool {
	for _, seg := range s.snake {
		if seg == p {
			return true
		}
	}
	return false
}

// Phase returns the lifecycle phase.
func (s *State) Phase() Phase {
	return s.phase
}

// Running reports whether the game accepts ticks and input.
func (s *State) Running() bool {
	return s.phase == PhaseRunning
}

// Score returns the number of safe items eaten.
func (s *State) Score() int {
	return s.score
}

// Reason returns why the game ended, or ReasonNone while running.
func (s *State) Reason() Reason {
	return s.reason
}

// TickInterval returns how often Advance should be called.
func (s *State) TickInterval() time.Duration {
	return s.cfg.TickInterval()
}

// Config returns the settings of the current game.
func (s *State) Config() config.Game {
	return s.cfg
}
