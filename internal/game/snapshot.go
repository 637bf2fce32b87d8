package game

import "slices"

// Snapshot is a read-only copy of the game for renderers and remote clients.
// It shares no memory with the State it was taken from.
type Snapshot struct {
	Tick       uint64     `json:"tick"`
	GridSize   int        `json:"grid_size"`
	Snake      []Position `json:"snake"` // Head first
	Dir        Direction  `json:"direction"`
	Item       *Item      `json:"item,omitempty"`
	Score      int        `json:"score"`
	Phase      Phase      `json:"phase"`
	Running    bool       `json:"running"`
	Reason     Reason     `json:"reason,omitempty"`
	Message    string     `json:"message,omitempty"`
	BombChance float64    `json:"bomb_chance"` // Chance for the next spawned item
}

// Snapshot returns the current game snapshot.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:       s.tick,
		GridSize:   s.cfg.GridSize,
		Snake:      slices.Clone(s.snake),
		Dir:        s.dir,
		Score:      s.score,
		Phase:      s.phase,
		Running:    s.phase == PhaseRunning,
		Reason:     s.reason,
		Message:    s.reason.Message(),
		BombChance: s.cfg.Bomb.BombChance(s.score),
	}
	if s.hasItem {
		item := s.item
		snap.Item = &item
	}
	return snap
}

// Head returns the head position, or false for an empty snapshot.
func (s Snapshot) Head() (Position, bool) {
	if len(s.Snake) == 0 {
		return Position{}, false
	}
	return s.Snake[0], true
}

// Length returns the number of snake segments.
func (s Snapshot) Length() int {
	return len(s.Snake)
}
