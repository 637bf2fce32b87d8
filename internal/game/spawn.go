package game

// spawnItem places a new item on a random free cell and rolls its kind
// against the current bomb chance. Returns false if the snake fills the board.
func (s *State) spawnItem() bool {
	pos, ok := s.freeCell()
	if !ok {
		s.hasItem = false
		return false
	}

	kind := ItemSafe
	if s.rng.Float64() < s.cfg.Bomb.BombChance(s.score) {
		kind = ItemBomb
	}
	s.item = Item{Pos: pos, Kind: kind}
	s.hasItem = true
	return true
}

// freeCell samples uniformly random cells until one is off the snake. After
// Spawn.MaxAttempts misses it scans the whole board and picks among the
// remaining free cells, so a nearly full board cannot spin forever.
func (s *State) freeCell() (Position, bool) {
	n := s.cfg.GridSize
	for range s.cfg.Spawn.MaxAttempts {
		p := Position{X: s.rng.Intn(n), Y: s.rng.Intn(n)}
		if !s.isSnakeAt(p) {
			return p, true
		}
	}

	occupied := make(map[Position]bool, len(s.snake))
	for _, seg := range s.snake {
		occupied[seg] = true
	}

	var free []Position
	for y := range n {
		for x := range n {
			p := Position{X: x, Y: y}
			if !occupied[p] {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return Position{}, false
	}
	return free[s.rng.Intn(len(free))], true
}
