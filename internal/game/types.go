package game

import "fmt"

// Position is a grid cell. (0, 0) is the top-left corner.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position one step away in direction d.
func (p Position) Add(d Direction) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Direction is a unit step on the grid.
type Direction struct {
	DX, DY int
}

// The four cardinal directions. Y grows downwards.
var (
	Right = Direction{DX: 1, DY: 0}
	Left  = Direction{DX: -1, DY: 0}
	Down  = Direction{DX: 0, DY: 1}
	Up    = Direction{DX: 0, DY: -1}
)

// Valid reports whether d is one of the four cardinal unit vectors.
func (d Direction) Valid() bool {
	return d == Right || d == Left || d == Down || d == Up
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return Direction{DX: -d.DX, DY: -d.DY}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection maps "up", "down", "left" and "right" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Direction{}, fmt.Errorf("game: invalid direction %q", s)
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ItemKind tells a growth item from a bomb.
type ItemKind string

const (
	ItemSafe ItemKind = "safe"
	ItemBomb ItemKind = "bomb"
)

// Item is the single consumable on the board.
type Item struct {
	Pos  Position `json:"pos"`
	Kind ItemKind `json:"kind"`
}

// Phase is the lifecycle state of a game.
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseRunning      Phase = "running"
	PhaseTerminal     Phase = "terminal"
)

// Reason explains why a game reached the terminal phase.
type Reason string

const (
	ReasonNone Reason = ""
	ReasonWall Reason = "wall"
	ReasonSelf Reason = "self"
	ReasonBomb Reason = "bomb"
	ReasonFull Reason = "full" // No free cell left for an item
)

// Message returns the player-facing text for a terminal reason.
func (r Reason) Message() string {
	switch r {
	case ReasonWall:
		return "Hit the wall!"
	case ReasonSelf:
		return "You bit yourself!"
	case ReasonBomb:
		return "Boom! Explosive fruit!"
	case ReasonFull:
		return "No room left!"
	default:
		return ""
	}
}

// Event summarizes what a single Advance did.
type Event int

const (
	EventNone  Event = iota // Game not running, nothing happened
	EventMoved              // Snake moved one cell
	EventAte                // Snake ate a safe item and grew
	EventDied               // Game ended this tick
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventMoved:
		return "moved"
	case EventAte:
		return "ate"
	case EventDied:
		return "died"
	default:
		return "unknown"
	}
}
