package core

// Action represents a semantic game action, abstracted from physical key presses.
// Input adapters map raw keys or request values onto these.
type Action int

const (
	ActionNone       Action = iota
	ActionUp                // W, K, Up arrow
	ActionDown              // S, J, Down arrow
	ActionLeft              // A, H, Left arrow
	ActionRight             // D, L, Right arrow
	ActionRestart           // R key - restart game after game over
	ActionQuit              // Q, Ctrl+C - exit game/session
	ActionScreenshot        // Ctrl+S - save a PNG of the current frame
	ActionHelp              // ? - toggle full help
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionScreenshot:
		return "Screenshot"
	case ActionHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// IsMove reports whether the action steers the snake.
func (a Action) IsMove() bool {
	return a >= ActionUp && a <= ActionRight
}
