package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 5, 5)

	tests := []struct {
		x, y     int
		expected bool
	}{
		{10, 10, true},  // Top-left corner
		{14, 14, true},  // Bottom-right inside
		{15, 15, false}, // Just outside
		{12, 12, true},  // Center
		{9, 12, false},  // Left of rect
		{12, 9, false},  // Above rect
	}

	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.expected {
			t.Errorf("Contains(%d, %d) = %v, expected %v", tt.x, tt.y, got, tt.expected)
		}
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(10, 20, 30, 40)

	if r.Right() != 40 {
		t.Errorf("Right() = %d, expected 40", r.Right())
	}
	if r.Bottom() != 60 {
		t.Errorf("Bottom() = %d, expected 60", r.Bottom())
	}
}

func TestRectInset(t *testing.T) {
	r := NewRect(0, 0, 10, 6).Inset(1)
	if r != NewRect(1, 1, 8, 4) {
		t.Errorf("Inset(1) = %+v", r)
	}

	if tiny := NewRect(0, 0, 1, 1).Inset(2); tiny.W != 0 || tiny.H != 0 {
		t.Errorf("over-inset should clamp to zero size, got %+v", tiny)
	}
}

func TestRectCentered(t *testing.T) {
	outer := NewRect(0, 0, 20, 10)
	got := outer.Centered(6, 4)
	if got != NewRect(7, 3, 6, 4) {
		t.Errorf("Centered(6, 4) = %+v", got)
	}
}

func TestActionIsMove(t *testing.T) {
	moves := []Action{ActionUp, ActionDown, ActionLeft, ActionRight}
	for _, a := range moves {
		if !a.IsMove() {
			t.Errorf("%v should be a move", a)
		}
	}
	for _, a := range []Action{ActionNone, ActionRestart, ActionQuit, ActionScreenshot, ActionHelp} {
		if a.IsMove() {
			t.Errorf("%v should not be a move", a)
		}
	}
}
