// Package render draws game snapshots, either as terminal cells or as PNG
// images. Renderers only read snapshots and never touch game.State.
package render

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/bombsnake/internal/core"
	"github.com/vovakirdan/bombsnake/internal/game"
)

// Layout constants for the text renderer.
const (
	hudRows   = 2 // Status line and separator
	cellWidth = 2 // Terminal columns per grid cell, keeps cells roughly square
)

// KeyRestartHint is the game-over hint for keyboard front ends.
const KeyRestartHint = "Press R to restart"

// Glyph pairs, one per grid cell.
const (
	glyphEmpty = "· "
	glyphHead  = "██"
	glyphBody  = "▒▒"
	glyphSafe  = "()"
	glyphBomb  = "<>"
)

// MinScreenSize returns the smallest screen that fits the HUD and a bordered
// board of gridSize x gridSize cells.
func MinScreenSize(gridSize int) (width, height int) {
	return gridSize*cellWidth + 2, gridSize + 2 + hudRows
}

// Draw renders snap onto dst: the HUD line, the bordered board and, when the
// game is over, the game-over overlay.
func Draw(dst *core.Screen, snap game.Snapshot) {
	dst.Clear()
	drawHUD(dst, snap)

	minW, minH := MinScreenSize(snap.GridSize)
	if dst.Width() < minW || dst.Height() < minH {
		drawOverlay(dst, core.ColorBrightYellow,
			"Window too small",
			fmt.Sprintf("Resize to at least %dx%d", minW, minH),
		)
		return
	}

	board := core.NewRect((dst.Width()-minW)/2, hudRows, minW, minH-hudRows)
	dst.DrawBox(board, core.ColorGray)
	drawBoard(dst, board.Inset(1), snap)

	if snap.Phase == game.PhaseTerminal {
		drawOverlay(dst, core.ColorBrightRed,
			"Game Over",
			snap.Message,
			KeyRestartHint,
		)
	}
}

// drawHUD draws the top status bar.
func drawHUD(dst *core.Screen, snap game.Snapshot) {
	hud := fmt.Sprintf(" Bomb Snake | Score: %d  Length: %d  Bomb: %d%%",
		snap.Score, snap.Length(), int(snap.BombChance*100+0.5))
	dst.DrawTextColor(0, 0, hud, core.ColorWhite)
	dst.DrawHLine(0, 1, dst.Width(), '─', core.ColorGray)
}

func drawBoard(dst *core.Screen, area core.Rect, snap game.Snapshot) {
	for y := range snap.GridSize {
		for x := range snap.GridSize {
			drawCell(dst, area, game.Position{X: x, Y: y}, glyphEmpty, core.ColorDim)
		}
	}

	if snap.Item != nil {
		glyph, color := glyphSafe, core.ColorBrightYellow
		if snap.Item.Kind == game.ItemBomb {
			glyph, color = glyphBomb, core.ColorBrightRed
		}
		drawCell(dst, area, snap.Item.Pos, glyph, color)
	}

	// Body first so a colliding head stays visible on top
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		glyph, color := glyphBody, core.ColorGreen
		if i == 0 {
			glyph, color = glyphHead, core.ColorBrightCyan
		}
		drawCell(dst, area, snap.Snake[i], glyph, color)
	}
}

func drawCell(dst *core.Screen, area core.Rect, p game.Position, glyph string, c core.Color) {
	dst.DrawTextColor(area.X+p.X*cellWidth, area.Y+p.Y, glyph, c)
}

// drawOverlay draws a centered box with one line of text per row pair. The
// first line uses titleColor.
func drawOverlay(dst *core.Screen, titleColor core.Color, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}

	screen := core.NewRect(0, 0, dst.Width(), dst.Height())
	box := screen.Centered(maxLen+4, len(lines)*2+1)

	for y := box.Y + 1; y < box.Bottom()-1; y++ {
		dst.DrawHLine(box.X+1, y, box.W-2, ' ', core.ColorDefault)
	}
	dst.DrawBox(box, core.ColorWhite)

	for i, line := range lines {
		color := core.ColorWhite
		if i == 0 {
			color = titleColor
		}
		dst.DrawTextCentered(box.Y+1+i*2, line, color)
	}
}
