package render

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/vovakirdan/bombsnake/internal/game"
)

// MaxScale bounds the upscaling factor of exported frames.
const MaxScale = 8

// Canvas palette.
const (
	hexBackground = "#111418"
	hexHead       = "#00d2ff"
	hexBody       = "#00b894"
	hexSafe       = "#fdcb6e"
	hexBomb       = "#d63031"
)

// Frame controls how a PNG frame is drawn.
type Frame struct {
	Tile  int    // Pixels per grid cell
	Scale int    // Upscaling factor, clamped to [1, MaxScale]
	Hint  string // Line under the game-over message; empty omits it
}

// Image draws snap on a canvas of f.Tile pixels per grid cell: round fruit
// with a highlight, square snake segments, a faint grid and a dimmed
// game-over overlay. f.Scale is ignored.
func Image(snap game.Snapshot, f Frame) image.Image {
	tile := max(f.Tile, 1)
	size := max(snap.GridSize*tile, 1)

	dc := gg.NewContext(size, size)
	dc.SetHexColor(hexBackground)
	dc.Clear()

	if snap.Item != nil {
		drawFruit(dc, *snap.Item, tile)
	}

	t := float64(tile)
	for i, seg := range snap.Snake {
		if i == 0 {
			dc.SetHexColor(hexHead)
		} else {
			dc.SetHexColor(hexBody)
		}
		dc.DrawRectangle(float64(seg.X)*t, float64(seg.Y)*t, t, t)
		dc.Fill()
	}

	drawGrid(dc, snap.GridSize, tile)

	if snap.Phase == game.PhaseTerminal {
		drawGameOver(dc, snap.Message, f.Hint)
	}
	return dc.Image()
}

func drawFruit(dc *gg.Context, item game.Item, tile int) {
	t := float64(tile)
	x := float64(item.Pos.X) * t
	y := float64(item.Pos.Y) * t

	dc.DrawCircle(x+t/2, y+t/2, t*0.35)
	if item.Kind == game.ItemBomb {
		dc.SetHexColor(hexBomb)
	} else {
		dc.SetHexColor(hexSafe)
	}
	dc.Fill()

	// Highlight
	dc.DrawCircle(x+t*0.40, y+t*0.40, t*0.10)
	dc.SetRGBA(1, 1, 1, 0.35)
	dc.Fill()
}

func drawGrid(dc *gg.Context, cells, tile int) {
	size := float64(cells * tile)
	dc.SetRGBA(1, 1, 1, 0.05)
	dc.SetLineWidth(1)
	for i := 0; i <= cells; i++ {
		p := float64(i * tile)
		dc.DrawLine(p, 0, p, size)
		dc.Stroke()
		dc.DrawLine(0, p, size, p)
		dc.Stroke()
	}
}

func drawGameOver(dc *gg.Context, message, hint string) {
	w, h := float64(dc.Width()), float64(dc.Height())

	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	cx, cy := w/2, h/2
	dc.DrawStringAnchored("Game Over", cx, cy-10, 0.5, 0.5)
	dc.DrawStringAnchored(message, cx, cy+18, 0.5, 0.5)
	if hint != "" {
		dc.DrawStringAnchored(hint, cx, cy+44, 0.5, 0.5)
	}
}

// Scaled renders snap and enlarges it by f.Scale with nearest-neighbor
// filtering so cell edges stay sharp.
func Scaled(snap game.Snapshot, f Frame) image.Image {
	img := Image(snap, f)
	scale := min(max(f.Scale, 1), MaxScale)
	if scale == 1 {
		return img
	}
	b := img.Bounds()
	return imaging.Resize(img, b.Dx()*scale, b.Dy()*scale, imaging.NearestNeighbor)
}

// EncodePNG writes a scaled frame of snap to w.
func EncodePNG(w io.Writer, snap game.Snapshot, f Frame) error {
	if err := imaging.Encode(w, Scaled(snap, f), imaging.PNG); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// SavePNG writes a scaled frame of snap to path, creating parent
// directories as needed.
func SavePNG(path string, snap game.Snapshot, f Frame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("render: create screenshot directory: %w", err)
	}
	if err := imaging.Save(Scaled(snap, f), path); err != nil {
		return fmt.Errorf("render: save png: %w", err)
	}
	return nil
}

// ScreenshotPath returns a timestamped PNG file name inside dir.
func ScreenshotPath(dir string, at time.Time) string {
	return filepath.Join(dir, "bombsnake-"+at.Format("20060102-150405.000")+".png")
}
