// Package tui provides the Bubble Tea front end: key mapping, screen
// rendering, the game model and the SSH server.
package tui

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bombsnake/internal/core"
	"github.com/vovakirdan/bombsnake/internal/game"
	"github.com/vovakirdan/bombsnake/internal/loop"
	"github.com/vovakirdan/bombsnake/internal/render"
)

// footerRows is reserved below the board for status and help.
const footerRows = 1

var errScreenshotsDisabled = errors.New("screenshots are disabled for this session")

// Options configures a Model.
type Options struct {
	// Width and Height are the initial terminal size.
	Width, Height int

	// Seed returns the seed for each restart. Defaults to the clock.
	Seed func() int64

	// ScreenshotDir receives ctrl+s PNGs. Empty disables screenshots.
	ScreenshotDir string

	// TileSize is the pixel size of one cell in screenshots.
	TileSize int

	Logger *log.Logger
}

// FrameMsg carries a snapshot published by the loop.
type FrameMsg game.Snapshot

// framesClosedMsg ends the frame subscription.
type framesClosedMsg struct{}

// screenshotMsg reports the outcome of a screenshot.
type screenshotMsg struct {
	path string
	err  error
}

// Model is the Bubble Tea model for one game driven by a loop.Loop.
type Model struct {
	loop        *loop.Loop
	frames      <-chan game.Snapshot
	unsubscribe func()

	snap   game.Snapshot
	screen *core.Screen
	keys   KeyMap
	help   help.Model
	theme  Theme
	opts   Options

	status    string
	statusErr bool
	quitting  bool
}

// NewModel subscribes to l. The loop should already be started.
func NewModel(l *loop.Loop, opts Options) Model {
	if opts.Seed == nil {
		opts.Seed = func() int64 { return time.Now().UnixNano() }
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	frames, unsubscribe := l.Subscribe()
	h := help.New()
	h.Width = opts.Width

	return Model{
		loop:        l,
		frames:      frames,
		unsubscribe: unsubscribe,
		snap:        l.Snapshot(),
		screen:      core.NewScreen(opts.Width, opts.Height-footerRows),
		keys:        DefaultKeyMap(),
		help:        h,
		theme:       DefaultTheme(),
		opts:        opts,
	}
}

// Init starts listening for frames.
func (m Model) Init() tea.Cmd {
	return waitForFrame(m.frames)
}

// waitForFrame blocks until the loop publishes the next snapshot.
func waitForFrame(frames <-chan game.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-frames
		if !ok {
			return framesClosedMsg{}
		}
		return FrameMsg(snap)
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height-footerRows)
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		m.snap = game.Snapshot(msg)
		return m, waitForFrame(m.frames)

	case framesClosedMsg:
		return m, nil

	case screenshotMsg:
		if msg.err != nil {
			m.setStatus("screenshot failed: "+msg.err.Error(), true)
			m.opts.Logger.Warn("screenshot failed", "error", msg.err)
		} else {
			m.setStatus("saved "+msg.path, false)
			m.opts.Logger.Info("screenshot saved", "path", msg.path)
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Action(msg)

	switch action {
	case core.ActionQuit:
		m.quitting = true
		m.Close()
		return m, tea.Quit

	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll

	case core.ActionRestart:
		// Honored only after game over
		if m.loop.Snapshot().Running {
			return m, nil
		}
		if err := m.loop.Restart(m.opts.Seed()); err != nil {
			m.setStatus("restart failed: "+err.Error(), true)
			return m, nil
		}
		m.snap = m.loop.Snapshot()
		m.setStatus("", false)

	case core.ActionScreenshot:
		return m, m.screenshotCmd()

	default:
		if d, ok := directionFor(action); ok {
			m.loop.QueueDirection(d)
		}
	}

	return m, nil
}

// screenshotCmd saves the current frame as a PNG off the update goroutine.
func (m Model) screenshotCmd() tea.Cmd {
	if m.opts.ScreenshotDir == "" {
		return func() tea.Msg {
			return screenshotMsg{err: errScreenshotsDisabled}
		}
	}

	snap := m.snap
	path := render.ScreenshotPath(m.opts.ScreenshotDir, time.Now())
	frame := render.Frame{Tile: m.opts.TileSize, Scale: 2, Hint: render.KeyRestartHint}
	return func() tea.Msg {
		return screenshotMsg{path: path, err: render.SavePNG(path, snap, frame)}
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	render.Draw(m.screen, m.snap)
	return RenderScreen(m.screen, m.theme) + "\n" + m.footer()
}

func (m Model) footer() string {
	if m.status == "" {
		return m.help.View(m.keys)
	}
	if m.statusErr {
		return m.theme.Error.Render(m.status)
	}
	return m.theme.Status.Render(m.status)
}

// Close stops the loop and ends the frame subscription, which releases a
// pending frame wait. Safe to call more than once.
func (m Model) Close() {
	m.loop.Stop()
	m.unsubscribe()
}

// Snapshot returns the last frame the model has seen.
func (m Model) Snapshot() game.Snapshot {
	return m.snap
}

// Run starts the Bubble Tea program on the local terminal and blocks until
// the player quits.
func Run(l *loop.Loop, opts Options) error {
	model := NewModel(l, opts)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
