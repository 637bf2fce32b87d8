package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/bombsnake/internal/config"
	"github.com/vovakirdan/bombsnake/internal/core"
	"github.com/vovakirdan/bombsnake/internal/game"
	"github.com/vovakirdan/bombsnake/internal/loop"
)

func newTestModel(t *testing.T, gridSize int, opts Options) (Model, *loop.ManualScheduler, *loop.Loop) {
	t.Helper()

	cfg := config.Default()
	cfg.GridSize = gridSize
	state, err := game.New(cfg, 3)
	if err != nil {
		t.Fatalf("game.New() failed: %v", err)
	}

	sched := loop.NewManualScheduler()
	l := loop.New(sched)
	l.Start(state, state.TickInterval())

	if opts.Width == 0 {
		opts.Width, opts.Height = 80, 30
	}
	if opts.Seed == nil {
		opts.Seed = func() int64 { return 7 }
	}
	return NewModel(l, opts), sched, l
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, expected Model", next)
	}
	return model, cmd
}

func TestModelSteers(t *testing.T) {
	m, sched, l := newTestModel(t, 20, Options{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	sched.Step()

	snap := l.Snapshot()
	if snap.Running && snap.Dir != game.Down {
		t.Errorf("direction = %v, expected down", snap.Dir)
	}
}

func TestModelReceivesFrames(t *testing.T) {
	m, sched, _ := newTestModel(t, 20, Options{})

	sched.Step()
	msg := m.Init()()
	frame, ok := msg.(FrameMsg)
	if !ok {
		t.Fatalf("Init cmd returned %T, expected FrameMsg", msg)
	}

	m, cmd := update(t, m, frame)
	if cmd == nil {
		t.Error("model should keep listening for frames")
	}
	if m.Snapshot().Tick != 1 {
		t.Errorf("model tick = %d, expected 1", m.Snapshot().Tick)
	}
}

func TestModelRestartOnlyAfterGameOver(t *testing.T) {
	m, sched, l := newTestModel(t, 5, Options{})

	// Restart while running is ignored
	m, _ = update(t, m, runeKey('r'))
	if l.Snapshot().Tick != 0 || !l.Active() {
		t.Fatal("restart should be ignored while running")
	}

	// 5x5 board heading right: game over within three ticks
	for range 3 {
		sched.Step()
	}
	if l.Snapshot().Running {
		t.Fatal("game should be over")
	}
	m, _ = update(t, m, FrameMsg(l.Snapshot()))

	m, _ = update(t, m, runeKey('r'))
	if !l.Snapshot().Running || !l.Active() {
		t.Error("restart should start a new game after game over")
	}
	if !m.Snapshot().Running {
		t.Error("model should show the new game right away")
	}
}

func TestModelRestartReadsLiveState(t *testing.T) {
	m, sched, l := newTestModel(t, 5, Options{})

	// The game ends but the final frame has not reached the model yet
	for range 3 {
		sched.Step()
	}
	if !m.Snapshot().Running {
		t.Fatal("model should still hold the last running frame")
	}

	update(t, m, runeKey('r'))
	snap := l.Snapshot()
	if !snap.Running || snap.Tick != 0 || !l.Active() {
		t.Errorf("restart after game over was ignored: %+v", snap)
	}
}

func TestModelQuit(t *testing.T) {
	m, _, l := newTestModel(t, 20, Options{})

	m, cmd := update(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}
	if l.Active() {
		t.Error("quit should stop the loop")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestModelView(t *testing.T) {
	m, _, _ := newTestModel(t, 20, Options{})

	view := m.View()
	if !strings.Contains(view, "Score: 0") {
		t.Error("view should include the score")
	}
	if !strings.Contains(view, "restart") {
		t.Error("view should include the help footer")
	}
}

func TestModelResize(t *testing.T) {
	m, _, _ := newTestModel(t, 20, Options{})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})
	if !strings.Contains(m.View(), "Window too small") {
		t.Error("small window should show the too-small overlay")
	}
}

func TestModelScreenshot(t *testing.T) {
	dir := t.TempDir()
	m, _, _ := newTestModel(t, 10, Options{ScreenshotDir: dir, TileSize: 4})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("screenshot should return a command")
	}
	msg := cmd()
	shot, ok := msg.(screenshotMsg)
	if !ok {
		t.Fatalf("screenshot cmd returned %T", msg)
	}
	if shot.err != nil {
		t.Fatalf("screenshot failed: %v", shot.err)
	}
	if filepath.Dir(shot.path) != dir {
		t.Errorf("screenshot saved to %q, expected inside %q", shot.path, dir)
	}
	if _, err := os.Stat(shot.path); err != nil {
		t.Errorf("screenshot file missing: %v", err)
	}

	m, _ = update(t, m, shot)
	if !strings.Contains(m.View(), "saved") {
		t.Error("status should report the saved screenshot")
	}
}

func TestModelScreenshotDisabled(t *testing.T) {
	m, _, _ := newTestModel(t, 10, Options{})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	shot, ok := cmd().(screenshotMsg)
	if !ok || shot.err == nil {
		t.Error("screenshots without a directory should fail")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(6, 1)
	s.DrawTextColor(0, 0, "ab", core.ColorGreen)
	s.DrawTextColor(2, 0, "cd", core.ColorBrightRed)

	out := RenderScreen(s, DefaultTheme())
	if !strings.Contains(out, "ab") || !strings.Contains(out, "cd") {
		t.Errorf("rendered output lost text: %q", out)
	}
}

func TestFrameChannelClosed(t *testing.T) {
	m, _, _ := newTestModel(t, 20, Options{})
	m.unsubscribe()

	// Drain the initial frame, then the closed channel
	deadline := time.After(time.Second)
	for {
		msgCh := make(chan tea.Msg, 1)
		go func() { msgCh <- waitForFrame(m.frames)() }()
		select {
		case msg := <-msgCh:
			if _, ok := msg.(framesClosedMsg); ok {
				return
			}
		case <-deadline:
			t.Fatal("closed subscription should produce framesClosedMsg")
		}
	}
}

func TestModelCloseReleasesFrameWait(t *testing.T) {
	m, _, l := newTestModel(t, 20, Options{})

	if _, ok := m.Init()().(FrameMsg); !ok {
		t.Fatal("first wait should return the current frame")
	}

	msgCh := make(chan tea.Msg, 1)
	go func() { msgCh <- waitForFrame(m.frames)() }()

	m.Close()
	m.Close()

	select {
	case msg := <-msgCh:
		if _, ok := msg.(framesClosedMsg); !ok {
			t.Errorf("frame wait returned %T, expected framesClosedMsg", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("frame wait still blocked after Close")
	}
	if l.Active() {
		t.Error("Close should stop the loop")
	}
}
