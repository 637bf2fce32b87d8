package web

import (
	"bufio"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/bombsnake/internal/config"
	"github.com/vovakirdan/bombsnake/internal/game"
	"github.com/vovakirdan/bombsnake/internal/loop"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T, gridSize int) (*Server, *loop.ManualScheduler, *loop.Loop) {
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
	t.Cleanup(l.Stop)

	srv := NewServer(Config{TileSize: 4, Seed: func() int64 { return 11 }}, l, nil)
	return srv, sched, l
}

func do(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestState(t *testing.T) {
	srv, _, _ := newTestServer(t, 20)

	rec := do(t, srv, http.MethodGet, "/state")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var snap game.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if snap.GridSize != 20 || !snap.Running || snap.Dir != game.Right {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.Length() != game.StartLength {
		t.Errorf("length = %d, expected %d", snap.Length(), game.StartLength)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("response should carry a request id")
	}
}

func TestDirection(t *testing.T) {
	srv, sched, l := newTestServer(t, 20)

	tests := []struct {
		name     string
		method   string
		target   string
		code     int
		accepted bool
	}{
		{"reversal ignored", http.MethodPost, "/direction?d=left", http.StatusOK, false},
		{"turn down", http.MethodPost, "/direction?d=down", http.StatusOK, true},
		{"turn up", http.MethodPost, "/direction?d=up", http.StatusOK, true},
		{"unknown", http.MethodPost, "/direction?d=north", http.StatusBadRequest, false},
		{"missing", http.MethodPost, "/direction", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.target)
			if rec.Code != tt.code {
				t.Fatalf("status = %d, expected %d: %s", rec.Code, tt.code, rec.Body.String())
			}
			if tt.code != http.StatusOK {
				return
			}

			var body struct {
				Accepted  bool   `json:"accepted"`
				Direction string `json:"direction"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Accepted != tt.accepted {
				t.Errorf("accepted = %v, expected %v", body.Accepted, tt.accepted)
			}
		})
	}

	// Last accepted request wins on the next tick
	sched.Step()
	if snap := l.Snapshot(); snap.Running && snap.Dir != game.Up {
		t.Errorf("direction = %v, expected up", snap.Dir)
	}
}

func TestDirectionRequiresPost(t *testing.T) {
	srv, sched, l := newTestServer(t, 20)

	if rec := do(t, srv, http.MethodGet, "/direction?d=up"); rec.Code == http.StatusOK {
		t.Errorf("GET /direction status = %d, expected a rejection", rec.Code)
	}

	sched.Step()
	if snap := l.Snapshot(); snap.Dir != game.Right {
		t.Errorf("direction = %v, GET must not steer the snake", snap.Dir)
	}
}

func TestRestart(t *testing.T) {
	srv, sched, l := newTestServer(t, 5)

	for range 3 {
		sched.Step()
	}
	if l.Snapshot().Running {
		t.Fatal("game should be over")
	}

	rec := do(t, srv, http.MethodPost, "/restart")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var snap game.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !snap.Running || snap.Tick != 0 || snap.Score != 0 {
		t.Errorf("restarted snapshot = %+v", snap)
	}
	if !l.Active() {
		t.Error("loop should run again after restart")
	}
}

func TestRestartRequiresPost(t *testing.T) {
	srv, _, _ := newTestServer(t, 20)
	if rec := do(t, srv, http.MethodGet, "/restart"); rec.Code == http.StatusOK {
		t.Error("GET /restart should not restart the game")
	}
}

func TestFrame(t *testing.T) {
	srv, _, _ := newTestServer(t, 20)

	rec := do(t, srv, http.MethodGet, "/frame.png?scale=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, expected image/png", ct)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	// 20 cells * 4 px * scale 2
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 160 {
		t.Errorf("frame size = %dx%d, expected 160x160", b.Dx(), b.Dy())
	}
}

func TestFrameRejectsBadScale(t *testing.T) {
	srv, _, _ := newTestServer(t, 20)

	for _, scale := range []string{"abc", "0", "-1", "100"} {
		if rec := do(t, srv, http.MethodGet, "/frame.png?scale="+scale); rec.Code != http.StatusBadRequest {
			t.Errorf("scale %q: status = %d, expected 400", scale, rec.Code)
		}
	}
}

func TestEvents(t *testing.T) {
	srv, sched, _ := newTestServer(t, 20)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /events failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("content type = %q, expected text/event-stream", ct)
	}

	sched.Step()

	reader := bufio.NewReader(resp.Body)
	var sawEvent bool
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("reading stream: %v", err)
		}
		line = strings.TrimSpace(line)

		if line == "event:frame" {
			sawEvent = true
			continue
		}
		if sawEvent && strings.HasPrefix(line, "data:") {
			var snap game.Snapshot
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &snap); err != nil {
				t.Fatalf("invalid frame JSON: %v", err)
			}
			if snap.GridSize != 20 {
				t.Errorf("frame grid = %d, expected 20", snap.GridSize)
			}
			return
		}
	}
}
