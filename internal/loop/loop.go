// Package loop drives a game.State at a fixed interval and fans snapshots
// out to renderers.
package loop

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bombsnake/internal/config"
	"github.com/vovakirdan/bombsnake/internal/game"
)

// ErrNoGame is returned by operations that need a started game.
var ErrNoGame = errors.New("loop: no game started")

// Loop owns one game.State. Ticks, input and restarts are serialized
// through its mutex.
type Loop struct {
	sched  Scheduler
	logger *log.Logger

	mu       sync.Mutex
	state    *game.State
	interval time.Duration
	gen      uint64 // Bumped on every Start and Stop; stale ticks compare against it
	cancel   Cancel

	subMu   sync.Mutex
	subs    map[int]chan game.Snapshot
	nextSub int
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a stopped loop on the given scheduler.
func New(sched Scheduler, opts ...Option) *Loop {
	l := &Loop{
		sched:  sched,
		logger: log.New(io.Discard),
		subs:   make(map[int]chan game.Snapshot),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start cancels any running schedule and begins advancing state every
// interval. Subscribers receive the current snapshot right away.
func (l *Loop) Start(state *game.State, interval time.Duration) {
	l.Stop()

	l.mu.Lock()
	l.state = state
	l.interval = interval
	l.gen++
	gen := l.gen
	l.publish(state.Snapshot())
	l.mu.Unlock()

	cancel := l.sched.Every(interval, func() bool {
		return l.tick(gen)
	})

	l.mu.Lock()
	if l.gen != gen {
		// Stopped, restarted or finished before we got here
		l.mu.Unlock()
		cancel()
		return
	}
	l.cancel = cancel
	l.mu.Unlock()

	l.logger.Debug("loop started", "interval", interval)
}

// Stop cancels the schedule. It is idempotent and synchronous: once it
// returns, the old schedule advances the state no more. Stop must not be
// called from a scheduled tick.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.gen++
	cancel := l.cancel
	l.cancel = nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
		l.logger.Debug("loop stopped")
	}
}

// tick advances the state once. Returning false ends the schedule.
func (l *Loop) tick(gen uint64) bool {
	l.mu.Lock()
	if l.gen != gen || l.state == nil {
		l.mu.Unlock()
		return false
	}

	ev := l.state.Advance()
	snap := l.state.Snapshot()
	running := l.state.Running()
	if !running {
		// Halt on terminal outcome
		l.gen++
		l.cancel = nil
	}
	l.publish(snap)
	l.mu.Unlock()

	if ev == game.EventDied {
		l.logger.Info("game over",
			"reason", snap.Reason,
			"score", snap.Score,
			"length", snap.Length(),
			"ticks", snap.Tick,
		)
	}
	return running
}

// Restart stops the loop, resets the state with seed and starts again at
// the state's own tick interval.
func (l *Loop) Restart(seed int64) error {
	l.Stop()

	l.mu.Lock()
	state := l.state
	if state == nil {
		l.mu.Unlock()
		return ErrNoGame
	}
	state.Reseed(seed)
	state.Reset()
	interval := state.TickInterval()
	l.mu.Unlock()

	l.logger.Info("game restarted", "seed", seed, "grid", state.Config().GridSize)
	l.Start(state, interval)
	return nil
}

// QueueDirection forwards d to the state. See game.State.QueueDirection.
func (l *Loop) QueueDirection(d game.Direction) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == nil {
		return false
	}
	return l.state.QueueDirection(d)
}

// Reconfigure schedules cfg for the next restart.
func (l *Loop) Reconfigure(cfg config.Game) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == nil {
		return ErrNoGame
	}
	return l.state.Reconfigure(cfg)
}

// Snapshot returns a copy of the current state. The zero Snapshot is
// returned before the first Start.
func (l *Loop) Snapshot() game.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == nil {
		return game.Snapshot{}
	}
	return l.state.Snapshot()
}

// Active reports whether a schedule is running.
func (l *Loop) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

// Interval returns the interval of the last Start.
func (l *Loop) Interval() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.interval
}

// Subscribe returns a channel receiving snapshots after every tick and
// every start. Slow readers only see the latest snapshot. The returned
// func unsubscribes and closes the channel.
func (l *Loop) Subscribe() (<-chan game.Snapshot, func()) {
	ch := make(chan game.Snapshot, 1)

	l.mu.Lock()
	l.subMu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch
	if l.state != nil {
		ch <- l.state.Snapshot()
	}
	l.subMu.Unlock()
	l.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.subMu.Lock()
			delete(l.subs, id)
			close(ch)
			l.subMu.Unlock()
		})
	}
}

// publish hands snap to every subscriber without blocking. Called with
// l.mu held so snapshots arrive in tick order.
func (l *Loop) publish(snap game.Snapshot) {
	l.subMu.Lock()
	defer l.subMu.Unlock()

	for _, ch := range l.subs {
		select {
		case ch <- snap:
		default:
			// Buffer full, drop the stale snapshot and retry
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
