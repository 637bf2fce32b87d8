package loop

import (
	"sort"
	"sync"
	"time"
)

// Cancel ends a schedule. Calling it more than once is safe.
type Cancel func()

// Scheduler invokes fn periodically until fn returns false or the returned
// Cancel is called.
type Scheduler interface {
	Every(interval time.Duration, fn func() bool) Cancel
}

// TickerScheduler runs each schedule on its own goroutine driven by a
// time.Ticker.
type TickerScheduler struct{}

// Every starts a ticker goroutine. The returned Cancel blocks until the
// goroutine has exited, so fn is never running once it returns. Cancel must
// not be called from inside fn.
func (TickerScheduler) Every(interval time.Duration, fn func() bool) Cancel {
	if interval <= 0 {
		interval = time.Millisecond
	}

	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				// Cancellation wins over a tick that fired at the same time
				select {
				case <-done:
					return
				default:
				}
				if !fn() {
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
		})
		<-exited
	}
}

// ManualScheduler only runs tasks when Step is called. Intervals are
// recorded but ignored.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks map[int]*manualTask
	next  int
}

type manualTask struct {
	fn       func() bool
	interval time.Duration
}

// NewManualScheduler creates an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{
		tasks: make(map[int]*manualTask),
	}
}

// Every registers fn. It first runs on the next Step.
func (m *ManualScheduler) Every(interval time.Duration, fn func() bool) Cancel {
	m.mu.Lock()
	id := m.next
	m.next++
	m.tasks[id] = &manualTask{fn: fn, interval: interval}
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.tasks, id)
		m.mu.Unlock()
	}
}

// Step runs every active task once in registration order and returns how
// many ran. Tasks returning false are removed.
func (m *ManualScheduler) Step() int {
	m.mu.Lock()
	ids := make([]int, 0, len(m.tasks))
	for id := range m.tasks {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	sort.Ints(ids)

	ran := 0
	for _, id := range ids {
		m.mu.Lock()
		task, ok := m.tasks[id]
		m.mu.Unlock()
		if !ok {
			// Cancelled by an earlier task in this step
			continue
		}

		ran++
		if !task.fn() {
			m.mu.Lock()
			delete(m.tasks, id)
			m.mu.Unlock()
		}
	}
	return ran
}

// Pending returns the number of active tasks.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Interval returns the interval of the most recently registered active task,
// or zero if none is active.
func (m *ManualScheduler) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	latest := -1
	for id := range m.tasks {
		if id > latest {
			latest = id
		}
	}
	if latest < 0 {
		return 0
	}
	return m.tasks[latest].interval
}
