package pool

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/recovery"

	"github.com/tidewater/tidepool"
)

// workerSlot pairs one bounded task queue with the single worker
// goroutine that services it. The stop channel belongs to this slot
// alone, so a stop request always wakes the intended worker and never
// a bystander.
type workerSlot struct {
	id       uint64
	name     string
	tasks    chan tidepool.Task
	stop     chan struct{}
	stopOnce sync.Once
}

func newWorkerSlot(capacity int) *workerSlot {
	return &workerSlot{
		tasks: make(chan tidepool.Task, capacity),
		stop:  make(chan struct{}),
	}
}

// requestStop wakes the slot's worker even if it is blocked waiting
// for work. Safe to call more than once.
func (s *workerSlot) requestStop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// discardQueued drains every undispatched task from the slot's queue,
// returning the number discarded.
func (s *workerSlot) discardQueued() int {
	count := 0
	for {
		select {
		case <-s.tasks:
			count++
		default:
			return count
		}
	}
}

// runWorker is the body of a worker goroutine. It waits on the slot's
// own queue for up to the keep-alive duration, executing tasks as they
// arrive, and exits either on a stop request or by retiring itself
// after an idle timeout when the pool is above its core size.
func (m *Manager) runWorker(s *workerSlot, name string) {
	defer m.wg.Done()

	grip.Debug(message.Fields{
		"message": "worker waiting for tasks",
		"worker":  name,
	})

	timer := time.NewTimer(m.conf.KeepAlive)
	defer timer.Stop()

	for {
		select {
		case <-s.stop:
			m.deregister(s)
			grip.Debug(message.Fields{
				"message": "worker stopped",
				"worker":  name,
			})
			return
		case task := <-s.tasks:
			m.runTask(name, task)

			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(m.conf.KeepAlive)
		case <-timer.C:
			if m.retireIdle(s, name) {
				return
			}

			timer.Reset(m.conf.KeepAlive)
		}
	}
}

// runTask executes one task inside the containment boundary: the busy
// count is incremented before execution and decremented on every exit
// path, and neither a returned error nor a panic can unwind the
// worker's control loop.
func (m *Manager) runTask(name string, task tidepool.Task) {
	atomic.AddInt64(&m.busyCount, 1)
	defer atomic.AddInt64(&m.busyCount, -1)

	start := time.Now()
	err := runTaskSafely(task)

	msg := message.Fields{
		"message":       "task executed",
		"worker":        name,
		"duration_secs": time.Since(start).Seconds(),
	}

	if err != nil {
		msg["error"] = err.Error()
		grip.Error(msg)
		return
	}

	grip.Debug(msg)
}

func runTaskSafely(task tidepool.Task) (err error) {
	defer func() {
		err = recovery.HandlePanicWithError(recover(), err, "task execution")
	}()

	return task.Run()
}

// retireIdle implements elastic shrink. Called when the worker's
// keep-alive wait timed out; under the pool lock it checks that the
// pool is above its core size and that no task snuck into the queue
// between the timeout and acquiring the lock, and if so removes the
// slot from the registry. Returns true when the worker should exit.
func (m *Manager) retireIdle(s *workerSlot, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	// the shutdown path owns the exit of a stopping worker
	if m.closed {
		return false
	}

	if m.liveCount <= m.conf.CoreWorkers {
		return false
	}

	if len(s.tasks) > 0 {
		return false
	}

	m.arena.remove(s.id)
	m.liveCount--

	grip.Debug(message.Fields{
		"message": "idle worker retired",
		"worker":  name,
		"workers": m.liveCount,
	})

	return true
}

// deregister removes a stopping worker's slot from the registry, if a
// retirement has not removed it already.
func (m *Manager) deregister(s *workerSlot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.arena.remove(s.id) {
		m.liveCount--
	}
}
