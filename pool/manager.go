package pool

import (
	"sync"
	"sync/atomic"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"

	"github.com/tidewater/tidepool"
)

// Manager is the tidepool.Pool implementation: it owns the worker
// registry, performs admission control, and implements both shutdown
// modes. A single pool-wide lock serializes admission, the scale-up
// decision, and all registry structure changes, including a worker
// removing its own slot.
type Manager struct {
	conf        tidepool.PoolConfig
	provisioner tidepool.ThreadProvisioner

	mu        sync.Mutex
	policy    tidepool.RejectionPolicy
	arena     *slotArena
	liveCount int
	cursor    uint64
	closed    bool

	busyCount int64
	wg        sync.WaitGroup
}

// Option configures a Manager at construction.
type Option func(*Manager)

// WithRejectionPolicy replaces the default logging rejection policy.
func WithRejectionPolicy(p tidepool.RejectionPolicy) Option {
	return func(m *Manager) {
		if p != nil {
			m.policy = p
		}
	}
}

// WithProvisioner replaces the default sequence-named provisioner.
func WithProvisioner(p tidepool.ThreadProvisioner) Option {
	return func(m *Manager) {
		if p != nil {
			m.provisioner = p
		}
	}
}

// NewManager validates the config and constructs a pool, eagerly
// provisioning exactly conf.CoreWorkers workers before returning. An
// invalid config produces a configuration error and no workers.
func NewManager(conf tidepool.PoolConfig, opts ...Option) (*Manager, error) {
	if err := conf.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	m := &Manager{
		conf:        conf,
		arena:       newSlotArena(),
		policy:      NewLogRejections(),
		provisioner: NewSequenceProvisioner("tidepool-worker"),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.mu.Lock()
	for i := 0; i < conf.CoreWorkers; i++ {
		m.provisionLocked()
	}
	m.mu.Unlock()

	grip.Info(message.Fields{
		"message":      "pool initialized",
		"core_workers": conf.CoreWorkers,
		"max_workers":  conf.MaxWorkers,
		"capacity":     conf.QueueCapacity,
	})

	return m, nil
}

// SetRejectionPolicy replaces the pool's rejection policy. Useful for
// policies that need a reference to the pool itself, which cannot
// exist before construction. Passing nil is a no-op.
func (m *Manager) SetRejectionPolicy(p tidepool.RejectionPolicy) {
	if p == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.policy = p
}

// Execute submits a task for asynchronous execution. A nil task
// produces ErrNilTask. If the pool is shut down, or the selected
// worker's queue is full, the rejection policy is notified with a
// snapshot of the pool's state and Execute returns nil; rejections
// never escape as errors by default.
func (m *Manager) Execute(task tidepool.Task) error {
	if task == nil {
		return errors.WithStack(tidepool.ErrNilTask)
	}

	ok, stats, policy := m.submit(task)
	if !ok {
		policy.Notify(task, stats)
	}

	return nil
}

// submit performs admission under the pool lock: the scale-up
// decision, round-robin queue selection, and a non-blocking bounded
// enqueue. On failure it returns the stats snapshot taken under the
// lock, along with the policy to notify; notification happens outside
// the lock so that a policy may safely resubmit to the pool.
func (m *Manager) submit(task tidepool.Task) (bool, tidepool.PoolStats, tidepool.RejectionPolicy) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false, m.statsLocked(), m.policy
	}

	// Scale up when every live worker appears busy, or when fewer
	// than the configured number of spare workers are idle. This
	// is a best-effort heuristic: a worker may finish or retire
	// between the counter reads and dispatch.
	busy := int(atomic.LoadInt64(&m.busyCount))
	if busy+m.conf.MinSpareWorkers >= m.liveCount && m.liveCount < m.conf.MaxWorkers {
		m.provisionLocked()
	}

	s := m.arena.next(&m.cursor)
	if s == nil {
		return false, m.statsLocked(), m.policy
	}

	select {
	case s.tasks <- task:
		return true, tidepool.PoolStats{}, nil
	default:
		return false, m.statsLocked(), m.policy
	}
}

// provisionLocked creates one worker slot, registers it, and launches
// its goroutine. Callers must hold m.mu.
func (m *Manager) provisionLocked() {
	s := newWorkerSlot(m.conf.QueueCapacity)
	m.arena.add(s)
	m.liveCount++

	m.wg.Add(1)
	s.name = m.provisioner.Provision(func(name string) {
		m.runWorker(s, name)
	})

	grip.Info(message.Fields{
		"message": "provisioned worker",
		"worker":  s.name,
		"workers": m.liveCount,
	})
}

// Shutdown marks the pool shut down and asks every live worker to
// stop cooperatively: a worker finishes the task it is executing, but
// tasks still waiting in a queue are not guaranteed to run.
// Idempotent and non-blocking; use Wait to block until the workers
// have exited.
func (m *Manager) Shutdown() {
	workers, _, first := m.stop(false)
	if first {
		grip.Info(message.Fields{
			"message": "pool shutdown requested",
			"workers": workers,
		})
	}
}

// ShutdownNow is a superset of Shutdown: it additionally discards
// every queued-but-undispatched task. A task already executing is
// allowed to finish; it is never preempted. Idempotent; calling
// ShutdownNow after Shutdown still discards any remaining queued
// work.
func (m *Manager) ShutdownNow() {
	workers, discarded, first := m.stop(true)
	if first || discarded > 0 {
		grip.Info(message.Fields{
			"message":   "pool stopped immediately",
			"workers":   workers,
			"discarded": discarded,
		})
	}
}

// stop marks the pool closed and signals every live worker's own stop
// channel. Discarding happens before the stop signal, under the same
// lock as admission, so no worker can dispatch a task that was queued
// when an immediate shutdown began.
func (m *Manager) stop(discard bool) (workers, discarded int, first bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	first = !m.closed
	m.closed = true

	slots := m.arena.snapshot()
	for _, s := range slots {
		if discard {
			discarded += s.discardQueued()
		}

		s.requestStop()
	}

	return len(slots), discarded, first
}

// Wait blocks until every worker goroutine has exited. Core workers
// only exit after a shutdown request, so Wait is primarily useful
// after Shutdown or ShutdownNow.
func (m *Manager) Wait() { m.wg.Wait() }

// Stats returns a point-in-time snapshot of the pool's state.
func (m *Manager) Stats() tidepool.PoolStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.statsLocked()
}

func (m *Manager) statsLocked() tidepool.PoolStats {
	stats := tidepool.PoolStats{
		Workers:  m.liveCount,
		Busy:     int(atomic.LoadInt64(&m.busyCount)),
		Shutdown: m.closed,
	}

	for _, s := range m.arena.snapshot() {
		stats.Pending += len(s.tasks)
	}

	return stats
}
