// Package tidepool describes a bounded, elastically sized worker pool
// where every worker owns a dedicated FIFO task queue. The tidepool
// package itself contains the public contract: the Task abstraction,
// pool configuration, the error types, and the interfaces that pool
// implementations and their collaborators satisfy. The tidepool/pool
// package contains the engine.
package tidepool

// Task describes a single opaque unit of work submitted to a
// pool. Run takes no arguments and signals failure through its error
// return. The pool contains task failures entirely: a task that
// returns an error or panics never affects the worker that executed
// it or any other queued work.
type Task interface {
	Run() error
}

// TaskFunc adapts an ordinary function to the Task interface.
type TaskFunc func() error

// Run calls the underlying function.
func (f TaskFunc) Run() error { return f() }

// Pool is the programmatic boundary of a worker pool. Tasks enter
// through Execute and are dispatched, FIFO per worker queue, to
// dedicated worker goroutines. There is no ordering guarantee across
// queues and no guarantee about which worker services a given task.
type Pool interface {
	// Execute submits a task for asynchronous execution. It
	// returns ErrNilTask for a nil task; admission failures
	// (pool shut down, selected queue full) are routed to the
	// pool's RejectionPolicy and do not surface as errors.
	Execute(Task) error

	// Shutdown stops admission and asks every worker to stop
	// after finishing its current task. Idempotent and
	// non-blocking. Tasks queued but not yet dispatched are not
	// guaranteed to run.
	Shutdown()

	// ShutdownNow stops admission, discards all queued
	// undispatched tasks, and asks every worker to stop. A task
	// already executing is allowed to finish; it is never
	// preempted. Idempotent and non-blocking.
	ShutdownNow()

	// Stats returns a point-in-time snapshot of the pool's state.
	Stats() PoolStats
}

// RejectionPolicy handles tasks refused at admission, either because
// the pool was shut down or because the selected worker queue was at
// capacity. Implementations must not panic, and the default
// implementations never block the submitting caller. Every rejection
// passes through the policy; none is dropped silently.
type RejectionPolicy interface {
	Notify(Task, PoolStats)
}

// ThreadProvisioner creates named execution contexts for workers. A
// provisioner launches the supplied run-loop body in a new goroutine
// and returns the stable, unique, human-readable name it assigned.
type ThreadProvisioner interface {
	Provision(body func(name string)) string
}
