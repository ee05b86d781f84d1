package pool

import (
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"

	"github.com/tidewater/tidepool"
)

// LogRejections is the default rejection policy: every refused task
// produces a warning carrying a snapshot of the pool's state. It
// never blocks the submitting caller.
type LogRejections struct{}

// NewLogRejections constructs the default logging policy.
func NewLogRejections() *LogRejections { return &LogRejections{} }

// Notify records the rejection.
func (*LogRejections) Notify(_ tidepool.Task, stats tidepool.PoolStats) {
	grip.Warning(message.Fields{
		"message":  "task rejected",
		"workers":  stats.Workers,
		"busy":     stats.Busy,
		"pending":  stats.Pending,
		"shutdown": stats.Shutdown,
	})
}

// CallerRuns executes refused tasks synchronously on the submitting
// goroutine, inside the same containment boundary workers use, so a
// failing task cannot propagate past the policy.
type CallerRuns struct{}

// NewCallerRuns constructs a caller-runs policy.
func NewCallerRuns() *CallerRuns { return &CallerRuns{} }

// Notify runs the task on the calling goroutine.
func (*CallerRuns) Notify(task tidepool.Task, _ tidepool.PoolStats) {
	if err := runTaskSafely(task); err != nil {
		grip.Error(message.Fields{
			"message": "rejected task failed on submitting thread",
			"error":   err.Error(),
		})
	}
}

// Discard drops refused tasks, leaving only a debug-level record.
type Discard struct{}

// NewDiscard constructs a discarding policy.
func NewDiscard() *Discard { return &Discard{} }

// Notify drops the task.
func (*Discard) Notify(_ tidepool.Task, stats tidepool.PoolStats) {
	grip.Debug(message.Fields{
		"message": "task discarded",
		"workers": stats.Workers,
		"pending": stats.Pending,
	})
}

// RetryWithTimeout blocks the submitting caller, resubmitting the
// refused task at an interval until it is admitted or the timeout
// elapses, at which point a fallback policy handles the task.
// Construct it after the Manager exists and install it with
// SetRejectionPolicy; retries bypass the rejection policy so the
// policy never re-enters itself.
type RetryWithTimeout struct {
	pool     *Manager
	timeout  time.Duration
	interval time.Duration
	fallback tidepool.RejectionPolicy
}

// NewRetryWithTimeout constructs a blocking retry policy. A nil
// fallback defaults to the logging policy.
func NewRetryWithTimeout(m *Manager, timeout, interval time.Duration, fallback tidepool.RejectionPolicy) *RetryWithTimeout {
	if fallback == nil {
		fallback = NewLogRejections()
	}
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}

	return &RetryWithTimeout{
		pool:     m,
		timeout:  timeout,
		interval: interval,
		fallback: fallback,
	}
}

// Notify retries admission until the deadline, then falls back.
func (p *RetryWithTimeout) Notify(task tidepool.Task, stats tidepool.PoolStats) {
	deadline := time.Now().Add(p.timeout)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}

		wait := p.interval
		if wait > remaining {
			wait = remaining
		}
		time.Sleep(wait)

		if ok, _, _ := p.pool.submit(task); ok {
			return
		}
	}

	p.fallback.Notify(task, stats)
}
