// Command tidepool-demo drives a pool through several workload
// shapes and reports completion and rejection counts. It exercises
// only the pool's public operations.
package main

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"

	"github.com/tidewater/tidepool"
	"github.com/tidewater/tidepool/pool"
)

type demoCounters struct {
	completed int64
	rejected  int64
}

// countingPolicy wraps another rejection policy, tallying every
// refused task before delegating.
type countingPolicy struct {
	counters *demoCounters
	next     tidepool.RejectionPolicy
}

func (p *countingPolicy) Notify(task tidepool.Task, stats tidepool.PoolStats) {
	atomic.AddInt64(&p.counters.rejected, 1)
	p.next.Notify(task, stats)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	counters := &demoCounters{}
	p, err := pool.NewManager(tidepool.PoolConfig{
		CoreWorkers:     2,
		MaxWorkers:      4,
		KeepAlive:       5 * time.Second,
		QueueCapacity:   5,
		MinSpareWorkers: 1,
	}, pool.WithRejectionPolicy(&countingPolicy{
		counters: counters,
		next:     pool.NewLogRejections(),
	}))
	if err != nil {
		grip.EmergencyFatal(message.WrapError(err, "constructing pool"))
	}

	for _, sc := range []struct {
		name     string
		tasks    int
		duration time.Duration
	}{
		{name: "moderate load", tasks: 10, duration: time.Second},
		{name: "sustained overload", tasks: 20, duration: 500 * time.Millisecond},
		{name: "burst", tasks: 30, duration: 200 * time.Millisecond},
		{name: "long tasks", tasks: 5, duration: 5 * time.Second},
	} {
		grip.Info(message.Fields{
			"message":  "starting scenario",
			"scenario": sc.name,
			"tasks":    sc.tasks,
		})

		submitBatch(p, counters, sc.tasks, sc.duration)
		tidepool.WaitQuiescent(ctx, p, 100*time.Millisecond)

		stats := p.Stats()
		grip.Info(message.Fields{
			"message":  "scenario complete",
			"scenario": sc.name,
			"workers":  stats.Workers,
		})
	}

	p.Shutdown()
	p.Wait()

	grip.Info(message.Fields{
		"message":   "demo complete",
		"completed": atomic.LoadInt64(&counters.completed),
		"rejected":  atomic.LoadInt64(&counters.rejected),
	})
}

func submitBatch(p *pool.Manager, counters *demoCounters, count int, duration time.Duration) {
	for i := 0; i < count; i++ {
		id := uuid.New().String()

		grip.Error(message.WrapErrorf(p.Execute(tidepool.TaskFunc(func() error {
			time.Sleep(duration)
			atomic.AddInt64(&counters.completed, 1)

			grip.Debug(message.Fields{
				"message": "task finished",
				"task":    id,
			})
			return nil
		})), "submitting task %s", id))
	}
}
