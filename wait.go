/*
Waiting for Work to Complete

The tidepool package provides a generic helper that, using the
Pool.Stats() method, blocks until a pool has no executing or pending
tasks. Because submission is not blocked while waiting, other threads
may add work to the pool after a wait begins.
*/
package tidepool

import (
	"context"
	"time"
)

// WaitQuiescent blocks until the pool reports no busy workers and no
// pending tasks, polling the pool's stats at the given interval. The
// return value is true when the pool went quiet, and false when the
// context was canceled first.
func WaitQuiescent(ctx context.Context, p Pool, interval time.Duration) bool {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			if !p.Stats().HasWork() {
				return true
			}

			timer.Reset(interval)
		}
	}
}
