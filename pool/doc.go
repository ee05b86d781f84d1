/*
Package pool provides the engine behind the tidepool.Pool interface:
a Manager that owns a bounded, elastically sized set of workers, each
with a dedicated FIFO queue.

Intentionally, all of the coordination — admission control, the
scale-up decision, round-robin queue selection, and registry changes —
happens under a single pool-wide lock, and the worker run loops are
simplistic. Workers above the core count retire themselves after a
keep-alive period of idleness; shutdown is always cooperative, and a
task that is already executing is never preempted.
*/
package pool

// this file is intentional documentation only.
