package pool

import (
	"fmt"
	"sync/atomic"
)

// SequenceProvisioner is the default tidepool.ThreadProvisioner: it
// launches each worker body in a new goroutine named from a prefix
// and a monotonically increasing sequence number.
type SequenceProvisioner struct {
	prefix  string
	counter uint64
}

// NewSequenceProvisioner constructs a provisioner with the given name
// prefix, defaulting to "tidepool-worker" when empty.
func NewSequenceProvisioner(prefix string) *SequenceProvisioner {
	if prefix == "" {
		prefix = "tidepool-worker"
	}

	return &SequenceProvisioner{prefix: prefix}
}

// Provision starts body in a new goroutine under a fresh name, and
// returns that name.
func (p *SequenceProvisioner) Provision(body func(name string)) string {
	name := fmt.Sprintf("%s-%d", p.prefix, atomic.AddUint64(&p.counter, 1))
	go body(name)

	return name
}
