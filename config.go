package tidepool

import "time"

// PoolConfig holds the construction parameters of a pool. Configs are
// value types: validate once, then treat as immutable.
type PoolConfig struct {
	// CoreWorkers is the number of workers created eagerly at
	// construction and retained indefinitely regardless of
	// idleness.
	CoreWorkers int `bson:"core_workers" json:"core_workers" yaml:"core_workers"`

	// MaxWorkers is the hard upper bound on concurrently live
	// workers.
	MaxWorkers int `bson:"max_workers" json:"max_workers" yaml:"max_workers"`

	// KeepAlive is the longest a worker above the core count
	// waits for work before retiring itself.
	KeepAlive time.Duration `bson:"keep_alive" json:"keep_alive" yaml:"keep_alive"`

	// QueueCapacity bounds the number of undispatched tasks a
	// single worker's queue may hold.
	QueueCapacity int `bson:"queue_capacity" json:"queue_capacity" yaml:"queue_capacity"`

	// MinSpareWorkers, when positive, makes admission provision
	// ahead of demand so that at least this many idle workers are
	// available, up to MaxWorkers.
	MinSpareWorkers int `bson:"min_spare_workers" json:"min_spare_workers" yaml:"min_spare_workers"`
}

// Validate checks the config's internal consistency, returning a
// configuration error describing the first violation found.
func (c PoolConfig) Validate() error {
	switch {
	case c.CoreWorkers < 0:
		return NewConfigurationErrorf("core worker count cannot be negative (%d)", c.CoreWorkers)
	case c.MaxWorkers <= 0:
		return NewConfigurationErrorf("maximum worker count must be positive (%d)", c.MaxWorkers)
	case c.MaxWorkers < c.CoreWorkers:
		return NewConfigurationErrorf("maximum worker count (%d) cannot be less than core count (%d)",
			c.MaxWorkers, c.CoreWorkers)
	case c.KeepAlive < 0:
		return NewConfigurationError("keep-alive duration cannot be negative")
	case c.QueueCapacity <= 0:
		return NewConfigurationErrorf("queue capacity must be positive (%d)", c.QueueCapacity)
	case c.MinSpareWorkers < 0:
		return NewConfigurationErrorf("minimum spare worker count cannot be negative (%d)", c.MinSpareWorkers)
	default:
		return nil
	}
}
