package tidepool

// PoolStats is a simple structure that the Stats() method in the Pool
// interface returns and tracks the state of the pool, providing a
// common format for different implementations to report on their
// state.
type PoolStats struct {
	Workers  int  `bson:"workers" json:"workers" yaml:"workers"`
	Busy     int  `bson:"busy" json:"busy" yaml:"busy"`
	Pending  int  `bson:"pending" json:"pending" yaml:"pending"`
	Shutdown bool `bson:"shutdown" json:"shutdown" yaml:"shutdown"`
}

// HasWork reports whether any task is currently executing or waiting
// in a worker queue.
func (s PoolStats) HasWork() bool { return s.Busy > 0 || s.Pending > 0 }
