package engine

import "runtime"

// Config carries the engine's tunable knobs. Every field has a safe
// default via DefaultConfig, following the teacher's
// internal/parallel.NewWorkerPool idiom of falling back to a default
// (runtime.NumCPU() for the worker count) when a caller leaves a knob at
// its zero value.
type Config struct {
	// MinPoolSize is the minimum frontier size the Frontier Generator must
	// reach before dispatch begins (spec §4.4's MIN_POOL, default 30;
	// MAX_QUEUE_SIZE in the original source).
	MinPoolSize int

	// NumWorkers is the number of worker goroutines standing in for worker
	// processes (spec §9 tier-collapse). Defaults to runtime.NumCPU().
	NumWorkers int

	// WorkQueueSize sizes each worker's inbound message buffer.
	WorkQueueSize int
}

// DefaultConfig returns the engine's default configuration.
func DefaultConfig() Config {
	return Config{
		MinPoolSize:   30,
		NumWorkers:    runtime.NumCPU(),
		WorkQueueSize: 8,
	}
}

// normalized returns a copy of cfg with zero-or-negative fields replaced by
// their defaults, so callers only need to set the knobs they care about.
func (cfg Config) normalized() Config {
	out := cfg
	if out.MinPoolSize <= 0 {
		out.MinPoolSize = DefaultConfig().MinPoolSize
	}
	if out.NumWorkers <= 0 {
		out.NumWorkers = runtime.NumCPU()
	}
	if out.WorkQueueSize <= 0 {
		out.WorkQueueSize = DefaultConfig().WorkQueueSize
	}
	return out
}
