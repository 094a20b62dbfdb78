// Package parallel provides the fan-out helpers used to compute
// per-example gradients of a mini-batch concurrently.
package parallel

import (
	"runtime"
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// Sequential returns a Config that always runs on the calling goroutine.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// DefaultConfig sizes the worker pool from the physical core count
// (hyper-threads do not help float-bound loops), falling back to
// runtime.NumCPU when cpuid cannot tell.
func DefaultConfig() Config {
	n := cpuid.CPU.PhysicalCores
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return WithWorkers(n)
}

// WithWorkers returns a Config using n workers; n <= 1 disables parallelism.
func WithWorkers(n int) Config {
	if n < 1 {
		n = 1
	}
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1,
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < 2*max(cfg.MinChunkSize, 1) {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// Map evaluates f for every i in [0, n) and returns the results in index
// order. When several calls fail, the error with the lowest index is
// returned, so the outcome does not depend on scheduling.
func Map[T any](n int, f func(i int) (T, error), cfg Config) ([]T, error) {
	results := make([]T, n)
	errs := make([]error, n)

	For(n, func(i int) {
		results[i], errs[i] = f(i)
	}, cfg)

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
