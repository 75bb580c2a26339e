package processing

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// maxWorkers caps auto-detected parallelism.
const maxWorkers = 32

// DefaultWorkers returns one worker per CPU core, capped at maxWorkers.
func DefaultWorkers() int {
	n := runtime.NumCPU()
	if n > maxWorkers {
		n = maxWorkers
	}
	return n
}

// Pool runs independent, indexed units of work with bounded parallelism.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given number of workers. Anything below one means
// sequential execution.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the parallelism of the pool.
func (p *Pool) Workers() int { return p.workers }

// Run calls fn for every index in [0, n) and returns once all calls are done. With a
// single worker the calls run in index order on the calling goroutine. fn must only
// write to state owned by its index.
func (p *Pool) Run(n int, fn func(i int)) {
	if p.workers == 1 || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
