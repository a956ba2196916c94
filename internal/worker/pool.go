// Package worker provides the batch execution layer: a fixed-size worker
// pool with index-stable results, per-domain rate limiting, and the batch
// driver that turns a URL list into a clustered report.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work. Execute must not panic; failures travel inside the
// returned Result.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result of one job.
type Result interface {
	GetError() error
}

type indexedJob struct {
	idx int
	job Job
}

// Pool runs jobs on a fixed number of workers. Results come back in
// submission order regardless of completion order, so batch output is
// deterministic for a given input list.
type Pool struct {
	workers   int
	jobQueue  chan indexedJob
	results   []Result
	submitted int
	wg        sync.WaitGroup
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewPool creates a pool sized for n concurrent workers.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		workers:  workers,
		jobQueue: make(chan indexedJob, workers*2),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case ij, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := ij.job.Execute(p.ctx)
			p.mu.Lock()
			p.results[ij.idx] = result
			p.mu.Unlock()
		}
	}
}

// Submit queues a job. The result slot is reserved at submission time, which
// pins its position in the output.
func (p *Pool) Submit(job Job) {
	p.mu.Lock()
	idx := p.submitted
	p.submitted++
	p.results = append(p.results, nil)
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
	case p.jobQueue <- indexedJob{idx: idx, job: job}:
	}
}

// Wait blocks until every submitted job finishes and returns results in
// submission order. Jobs cut off by context cancellation leave nil slots;
// callers decide how to report those.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.cancel()
	return p.results
}

// Shutdown cancels in-flight work.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
