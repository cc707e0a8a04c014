package inference

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	inferencepb "go.viam.com/detectd/proto/inference/v1"
	"go.viam.com/detectd/utils"
)

// Stats is a snapshot of the pool's counters.
type Stats struct {
	InFlight  int64
	Queued    int64
	Rejected  int64
	Completed int64
	Failed    int64
}

type jobResult struct {
	resp *inferencepb.DetectResponse
	err  error
}

type job struct {
	ctx context.Context
	run func(context.Context) (*inferencepb.DetectResponse, error)
	// result has room for one value so a worker never blocks on a caller that gave up.
	result chan jobResult
}

// pool runs jobs on a fixed number of workers fed by a bounded queue. Submitting never blocks:
// a full queue rejects the job.
type pool struct {
	jobs    chan *job
	workers utils.StoppableWorkers

	mu     sync.RWMutex
	closed bool

	inFlight  atomic.Int64
	queued    atomic.Int64
	rejected  atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

func newPool(workers, queueDepth int) *pool {
	p := &pool{jobs: make(chan *job, queueDepth)}
	p.workers = utils.NewStoppableWorkers()
	for range workers {
		p.workers.AddWorkers(p.work)
	}
	return p
}

func (p *pool) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			p.queued.Dec()
			p.run(j)
		}
	}
}

func (p *pool) run(j *job) {
	p.inFlight.Inc()
	defer p.inFlight.Dec()

	var res jobResult
	if err := j.ctx.Err(); err != nil {
		// the caller gave up while the job was queued.
		res.err = err
	} else {
		res.resp, res.err = runJob(j)
	}
	if res.err != nil {
		p.failed.Inc()
	} else {
		p.completed.Inc()
	}
	j.result <- res
}

// runJob keeps a panicking job from taking its worker down with it.
func runJob(j *job) (resp *inferencepb.DetectResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, errors.Errorf("job panicked: %v", r)
		}
	}()
	return j.run(j.ctx)
}

// do queues fn and waits for it to finish or for ctx to end, whichever comes first. fn runs
// with ctx and must watch it to stop early.
func (p *pool) do(ctx context.Context, fn func(context.Context) (*inferencepb.DetectResponse, error)) (*inferencepb.DetectResponse, error) {
	j := &job{ctx: ctx, run: fn, result: make(chan jobResult, 1)}
	if err := p.submit(j); err != nil {
		return nil, err
	}
	select {
	case res := <-j.result:
		return res.resp, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *pool) submit(j *job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	p.queued.Inc()
	select {
	case p.jobs <- j:
		return nil
	default:
		p.queued.Dec()
		p.rejected.Inc()
		return ErrQueueFull
	}
}

func (p *pool) stats() Stats {
	return Stats{
		InFlight:  p.inFlight.Load(),
		Queued:    p.queued.Load(),
		Rejected:  p.rejected.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}

// close stops accepting jobs, waits for the workers to finish their current job and fails
// whatever is still queued.
func (p *pool) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	// nothing can be queued once closed is set, so the queue is drained before the workers
	// stop to keep them from picking up more jobs.
	for drained := false; !drained; {
		select {
		case j := <-p.jobs:
			p.queued.Dec()
			p.failed.Inc()
			j.result <- jobResult{err: ErrClosed}
		default:
			drained = true
		}
	}
	p.workers.Stop()
}
