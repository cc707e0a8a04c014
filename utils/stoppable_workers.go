package utils

import (
	"context"
	"sync"

	goutils "go.viam.com/utils"
)

// StoppableWorkers is a collection of goroutines that share one cancellation context and can be
// stopped together.
type StoppableWorkers interface {
	AddWorkers(...func(context.Context)) bool
	Stop()
	Context() context.Context
}

// stoppableWorkersImpl holds a sync.WaitGroup, so it is only ever handed out by pointer through
// the StoppableWorkers interface.
type stoppableWorkersImpl struct {
	mu         sync.Mutex
	cancelCtx  context.Context
	cancelFunc func()
	active     sync.WaitGroup
}

// NewStoppableWorkers runs the functions in separate goroutines. They can be stopped later.
func NewStoppableWorkers(funcs ...func(context.Context)) StoppableWorkers {
	return NewStoppableWorkersWithContext(context.Background(), funcs...)
}

// NewStoppableWorkersWithContext is like NewStoppableWorkers but derives the workers' context
// from ctx, so cancelling ctx also signals every worker.
func NewStoppableWorkersWithContext(ctx context.Context, funcs ...func(context.Context)) StoppableWorkers {
	cancelCtx, cancelFunc := context.WithCancel(ctx)
	workers := &stoppableWorkersImpl{cancelCtx: cancelCtx, cancelFunc: cancelFunc}
	workers.AddWorkers(funcs...)
	return workers
}

// AddWorkers starts a goroutine for each function passed in. Once Stop has been called it starts
// nothing and returns false. A panicking worker is logged and does not take the process down.
func (sw *stoppableWorkersImpl) AddWorkers(funcs ...func(context.Context)) bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.cancelCtx.Err() != nil {
		return false
	}

	sw.active.Add(len(funcs))
	for _, f := range funcs {
		goutils.PanicCapturingGo(func() {
			defer sw.active.Done()
			f(sw.cancelCtx)
		})
	}
	return true
}

// Stop cancels the shared context and waits for every worker to return. It is safe to call more
// than once.
func (sw *stoppableWorkersImpl) Stop() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.cancelFunc()
	sw.active.Wait()
}

// Context gets the context the workers are checking on.
func (sw *stoppableWorkersImpl) Context() context.Context {
	return sw.cancelCtx
}
