package utils

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// ForEachInParallel calls f for every index in [0, n), running at most limit calls at a time. A
// limit below one runs everything at once. Unlike an errgroup, a failing call does not cancel the
// others: every error is returned, combined in index order. A panic in f is reported as that
// index's error.
func ForEachInParallel(ctx context.Context, n, limit int, f func(ctx context.Context, i int) error) error {
	if limit < 1 || limit > n {
		limit = n
	}
	errs := make([]error, n)
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		sem <- struct{}{}
		wg.Add(1)
		utils.PanicCapturingGo(func() {
			defer func() {
				if thePanic := recover(); thePanic != nil {
					errs[i] = fmt.Errorf("got panic running item %d in parallel: %v", i, thePanic)
				}
				<-sem
				wg.Done()
			}()
			errs[i] = f(ctx, i)
		})
	}
	wg.Wait()
	return multierr.Combine(errs...)
}
