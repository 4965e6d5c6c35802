// Package utils contains small helpers shared across packages.
package utils

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/multierr"
)

// ParallelFactor controls the max number of functions RunInParallel runs at once. This might
// be useful to set in tests where too much parallelism actually slows tests down in aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

// SimpleFunc is for RunInParallel.
type SimpleFunc func(ctx context.Context) error

// RunInParallel runs all functions in parallel, return is elapsed time and an error. The first
// failure cancels the context handed to the others; every failure other than the resulting
// cancellations is combined into the returned error.
func RunInParallel(ctx context.Context, fs []SimpleFunc) (time.Duration, error) {
	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	var bigError error
	var bigErrorMutex sync.Mutex
	storeError := func(err error) {
		bigErrorMutex.Lock()
		defer bigErrorMutex.Unlock()
		if bigError == nil || !errors.Is(err, context.Canceled) {
			bigError = multierr.Combine(bigError, err)
		}
	}

	limit := ParallelFactor
	if limit <= 0 {
		limit = 1
	}
	sem := make(chan struct{}, limit)

	helper := func(f SimpleFunc) {
		defer func() {
			if thePanic := recover(); thePanic != nil {
				storeError(fmt.Errorf("got panic running something in parallel: %v", thePanic))
				cancel()
			}
			<-sem
			wg.Done()
		}()
		err := f(ctx)
		if err != nil {
			storeError(err)
			cancel()
		}
	}

	for _, f := range fs {
		wg.Add(1)
		sem <- struct{}{}
		go helper(f)
	}

	wg.Wait()
	return time.Since(start), bigError
}
