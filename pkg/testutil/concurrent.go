package testutil

import (
	"sync"
	"sync/atomic"

	dErrors "kycdid/pkg/domain-errors"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes int32
	Errors    int32
	// Repeats counts calls rejected because their stage had already completed.
	Repeats int32
}

func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Errors + r.Repeats
}

// RunConcurrent executes fn in parallel goroutines and buckets the outcomes.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, errs, repeats atomic.Int32

	for i := range goroutines {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			err := fn(idx)
			switch {
			case err == nil:
				successes.Add(1)
			case dErrors.HasCode(err, dErrors.CodeStageAlreadyComplete):
				repeats.Add(1)
			default:
				errs.Add(1)
			}
		}(i)
	}
	wg.Wait()

	return &ConcurrentResult{
		Successes: successes.Load(),
		Errors:    errs.Load(),
		Repeats:   repeats.Load(),
	}
}
