// Package parallel provides a small generic worker pool for fanning out
// filesystem calls.
package parallel

import (
	"sync"
)

// MapFunc transforms one item, or fails.
type MapFunc[T any, R any] func(item T) (R, error)

// Map runs fn on each item using a worker pool and waits for every call to
// finish. Results keep the order of items. If any call fails, Map returns
// the error of the lowest-indexed failing item and no results.
func Map[T any, R any](items []T, fn MapFunc[T, R]) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}

	numWorkers := CalculateWorkers(len(items))

	results := make([]R, len(items))
	errs := make([]error, len(items))
	jobs := make(chan int, len(items))
	var wg sync.WaitGroup

	// Start workers
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = fn(items[i])
			}
		}()
	}

	// Send jobs
	for i := range items {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
