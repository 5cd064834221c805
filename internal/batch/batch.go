// Package batch runs standardization over many inputs using a worker pool,
// delivering results back in input order.
package batch

import (
	"runtime"
	"sync"
)

// Item holds one raw input ready for standardization.
type Item struct {
	Seq   int
	Input string
	Extra any // caller-specific data (e.g. the source row)
}

// Outcome holds the standardization output for a single input.
type Outcome[R any] struct {
	Seq    int
	Input  string
	Result R
	Extra  any
}

// Run standardizes items using a pool of workers, applying fn to each input.
// Results are sent to the returned channel in arrival order (not sequence
// order). Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func Run[R any](items <-chan Item, workers int, fn func(string) R) <-chan Outcome[R] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan Outcome[R], 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				results <- Outcome[R]{
					Seq:    item.Seq,
					Input:  item.Input,
					Result: fn(item.Input),
					Extra:  item.Extra,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect[R any](results <-chan Outcome[R], fn func(Outcome[R]) error) error {
	pending := make(map[int]Outcome[R])
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
