package pipeline

import (
	"runtime"
	"sync"
)

// WorkItem holds a batch ready to run.
type WorkItem struct {
	Seq int
	Job Job
}

// WorkResult holds the outcome of a single batch.
type WorkResult struct {
	Seq    int
	Job    Job
	Result *Result
	Err    error
}

// RunParallel runs work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (r *Runner) RunParallel(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				res, err := r.Run(item.Job)
				results <- WorkResult{
					Seq:    item.Seq,
					Job:    item.Job,
					Result: res,
					Err:    err,
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
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
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

// RunAll runs jobs on at most workers concurrent batches and returns their
// outcomes in submission order. A failed batch does not stop the others.
func (r *Runner) RunAll(jobs []Job, workers int) []WorkResult {
	if workers > len(jobs) {
		workers = len(jobs)
	}
	items := make(chan WorkItem, len(jobs))
	for i, job := range jobs {
		items <- WorkItem{Seq: i, Job: job}
	}
	close(items)

	out := make([]WorkResult, 0, len(jobs))
	OrderedCollect(r.RunParallel(items, workers), func(wr WorkResult) error {
		out = append(out, wr)
		return nil
	})
	return out
}
