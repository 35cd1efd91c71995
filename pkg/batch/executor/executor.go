// Package executor provides JobExecutor, a bounded worker pool for running
// multiple job.Job instances concurrently.
package executor

import (
	"context"
	"fmt"
	"sync"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/job"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/metrics"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/logger"
)

// Future is a handle to a job run submitted to a JobExecutor. Report blocks
// until the run completes.
type Future struct {
	done   chan struct{}
	report *metrics.JobReport
}

// Report blocks until the submitted run completes and returns its report.
func (f *Future) Report() *metrics.JobReport {
	<-f.done
	return f.report
}

// JobExecutor runs job.Job instances on a bounded pool of worker goroutines.
// The zero value is not usable; construct with New.
type JobExecutor struct {
	sem chan struct{}

	mu       sync.Mutex
	wg       sync.WaitGroup
	shutdown bool
}

// New creates a JobExecutor with the given number of concurrent workers.
// workers must be >= 1; a value < 1 is treated as 1.
func New(workers int) *JobExecutor {
	if workers < 1 {
		workers = 1
	}
	return &JobExecutor{sem: make(chan struct{}, workers)}
}

// Execute runs j synchronously on the calling goroutine, still subject to the
// executor's concurrency bound (it blocks until a worker slot is free).
func (e *JobExecutor) Execute(ctx context.Context, j *job.Job) (*metrics.JobReport, error) {
	if err := e.acquire(ctx); err != nil {
		return nil, err
	}
	defer e.release()

	return j.Run(ctx), nil
}

// Submit launches j on a worker goroutine and returns immediately with a
// Future. Submit returns an error without launching the job if the executor
// has been shut down.
func (e *JobExecutor) Submit(ctx context.Context, j *job.Job) (*Future, error) {
	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		return nil, fmt.Errorf("executor: Submit called after Shutdown")
	}
	e.wg.Add(1)
	e.mu.Unlock()

	f := &Future{done: make(chan struct{})}

	go func() {
		defer e.wg.Done()
		defer close(f.done)

		if err := e.acquire(ctx); err != nil {
			f.report = &metrics.JobReport{JobName: j.Name(), Status: metrics.StatusAborted, LastError: err}
			return
		}
		defer e.release()

		f.report = j.Run(ctx)
	}()

	return f, nil
}

// SubmitAll submits every job in jobs, returning the corresponding Futures in
// order. Any launch-time error (only possible after Shutdown) is aggregated
// via go-multierror; jobs that failed to launch have a nil Future at their
// index.
func (e *JobExecutor) SubmitAll(ctx context.Context, jobs ...*job.Job) ([]*Future, error) {
	futures := make([]*Future, len(jobs))
	var launchErr *multierror.Error

	for i, j := range jobs {
		f, err := e.Submit(ctx, j)
		if err != nil {
			logger.Warnf("executor: failed to submit job %q: %v", j.Name(), err)
			launchErr = multierror.Append(launchErr, fmt.Errorf("job %q: %w", j.Name(), err))
			continue
		}
		futures[i] = f
	}

	return futures, launchErr.ErrorOrNil()
}

// Shutdown marks the executor closed to new Submit calls and blocks until
// every already-submitted job has finished running, or ctx is done first.
// Shutdown is idempotent.
func (e *JobExecutor) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	e.shutdown = true
	e.mu.Unlock()

	waitDone := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// acquire blocks until a worker slot is available or ctx is done.
func (e *JobExecutor) acquire(ctx context.Context) error {
	select {
	case e.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *JobExecutor) release() {
	<-e.sem
}
