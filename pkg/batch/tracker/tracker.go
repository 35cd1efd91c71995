// Package tracker provides the end-of-stream signal the job's main loop polls
// to decide whether to keep building batches.
package tracker

import "sync"

// RecordTracker tracks whether a job run still has more records to read.
// MoreRecords returns true until NoMoreRecords has been called; the
// transition happens at most once per run. Safe for the job goroutine to use
// without external locking (the mutex only guards against the degenerate
// case of a listener calling NoMoreRecords from an unexpected context).
type RecordTracker struct {
	mu   sync.Mutex
	more bool
}

// New creates a RecordTracker in the "more records" state.
func New() *RecordTracker {
	return &RecordTracker{more: true}
}

// MoreRecords reports whether the run should keep reading.
func (t *RecordTracker) MoreRecords() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.more
}

// NoMoreRecords records that the reader has signaled end-of-stream. Safe to
// call more than once; only the first call has any effect.
func (t *RecordTracker) NoMoreRecords() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.more = false
}
