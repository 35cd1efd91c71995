// Package testsupport provides in-memory Reader/Writer fakes for exercising
// the job engine without a real data source or sink.
package testsupport

import (
	"context"
	"sync"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/port"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"
)

// SliceReader reads a fixed, in-memory slice of payloads as records, in
// order, numbering them 1-based. It is safe for a single job run; create a
// fresh SliceReader to re-read the same data.
type SliceReader struct {
	source   string
	payloads []any

	mu   sync.Mutex
	next int
}

// NewSliceReader creates a SliceReader over payloads, reporting source as
// each record's Header.Source.
func NewSliceReader(source string, payloads ...any) *SliceReader {
	return &SliceReader{source: source, payloads: append([]any(nil), payloads...)}
}

func (r *SliceReader) Open(ctx context.Context) error { return nil }

// ReadRecord returns the next payload as a record, or exception.ErrNoMoreRecords
// once the slice is exhausted.
func (r *SliceReader) ReadRecord(ctx context.Context) (port.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.next >= len(r.payloads) {
		return port.Item{}, exception.ErrNoMoreRecords
	}
	r.next++
	return record.New(int64(r.next), r.source, r.payloads[r.next-1]), nil
}

func (r *SliceReader) Close(ctx context.Context) error { return nil }

var _ port.Reader = (*SliceReader)(nil)

// FailingReader fails ReadRecord with err after succeeding failAfter times.
type FailingReader struct {
	inner     port.Reader
	failAfter int
	err       error

	mu    sync.Mutex
	count int
}

// NewFailingReader wraps inner, returning err from the (failAfter+1)'th call
// to ReadRecord onward.
func NewFailingReader(inner port.Reader, failAfter int, err error) *FailingReader {
	return &FailingReader{inner: inner, failAfter: failAfter, err: err}
}

func (r *FailingReader) Open(ctx context.Context) error { return r.inner.Open(ctx) }

func (r *FailingReader) ReadRecord(ctx context.Context) (port.Item, error) {
	r.mu.Lock()
	r.count++
	fail := r.count > r.failAfter
	r.mu.Unlock()

	if fail {
		return port.Item{}, r.err
	}
	return r.inner.ReadRecord(ctx)
}

func (r *FailingReader) Close(ctx context.Context) error { return r.inner.Close(ctx) }

var _ port.Reader = (*FailingReader)(nil)

// RecordingWriter captures every batch passed to WriteRecords, in order. It
// never fails on its own; wrap it or use FailingWriter to inject faults.
type RecordingWriter struct {
	mu      sync.Mutex
	batches [][]port.Item
}

// NewRecordingWriter creates an empty RecordingWriter.
func NewRecordingWriter() *RecordingWriter {
	return &RecordingWriter{}
}

func (w *RecordingWriter) Open(ctx context.Context) error { return nil }

func (w *RecordingWriter) WriteRecords(ctx context.Context, batch *record.Batch[any]) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches = append(w.batches, append([]port.Item(nil), batch.Records()...))
	return nil
}

func (w *RecordingWriter) Close(ctx context.Context) error { return nil }

// Batches returns a copy of every batch written so far, in write order.
func (w *RecordingWriter) Batches() [][]port.Item {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([][]port.Item(nil), w.batches...)
}

// Records flattens every batch written so far into a single ordered slice.
func (w *RecordingWriter) Records() []port.Item {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []port.Item
	for _, b := range w.batches {
		out = append(out, b...)
	}
	return out
}

var _ port.Writer = (*RecordingWriter)(nil)

// FailingWriter fails WriteRecords with err for every batch whose records
// include one for which shouldFail returns true; otherwise it delegates to
// inner. Used to exercise batch-scanning recovery: shouldFail can target a
// single record within a batch while the rest, written individually during
// scanning, succeed.
type FailingWriter struct {
	inner      port.Writer
	shouldFail func(item port.Item) bool
}

// NewFailingWriter wraps inner, failing any WriteRecords call whose batch
// contains a record for which shouldFail returns true.
func NewFailingWriter(inner port.Writer, shouldFail func(item port.Item) bool) *FailingWriter {
	return &FailingWriter{inner: inner, shouldFail: shouldFail}
}

func (w *FailingWriter) Open(ctx context.Context) error { return w.inner.Open(ctx) }

func (w *FailingWriter) WriteRecords(ctx context.Context, batch *record.Batch[any]) error {
	for _, item := range batch.Records() {
		if w.shouldFail(item) {
			return errFailingWriter
		}
	}
	return w.inner.WriteRecords(ctx, batch)
}

func (w *FailingWriter) Close(ctx context.Context) error { return w.inner.Close(ctx) }

var _ port.Writer = (*FailingWriter)(nil)

var errFailingWriter = exception.NewBatchError("testsupport", "injected write failure", nil, false)
