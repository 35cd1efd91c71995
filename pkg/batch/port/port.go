// Package port defines the stable contracts (ports) the job engine depends on:
// Reader, Writer, and Processor. Payload types are erased to `any` at these
// boundaries: stage-to-stage type compatibility is a construction-time
// invariant the caller is responsible for, not something the engine checks
// at run time.
package port

import (
	"context"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"
)

// Item is a record whose payload has been erased to `any`. It is the shape
// every Reader, Processor, and Writer in the engine exchanges.
type Item = record.Record[any]

// Reader produces Items one at a time. The engine calls Open exactly once
// before the first ReadRecord and Close exactly once after the read loop
// terminates, whether it terminated in success or failure.
type Reader interface {
	// Open prepares the underlying source. A failure here is fatal to the run.
	Open(ctx context.Context) error
	// ReadRecord returns the next Item, or exception.ErrNoMoreRecords (wrapped
	// or bare) when the source is exhausted. Any other error is fatal to the
	// run.
	ReadRecord(ctx context.Context) (Item, error)
	// Close releases resources. It must be idempotent and best-effort: a
	// Close failure is logged and folded into the job's lastError but never
	// changes the run's terminal status.
	Close(ctx context.Context) error
}

// Writer persists a Batch as a unit. WriteRecords is only ever called with a
// non-empty batch.
type Writer interface {
	// Open prepares the underlying sink. A failure here is fatal to the run.
	Open(ctx context.Context) error
	// WriteRecords writes every record in batch, or fails the whole batch.
	// Atomicity across the batch is the writer's own responsibility if it
	// advertises one.
	WriteRecords(ctx context.Context, batch *record.Batch[any]) error
	// Close releases resources, with the same idempotent/best-effort contract
	// as Reader.Close.
	Close(ctx context.Context) error
}

// Processor maps one Item to another, possibly changing the underlying
// concrete payload type. Returning exception.ErrFiltered (bare or wrapped)
// drops the record and short-circuits the remaining stages of the chain.
type Processor interface {
	Process(ctx context.Context, in Item) (Item, error)
}

// ProcessorFunc adapts a plain function to the Processor interface.
type ProcessorFunc func(ctx context.Context, in Item) (Item, error)

func (f ProcessorFunc) Process(ctx context.Context, in Item) (Item, error) {
	return f(ctx, in)
}

// NoopReader is the default Reader a Job uses when the builder is not given
// one: it returns end-of-stream immediately.
type NoopReader struct{}

func (NoopReader) Open(ctx context.Context) error { return nil }

func (NoopReader) ReadRecord(ctx context.Context) (Item, error) {
	return Item{}, exception.ErrNoMoreRecords
}

func (NoopReader) Close(ctx context.Context) error { return nil }

// NoopWriter is the default Writer a Job uses when the builder is not given
// one: it silently discards every batch.
type NoopWriter struct{}

func (NoopWriter) Open(ctx context.Context) error { return nil }

func (NoopWriter) WriteRecords(ctx context.Context, batch *record.Batch[any]) error { return nil }

func (NoopWriter) Close(ctx context.Context) error { return nil }
