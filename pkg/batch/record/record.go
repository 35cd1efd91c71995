// Package record defines the envelope and batch container that flow through
// a job's read-process-write pipeline.
package record

import "time"

// Header carries the metadata attached to every Record. A Header is immutable
// after creation except for the Scanned flag, which batch scanning (see the
// job package) sets when a record is re-attempted individually after a
// failed batch write.
type Header struct {
	// Number is the record's 1-based, strictly increasing position within the
	// current job run.
	Number int64
	// Source names the data source the record was read from (opaque to the
	// engine; set by the Reader).
	Source string
	// ReadAt is when the record was read from the source.
	ReadAt time.Time
	// Scanned is true once the record has been re-attempted individually by
	// batch scanning.
	Scanned bool
}

// Record pairs a Header with a typed Payload. P is typically `any` at the
// chain boundary (see the port package), and a concrete type inside a single
// reader or processor implementation.
type Record[P any] struct {
	Header  Header
	Payload P
}

// New creates a Record with the given header fields and payload.
func New[P any](number int64, source string, payload P) Record[P] {
	return Record[P]{
		Header: Header{
			Number: number,
			Source: source,
			ReadAt: time.Now(),
		},
		Payload: payload,
	}
}

// WithScanned returns a copy of r with the Scanned flag set, used by batch
// scanning to mark a record before it is re-attempted as a singleton write.
func (r Record[P]) WithScanned(scanned bool) Record[P] {
	r.Header.Scanned = scanned
	return r
}

// Batch is an ordered, non-thread-safe sequence of Records of identical
// payload type. A Batch is owned by exactly one job goroutine at a time: it
// is created empty at the start of each read-process cycle and discarded
// after it is written.
type Batch[P any] struct {
	records []Record[P]
}

// NewBatch creates an empty Batch, optionally pre-sizing its backing slice.
func NewBatch[P any](capacityHint int) *Batch[P] {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Batch[P]{records: make([]Record[P], 0, capacityHint)}
}

// Append adds a record to the end of the batch.
func (b *Batch[P]) Append(r Record[P]) {
	b.records = append(b.records, r)
}

// Len returns the number of records currently in the batch.
func (b *Batch[P]) Len() int {
	return len(b.records)
}

// IsEmpty reports whether the batch holds no records.
func (b *Batch[P]) IsEmpty() bool {
	return len(b.records) == 0
}

// Records returns the batch's records in accumulation order. The returned
// slice must not be mutated by callers outside this package.
func (b *Batch[P]) Records() []Record[P] {
	return b.records
}

// Singleton returns a new one-record Batch wrapping r, used by batch
// scanning to retry a single record from a failed batch.
func Singleton[P any](r Record[P]) *Batch[P] {
	bt := NewBatch[P](1)
	bt.Append(r)
	return bt
}
