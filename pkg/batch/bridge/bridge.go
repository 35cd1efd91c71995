// Package bridge implements queue-bridging Reader and Writer, used to wire
// one job's output into another job's input through in-process Go channels.
package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/port"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"
)

// Route pairs a predicate with the channel records matching it are sent to.
// Predicates are evaluated in slice order; the first match wins.
type Route struct {
	Predicate func(item port.Item) bool
	Channel   chan<- port.Item
}

// Writer routes each written record to the channel of the first matching
// Route via a blocking send. A record matching no route is dropped and
// reported as a write error. The route table is fixed at construction.
type Writer struct {
	routes []Route
}

// NewWriter creates a queue-bridging Writer with the given fixed route table.
func NewWriter(routes ...Route) *Writer {
	return &Writer{routes: append([]Route(nil), routes...)}
}

func (w *Writer) Open(ctx context.Context) error { return nil }

// WriteRecords routes every record in batch, in order, via a blocking send on
// its matching route's channel. The first unroutable record aborts the call
// and returns an error; records before it have already been sent.
func (w *Writer) WriteRecords(ctx context.Context, batch *record.Batch[any]) error {
	for _, item := range batch.Records() {
		route, ok := w.match(item)
		if !ok {
			return fmt.Errorf("bridge: no route matched record %d", item.Header.Number)
		}

		select {
		case route.Channel <- item:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (w *Writer) Close(ctx context.Context) error { return nil }

func (w *Writer) match(item port.Item) (Route, bool) {
	for _, r := range w.routes {
		if r.Predicate(item) {
			return r, true
		}
	}
	return Route{}, false
}

var _ port.Writer = (*Writer)(nil)

// Reader reads records from a bounded channel, returning
// exception.ErrNoMoreRecords once poll has elapsed with nothing received.
// This is the designed end-of-stream contract for inter-job dispatch:
// producers signal completion by ceasing to send, consumers detect it by
// timeout.
type Reader struct {
	ch   <-chan port.Item
	poll time.Duration
}

// NewReader creates a queue-bridging Reader over ch with the given poll
// timeout. poll must be > 0.
func NewReader(ch <-chan port.Item, poll time.Duration) (*Reader, error) {
	if poll <= 0 {
		return nil, fmt.Errorf("bridge: poll timeout must be > 0, got %v", poll)
	}
	return &Reader{ch: ch, poll: poll}, nil
}

func (r *Reader) Open(ctx context.Context) error { return nil }

// ReadRecord receives from the channel, or returns exception.ErrNoMoreRecords
// if the poll timeout elapses first, or ctx.Err() if ctx is done first.
func (r *Reader) ReadRecord(ctx context.Context) (port.Item, error) {
	timer := time.NewTimer(r.poll)
	defer timer.Stop()

	select {
	case item, ok := <-r.ch:
		if !ok {
			return port.Item{}, exception.ErrNoMoreRecords
		}
		return item, nil
	case <-timer.C:
		return port.Item{}, exception.ErrNoMoreRecords
	case <-ctx.Done():
		return port.Item{}, ctx.Err()
	}
}

func (r *Reader) Close(ctx context.Context) error { return nil }

var _ port.Reader = (*Reader)(nil)
