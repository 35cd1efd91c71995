// Package listener defines the five listener surfaces the job engine fans
// callbacks out to, plus a composite for each that holds an ordered list of
// delegates. Every listener interface has a matching `*Base` struct that
// implements every method as a no-op, so a concrete listener only needs to
// embed the Base and override the callbacks it cares about.
package listener

import (
	"context"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/metrics"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/port"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
)

// JobListener observes the start and end of a job run.
type JobListener interface {
	BeforeJob(ctx context.Context, params metrics.JobParameters)
	AfterJob(ctx context.Context, report *metrics.JobReport)
}

// JobListenerBase provides no-op defaults for JobListener.
type JobListenerBase struct{}

func (JobListenerBase) BeforeJob(ctx context.Context, params metrics.JobParameters) {}
func (JobListenerBase) AfterJob(ctx context.Context, report *metrics.JobReport)      {}

// BatchListener observes the lifecycle of one batch (one read-process-write
// cycle).
type BatchListener interface {
	BeforeBatchReading(ctx context.Context)
	AfterBatchProcessing(ctx context.Context, batch *record.Batch[any])
	AfterBatchWriting(ctx context.Context, batch *record.Batch[any])
	OnBatchWritingException(ctx context.Context, batch *record.Batch[any], err error)
}

// BatchListenerBase provides no-op defaults for BatchListener.
type BatchListenerBase struct{}

func (BatchListenerBase) BeforeBatchReading(ctx context.Context)                             {}
func (BatchListenerBase) AfterBatchProcessing(ctx context.Context, batch *record.Batch[any])  {}
func (BatchListenerBase) AfterBatchWriting(ctx context.Context, batch *record.Batch[any])     {}
func (BatchListenerBase) OnBatchWritingException(ctx context.Context, batch *record.Batch[any], err error) {
}

// RecordReaderListener observes individual ReadRecord calls.
type RecordReaderListener interface {
	BeforeRecordReading(ctx context.Context)
	AfterRecordReading(ctx context.Context, item port.Item, err error)
	OnRecordReadingException(ctx context.Context, err error)
}

// RecordReaderListenerBase provides no-op defaults for RecordReaderListener.
type RecordReaderListenerBase struct{}

func (RecordReaderListenerBase) BeforeRecordReading(ctx context.Context) {}
func (RecordReaderListenerBase) AfterRecordReading(ctx context.Context, item port.Item, err error) {
}
func (RecordReaderListenerBase) OnRecordReadingException(ctx context.Context, err error) {}

// PipelineListener observes individual record processing. BeforeRecordProcessing
// may itself filter a record by returning exception.ErrFiltered.
type PipelineListener interface {
	BeforeRecordProcessing(ctx context.Context, in port.Item) (port.Item, error)
	AfterRecordProcessing(ctx context.Context, in port.Item, out *port.Item)
	OnRecordProcessingException(ctx context.Context, in port.Item, err error)
}

// PipelineListenerBase provides no-op defaults for PipelineListener: the
// pre-hook passes the record through unchanged.
type PipelineListenerBase struct{}

func (PipelineListenerBase) BeforeRecordProcessing(ctx context.Context, in port.Item) (port.Item, error) {
	return in, nil
}
func (PipelineListenerBase) AfterRecordProcessing(ctx context.Context, in port.Item, out *port.Item) {
}
func (PipelineListenerBase) OnRecordProcessingException(ctx context.Context, in port.Item, err error) {
}

// RecordWriterListener observes the writing of a batch.
type RecordWriterListener interface {
	BeforeRecordWriting(ctx context.Context, batch *record.Batch[any])
	AfterRecordWriting(ctx context.Context, batch *record.Batch[any])
	OnRecordWritingException(ctx context.Context, batch *record.Batch[any], err error)
}

// RecordWriterListenerBase provides no-op defaults for RecordWriterListener.
type RecordWriterListenerBase struct{}

func (RecordWriterListenerBase) BeforeRecordWriting(ctx context.Context, batch *record.Batch[any]) {}
func (RecordWriterListenerBase) AfterRecordWriting(ctx context.Context, batch *record.Batch[any])  {}
func (RecordWriterListenerBase) OnRecordWritingException(ctx context.Context, batch *record.Batch[any], err error) {
}

// --- Composites ---

// CompositeJobListener fans BeforeJob/AfterJob out to its delegates in
// registration order.
type CompositeJobListener struct {
	delegates []JobListener
}

func NewCompositeJobListener(delegates ...JobListener) *CompositeJobListener {
	return &CompositeJobListener{delegates: append([]JobListener(nil), delegates...)}
}

func (c *CompositeJobListener) BeforeJob(ctx context.Context, params metrics.JobParameters) {
	for _, d := range c.delegates {
		d.BeforeJob(ctx, params)
	}
}

func (c *CompositeJobListener) AfterJob(ctx context.Context, report *metrics.JobReport) {
	for _, d := range c.delegates {
		d.AfterJob(ctx, report)
	}
}

// CompositeBatchListener fans out BatchListener callbacks in registration order.
type CompositeBatchListener struct {
	delegates []BatchListener
}

func NewCompositeBatchListener(delegates ...BatchListener) *CompositeBatchListener {
	return &CompositeBatchListener{delegates: append([]BatchListener(nil), delegates...)}
}

func (c *CompositeBatchListener) BeforeBatchReading(ctx context.Context) {
	for _, d := range c.delegates {
		d.BeforeBatchReading(ctx)
	}
}

func (c *CompositeBatchListener) AfterBatchProcessing(ctx context.Context, batch *record.Batch[any]) {
	for _, d := range c.delegates {
		d.AfterBatchProcessing(ctx, batch)
	}
}

func (c *CompositeBatchListener) AfterBatchWriting(ctx context.Context, batch *record.Batch[any]) {
	for _, d := range c.delegates {
		d.AfterBatchWriting(ctx, batch)
	}
}

func (c *CompositeBatchListener) OnBatchWritingException(ctx context.Context, batch *record.Batch[any], err error) {
	for _, d := range c.delegates {
		d.OnBatchWritingException(ctx, batch, err)
	}
}

// CompositeRecordReaderListener fans out RecordReaderListener callbacks in
// registration order.
type CompositeRecordReaderListener struct {
	delegates []RecordReaderListener
}

func NewCompositeRecordReaderListener(delegates ...RecordReaderListener) *CompositeRecordReaderListener {
	return &CompositeRecordReaderListener{delegates: append([]RecordReaderListener(nil), delegates...)}
}

func (c *CompositeRecordReaderListener) BeforeRecordReading(ctx context.Context) {
	for _, d := range c.delegates {
		d.BeforeRecordReading(ctx)
	}
}

func (c *CompositeRecordReaderListener) AfterRecordReading(ctx context.Context, item port.Item, err error) {
	for _, d := range c.delegates {
		d.AfterRecordReading(ctx, item, err)
	}
}

func (c *CompositeRecordReaderListener) OnRecordReadingException(ctx context.Context, err error) {
	for _, d := range c.delegates {
		d.OnRecordReadingException(ctx, err)
	}
}

// CompositePipelineListener fans out PipelineListener callbacks in
// registration order. BeforeRecordProcessing threads the record through each
// delegate in turn: delegate N receives delegate N-1's output, and any
// delegate may filter by returning exception.ErrFiltered, which
// short-circuits the remaining delegates.
type CompositePipelineListener struct {
	delegates []PipelineListener
}

func NewCompositePipelineListener(delegates ...PipelineListener) *CompositePipelineListener {
	return &CompositePipelineListener{delegates: append([]PipelineListener(nil), delegates...)}
}

func (c *CompositePipelineListener) BeforeRecordProcessing(ctx context.Context, in port.Item) (port.Item, error) {
	current := in
	for _, d := range c.delegates {
		out, err := d.BeforeRecordProcessing(ctx, current)
		if err != nil {
			return port.Item{}, err
		}
		current = out
	}
	return current, nil
}

func (c *CompositePipelineListener) AfterRecordProcessing(ctx context.Context, in port.Item, out *port.Item) {
	for _, d := range c.delegates {
		d.AfterRecordProcessing(ctx, in, out)
	}
}

func (c *CompositePipelineListener) OnRecordProcessingException(ctx context.Context, in port.Item, err error) {
	for _, d := range c.delegates {
		d.OnRecordProcessingException(ctx, in, err)
	}
}

// CompositeRecordWriterListener fans out RecordWriterListener callbacks in
// registration order.
type CompositeRecordWriterListener struct {
	delegates []RecordWriterListener
}

func NewCompositeRecordWriterListener(delegates ...RecordWriterListener) *CompositeRecordWriterListener {
	return &CompositeRecordWriterListener{delegates: append([]RecordWriterListener(nil), delegates...)}
}

func (c *CompositeRecordWriterListener) BeforeRecordWriting(ctx context.Context, batch *record.Batch[any]) {
	for _, d := range c.delegates {
		d.BeforeRecordWriting(ctx, batch)
	}
}

func (c *CompositeRecordWriterListener) AfterRecordWriting(ctx context.Context, batch *record.Batch[any]) {
	for _, d := range c.delegates {
		d.AfterRecordWriting(ctx, batch)
	}
}

func (c *CompositeRecordWriterListener) OnRecordWritingException(ctx context.Context, batch *record.Batch[any], err error) {
	for _, d := range c.delegates {
		d.OnRecordWritingException(ctx, batch, err)
	}
}
