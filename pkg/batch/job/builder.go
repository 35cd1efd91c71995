package job

import (
	"context"
	"fmt"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/listener"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/metrics"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/monitor"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/port"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"
)

// Builder assembles a Job declaratively. Start with NewBuilder, chain the
// setters that apply, and finish with Build. A zero-value Builder is not
// usable directly; always start from NewBuilder.
type Builder struct {
	name string

	reader port.Reader
	writer port.Writer
	stages []port.Processor

	batchSize            int
	errorThreshold        int64
	jmxMonitoring        bool
	batchScanningEnabled bool

	jobListeners      []listener.JobListener
	batchListeners    []listener.BatchListener
	readerListeners   []listener.RecordReaderListener
	pipelineListeners []listener.PipelineListener
	writerListeners   []listener.RecordWriterListener

	monitorHook    monitor.Hook
	metricRecorder metrics.MetricRecorder
	tracer         metrics.Tracer

	err error
}

// NewBuilder starts a Builder. Chain Named to give the job its name, then the
// other setters that apply, and finish with Build.
func NewBuilder() *Builder {
	return &Builder{
		batchSize:      1,
		errorThreshold: metrics.DefaultJobParameters().ErrorThreshold,
		monitorHook:    monitor.NoopHook{},
		metricRecorder: metrics.NoopMetricRecorder{},
		tracer:         metrics.NoopTracer{},
	}
}

// Named sets the job's logical name. Required; must be non-empty.
func (b *Builder) Named(name string) *Builder {
	if name == "" {
		b.fail(fmt.Errorf("job name must not be empty"))
		return b
	}
	b.name = name
	return b
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Reader sets the job's record source. Required unless the job is
// deliberately reader-less, in which case omit this call and the job uses
// port.NoopReader.
func (b *Builder) Reader(r port.Reader) *Builder {
	if r == nil {
		b.fail(fmt.Errorf("reader must not be nil"))
		return b
	}
	b.reader = r
	return b
}

// Writer sets the job's record sink. Required unless the job is
// deliberately writer-less, in which case omit this call and the job uses
// port.NoopWriter.
func (b *Builder) Writer(w port.Writer) *Builder {
	if w == nil {
		b.fail(fmt.Errorf("writer must not be nil"))
		return b
	}
	b.writer = w
	return b
}

// Processor appends a processing stage to the chain. Stages run in the order
// they are added. Filter, Mapper, and Validator are convenience wrappers
// over this method.
func (b *Builder) Processor(p port.Processor) *Builder {
	if p == nil {
		b.fail(fmt.Errorf("processor must not be nil"))
		return b
	}
	b.stages = append(b.stages, p)
	return b
}

// Filter appends a stage that drops a record when predicate returns false.
func (b *Builder) Filter(predicate func(item port.Item) bool) *Builder {
	if predicate == nil {
		b.fail(fmt.Errorf("filter predicate must not be nil"))
		return b
	}
	return b.Processor(port.ProcessorFunc(func(ctx context.Context, item port.Item) (port.Item, error) {
		if !predicate(item) {
			return port.Item{}, exception.ErrFiltered
		}
		return item, nil
	}))
}

// Mapper appends a stage that transforms a record's payload without risk of
// filtering or error; fn must not be nil.
func (b *Builder) Mapper(fn func(in port.Item) port.Item) *Builder {
	if fn == nil {
		b.fail(fmt.Errorf("mapper function must not be nil"))
		return b
	}
	return b.Processor(port.ProcessorFunc(func(ctx context.Context, in port.Item) (port.Item, error) {
		return fn(in), nil
	}))
}

// Validator appends a stage that filters a record when its payload fails a
// validity check, without transforming it.
func (b *Builder) Validator(valid func(item port.Item) bool) *Builder {
	if valid == nil {
		b.fail(fmt.Errorf("validator function must not be nil"))
		return b
	}
	return b.Processor(port.ProcessorFunc(func(ctx context.Context, in port.Item) (port.Item, error) {
		if !valid(in) {
			return port.Item{}, exception.ErrFiltered
		}
		return in, nil
	}))
}

// Marshaller appends a stage equivalent to Mapper, named separately for
// pipelines that read more naturally as reader -> mapper* -> marshaller ->
// writer.
func (b *Builder) Marshaller(fn func(in port.Item) port.Item) *Builder {
	return b.Mapper(fn)
}

// BatchSize sets the number of records accumulated per write cycle. Must be
// >= 1.
func (b *Builder) BatchSize(n int) *Builder {
	if n < 1 {
		b.fail(fmt.Errorf("batch size must be >= 1, got %d", n))
		return b
	}
	b.batchSize = n
	return b
}

// ErrorThreshold sets the cumulative processing-error budget tolerated before
// the run aborts. Must be >= 0. A threshold of 0 means the first processing
// error aborts the run.
func (b *Builder) ErrorThreshold(n int64) *Builder {
	if n < 0 {
		b.fail(fmt.Errorf("error threshold must be >= 0, got %d", n))
		return b
	}
	b.errorThreshold = n
	return b
}

// EnableJMX enables monitor hook notifications for this job's runs.
func (b *Builder) EnableJMX() *Builder {
	b.jmxMonitoring = true
	return b
}

// EnableBatchScanning enables per-record recovery after a failed batch write.
func (b *Builder) EnableBatchScanning() *Builder {
	b.batchScanningEnabled = true
	return b
}

// JobListener registers a JobListener, called in registration order.
func (b *Builder) JobListener(l listener.JobListener) *Builder {
	if l == nil {
		b.fail(fmt.Errorf("job listener must not be nil"))
		return b
	}
	b.jobListeners = append(b.jobListeners, l)
	return b
}

// BatchListener registers a BatchListener, called in registration order.
func (b *Builder) BatchListener(l listener.BatchListener) *Builder {
	if l == nil {
		b.fail(fmt.Errorf("batch listener must not be nil"))
		return b
	}
	b.batchListeners = append(b.batchListeners, l)
	return b
}

// ReaderListener registers a RecordReaderListener, called in registration order.
func (b *Builder) ReaderListener(l listener.RecordReaderListener) *Builder {
	if l == nil {
		b.fail(fmt.Errorf("reader listener must not be nil"))
		return b
	}
	b.readerListeners = append(b.readerListeners, l)
	return b
}

// PipelineListener registers a PipelineListener, called in registration order.
func (b *Builder) PipelineListener(l listener.PipelineListener) *Builder {
	if l == nil {
		b.fail(fmt.Errorf("pipeline listener must not be nil"))
		return b
	}
	b.pipelineListeners = append(b.pipelineListeners, l)
	return b
}

// WriterListener registers a RecordWriterListener, called in registration order.
func (b *Builder) WriterListener(l listener.RecordWriterListener) *Builder {
	if l == nil {
		b.fail(fmt.Errorf("writer listener must not be nil"))
		return b
	}
	b.writerListeners = append(b.writerListeners, l)
	return b
}

// MonitorHook sets the JMX-style notification sink. Defaults to monitor.NoopHook.
func (b *Builder) MonitorHook(h monitor.Hook) *Builder {
	if h == nil {
		b.fail(fmt.Errorf("monitor hook must not be nil"))
		return b
	}
	b.monitorHook = h
	return b
}

// MetricRecorder sets the observability backend. Defaults to metrics.NoopMetricRecorder.
func (b *Builder) MetricRecorder(r metrics.MetricRecorder) *Builder {
	if r == nil {
		b.fail(fmt.Errorf("metric recorder must not be nil"))
		return b
	}
	b.metricRecorder = r
	return b
}

// Tracer sets the tracing backend. Defaults to metrics.NoopTracer.
func (b *Builder) Tracer(t metrics.Tracer) *Builder {
	if t == nil {
		b.fail(fmt.Errorf("tracer must not be nil"))
		return b
	}
	b.tracer = t
	return b
}

// Build validates the accumulated configuration and freezes it into a Job.
// Build returns the first validation error recorded by any prior setter
// call, if any.
func (b *Builder) Build() (*Job, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.name == "" {
		return nil, fmt.Errorf("job name must not be empty; call Named before Build")
	}

	reader := b.reader
	if reader == nil {
		reader = port.NoopReader{}
	}
	writer := b.writer
	if writer == nil {
		writer = port.NoopWriter{}
	}

	params := metrics.JobParameters{
		BatchSize:            b.batchSize,
		ErrorThreshold:       b.errorThreshold,
		JMXMonitoring:        b.jmxMonitoring,
		BatchScanningEnabled: b.batchScanningEnabled,
	}

	return &Job{
		name:      b.name,
		reader:    reader,
		writer:    writer,
		processor: newCompositeProcessor(b.stages),
		params:    params,

		jobListener:      listener.NewCompositeJobListener(b.jobListeners...),
		batchListener:    listener.NewCompositeBatchListener(b.batchListeners...),
		readerListener:   listener.NewCompositeRecordReaderListener(b.readerListeners...),
		pipelineListener: listener.NewCompositePipelineListener(b.pipelineListeners...),
		writerListener:   listener.NewCompositeRecordWriterListener(b.writerListeners...),

		monitorHook:    b.monitorHook,
		metricRecorder: b.metricRecorder,
		tracer:         b.tracer,
	}, nil
}
