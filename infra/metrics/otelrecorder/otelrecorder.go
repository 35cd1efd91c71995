// Package otelrecorder implements metrics.MetricRecorder using the
// OpenTelemetry metric SDK, as an alternative backend to
// infra/metrics/prometheusrecorder. No OTLP exporter is attached (see
// DESIGN.md); instruments are registered against a real
// sdkmetric.MeterProvider and read through whatever metric.Reader the
// caller supplies (a periodic reader feeding an exporter, or a manual
// reader for tests).
package otelrecorder

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	engmetrics "github.com/OguzhanUlucay/easy-batch/pkg/batch/metrics"
)

// Recorder is a metrics.MetricRecorder backed by an OpenTelemetry
// MeterProvider.
type Recorder struct {
	provider *sdkmetric.MeterProvider

	jobTransitions metric.Int64Counter
	jobDuration    metric.Float64Histogram
	recordsRead    metric.Int64Counter
	recordsFiltered metric.Int64Counter
	recordErrors   metric.Int64Counter
	recordsWritten metric.Int64Counter
	batchSize      metric.Int64Histogram
	operationSeconds metric.Float64Histogram
}

// New creates a Recorder with its own MeterProvider built from the given
// readers (e.g. sdkmetric.NewPeriodicReader(exporter), or a
// sdkmetric.NewManualReader() in tests).
func New(readers ...sdkmetric.Reader) (*Recorder, error) {
	opts := make([]sdkmetric.Option, 0, len(readers))
	for _, rd := range readers {
		opts = append(opts, sdkmetric.WithReader(rd))
	}
	provider := sdkmetric.NewMeterProvider(opts...)
	meter := provider.Meter("github.com/OguzhanUlucay/easy-batch")

	r := &Recorder{provider: provider}

	var err error
	if r.jobTransitions, err = meter.Int64Counter("batch.job.transitions"); err != nil {
		return nil, err
	}
	if r.jobDuration, err = meter.Float64Histogram("batch.job.duration", metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if r.recordsRead, err = meter.Int64Counter("batch.record.read"); err != nil {
		return nil, err
	}
	if r.recordsFiltered, err = meter.Int64Counter("batch.record.filtered"); err != nil {
		return nil, err
	}
	if r.recordErrors, err = meter.Int64Counter("batch.record.errors"); err != nil {
		return nil, err
	}
	if r.recordsWritten, err = meter.Int64Counter("batch.record.written"); err != nil {
		return nil, err
	}
	if r.batchSize, err = meter.Int64Histogram("batch.write.batch_size"); err != nil {
		return nil, err
	}
	if r.operationSeconds, err = meter.Float64Histogram("batch.operation.duration", metric.WithUnit("s")); err != nil {
		return nil, err
	}

	return r, nil
}

// Provider returns the underlying MeterProvider, for wiring additional
// readers or a graceful Shutdown at process exit.
func (r *Recorder) Provider() *sdkmetric.MeterProvider {
	return r.provider
}

func (r *Recorder) RecordJobStart(report *engmetrics.JobReport) {
	r.jobTransitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("job_name", report.JobName),
		attribute.String("status", string(report.Status)),
	))
}

func (r *Recorder) RecordJobEnd(report *engmetrics.JobReport) {
	attrs := metric.WithAttributes(
		attribute.String("job_name", report.JobName),
		attribute.String("status", string(report.Status)),
	)
	r.jobTransitions.Add(context.Background(), 1, attrs)
	r.jobDuration.Record(context.Background(), report.Metrics.Duration().Seconds(), attrs)
}

func (r *Recorder) RecordRecordRead(jobName string) {
	r.recordsRead.Add(context.Background(), 1, metric.WithAttributes(attribute.String("job_name", jobName)))
}

func (r *Recorder) RecordRecordFilter(jobName string) {
	r.recordsFiltered.Add(context.Background(), 1, metric.WithAttributes(attribute.String("job_name", jobName)))
}

func (r *Recorder) RecordRecordError(jobName string) {
	r.recordErrors.Add(context.Background(), 1, metric.WithAttributes(attribute.String("job_name", jobName)))
}

func (r *Recorder) RecordBatchWrite(jobName string, count int) {
	attrs := metric.WithAttributes(attribute.String("job_name", jobName))
	r.recordsWritten.Add(context.Background(), int64(count), attrs)
	r.batchSize.Record(context.Background(), int64(count), attrs)
}

func (r *Recorder) RecordDuration(jobName, name string, d time.Duration) {
	r.operationSeconds.Record(context.Background(), d.Seconds(), metric.WithAttributes(
		attribute.String("job_name", jobName),
		attribute.String("operation", name),
	))
}

var _ engmetrics.MetricRecorder = (*Recorder)(nil)
