// Package job implements the batch pipeline engine: a read-process-write
// state machine assembled declaratively via Builder (builder.go).
package job

import (
	"context"
	"fmt"
	"time"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/listener"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/metrics"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/monitor"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/port"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/exception"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/logger"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/tracker"
)

// Job is one declaratively assembled reader/processor-chain/writer pipeline.
// Build one with Builder; a Job must not be run twice concurrently.
type Job struct {
	name string

	reader    port.Reader
	processor *compositeProcessor
	writer    port.Writer

	params metrics.JobParameters

	jobListener      *listener.CompositeJobListener
	batchListener    *listener.CompositeBatchListener
	readerListener   *listener.CompositeRecordReaderListener
	pipelineListener *listener.CompositePipelineListener
	writerListener   *listener.CompositeRecordWriterListener

	monitorHook    monitor.Hook
	metricRecorder metrics.MetricRecorder
	tracer         metrics.Tracer
}

// Name returns the job's logical name.
func (j *Job) Name() string { return j.name }

// Run executes the job's full lifecycle and returns its report. Run never
// panics out to the caller: a recovered panic is folded into the report as a
// FAILED status with lastError set.
func (j *Job) Run(ctx context.Context) (report *metrics.JobReport) {
	report = metrics.NewJobReport(j.name, j.params)

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("job %q: recovered panic: %v", j.name, r)
			report.LastError = fmt.Errorf("panic during job %q run: %v", j.name, r)
			report.Status = metrics.StatusFailed
			func() {
				defer func() {
					if r2 := recover(); r2 != nil {
						logger.Errorf("job %q: panic during teardown: %v", j.name, r2)
					}
				}()
				j.teardown(ctx, report)
			}()
		}
	}()

	// 1. start
	report.Status = metrics.StatusStarting
	report.Metrics.StartTime = time.Now()
	j.jobListener.BeforeJob(ctx, j.params)
	if j.params.JMXMonitoring {
		j.monitorHook.RegisterJob(j.name, report.RunID)
	}
	j.notifyMonitor(report)

	span := j.tracer.StartSpan(j.name, "job.run")
	defer span.End()

	// 2. open
	if err := j.reader.Open(ctx); err != nil {
		report.LastError = exception.NewBatchError("reader", "failed to open reader", err, true)
		report.Status = metrics.StatusFailed
		j.teardown(ctx, report)
		return report
	}
	if err := j.writer.Open(ctx); err != nil {
		report.LastError = exception.NewBatchError("writer", "failed to open writer", err, true)
		report.Status = metrics.StatusFailed
		// reader was opened; teardown still closes it.
		j.teardown(ctx, report)
		return report
	}

	// 3. started
	report.Status = metrics.StatusStarted
	j.metricRecorder.RecordJobStart(report)
	j.notifyMonitor(report)

	tr := tracker.New()

	// 4. main loop
	for tr.MoreRecords() && ctx.Err() == nil {
		j.batchListener.BeforeBatchReading(ctx)

		batch := record.NewBatch[any](j.params.BatchSize)
		fatal := j.buildBatch(ctx, tr, batch, report)
		if fatal != nil {
			report.LastError = fatal
			report.Status = metrics.StatusFailed
			j.teardown(ctx, report)
			return report
		}

		j.batchListener.AfterBatchProcessing(ctx, batch)

		if fatal := j.writeBatch(ctx, batch, report); fatal != nil {
			report.LastError = fatal
			report.Status = metrics.StatusFailed
			j.teardown(ctx, report)
			return report
		}
	}

	// 5. stopping
	report.Status = metrics.StatusStopping
	j.notifyMonitor(report)

	j.teardown(ctx, report)
	return report
}

// buildBatch iterates up to BatchSize times, reading and processing records
// into batch. It returns a non-nil error only for a fatal condition (reader
// failure or error-threshold exceeded); filtering and recoverable errors are
// handled in place.
func (j *Job) buildBatch(ctx context.Context, tr *tracker.RecordTracker, batch *record.Batch[any], report *metrics.JobReport) error {
	for batch.Len() < report.Parameters.BatchSize {
		item, err := j.readRecord(ctx)
		if err != nil {
			if exception.IsNoMoreRecords(err) {
				tr.NoMoreRecords()
				return nil
			}
			return exception.NewBatchError("reader", "read failed", err, true)
		}

		report.Metrics.ReadCount++
		j.metricRecorder.RecordRecordRead(j.name)

		if fatal := j.processRecord(ctx, item, batch, report); fatal != nil {
			return fatal
		}
	}
	return nil
}

// readRecord wraps reader.ReadRecord with the reader-listener callbacks.
func (j *Job) readRecord(ctx context.Context) (port.Item, error) {
	j.readerListener.BeforeRecordReading(ctx)
	item, err := j.reader.ReadRecord(ctx)
	if err != nil && !exception.IsNoMoreRecords(err) {
		j.readerListener.OnRecordReadingException(ctx, err)
		return port.Item{}, err
	}
	// AfterRecordReading fires for the end-of-stream result too.
	j.readerListener.AfterRecordReading(ctx, item, err)
	return item, err
}

// processRecord runs the pipeline-listener pre-hook and the processor chain
// for one record, appending the result to batch. It returns a non-nil error
// only when the error threshold has been exceeded.
func (j *Job) processRecord(ctx context.Context, item port.Item, batch *record.Batch[any], report *metrics.JobReport) error {
	j.notifyMonitor(report)

	pre, err := j.pipelineListener.BeforeRecordProcessing(ctx, item)
	if err != nil {
		if exception.IsFiltered(err) {
			report.Metrics.FilterCount++
			j.metricRecorder.RecordRecordFilter(j.name)
			return nil
		}
		return j.recordProcessingError(ctx, item, err, report)
	}

	out, filtered, err := j.processor.process(ctx, pre)
	if err != nil {
		return j.recordProcessingError(ctx, item, err, report)
	}
	if filtered {
		report.Metrics.FilterCount++
		j.metricRecorder.RecordRecordFilter(j.name)
		j.pipelineListener.AfterRecordProcessing(ctx, item, nil)
		return nil
	}

	batch.Append(out)
	j.pipelineListener.AfterRecordProcessing(ctx, item, &out)
	return nil
}

// recordProcessingError applies the error-threshold policy and returns a
// fatal error if the run must abort.
func (j *Job) recordProcessingError(ctx context.Context, item port.Item, err error, report *metrics.JobReport) error {
	j.pipelineListener.OnRecordProcessingException(ctx, item, err)
	report.Metrics.ErrorCount++
	report.LastError = err
	j.metricRecorder.RecordRecordError(j.name)
	j.tracer.RecordError(j.name, err)

	if report.Metrics.ErrorCount > report.Parameters.ErrorThreshold {
		return exception.NewBatchError("processor", "error threshold exceeded", exception.ErrErrorThresholdExceeded, true)
	}
	return nil
}

// writeBatch writes a non-empty batch, applying batch scanning if the batch
// write fails and scanning is enabled. It returns a non-nil error only when
// the run must abort.
func (j *Job) writeBatch(ctx context.Context, batch *record.Batch[any], report *metrics.JobReport) error {
	if batch.IsEmpty() {
		return nil
	}

	j.writerListener.BeforeRecordWriting(ctx, batch)
	start := time.Now()
	err := j.writer.WriteRecords(ctx, batch)
	j.metricRecorder.RecordDuration(j.name, "batch_write", time.Since(start))
	if err == nil {
		report.Metrics.WriteCount += int64(batch.Len())
		j.metricRecorder.RecordBatchWrite(j.name, batch.Len())
		j.writerListener.AfterRecordWriting(ctx, batch)
		j.batchListener.AfterBatchWriting(ctx, batch)
		return nil
	}

	j.writerListener.OnRecordWritingException(ctx, batch, err)
	j.batchListener.OnBatchWritingException(ctx, batch, err)
	report.LastError = err

	if !report.Parameters.BatchScanningEnabled {
		return exception.NewBatchError("writer", "batch write failed", err, true)
	}

	j.scanBatch(ctx, batch, report)
	return nil
}

// scanBatch retries a failed batch one record at a time, marking each as
// scanned. AfterBatchWriting is deliberately not fired for these singleton
// writes. Errors during scanning are counted but never abort the run, and
// are not checked against the error threshold.
func (j *Job) scanBatch(ctx context.Context, batch *record.Batch[any], report *metrics.JobReport) {
	for _, r := range batch.Records() {
		scanned := r.WithScanned(true)
		single := record.Singleton(scanned)

		if err := j.writer.WriteRecords(ctx, single); err != nil {
			report.Metrics.ErrorCount++
			report.LastError = err
			j.metricRecorder.RecordRecordError(j.name)
			logger.Warnf("job %q: batch scanning failed for record %d: %v", j.name, r.Header.Number, err)
			continue
		}
		report.Metrics.WriteCount++
		j.metricRecorder.RecordBatchWrite(j.name, 1)
	}
}

// teardown closes the reader and writer (best-effort, aggregating any
// failures into report.LastError), sets endTime, and fires AfterJob. It is
// invoked on every exit path from Run.
func (j *Job) teardown(ctx context.Context, report *metrics.JobReport) {
	var closeErr *multierror.Error
	if err := j.reader.Close(ctx); err != nil {
		logger.Warnf("job %q: reader close failed: %v", j.name, err)
		closeErr = multierror.Append(closeErr, fmt.Errorf("reader close: %w", err))
	}
	if err := j.writer.Close(ctx); err != nil {
		logger.Warnf("job %q: writer close failed: %v", j.name, err)
		closeErr = multierror.Append(closeErr, fmt.Errorf("writer close: %w", err))
	}
	if closeErr.ErrorOrNil() != nil {
		report.LastError = multierror.Append(report.LastError, closeErr).ErrorOrNil()
	}

	if report.Status != metrics.StatusFailed {
		if ctx.Err() != nil {
			report.Status = metrics.StatusAborted
		} else {
			report.Status = metrics.StatusCompleted
		}
	}

	report.Metrics.EndTime = time.Now()
	j.notifyMonitor(report)
	j.metricRecorder.RecordJobEnd(report)
	j.jobListener.AfterJob(ctx, report)
}

func (j *Job) notifyMonitor(report *metrics.JobReport) {
	if j.params.JMXMonitoring {
		j.monitorHook.NotifyJobReportUpdate(report.Snapshot())
	}
}
