package job_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/job"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/listener"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/metrics"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/port"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/record"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/testsupport"
)

func TestJob_EmptySource(t *testing.T) {
	reader := testsupport.NewSliceReader("t")
	writer := testsupport.NewRecordingWriter()

	j, err := job.NewBuilder().Named("empty").Reader(reader).Writer(writer).BatchSize(10).Build()
	require.NoError(t, err)

	report := j.Run(context.Background())

	assert.Equal(t, metrics.StatusCompleted, report.Status)
	assert.EqualValues(t, 0, report.Metrics.ReadCount)
	assert.EqualValues(t, 0, report.Metrics.WriteCount)
	assert.Empty(t, writer.Batches())
}

func TestJob_ThreeRecordsBatchSizeTwo(t *testing.T) {
	reader := testsupport.NewSliceReader("t", "a", "b", "c")
	writer := testsupport.NewRecordingWriter()

	j, err := job.NewBuilder().Named("three").Reader(reader).Writer(writer).BatchSize(2).Build()
	require.NoError(t, err)

	report := j.Run(context.Background())

	assert.Equal(t, metrics.StatusCompleted, report.Status)
	assert.EqualValues(t, 3, report.Metrics.ReadCount)
	assert.EqualValues(t, 3, report.Metrics.WriteCount)

	batches := writer.Batches()
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 1)
	assert.Equal(t, "a", batches[0][0].Payload)
	assert.Equal(t, "b", batches[0][1].Payload)
	assert.Equal(t, "c", batches[1][0].Payload)
}

func TestJob_FiltersEveryOtherRecord(t *testing.T) {
	reader := testsupport.NewSliceReader("t", "r1", "r2", "r3", "r4")
	writer := testsupport.NewRecordingWriter()

	j, err := job.NewBuilder().
		Named("filter-every-other").
		Reader(reader).
		Writer(writer).
		BatchSize(10).
		Filter(func(item port.Item) bool {
			return item.Header.Number%2 != 0
		}).
		Build()
	require.NoError(t, err)

	report := j.Run(context.Background())

	assert.Equal(t, metrics.StatusCompleted, report.Status)
	assert.EqualValues(t, 2, report.Metrics.WriteCount)
	assert.EqualValues(t, 2, report.Metrics.FilterCount)
	assert.EqualValues(t, 0, report.Metrics.ErrorCount)
}

func TestJob_FilterAndBatchWriteDurationAreRecorded(t *testing.T) {
	reader := testsupport.NewSliceReader("t", "r1", "r2", "r3", "r4")
	writer := testsupport.NewRecordingWriter()
	recorder := &recordingMetricRecorder{}

	j, err := job.NewBuilder().
		Named("filter-metrics").
		Reader(reader).
		Writer(writer).
		BatchSize(10).
		Filter(func(item port.Item) bool {
			return item.Header.Number%2 != 0
		}).
		MetricRecorder(recorder).
		Build()
	require.NoError(t, err)

	report := j.Run(context.Background())

	assert.Equal(t, metrics.StatusCompleted, report.Status)
	assert.EqualValues(t, 2, recorder.filterCalls)
	assert.EqualValues(t, 1, recorder.durationCalls)
	assert.Equal(t, "batch_write", recorder.lastDurationName)
}

// recordingMetricRecorder counts the calls job.go makes to each
// MetricRecorder method, used to assert the engine actually wires every
// event through instead of only the backends' own unit tests doing so.
type recordingMetricRecorder struct {
	metrics.NoopMetricRecorder
	filterCalls       int
	durationCalls     int
	lastDurationName  string
}

func (r *recordingMetricRecorder) RecordRecordFilter(jobName string) {
	r.filterCalls++
}

func (r *recordingMetricRecorder) RecordDuration(jobName, name string, d time.Duration) {
	r.durationCalls++
	r.lastDurationName = name
}

func TestJob_ErrorThresholdExceeded(t *testing.T) {
	reader := testsupport.NewSliceReader("t", "r1", "r2", "r3")
	writer := testsupport.NewRecordingWriter()

	failing := port.ProcessorFunc(func(ctx context.Context, in port.Item) (port.Item, error) {
		if in.Header.Number == 2 || in.Header.Number == 3 {
			return port.Item{}, assert.AnError
		}
		return in, nil
	})

	j, err := job.NewBuilder().
		Named("threshold").
		Reader(reader).
		Writer(writer).
		BatchSize(10).
		ErrorThreshold(1).
		Processor(failing).
		Build()
	require.NoError(t, err)

	report := j.Run(context.Background())

	assert.Equal(t, metrics.StatusFailed, report.Status)
	assert.Error(t, report.LastError)
	assert.EqualValues(t, 2, report.Metrics.ErrorCount)
}

func TestJob_ErrorThresholdDefaultsToUnboundedWithoutOverride(t *testing.T) {
	reader := testsupport.NewSliceReader("t", "r1", "r2", "r3")
	writer := testsupport.NewRecordingWriter()

	failing := port.ProcessorFunc(func(ctx context.Context, in port.Item) (port.Item, error) {
		return port.Item{}, assert.AnError
	})

	j, err := job.NewBuilder().
		Named("no-threshold-override").
		Reader(reader).
		Writer(writer).
		BatchSize(10).
		Processor(failing).
		Build()
	require.NoError(t, err)

	report := j.Run(context.Background())

	assert.Equal(t, metrics.StatusCompleted, report.Status)
	assert.EqualValues(t, 3, report.Metrics.ErrorCount)
}

func TestJob_BatchScanningRecovery(t *testing.T) {
	reader := testsupport.NewSliceReader("t", "r1", "r2", "r3", "r4", "r5")

	inner := testsupport.NewRecordingWriter()
	writer := testsupport.NewFailingWriter(inner, func(item port.Item) bool {
		return !item.Header.Scanned && item.Header.Number <= 3
	})

	j, err := job.NewBuilder().
		Named("scanning").
		Reader(reader).
		Writer(writer).
		BatchSize(3).
		EnableBatchScanning().
		Build()
	require.NoError(t, err)

	report := j.Run(context.Background())

	assert.Equal(t, metrics.StatusCompleted, report.Status)
	assert.EqualValues(t, 5, report.Metrics.WriteCount)
	assert.EqualValues(t, 0, report.Metrics.ErrorCount)

	batches := inner.Batches()
	require.Len(t, batches, 4)
	for i := 0; i < 3; i++ {
		require.Len(t, batches[i], 1)
		assert.True(t, batches[i][0].Header.Scanned)
	}
	require.Len(t, batches[3], 2)
	assert.False(t, batches[3][0].Header.Scanned)
	assert.False(t, batches[3][1].Header.Scanned)
}

func TestJob_MidRunCancellation(t *testing.T) {
	reader := testsupport.NewSliceReader("t", "r1", "r2", "r3", "r4")
	writer := testsupport.NewRecordingWriter()

	ctx, cancel := context.WithCancel(context.Background())

	j, err := job.NewBuilder().
		Named("cancel").
		Reader(reader).
		Writer(writer).
		BatchSize(1).
		BatchListener(&cancelAfterFirstWrite{cancel: cancel}).
		Build()
	require.NoError(t, err)

	report := j.Run(ctx)

	assert.Equal(t, metrics.StatusAborted, report.Status)
	assert.False(t, report.Metrics.EndTime.IsZero())
}

// cancelAfterFirstWrite cancels the run's context the moment the first batch
// finishes writing, exercising the main loop's context-cancellation check at
// the next batch boundary.
type cancelAfterFirstWrite struct {
	listener.BatchListenerBase
	cancel context.CancelFunc
}

func (c *cancelAfterFirstWrite) AfterBatchWriting(ctx context.Context, batch *record.Batch[any]) {
	c.cancel()
}
