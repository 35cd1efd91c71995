package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/metrics"
)

func TestJobMetrics_DurationIsZeroBeforeEnd(t *testing.T) {
	m := metrics.JobMetrics{StartTime: time.Now()}
	assert.Equal(t, time.Duration(0), m.Duration())
}

func TestJobMetrics_DurationIsEndMinusStart(t *testing.T) {
	start := time.Now()
	end := start.Add(5 * time.Second)
	m := metrics.JobMetrics{StartTime: start, EndTime: end}
	assert.Equal(t, 5*time.Second, m.Duration())
}

func TestNewJobReport_StartsInStartingStateWithRunID(t *testing.T) {
	params := metrics.DefaultJobParameters()
	report := metrics.NewJobReport("job-a", params)

	assert.Equal(t, "job-a", report.JobName)
	assert.Equal(t, metrics.StatusStarting, report.Status)
	require.NotEmpty(t, report.RunID)
}

func TestJobReport_SnapshotIsIndependentCopy(t *testing.T) {
	report := metrics.NewJobReport("job-a", metrics.DefaultJobParameters())
	snap := report.Snapshot()

	report.Status = metrics.StatusCompleted
	assert.Equal(t, metrics.StatusStarting, snap.Status)
}

func TestDefaultJobParameters(t *testing.T) {
	params := metrics.DefaultJobParameters()
	assert.Equal(t, 1, params.BatchSize)
	assert.Equal(t, int64(1<<63-1), params.ErrorThreshold)
	assert.False(t, params.JMXMonitoring)
	assert.False(t, params.BatchScanningEnabled)
}

func TestNoopMetricRecorder_DoesNotPanic(t *testing.T) {
	var r metrics.MetricRecorder = metrics.NoopMetricRecorder{}
	report := metrics.NewJobReport("job-a", metrics.DefaultJobParameters())
	assert.NotPanics(t, func() {
		r.RecordJobStart(report)
		r.RecordJobEnd(report)
		r.RecordRecordRead("job-a")
		r.RecordRecordFilter("job-a")
		r.RecordRecordError("job-a")
		r.RecordBatchWrite("job-a", 3)
		r.RecordDuration("job-a", "write", time.Second)
	})
}

func TestNoopTracer_StartSpanAndRecordError(t *testing.T) {
	var tr metrics.Tracer = metrics.NoopTracer{}
	span := tr.StartSpan("job-a", "read-batch")
	assert.NotPanics(t, func() {
		span.End()
		tr.RecordError("job-a", errors.New("boom"))
	})
}
