// Package metrics holds the engine's own bookkeeping types (JobParameters,
// JobMetrics, JobReport) plus the abstract MetricRecorder/Tracer interfaces
// concrete observability backends (Prometheus, OpenTelemetry) implement.
package metrics

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a job run.
type Status string

const (
	StatusStarting  Status = "STARTING"
	StatusStarted   Status = "STARTED"
	StatusStopping  Status = "STOPPING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusAborted   Status = "ABORTED"
)

// JobParameters configures one job run. Unset fields take the documented
// defaults; use the job package's Builder to construct one validated.
type JobParameters struct {
	// BatchSize is the number of records accumulated per write cycle. Must be
	// >= 1; defaults to 1.
	BatchSize int
	// ErrorThreshold is the cumulative processing-error budget tolerated
	// before the run aborts. Must be >= 0; defaults to unbounded (MaxInt64).
	ErrorThreshold int64
	// JMXMonitoring enables notifying the monitor hook on state changes.
	JMXMonitoring bool
	// BatchScanningEnabled enables per-record recovery after a failed batch
	// write.
	BatchScanningEnabled bool
}

// DefaultJobParameters returns the documented defaults.
func DefaultJobParameters() JobParameters {
	return JobParameters{
		BatchSize:            1,
		ErrorThreshold:        1<<63 - 1,
		JMXMonitoring:        false,
		BatchScanningEnabled: false,
	}
}

// JobMetrics are the mutable counters of one job run. Incremented only by the
// job goroutine that owns the run; a concurrent monitor hook may observe torn
// reads.
type JobMetrics struct {
	ReadCount   int64
	WriteCount  int64
	FilterCount int64
	ErrorCount  int64
	StartTime   time.Time
	EndTime     time.Time
}

// Duration returns EndTime.Sub(StartTime), or zero if the run hasn't ended.
func (m JobMetrics) Duration() time.Duration {
	if m.EndTime.IsZero() {
		return 0
	}
	return m.EndTime.Sub(m.StartTime)
}

// JobReport is the public result of a job run: status, copies of the
// parameters used and of the run's metrics, the job name, a run ID, and the
// last error encountered (nil if none).
type JobReport struct {
	JobName    string
	RunID      string
	Status     Status
	Parameters JobParameters
	Metrics    JobMetrics
	LastError  error
}

// NewJobReport creates a JobReport in the STARTING state with a fresh run ID.
func NewJobReport(jobName string, params JobParameters) *JobReport {
	return &JobReport{
		JobName:    jobName,
		RunID:      uuid.NewString(),
		Status:     StatusStarting,
		Parameters: params,
	}
}

// Snapshot returns a shallow copy of the report, safe for a monitor hook to
// read concurrently with the owning job goroutine continuing to mutate the
// original.
func (r *JobReport) Snapshot() JobReport {
	return *r
}

// MetricRecorder is the abstraction concrete observability backends
// (Prometheus, OpenTelemetry, or a no-op) implement to record job/batch/record
// level events.
type MetricRecorder interface {
	RecordJobStart(report *JobReport)
	RecordJobEnd(report *JobReport)
	RecordRecordRead(jobName string)
	RecordRecordFilter(jobName string)
	RecordRecordError(jobName string)
	RecordBatchWrite(jobName string, count int)
	RecordDuration(jobName, name string, d time.Duration)
}

// NoopMetricRecorder discards every call; it is the default MetricRecorder.
type NoopMetricRecorder struct{}

func (NoopMetricRecorder) RecordJobStart(report *JobReport)                  {}
func (NoopMetricRecorder) RecordJobEnd(report *JobReport)                    {}
func (NoopMetricRecorder) RecordRecordRead(jobName string)                  {}
func (NoopMetricRecorder) RecordRecordFilter(jobName string)                {}
func (NoopMetricRecorder) RecordRecordError(jobName string)                 {}
func (NoopMetricRecorder) RecordBatchWrite(jobName string, count int)       {}
func (NoopMetricRecorder) RecordDuration(jobName, name string, d time.Duration) {}

// Span represents one traced operation; End closes it.
type Span interface {
	End()
}

// Tracer is the abstraction a tracing backend (OpenTelemetry, or a no-op)
// implements to produce spans. The job engine opens one span per job run and
// reports processing errors through RecordError; it opens no per-batch span.
type Tracer interface {
	StartSpan(jobName, name string) Span
	RecordError(jobName string, err error)
}

// NoopTracer discards every call; it is the default Tracer.
type NoopTracer struct{}

type noopSpan struct{}

func (noopSpan) End() {}

func (NoopTracer) StartSpan(jobName, name string) Span { return noopSpan{} }
func (NoopTracer) RecordError(jobName string, err error) {}
