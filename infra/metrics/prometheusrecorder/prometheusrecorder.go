// Package prometheusrecorder implements metrics.MetricRecorder using
// prometheus/client_golang, grounded on the Prometheus recorder pattern of
// registering one CounterVec/HistogramVec per event kind against a private
// registry.
package prometheusrecorder

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/metrics"
)

// Recorder is a metrics.MetricRecorder backed by a private prometheus
// registry, so it can be mounted under any HTTP path without colliding with
// the default global registry.
type Recorder struct {
	registry *prometheus.Registry

	jobStatusCounter *prometheus.CounterVec
	jobDuration      *prometheus.HistogramVec
	readCounter      *prometheus.CounterVec
	filterCounter    *prometheus.CounterVec
	errorCounter     *prometheus.CounterVec
	writeCounter     *prometheus.CounterVec
	batchSize        *prometheus.HistogramVec
	operationSeconds *prometheus.HistogramVec
}

// New creates a Recorder with a fresh registry carrying Go/process
// collectors plus the job/record/batch metrics below.
func New() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Recorder{
		registry: registry,
		jobStatusCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_job_status_total",
			Help: "Total job run transitions, by job name and terminal status.",
		}, []string{"job_name", "status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "batch_job_duration_seconds",
			Help:    "Duration of completed job runs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job_name", "status"}),
		readCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_record_read_total",
			Help: "Total records read, by job name.",
		}, []string{"job_name"}),
		filterCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_record_filtered_total",
			Help: "Total records dropped by a filter stage, by job name.",
		}, []string{"job_name"}),
		errorCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_record_error_total",
			Help: "Total record processing errors, by job name.",
		}, []string{"job_name"}),
		writeCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_record_write_total",
			Help: "Total records written, by job name.",
		}, []string{"job_name"}),
		batchSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "batch_write_batch_size",
			Help:    "Size of each successful batch write.",
			Buckets: prometheus.LinearBuckets(1, 10, 10),
		}, []string{"job_name"}),
		operationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "batch_operation_duration_seconds",
			Help:    "Duration of a named, caller-defined operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job_name", "operation"}),
	}

	registry.MustRegister(
		r.jobStatusCounter,
		r.jobDuration,
		r.readCounter,
		r.filterCounter,
		r.errorCounter,
		r.writeCounter,
		r.batchSize,
		r.operationSeconds,
	)

	return r
}

// Registry returns the private registry, for mounting behind an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) RecordJobStart(report *metrics.JobReport) {
	r.jobStatusCounter.WithLabelValues(report.JobName, string(report.Status)).Inc()
}

func (r *Recorder) RecordJobEnd(report *metrics.JobReport) {
	r.jobStatusCounter.WithLabelValues(report.JobName, string(report.Status)).Inc()
	r.jobDuration.WithLabelValues(report.JobName, string(report.Status)).Observe(report.Metrics.Duration().Seconds())
}

func (r *Recorder) RecordRecordRead(jobName string) {
	r.readCounter.WithLabelValues(jobName).Inc()
}

func (r *Recorder) RecordRecordFilter(jobName string) {
	r.filterCounter.WithLabelValues(jobName).Inc()
}

func (r *Recorder) RecordRecordError(jobName string) {
	r.errorCounter.WithLabelValues(jobName).Inc()
}

func (r *Recorder) RecordBatchWrite(jobName string, count int) {
	r.writeCounter.WithLabelValues(jobName).Add(float64(count))
	r.batchSize.WithLabelValues(jobName).Observe(float64(count))
}

func (r *Recorder) RecordDuration(jobName, name string, d time.Duration) {
	r.operationSeconds.WithLabelValues(jobName, name).Observe(d.Seconds())
}

var _ metrics.MetricRecorder = (*Recorder)(nil)
