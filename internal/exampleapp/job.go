package exampleapp

import (
	"github.com/OguzhanUlucay/easy-batch/internal/config"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/job"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/metrics"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/configbinder"
)

// NewGreetingJob builds the example job: a reader producing a handful of
// greeting strings, a mapper stage, and a writer that logs each record.
// Batch size, error threshold and batch scanning always come from
// cfg.JobDefaults; the "greeting" adapter entry only sets the message and
// the record count.
func NewGreetingJob(cfg *config.Config, recorder metrics.MetricRecorder, tracer metrics.Tracer) (*job.Job, error) {
	greetingCfg := DefaultGreetingConfig()
	if raw, ok := cfg.AdapterConfigs["greeting"]; ok {
		if m, ok := raw.(map[string]interface{}); ok {
			if err := configbinder.BindProperties(m, &greetingCfg); err != nil {
				return nil, err
			}
		}
	}

	builder := job.NewBuilder().
		Named("greetingJob").
		Reader(newGreetingReader(greetingCfg)).
		Mapper(shout).
		Writer(logWriter{}).
		BatchSize(cfg.JobDefaults.BatchSize).
		ErrorThreshold(cfg.JobDefaults.ErrorThreshold).
		MetricRecorder(recorder).
		Tracer(tracer)

	if cfg.JobDefaults.BatchScanningEnabled {
		builder = builder.EnableBatchScanning()
	}

	return builder.Build()
}
