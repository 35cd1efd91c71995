// Package config loads application configuration from built-in defaults
// (NewConfig), a YAML config file, and environment variable overrides, in
// that order of increasing priority.
package config

import "github.com/OguzhanUlucay/easy-batch/pkg/batch/metrics"

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error, fatal.
	Level string `yaml:"level"`
}

// ExecutorConfig sizes the default job executor.
type ExecutorConfig struct {
	// Workers is the number of concurrent job runs the executor allows.
	Workers int `yaml:"workers"`
}

// JobDefaultsConfig supplies defaults a job builder falls back to when the
// caller does not override them explicitly.
type JobDefaultsConfig struct {
	BatchSize            int   `yaml:"batch_size"`
	ErrorThreshold       int64 `yaml:"error_threshold"`
	BatchScanningEnabled bool  `yaml:"batch_scanning_enabled"`
}

// ObservabilityConfig holds metrics and tracing settings. Load fills both
// fields, but no component in this module reads them: no /metrics endpoint
// is started and the example app always uses the no-op backends.
type ObservabilityConfig struct {
	// PrometheusListenAddr is an address for a Prometheus /metrics endpoint.
	PrometheusListenAddr string `yaml:"prometheus_listen_addr"`
	// TracingEnabled is a flag for the OpenTelemetry SDK tracer.
	TracingEnabled bool `yaml:"tracing_enabled"`
}

// Config is the root application configuration. AdapterConfigs holds raw,
// per-adapter property maps (database DSNs, bucket names, file paths)
// decoded on demand via configbinder.BindProperties into each adapter's own
// config type, the same two-stage approach the database and storage
// adapters use.
type Config struct {
	Logging       LoggingConfig          `yaml:"logging"`
	Executor      ExecutorConfig         `yaml:"executor"`
	JobDefaults   JobDefaultsConfig      `yaml:"job_defaults"`
	Observability ObservabilityConfig    `yaml:"observability"`
	AdapterConfigs map[string]interface{} `yaml:"adapters"`
}

// NewConfig returns a Config populated with the application's defaults.
func NewConfig() *Config {
	return &Config{
		Logging:  LoggingConfig{Level: "info"},
		Executor: ExecutorConfig{Workers: 1},
		JobDefaults: JobDefaultsConfig{
			BatchSize:            1,
			ErrorThreshold:       metrics.DefaultJobParameters().ErrorThreshold,
			BatchScanningEnabled: false,
		},
		Observability:  ObservabilityConfig{},
		AdapterConfigs: map[string]interface{}{},
	}
}
