// Package monitor defines the JMX-style notification sink the job engine
// talks to. A concrete implementation might register an MBean, push to a
// metrics endpoint, or (the default) do nothing.
package monitor

import "github.com/OguzhanUlucay/easy-batch/pkg/batch/metrics"

// Hook is the abstract monitor collaborator. Both methods are called only
// when JobParameters.JMXMonitoring is enabled: RegisterJob once per run, and
// NotifyJobReportUpdate on every state transition, once per record processed,
// and at teardown.
type Hook interface {
	RegisterJob(jobName, runID string)
	NotifyJobReportUpdate(report metrics.JobReport)
}

// NoopHook implements Hook by doing nothing. It is the default substitute
// when no monitoring backend is configured.
type NoopHook struct{}

func (NoopHook) RegisterJob(jobName, runID string)              {}
func (NoopHook) NotifyJobReportUpdate(report metrics.JobReport) {}
