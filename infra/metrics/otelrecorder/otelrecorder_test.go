package otelrecorder_test

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OguzhanUlucay/easy-batch/infra/metrics/otelrecorder"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/metrics"
)

func TestRecorder_RecordRecordRead(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	r, err := otelrecorder.New(reader)
	require.NoError(t, err)

	r.RecordRecordRead("demo-job")
	r.RecordRecordRead("demo-job")

	var data metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &data))

	found := findMetric(t, data, "batch.record.read")
	require.NotNil(t, found)
}

func TestRecorder_RecordJobEnd(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	r, err := otelrecorder.New(reader)
	require.NoError(t, err)

	report := metrics.NewJobReport("demo-job", metrics.DefaultJobParameters())
	report.Status = metrics.StatusCompleted
	r.RecordJobStart(report)
	r.RecordJobEnd(report)

	var data metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &data))

	assert.NotNil(t, findMetric(t, data, "batch.job.duration"))
}

func findMetric(t *testing.T, data metricdata.ResourceMetrics, name string) any {
	t.Helper()
	for _, sm := range data.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m.Data
			}
		}
	}
	return nil
}
