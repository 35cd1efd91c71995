// Package oteltracer implements metrics.Tracer using the OpenTelemetry
// trace SDK, grounded on the OTel tracer pattern but wired to a real
// sdktrace.TracerProvider rather than a logging stub. No OTLP exporter is
// attached (see DESIGN.md): spans are sampled and ended through the real
// SDK, available to any span processor the caller registers on the
// returned provider.
package oteltracer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/OguzhanUlucay/easy-batch/pkg/batch/metrics"
)

// Tracer is a metrics.Tracer backed by an OpenTelemetry TracerProvider.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
}

// New creates a Tracer with its own TracerProvider, sampling every span.
// Register span processors on Provider() before first use to export spans
// anywhere (console, OTLP, or a test recorder).
func New(instrumentationName string, opts ...sdktrace.TracerProviderOption) *Tracer {
	opts = append([]sdktrace.TracerProviderOption{sdktrace.WithSampler(sdktrace.AlwaysSample())}, opts...)
	provider := sdktrace.NewTracerProvider(opts...)
	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer(instrumentationName),
	}
}

// Provider returns the underlying TracerProvider so callers can register
// span processors (e.g. a batch span processor feeding an exporter).
func (t *Tracer) Provider() *sdktrace.TracerProvider {
	return t.provider
}

// Shutdown flushes and releases the underlying TracerProvider's resources.
func (t *Tracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

// span adapts an OpenTelemetry span to metrics.Span.
type span struct {
	otelSpan oteltrace.Span
}

func (s span) End() {
	s.otelSpan.End()
}

// StartSpan starts a span named name, tagged with jobName.
func (t *Tracer) StartSpan(jobName, name string) metrics.Span {
	_, otelSpan := t.tracer.Start(context.Background(), name,
		oteltrace.WithAttributes(attribute.String("job_name", jobName)))
	return span{otelSpan: otelSpan}
}

// RecordError records err on a short-lived span, since metrics.Tracer has
// no notion of a current span carried across calls.
func (t *Tracer) RecordError(jobName string, err error) {
	_, otelSpan := t.tracer.Start(context.Background(), "error",
		oteltrace.WithAttributes(attribute.String("job_name", jobName)))
	otelSpan.RecordError(err)
	otelSpan.SetStatus(codes.Error, err.Error())
	otelSpan.End()
}

var _ metrics.Tracer = (*Tracer)(nil)
