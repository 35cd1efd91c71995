package exampleapp

import (
	"go.uber.org/fx"

	"github.com/OguzhanUlucay/easy-batch/internal/config"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/executor"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/metrics"
)

func newExecutor(cfg *config.Config) *executor.JobExecutor {
	return executor.New(cfg.Executor.Workers)
}

// Module provides the example job and its executor to an fx application,
// one fx.Provide per component, assembled into a named var.
var Module = fx.Options(
	fx.Provide(NewGreetingJob),
	fx.Provide(newExecutor),
)

// NoopObservability supplies the no-op metrics/tracing backends.
// cmd/examplejob always installs it; Config.Observability is not consulted.
var NoopObservability = fx.Supply(
	fx.Annotate(metrics.NoopMetricRecorder{}, fx.As(new(metrics.MetricRecorder))),
	fx.Annotate(metrics.NoopTracer{}, fx.As(new(metrics.Tracer))),
)
