package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/OguzhanUlucay/easy-batch/internal/config"
	"github.com/OguzhanUlucay/easy-batch/internal/exampleapp"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/executor"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/job"
	"github.com/OguzhanUlucay/easy-batch/pkg/batch/support/util/logger"
)

// startJobExecution registers an fx lifecycle hook that launches the
// greeting job on application start and requests application shutdown once
// it finishes.
func startJobExecution(lc fx.Lifecycle, shutdowner fx.Shutdowner, exec *executor.JobExecutor, j *job.Job) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if r := recover(); r != nil {
						logger.Errorf("panic recovered in job execution: %v", r)
					}
					if err := shutdowner.Shutdown(); err != nil {
						logger.Errorf("failed to shut down application: %v", err)
					}
				}()

				report, err := exec.Execute(context.Background(), j)
				if err != nil {
					logger.Errorf("failed to launch job %q: %v", j.Name(), err)
					return
				}
				logger.Infof("job %q finished with status %s (read=%d write=%d filter=%d error=%d)",
					report.JobName, report.Status,
					report.Metrics.ReadCount, report.Metrics.WriteCount,
					report.Metrics.FilterCount, report.Metrics.ErrorCount)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Infof("application is shutting down")
			return nil
		},
	})
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Warnf("received signal %v, shutting down", sig)
		cancel()
	}()

	envFilePath := os.Getenv("ENV_FILE_PATH")
	if envFilePath == "" {
		envFilePath = ".env"
	}
	configPath := os.Getenv("CONFIG_FILE_PATH")

	cfg, err := config.Load(configPath, envFilePath)
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}

	app := fx.New(
		fx.Supply(cfg),
		exampleapp.NoopObservability,
		exampleapp.Module,
		fx.Invoke(startJobExecution),
	)

	if err := app.Start(ctx); err != nil {
		logger.Fatalf("application failed to start: %v", err)
	}
	<-app.Done()
	if err := app.Stop(context.Background()); err != nil {
		logger.Errorf("application failed to stop cleanly: %v", err)
	}
}
