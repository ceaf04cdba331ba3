package job

import (
	"context"
	"log"
	"time"

	"coinpulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type MonitorRunner interface {
	RunCycle(ctx context.Context) (domain.MonitorRunResult, error)
}

type MonitorJob struct {
	tracer       trace.Tracer
	runner       MonitorRunner
	pollInterval time.Duration
}

func NewMonitorJob(tracer trace.Tracer, runner MonitorRunner, pollInterval time.Duration) *MonitorJob {
	if pollInterval <= 0 {
		pollInterval = 15 * time.Minute
	}
	return &MonitorJob{tracer: tracer, runner: runner, pollInterval: pollInterval}
}

func (j *MonitorJob) Start(ctx context.Context) {
	if j.runner == nil {
		log.Println("Monitor job disabled: no runner")
		<-ctx.Done()
		return
	}

	j.runOnce(ctx)
	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *MonitorJob) runOnce(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "monitor-job.run-once")
	defer span.End()

	result, err := j.runner.RunCycle(ctx)
	if err != nil {
		log.Printf("Monitor cycle error: %v", err)
		return
	}
	if result.NewArticles > 0 || result.Skipped > 0 {
		log.Printf("Monitor cycle: fetched=%d new=%d duplicates=%d skipped=%d",
			result.ArticlesFetched, result.NewArticles, result.Duplicates, result.Skipped)
	}
	for _, e := range result.Errors {
		log.Printf("Monitor cycle warning: %s", e)
	}
}
